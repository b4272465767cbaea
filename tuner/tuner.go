package tuner

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/tuner/clock"
	"github.com/cwbudde/algo-tuner/tuner/core"
	"github.com/cwbudde/algo-tuner/tuner/discrim"
	"github.com/cwbudde/algo-tuner/tuner/edge"
	"github.com/cwbudde/algo-tuner/tuner/note"
	"github.com/cwbudde/algo-tuner/tuner/pulse"
)

// Config assembles every construction-time knob of the pipeline.
type Config struct {
	SamplingDuration float64    // pulse accumulation time in seconds
	DetectionWindow  int        // classification band width in Hz
	SyncStages       int        // input synchronizer chain depth
	InitialClock     clock.Code // clock selection assumed before the first tick
}

// DefaultConfig returns the stock pipeline settings: a one second window,
// a 32 Hz detection band, two synchronizer stages and the 1 kHz clock.
func DefaultConfig() Config {
	return Config{
		SamplingDuration: 1.0,
		DetectionWindow:  32,
		SyncStages:       edge.DefaultStages,
		InitialClock:     clock.Code1kHz,
	}
}

// Input carries one tick's worth of input signals.
type Input struct {
	Pulse bool       // raw asynchronous input level
	Clock clock.Code // sampling-clock selection
	Reset bool       // overrides everything and forces initial state
}

// Output carries the pipeline outputs after a tick. The proximity flags are
// only meaningful while Valid reports true.
type Output struct {
	Note  note.Scale
	Exact bool
	High  bool
	Far   bool
	Count uint64 // latched window count feeding the classifier
}

// Valid reports whether a note is currently held.
func (o Output) Valid() bool {
	return o.Note != note.ScaleNA
}

// Tuner ties the window counter and the discriminator together in lock
// step. The discriminator always reads the count the counter latched on the
// previous tick, exactly as the wired registers would.
type Tuner struct {
	cfg     Config
	tuning  *note.Tuning
	counter *pulse.Counter
	disc    *discrim.Discriminator
}

// New builds the pipeline for a tuning. Any invalid setting or a tuning the
// derived register widths cannot represent fails construction.
func New(tuning *note.Tuning, cfg Config) (*Tuner, error) {
	sampling := core.Config{
		SamplingDuration: cfg.SamplingDuration,
		DetectionWindow:  cfg.DetectionWindow,
	}

	counter, err := pulse.NewCounter(sampling,
		pulse.WithStages(cfg.SyncStages),
		pulse.WithInitialClock(cfg.InitialClock),
	)
	if err != nil {
		return nil, fmt.Errorf("tuner: %w", err)
	}

	disc, err := discrim.New(tuning, sampling)
	if err != nil {
		return nil, fmt.Errorf("tuner: %w", err)
	}

	return &Tuner{cfg: cfg, tuning: tuning, counter: counter, disc: disc}, nil
}

// Tick advances the whole pipeline by one tick.
func (t *Tuner) Tick(in Input) Output {
	if in.Reset {
		t.counter.Reset()
		t.disc.Reset()
		return t.output()
	}

	count := t.counter.Count()
	t.disc.Tick(count)
	t.counter.Tick(in.Pulse, in.Clock)

	return t.output()
}

// Run feeds one level per tick under a fixed clock selection and returns the
// output after the last tick.
func (t *Tuner) Run(levels []bool, sel clock.Code) Output {
	out := t.output()
	for _, level := range levels {
		out = t.Tick(Input{Pulse: level, Clock: sel})
	}
	return out
}

func (t *Tuner) output() Output {
	return Output{
		Note:  t.disc.Note(),
		Exact: t.disc.Exact(),
		High:  t.disc.High(),
		Far:   t.disc.Far(),
		Count: t.counter.Count(),
	}
}

// Config returns the construction-time configuration.
func (t *Tuner) Config() Config {
	return t.cfg
}

// Tuning returns the tuning the pipeline classifies against.
func (t *Tuner) Tuning() *note.Tuning {
	return t.tuning
}

// WindowTicks returns the current sampling window length in ticks.
func (t *Tuner) WindowTicks() uint64 {
	return t.counter.WindowTicks()
}

// Targets returns the classifier's scan table, highest frequency first.
func (t *Tuner) Targets() []discrim.Target {
	return t.disc.Targets()
}

// SettleTicks returns an upper bound on the ticks between a latched count
// change and the classification reflecting it.
func (t *Tuner) SettleTicks() int {
	return 2 * t.disc.MaxScanTicks()
}

// Reset forces every stage back to its initial state.
func (t *Tuner) Reset() {
	t.counter.Reset()
	t.disc.Reset()
}
