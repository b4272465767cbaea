package main

import (
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/algo-tuner/tuner/clock"
	"github.com/cwbudde/algo-tuner/tuner/note"
	"github.com/cwbudde/algo-tuner/tuner/signal"
)

var (
	traceClock string
	traceHold  int
	traceSeed  int64
	traceOut   string
)

func init() {
	traceCmd.Flags().StringVar(&traceClock, "clock", "1kHz", "sampling clock (name or code)")
	traceCmd.Flags().IntVar(&traceHold, "hold", 2, "sampling windows to hold each string")
	traceCmd.Flags().Int64Var(&traceSeed, "seed", 1, "seed for the synthesized sweep")
	traceCmd.Flags().StringVar(&traceOut, "out", "", "output path (default trace-<id>.mid)")
	rootCmd.AddCommand(traceCmd)
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Sweep the tuning and export the detections as a MIDI file",
	Long: `Drives the pipeline with every string of the standard guitar tuning
in turn, lowest first, and exports the detected-note timeline as a
Standard MIDI File for auditing in external tools. Onset velocities
encode proximity: 112 exact, 80 near, 48 far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := parseClock(traceClock)
		if err != nil {
			return err
		}

		res, err := buildTrace(traceOptions{
			Duration: flagDuration,
			Window:   flagWindow,
			Clock:    sel,
			Hold:     traceHold,
			Seed:     traceSeed,
		})
		if err != nil {
			return err
		}

		path := traceOut
		if path == "" {
			path = "trace-" + uuid.New().String() + ".mid"
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if _, err := res.SMF.WriteTo(f); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d note onsets over %.1fs\n", path, res.Onsets, res.Seconds)
		return nil
	},
}

type traceOptions struct {
	Duration float64
	Window   int
	Clock    clock.Code
	Hold     int
	Seed     int64
}

type traceResult struct {
	SMF     *smf.SMF
	Onsets  int
	Seconds float64
}

type traceEvent struct {
	tick     uint64
	key      uint8
	velocity uint8
	on       bool
}

const traceTempoBPM = 120

func velocityFor(out tuner.Output) uint8 {
	switch {
	case out.Exact:
		return 112
	case out.Far:
		return 48
	default:
		return 80
	}
}

// resolveKey maps a detected note class back to a concrete pitch. The class
// alone is ambiguous across octaves, so the string currently being driven
// wins when it matches.
func resolveKey(tuning *note.Tuning, intended note.Note, class note.Scale) uint8 {
	if intended.Class == class {
		return intended.MIDIKey()
	}
	for _, n := range tuning.Ascending() {
		if n.Class == class {
			return n.MIDIKey()
		}
	}
	return 0
}

func buildTrace(opts traceOptions) (traceResult, error) {
	if opts.Hold <= 0 {
		return traceResult{}, fmt.Errorf("hold must be > 0: %d", opts.Hold)
	}

	setting, ok := clock.Lookup(opts.Clock)
	if !ok {
		return traceResult{}, fmt.Errorf("clock code not in table: %d", opts.Clock)
	}

	tuning := note.StandardGuitar()
	cfg := tuner.DefaultConfig()
	cfg.SamplingDuration = opts.Duration
	cfg.DetectionWindow = opts.Window
	cfg.InitialClock = opts.Clock

	tun, err := tuner.New(tuning, cfg)
	if err != nil {
		return traceResult{}, err
	}

	gen, err := signal.NewGenerator(float64(setting.FrequencyHz), signal.WithSeed(opts.Seed))
	if err != nil {
		return traceResult{}, err
	}

	segTicks := opts.Hold * int(tun.WindowTicks())

	var events []traceEvent
	held := note.ScaleNA
	var heldKey uint8
	var tick uint64

	for _, cur := range tuning.Ascending() {
		train, err := gen.Square(cur.FrequencyHz, segTicks)
		if err != nil {
			return traceResult{}, err
		}
		for _, level := range train {
			out := tun.Tick(tuner.Input{Pulse: level, Clock: opts.Clock})
			if out.Note != held {
				if held != note.ScaleNA {
					events = append(events, traceEvent{tick: tick, key: heldKey, on: false})
				}
				if out.Note != note.ScaleNA {
					heldKey = resolveKey(tuning, cur, out.Note)
					events = append(events, traceEvent{
						tick:     tick,
						key:      heldKey,
						velocity: velocityFor(out),
						on:       true,
					})
				}
				held = out.Note
			}
			tick++
		}
	}
	if held != note.ScaleNA {
		events = append(events, traceEvent{tick: tick, key: heldKey, on: false})
	}

	resolution := smf.MetricTicks(96)
	ticksPerSecond := float64(resolution.Ticks4th()) * traceTempoBPM / 60.0
	midiTick := func(t uint64) uint32 {
		return uint32(math.Round(float64(t) / float64(setting.FrequencyHz) * ticksPerSecond))
	}

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("algotuner sweep"))
	tr.Add(0, smf.MetaTempo(traceTempoBPM))

	onsets := 0
	last := uint32(0)
	for _, ev := range events {
		at := midiTick(ev.tick)
		delta := at - last
		last = at
		if ev.on {
			tr.Add(delta, midi.NoteOn(0, ev.key, ev.velocity))
			onsets++
		} else {
			tr.Add(delta, midi.NoteOff(0, ev.key))
		}
	}
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = resolution
	s.Add(tr)

	return traceResult{
		SMF:     s,
		Onsets:  onsets,
		Seconds: float64(tick) / float64(setting.FrequencyHz),
	}, nil
}
