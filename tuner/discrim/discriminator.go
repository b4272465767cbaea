package discrim

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/tuner/core"
	"github.com/cwbudde/algo-tuner/tuner/note"
)

// State identifies a step of the classification state machine.
type State uint8

const (
	StatePowerUp State = iota
	StateInit
	StateCalculateDiff
	StateCompare
	StateAdvance
	StateDetected
	StateEmit
)

var stateNames = [...]string{
	"PowerUp", "Init", "CalculateDiff", "Compare", "Advance", "Detected", "Emit",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

const (
	// maxNoMatchStreak is the number of consecutive full scan passes
	// without a match after which the held note is cleared.
	maxNoMatchStreak = 31

	streakMask = 0x1f // the streak lives in a 5-bit register
)

// Target is one precomputed comparison entry of the scan table.
type Target struct {
	Name      string
	Class     note.Scale
	Expected  uint64 // pulse count of an exactly tuned input
	Threshold uint64 // Expected plus half the detection window span
}

// Discriminator classifies latched window counts into a note plus
// exact/high/far proximity flags, advancing one state-machine step per tick.
type Discriminator struct {
	cfg       core.Config
	tuning    *note.Tuning
	countBits int
	mask      uint64
	span      uint64 // detection window span in counts
	mid       uint64 // span midpoint, where an exactly tuned input lands
	farBound  uint64 // folded proximity at or below this reads as far
	targets   []Target

	state  State
	index  int
	streak uint8
	diff   uint64
	prox   uint64
	high   bool

	outNote  note.Scale
	outExact bool
	outHigh  bool
	outFar   bool
}

// New creates a discriminator for the given tuning and sampling config.
//
// Construction fails when a derived register width degenerates to zero or
// when a note's count window cannot be represented without aliasing: the
// wraparound no-match rule needs every threshold to fit the count register
// and every expected count to clear half the window span.
func New(tuning *note.Tuning, cfg core.Config) (*Discriminator, error) {
	if tuning == nil || tuning.Len() == 0 {
		return nil, fmt.Errorf("discrim: tuning must not be empty")
	}
	if cfg.SamplingDuration <= 0 {
		return nil, fmt.Errorf("discrim: sampling duration must be > 0: %v", cfg.SamplingDuration)
	}
	if cfg.DetectionWindow <= 0 {
		return nil, fmt.Errorf("discrim: detection window must be > 0: %d", cfg.DetectionWindow)
	}
	if tuning.ClassBits() == 0 {
		return nil, fmt.Errorf("discrim: note register width is zero for a single-note tuning")
	}

	d := &Discriminator{cfg: cfg, tuning: tuning}

	// The count register needs to hold the highest note's count plus
	// headroom for the detection window, scaled by the sampling duration.
	maxCount := uint64(math.Round((tuning.Highest().FrequencyHz + float64(cfg.DetectionWindow)) * cfg.SamplingDuration))
	if maxCount < 2 {
		return nil, fmt.Errorf("discrim: count register width is zero: max count %d", maxCount)
	}
	d.countBits = core.BitsFor(maxCount - 1) // ceil(log2(maxCount))
	d.mask = core.Mask(d.countBits)

	d.span = uint64(math.Ceil(float64(cfg.DetectionWindow) * cfg.SamplingDuration))
	d.mid = (d.span + 1) / 2
	d.farBound = (d.mid + 1) / 2

	for _, n := range tuning.Descending() {
		t := Target{
			Name:     n.Name,
			Class:    n.Class,
			Expected: core.ExpectedCount(n.FrequencyHz, cfg.SamplingDuration),
		}
		t.Threshold = t.Expected + d.mid
		if t.Threshold > d.mask {
			return nil, fmt.Errorf("discrim: threshold for %s does not fit %d-bit count register: %d",
				n.Name, d.countBits, t.Threshold)
		}
		if t.Expected+d.mid < d.span {
			return nil, fmt.Errorf("discrim: expected count for %s is below half the detection window: %d",
				n.Name, t.Expected)
		}
		d.targets = append(d.targets, t)
	}

	return d, nil
}

// Tick advances the state machine one step. The count input is only sampled
// during the difference step, mirroring how the register logic reads its
// input port. Counts wider than the internal register are truncated.
func (d *Discriminator) Tick(count uint64) {
	switch d.state {
	case StatePowerUp:
		d.streak = 0
		d.state = StateInit

	case StateInit:
		if d.streak == maxNoMatchStreak {
			d.outNote = note.ScaleNA
		}
		d.index = 0
		d.state = StateCalculateDiff

	case StateCalculateDiff:
		d.diff = (d.targets[d.index].Threshold - (count & d.mask)) & d.mask
		d.state = StateCompare

	case StateCompare:
		if d.diff <= d.span {
			d.outNote = d.targets[d.index].Class
			d.state = StateDetected
		} else {
			d.index++
			d.state = StateAdvance
		}

	case StateAdvance:
		if d.index < len(d.targets) {
			d.state = StateCalculateDiff
		} else {
			d.streak = (d.streak + 1) & streakMask
			d.state = StateInit
		}

	case StateDetected:
		// Fold the raw difference so proximity reads the same on both
		// sides of the target: mid means dead on, zero means window edge.
		if d.diff <= d.mid {
			d.prox = d.diff
			d.high = true
		} else {
			d.prox = d.span - d.diff
			d.high = false
		}
		d.streak = 0
		d.state = StateEmit

	case StateEmit:
		if d.prox >= d.mid-1 {
			d.outExact = true
			d.outFar = false
		} else {
			d.outExact = false
			d.outFar = d.prox <= d.farBound
		}
		d.outHigh = d.high
		d.state = StateInit

	default:
		d.state = StatePowerUp
	}
}

// Note returns the currently held note class, ScaleNA when nothing is.
func (d *Discriminator) Note() note.Scale {
	return d.outNote
}

// Exact reports a dead-on match. Only meaningful while Valid.
func (d *Discriminator) Exact() bool {
	return d.outExact
}

// High reports the input was at or above the target. Only meaningful while
// Valid.
func (d *Discriminator) High() bool {
	return d.outHigh
}

// Far reports the input sits in the outer part of the window. Only
// meaningful while Valid.
func (d *Discriminator) Far() bool {
	return d.outFar
}

// Valid reports whether a note is currently held.
func (d *Discriminator) Valid() bool {
	return d.outNote != note.ScaleNA
}

// State returns the current state-machine step.
func (d *Discriminator) State() State {
	return d.state
}

// CountBits returns the width of the count input register.
func (d *Discriminator) CountBits() int {
	return d.countBits
}

// WindowSpan returns the detection window span in counts.
func (d *Discriminator) WindowSpan() uint64 {
	return d.span
}

// WindowMidpoint returns the folded proximity of an exactly tuned input.
func (d *Discriminator) WindowMidpoint() uint64 {
	return d.mid
}

// Targets returns a copy of the scan table, highest frequency first.
func (d *Discriminator) Targets() []Target {
	out := make([]Target, len(d.targets))
	copy(out, d.targets)
	return out
}

// MaxScanTicks returns an upper bound on the ticks one full classification
// pass takes, from Init back to Init.
func (d *Discriminator) MaxScanTicks() int {
	return 3*len(d.targets) + 5
}

// Reset restores the power-up state and clears all outputs.
func (d *Discriminator) Reset() {
	d.state = StatePowerUp
	d.index = 0
	d.streak = 0
	d.diff = 0
	d.prox = 0
	d.high = false
	d.outNote = note.ScaleNA
	d.outExact = false
	d.outHigh = false
	d.outFar = false
}
