// Package pulse counts synchronized input pulses over a window whose length
// is set by the selected sampling clock, and latches the total at each
// window boundary.
package pulse

import (
	"fmt"

	"github.com/cwbudde/algo-tuner/tuner/clock"
	"github.com/cwbudde/algo-tuner/tuner/core"
	"github.com/cwbudde/algo-tuner/tuner/edge"
)

// Counter accumulates one-tick pulses from an embedded synchronizer and
// reports the total once per sampling window. The latched count holds steady
// between boundaries, so downstream logic always reads a full window's
// result.
type Counter struct {
	duration  float64
	stages    int
	initial   clock.Code
	countBits int
	mask      uint64

	// windowByCode maps each selection code to its window length in ticks.
	windowByCode []uint64

	sync    *edge.Synchronizer
	window  uint64
	ticks   uint64
	running uint64
	latched uint64
}

// Option configures a Counter.
type Option func(*Counter)

// WithStages sets the input synchronizer chain depth.
func WithStages(stages int) Option {
	return func(c *Counter) {
		c.stages = stages
	}
}

// WithInitialClock sets the clock selection assumed before the first tick.
func WithInitialClock(code clock.Code) Option {
	return func(c *Counter) {
		c.initial = code
	}
}

// NewCounter creates a window counter for the given sampling config.
func NewCounter(cfg core.Config, opts ...Option) (*Counter, error) {
	c := &Counter{
		duration: cfg.SamplingDuration,
		stages:   edge.DefaultStages,
		initial:  clock.Code1kHz,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if cfg.SamplingDuration <= 0 {
		return nil, fmt.Errorf("pulse: sampling duration must be > 0: %v", cfg.SamplingDuration)
	}
	if _, ok := clock.Lookup(c.initial); !ok {
		return nil, fmt.Errorf("pulse: initial clock code not in table: %d", c.initial)
	}

	sync, err := edge.NewSynchronizer(c.stages)
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	c.sync = sync

	// The count register must hold a full window of the fastest clock.
	maxTicks := core.TicksFor(float64(clock.MaxFrequencyHz()), c.duration)
	c.countBits = core.BitsFor(maxTicks)
	c.mask = core.Mask(c.countBits)

	c.windowByCode = make([]uint64, clock.Count())
	for _, s := range clock.Settings() {
		c.windowByCode[s.Code] = s.TicksOver(c.duration)
	}
	c.window = c.windowByCode[c.initial]

	return c, nil
}

// Tick advances the counter one tick with the raw input level and the
// current clock selection. All next-tick state derives from the state before
// the call.
func (c *Counter) Tick(raw bool, sel clock.Code) {
	pulse := c.sync.Out()
	c.sync.Tick(raw)

	if c.ticks+1 >= c.window {
		// Boundary: report the window and seed the next one with this
		// tick's pulse, so boundary pulses are never dropped.
		c.latched = c.running
		c.running = 0
		if pulse {
			c.running = 1
		}
		c.ticks = 0
	} else {
		c.ticks++
		if pulse {
			c.running = (c.running + 1) & c.mask
		}
	}

	// Unrecognized selection codes keep the previous window length.
	if int(sel) < len(c.windowByCode) {
		c.window = c.windowByCode[sel]
	}
}

// Count returns the pulse total latched at the last window boundary.
func (c *Counter) Count() uint64 {
	return c.latched
}

// CountBits returns the width of the count register.
func (c *Counter) CountBits() int {
	return c.countBits
}

// WindowTicks returns the current window length in ticks.
func (c *Counter) WindowTicks() uint64 {
	return c.window
}

// SamplingDuration returns the configured window duration in seconds.
func (c *Counter) SamplingDuration() float64 {
	return c.duration
}

// Reset restores the power-up state, including the initial clock selection.
func (c *Counter) Reset() {
	c.sync.Reset()
	c.window = c.windowByCode[c.initial]
	c.ticks = 0
	c.running = 0
	c.latched = 0
}
