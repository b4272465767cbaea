package pulse

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tuner/tuner/clock"
	"github.com/cwbudde/algo-tuner/tuner/core"
)

// squareLevel reports the level of a 50% duty square wave of the given
// frequency at tick i of a clock running at rateHz.
func squareLevel(freqHz, rateHz float64, i int) bool {
	phase := math.Mod(float64(i)*freqHz/rateHz, 1.0)
	return phase < 0.5
}

func newCounter(t *testing.T, cfg core.Config, opts ...Option) *Counter {
	t.Helper()
	c, err := NewCounter(cfg, opts...)
	if err != nil {
		t.Fatalf("NewCounter() error = %v", err)
	}
	return c
}

func TestNewCounterValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     core.Config
		opts    []Option
		wantErr bool
	}{
		{name: "defaults", cfg: core.DefaultConfig(), wantErr: false},
		{name: "short window", cfg: core.Config{SamplingDuration: 0.25, DetectionWindow: 32}, wantErr: false},
		{name: "zero duration", cfg: core.Config{SamplingDuration: 0, DetectionWindow: 32}, wantErr: true},
		{name: "negative duration", cfg: core.Config{SamplingDuration: -1, DetectionWindow: 32}, wantErr: true},
		{name: "bad stages", cfg: core.DefaultConfig(), opts: []Option{WithStages(0)}, wantErr: true},
		{name: "bad initial clock", cfg: core.DefaultConfig(), opts: []Option{WithInitialClock(clock.Code(9))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCounter(tt.cfg, tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewCounter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCountBits(t *testing.T) {
	// Fastest clock is 60kHz: one second needs 16 bits, a quarter second 14.
	c := newCounter(t, core.DefaultConfig())
	if got := c.CountBits(); got != 16 {
		t.Fatalf("CountBits() = %d, want 16", got)
	}

	c = newCounter(t, core.Config{SamplingDuration: 0.25, DetectionWindow: 32})
	if got := c.CountBits(); got != 14 {
		t.Fatalf("CountBits() = %d, want 14", got)
	}
}

func TestCountAccuracy(t *testing.T) {
	// Over a steady window the latched count must be within one pulse of
	// frequency times duration.
	tests := []struct {
		name     string
		freqHz   float64
		duration float64
	}{
		{name: "low E over one second", freqHz: 82.41, duration: 1.0},
		{name: "A over one second", freqHz: 110.0, duration: 1.0},
		{name: "high E over one second", freqHz: 329.63, duration: 1.0},
		{name: "high E over half second", freqHz: 329.63, duration: 0.5},
		{name: "G over quarter second", freqHz: 196.0, duration: 0.25},
	}

	const rateHz = 1000.0
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.Config{SamplingDuration: tt.duration, DetectionWindow: 32}
			c := newCounter(t, cfg)

			window := int(c.WindowTicks())
			// Run two full windows and inspect the second: the first
			// absorbs synchronizer latency.
			for i := 0; i < 2*window; i++ {
				c.Tick(squareLevel(tt.freqHz, rateHz, i), clock.Code1kHz)
			}

			want := float64(core.ExpectedCount(tt.freqHz, tt.duration))
			got := float64(c.Count())
			if math.Abs(got-want) > 1 {
				t.Fatalf("Count() = %v, want %v +/- 1", got, want)
			}
		})
	}
}

func TestBoundaryPulseSeedsNextWindow(t *testing.T) {
	// Window of 4 ticks at 1kHz, synchronizer latency 3: raw edges every
	// 4 ticks starting at tick 0 put every detected pulse exactly on a
	// window boundary. Each latched total must still report one pulse per
	// window.
	cfg := core.Config{SamplingDuration: 0.004, DetectionWindow: 32}
	c := newCounter(t, cfg)
	if c.WindowTicks() != 4 {
		t.Fatalf("WindowTicks() = %d, want 4", c.WindowTicks())
	}

	for cycle := 0; cycle < 8; cycle++ {
		for _, level := range []bool{true, false, false, false} {
			c.Tick(level, clock.Code1kHz)
		}
		if cycle >= 2 {
			if got := c.Count(); got != 1 {
				t.Fatalf("cycle %d: Count() = %d, want 1", cycle, got)
			}
		}
	}
}

func TestClockReselectionChangesWindow(t *testing.T) {
	c := newCounter(t, core.DefaultConfig())
	if c.WindowTicks() != 1000 {
		t.Fatalf("WindowTicks() = %d, want 1000", c.WindowTicks())
	}

	c.Tick(false, clock.Code2kHz)
	if c.WindowTicks() != 2000 {
		t.Fatalf("WindowTicks() after 2kHz select = %d, want 2000", c.WindowTicks())
	}

	c.Tick(false, clock.Code3277Hz)
	if c.WindowTicks() != 3277 {
		t.Fatalf("WindowTicks() after 3277Hz select = %d, want 3277", c.WindowTicks())
	}
}

func TestUnrecognizedClockRetainsWindow(t *testing.T) {
	c := newCounter(t, core.DefaultConfig(), WithInitialClock(clock.Code4kHz))
	if c.WindowTicks() != 4000 {
		t.Fatalf("WindowTicks() = %d, want 4000", c.WindowTicks())
	}

	c.Tick(false, clock.Code(13))
	if c.WindowTicks() != 4000 {
		t.Fatalf("WindowTicks() after unknown select = %d, want 4000", c.WindowTicks())
	}
}

func TestShortenedWindowTakesEffect(t *testing.T) {
	// Select a long window, run deep into it, then pick a short one: the
	// next boundary must arrive within a short window's worth of ticks
	// instead of free-running to the register limit.
	c := newCounter(t, core.DefaultConfig(), WithInitialClock(clock.Code60kHz))
	for i := 0; i < 10000; i++ {
		c.Tick(squareLevel(110, 60000, i), clock.Code60kHz)
	}

	before := c.Count()
	ticksToBoundary := 0
	for c.Count() == before {
		c.Tick(false, clock.Code1kHz)
		ticksToBoundary++
		if ticksToBoundary > 1001 {
			t.Fatalf("no boundary within %d ticks after shortening window", ticksToBoundary)
		}
	}
}

func TestReset(t *testing.T) {
	c := newCounter(t, core.DefaultConfig())
	for i := 0; i < 2500; i++ {
		c.Tick(squareLevel(110, 1000, i), clock.Code2kHz)
	}
	if c.Count() == 0 {
		t.Fatal("Count() = 0 before reset, expected pulses")
	}

	c.Reset()
	if c.Count() != 0 {
		t.Fatalf("Count() = %d after reset, want 0", c.Count())
	}
	if c.WindowTicks() != 1000 {
		t.Fatalf("WindowTicks() = %d after reset, want initial 1000", c.WindowTicks())
	}
}
