package edge

import "testing"

// drive feeds the given levels and returns the ticks on which a pulse came out.
func drive(s *Synchronizer, levels []bool) []int {
	var pulses []int
	for i, level := range levels {
		s.Tick(level)
		if s.Out() {
			pulses = append(pulses, i)
		}
	}
	return pulses
}

func TestNewSynchronizer(t *testing.T) {
	tests := []struct {
		name    string
		stages  int
		wantErr bool
	}{
		{name: "default", stages: DefaultStages, wantErr: false},
		{name: "single stage", stages: 1, wantErr: false},
		{name: "deep chain", stages: 16, wantErr: false},
		{name: "zero", stages: 0, wantErr: true},
		{name: "negative", stages: -2, wantErr: true},
		{name: "too deep", stages: 17, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSynchronizer(tt.stages)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSynchronizer(%d) error = %v, wantErr %v", tt.stages, err, tt.wantErr)
			}
		})
	}
}

func TestOnePulsePerHighPeriod(t *testing.T) {
	s, err := NewSynchronizer(DefaultStages)
	if err != nil {
		t.Fatalf("NewSynchronizer() error = %v", err)
	}

	// Two high periods of very different lengths, separated by lows long
	// enough to drain the chain.
	var levels []bool
	appendRun := func(level bool, n int) {
		for i := 0; i < n; i++ {
			levels = append(levels, level)
		}
	}
	appendRun(false, 4)
	appendRun(true, 12)
	appendRun(false, 6)
	appendRun(true, 2)
	appendRun(false, 6)

	pulses := drive(s, levels)
	if len(pulses) != 2 {
		t.Fatalf("pulses at ticks %v, want exactly 2", pulses)
	}
}

func TestPulseLatency(t *testing.T) {
	for stages := 1; stages <= 4; stages++ {
		s, err := NewSynchronizer(stages)
		if err != nil {
			t.Fatalf("NewSynchronizer(%d) error = %v", stages, err)
		}

		// Raw edge on the first tick; the pulse must appear exactly
		// stages+1 ticks later.
		ticks := 0
		for !s.Out() {
			s.Tick(true)
			ticks++
			if ticks > stages+2 {
				t.Fatalf("stages=%d: no pulse after %d ticks", stages, ticks)
			}
		}
		if ticks != s.Latency() {
			t.Fatalf("stages=%d: pulse after %d ticks, want %d", stages, ticks, s.Latency())
		}
	}
}

func TestHighAtStartupCountsOnce(t *testing.T) {
	s, err := NewSynchronizer(DefaultStages)
	if err != nil {
		t.Fatalf("NewSynchronizer() error = %v", err)
	}

	pulses := drive(s, []bool{true, true, true, true, true, true, true, true})
	if len(pulses) != 1 {
		t.Fatalf("pulses at ticks %v, want exactly 1", pulses)
	}
}

func TestShortGlitchBelowChainDepthStillPulses(t *testing.T) {
	// A single-tick blip still traverses the chain and emits one pulse:
	// the chain delays, it does not filter.
	s, err := NewSynchronizer(2)
	if err != nil {
		t.Fatalf("NewSynchronizer() error = %v", err)
	}

	pulses := drive(s, []bool{false, true, false, false, false, false})
	if len(pulses) != 1 {
		t.Fatalf("pulses at ticks %v, want exactly 1", pulses)
	}
}

func TestResetClearsPendingEdge(t *testing.T) {
	s, err := NewSynchronizer(DefaultStages)
	if err != nil {
		t.Fatalf("NewSynchronizer() error = %v", err)
	}

	s.Tick(true)
	s.Tick(true)
	s.Reset()
	if s.Out() {
		t.Fatal("Out() true immediately after Reset()")
	}

	// Nothing in flight: lows after reset must not produce a pulse.
	pulses := drive(s, []bool{false, false, false, false})
	if len(pulses) != 0 {
		t.Fatalf("pulses at ticks %v after reset, want none", pulses)
	}
}
