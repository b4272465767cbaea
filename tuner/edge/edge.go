// Package edge carries an asynchronous pulse input into the sampling-clock
// domain and reduces it to clean single-tick pulses.
package edge

import "fmt"

const (
	// DefaultStages is the synchronizer chain depth used by the pipeline.
	DefaultStages = 2

	minStages = 1
	maxStages = 16
)

// Synchronizer shifts the raw input through a flip-flop chain and emits a
// one-tick pulse for each rising edge of the stabilized signal. An input
// held high across many ticks produces exactly one pulse; an input already
// high at startup counts as an edge once it clears the chain.
type Synchronizer struct {
	stages int
	chain  uint32 // bit i holds the sample taken i+1 ticks ago
	seen   bool
	out    bool
}

// NewSynchronizer creates a synchronizer with the given chain depth.
func NewSynchronizer(stages int) (*Synchronizer, error) {
	if stages < minStages || stages > maxStages {
		return nil, fmt.Errorf("edge: stages must be in [%d, %d]: %d", minStages, maxStages, stages)
	}
	return &Synchronizer{stages: stages}, nil
}

// Tick advances the synchronizer one tick with the given raw input level.
// All next-tick state derives from the state before the call.
func (s *Synchronizer) Tick(raw bool) {
	stable := s.chain&(1<<uint(s.stages-1)) != 0

	s.chain = (s.chain << 1) & uint32((1<<uint(s.stages))-1)
	if raw {
		s.chain |= 1
	}

	s.out = stable && !s.seen
	s.seen = stable
}

// Out reports whether the current tick carries a detected pulse.
func (s *Synchronizer) Out() bool {
	return s.out
}

// Stages returns the chain depth.
func (s *Synchronizer) Stages() int {
	return s.stages
}

// Latency returns the number of ticks between a raw edge and its pulse.
func (s *Synchronizer) Latency() int {
	return s.stages + 1
}

// Reset restores the power-up state.
func (s *Synchronizer) Reset() {
	s.chain = 0
	s.seen = false
	s.out = false
}
