// Package signal synthesizes tick-domain pulse trains for driving the
// tuner pipeline.
package signal

import (
	"fmt"
	"math"
	"math/rand"
)

// Generator creates deterministic pulse trains sampled at a fixed tick rate.
type Generator struct {
	tickRateHz float64
	seed       int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for jitter and dropouts.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator producing trains sampled at tickRateHz.
func NewGenerator(tickRateHz float64, opts ...Option) (*Generator, error) {
	if tickRateHz <= 0 {
		return nil, fmt.Errorf("signal: tick rate must be > 0: %f", tickRateHz)
	}
	g := &Generator{tickRateHz: tickRateHz, seed: 1}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// TickRate returns the tick rate the trains are sampled at.
func (g *Generator) TickRate() float64 {
	return g.tickRateHz
}

// SetSeed replaces the random seed used for jitter and dropouts.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
}

// Seed returns the current random seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Square generates a 50% duty square pulse train at freqHz. Frequencies
// above half the tick rate alias and cannot produce distinct edges.
func (g *Generator) Square(freqHz float64, ticks int) ([]bool, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("signal: square ticks must be > 0: %d", ticks)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("signal: square frequency must be > 0: %f", freqHz)
	}

	out := make([]bool, ticks)
	step := freqHz / g.tickRateHz
	for i := range out {
		phase := math.Mod(float64(i)*step, 1.0)
		out[i] = phase < 0.5
	}
	return out, nil
}

// SquareJitter generates a square train whose individual edges wander by up
// to jitterTicks around their nominal positions, deterministically from the
// generator seed. The jitter must stay below a quarter period so edges keep
// their order.
func (g *Generator) SquareJitter(freqHz, jitterTicks float64, ticks int) ([]bool, error) {
	if ticks <= 0 {
		return nil, fmt.Errorf("signal: square ticks must be > 0: %d", ticks)
	}
	if freqHz <= 0 {
		return nil, fmt.Errorf("signal: square frequency must be > 0: %f", freqHz)
	}
	if jitterTicks < 0 {
		return nil, fmt.Errorf("signal: jitter must be >= 0: %f", jitterTicks)
	}

	half := g.tickRateHz / (2 * freqHz)
	if jitterTicks >= half/2 {
		return nil, fmt.Errorf("signal: jitter %f must be below a quarter period (%f ticks)", jitterTicks, half/2)
	}

	rng := rand.New(rand.NewSource(g.seed))
	jittered := func(k int) float64 {
		return float64(k)*half + (rng.Float64()*2-1)*jitterTicks
	}

	out := make([]bool, ticks)
	level := false
	k := 0
	next := jittered(k)
	for i := range out {
		for next <= float64(i) {
			level = !level
			k++
			next = jittered(k)
		}
		out[i] = level
	}
	return out, nil
}

// Dropout returns a copy of train with each high tick independently forced
// low with the given probability, deterministically from the generator seed.
func (g *Generator) Dropout(train []bool, probability float64) ([]bool, error) {
	if probability < 0 || probability > 1 {
		return nil, fmt.Errorf("signal: dropout probability must be in [0, 1]: %f", probability)
	}

	out := make([]bool, len(train))
	rng := rand.New(rand.NewSource(g.seed))
	for i, level := range train {
		if level && rng.Float64() < probability {
			continue
		}
		out[i] = level
	}
	return out, nil
}

// Levels converts a pulse train to sample levels, mapping low and high
// ticks to the given values. Useful for feeding trains into the
// sample-domain measurement helpers.
func Levels(train []bool, low, high float64) []float64 {
	out := make([]float64, len(train))
	for i, level := range train {
		if level {
			out[i] = high
		} else {
			out[i] = low
		}
	}
	return out
}
