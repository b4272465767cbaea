// Package core holds the shared sampling configuration and the register
// width arithmetic used by the tick-domain tuner components.
package core

// Config defines common sampling settings for the tuner pipeline.
//
// SamplingDuration is the time in seconds over which input pulses are
// accumulated before a count is reported. DetectionWindow is the width in Hz
// of the band around each target frequency that still classifies as that
// note.
type Config struct {
	SamplingDuration float64
	DetectionWindow  int
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the stock settings: a one second sampling window
// and a 32 Hz detection band.
func DefaultConfig() Config {
	return Config{
		SamplingDuration: 1.0,
		DetectionWindow:  32,
	}
}

// WithSamplingDuration sets the pulse accumulation time in seconds.
func WithSamplingDuration(seconds float64) Option {
	return func(cfg *Config) {
		if seconds > 0 {
			cfg.SamplingDuration = seconds
		}
	}
}

// WithDetectionWindow sets the classification band width in Hz.
func WithDetectionWindow(hz int) Option {
	return func(cfg *Config) {
		if hz > 0 {
			cfg.DetectionWindow = hz
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
