// Package fundamental estimates the fundamental frequency of a sampled
// signal by autocorrelation. It serves as a sample-domain cross-check for
// the tick-domain counting path: feed it the same stimulus and compare the
// estimate against the per-window count.
package fundamental

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/andrepxx/go-dsp-guitar/circular"
	"github.com/cwbudde/algo-vecmath"
)

const (
	defaultBufferSize = 4096
	defaultMinFreqHz  = 60.0
	defaultMaxFreqHz  = 1000.0
)

// Config holds estimator parameters. Zero fields other than SampleRate fall
// back to defaults.
type Config struct {
	SampleRate float64 // samples per second, required
	BufferSize int     // history length in samples
	MinFreqHz  float64 // lower edge of the search band
	MaxFreqHz  float64 // upper edge of the search band
}

// Result holds one analysis pass.
type Result struct {
	FrequencyHz float64 // interpolated fundamental, 0 when nothing periodic stands out
	Lag         int     // correlation peak lag in samples
	Confidence  float64 // peak correlation normalized to the zero-lag energy
}

// Estimator accumulates recent samples in a circular history and estimates
// their fundamental frequency on demand.
type Estimator struct {
	cfg     Config
	minLag  int
	maxLag  int
	history circular.Buffer
	plan    *algofft.Plan[complex128]

	signal []float64
	fftBuf []complex128
	re     []float64
	im     []float64
	power  []float64
	corr   []float64
}

// NewEstimator creates an estimator for the given config.
func NewEstimator(cfg Config) (*Estimator, error) {
	cfg = normalizeConfig(cfg)
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("fundamental: sample rate must be > 0: %v", cfg.SampleRate)
	}
	if cfg.MinFreqHz >= cfg.MaxFreqHz {
		return nil, fmt.Errorf("fundamental: search band must satisfy min < max: %v >= %v",
			cfg.MinFreqHz, cfg.MaxFreqHz)
	}

	minLag := int(math.Round(cfg.SampleRate / cfg.MaxFreqHz))
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(math.Round(cfg.SampleRate / cfg.MinFreqHz))
	if maxLag >= cfg.BufferSize {
		return nil, fmt.Errorf("fundamental: history must span the longest period: need > %d samples, have %d",
			maxLag, cfg.BufferSize)
	}
	if minLag >= maxLag {
		return nil, fmt.Errorf("fundamental: search band too narrow at sample rate %v", cfg.SampleRate)
	}

	// Zero padding to twice the history keeps the circular convolution
	// from wrapping into the lag range.
	fftSize := nextPowerOf2(2 * cfg.BufferSize)
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("fundamental: %w", err)
	}

	return &Estimator{
		cfg:     cfg,
		minLag:  minLag,
		maxLag:  maxLag,
		history: circular.CreateBuffer(cfg.BufferSize),
		plan:    plan,
		signal:  make([]float64, cfg.BufferSize),
		fftBuf:  make([]complex128, fftSize),
		re:      make([]float64, fftSize),
		im:      make([]float64, fftSize),
		power:   make([]float64, fftSize),
		corr:    make([]float64, fftSize),
	}, nil
}

// Estimate is a one-shot analysis over a complete sample block.
func Estimate(samples []float64, cfg Config) (Result, error) {
	if len(samples) == 0 {
		return Result{}, fmt.Errorf("fundamental: samples must not be empty")
	}
	cfg.BufferSize = len(samples)
	e, err := NewEstimator(cfg)
	if err != nil {
		return Result{}, err
	}
	e.Process(samples)
	return e.Analyze()
}

// Process appends samples to the history, discarding the oldest.
func (e *Estimator) Process(samples []float64) {
	e.history.Enqueue(samples...)
}

// Analyze estimates the fundamental over the current history.
func (e *Estimator) Analyze() (Result, error) {
	if err := e.history.Retrieve(e.signal); err != nil {
		return Result{}, fmt.Errorf("fundamental: %w", err)
	}

	mean := 0.0
	for _, v := range e.signal {
		mean += v
	}
	mean /= float64(len(e.signal))

	for i := range e.fftBuf {
		e.fftBuf[i] = 0
	}
	for i, v := range e.signal {
		e.fftBuf[i] = complex(v-mean, 0)
	}

	if err := e.plan.Forward(e.fftBuf, e.fftBuf); err != nil {
		return Result{}, fmt.Errorf("fundamental: %w", err)
	}

	for i, c := range e.fftBuf {
		e.re[i] = real(c)
		e.im[i] = imag(c)
	}
	vecmath.Power(e.power, e.re, e.im)
	for i, p := range e.power {
		e.fftBuf[i] = complex(p, 0)
	}

	if err := e.plan.Inverse(e.fftBuf, e.fftBuf); err != nil {
		return Result{}, fmt.Errorf("fundamental: %w", err)
	}
	for i, c := range e.fftBuf {
		e.corr[i] = real(c)
	}

	r0 := e.corr[0]
	if r0 <= 0 {
		return Result{}, nil
	}

	bestLag := e.minLag
	bestVal := math.Inf(-1)
	for lag := e.minLag; lag <= e.maxLag; lag++ {
		if v := e.corr[lag]; v > bestVal {
			bestVal = v
			bestLag = lag
		}
	}
	if bestVal <= 0 {
		return Result{}, nil
	}

	// Parabolic interpolation around the peak, limited to half a sample.
	left := e.corr[bestLag-1]
	right := e.corr[bestLag+1]
	denom := 2*bestVal - left - right
	shift := 0.0
	if denom != 0 {
		shift = 0.5 * (right - left) / denom
	}
	if shift < -0.5 {
		shift = -0.5
	} else if shift > 0.5 {
		shift = 0.5
	}

	confidence := bestVal / r0
	if confidence > 1 {
		confidence = 1
	}

	return Result{
		FrequencyHz: e.cfg.SampleRate / (float64(bestLag) + shift),
		Lag:         bestLag,
		Confidence:  confidence,
	}, nil
}

// Reset discards the accumulated history.
func (e *Estimator) Reset() {
	e.history = circular.CreateBuffer(e.cfg.BufferSize)
}

func normalizeConfig(cfg Config) Config {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defaultBufferSize
	}

	if cfg.MinFreqHz <= 0 {
		cfg.MinFreqHz = defaultMinFreqHz
	}

	if cfg.MaxFreqHz <= 0 {
		cfg.MaxFreqHz = defaultMaxFreqHz
	}

	return cfg
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
