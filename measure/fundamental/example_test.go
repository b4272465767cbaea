package fundamental_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/measure/fundamental"
)

func ExampleEstimate() {
	samples := make([]float64, 4800)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 330 * float64(i) / 48000)
	}

	res, err := fundamental.Estimate(samples, fundamental.Config{SampleRate: 48000})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.0f Hz\n", res.FrequencyHz)

	// Output:
	// 330 Hz
}
