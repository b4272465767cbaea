package core

import (
	"math"
	"math/bits"
)

// BitsFor returns the smallest register width able to hold every value in
// [0, maxValue]. BitsFor(0) is 0.
func BitsFor(maxValue uint64) int {
	return bits.Len64(maxValue)
}

// Mask returns the value mask for a register of the given width. Widths
// outside [0, 64] are clamped.
func Mask(width int) uint64 {
	if width <= 0 {
		return 0
	}
	if width >= 64 {
		return math.MaxUint64
	}
	return (1 << uint(width)) - 1
}

// TicksFor returns the number of clock ticks spanning durationSeconds at the
// given tick frequency, rounded up so a window never ends short.
func TicksFor(frequencyHz, durationSeconds float64) uint64 {
	ticks := math.Ceil(frequencyHz * durationSeconds)
	if ticks <= 0 {
		return 0
	}
	return uint64(ticks)
}

// ExpectedCount returns the pulse count a source at frequencyHz produces over
// durationSeconds, rounded to the nearest whole pulse.
func ExpectedCount(frequencyHz, durationSeconds float64) uint64 {
	count := math.Round(frequencyHz * durationSeconds)
	if count <= 0 {
		return 0
	}
	return uint64(count)
}
