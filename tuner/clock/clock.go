// Package clock defines the fixed table of supported sampling-clock rates
// and the selection codes that pick between them at runtime.
package clock

import "github.com/cwbudde/algo-tuner/tuner/core"

// Code selects one of the supported sampling-clock rates.
type Code uint8

const (
	Code1kHz Code = iota
	Code2kHz
	Code4kHz
	Code3277Hz // 32.768 kHz / 10
	Code10kHz
	Code32768Hz
	Code40kHz
	Code60kHz
)

// Setting associates a selection code with its clock rate.
type Setting struct {
	Code        Code
	FrequencyHz int
}

var settings = [...]Setting{
	{Code1kHz, 1000},
	{Code2kHz, 2000},
	{Code4kHz, 4000},
	{Code3277Hz, 3277},
	{Code10kHz, 10000},
	{Code32768Hz, 32768},
	{Code40kHz, 40000},
	{Code60kHz, 60000},
}

var codeNames = [...]string{
	"1kHz", "2kHz", "4kHz", "3277Hz", "10kHz", "32768Hz", "40kHz", "60kHz",
}

// String returns the conventional short name of the clock code.
func (c Code) String() string {
	if int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "unknown"
}

// TicksOver returns the number of ticks this clock produces over the given
// duration, rounded up.
func (s Setting) TicksOver(durationSeconds float64) uint64 {
	return core.TicksFor(float64(s.FrequencyHz), durationSeconds)
}

// Settings returns a copy of the clock table in code order.
func Settings() []Setting {
	out := make([]Setting, len(settings))
	copy(out, settings[:])
	return out
}

// Lookup returns the setting for a selection code. The second return is
// false for codes outside the table.
func Lookup(code Code) (Setting, bool) {
	if int(code) >= len(settings) {
		return Setting{}, false
	}
	return settings[code], true
}

// Count returns the number of supported clock rates.
func Count() int {
	return len(settings)
}

// CodeBits returns the register width of a selection code.
func CodeBits() int {
	return core.BitsFor(uint64(len(settings) - 1))
}

// MaxFrequencyHz returns the fastest supported clock rate.
func MaxFrequencyHz() int {
	maxFreq := 0
	for _, s := range settings {
		if s.FrequencyHz > maxFreq {
			maxFreq = s.FrequencyHz
		}
	}
	return maxFreq
}
