// Package testutil provides helpers for building and checking tick-domain
// pulse trains in tests.
package testutil

import "fmt"

// Ticks parses a pattern of '1' and '0' runes into a pulse train. Spaces
// and underscores are ignored so patterns can be grouped for readability.
// Any other rune panics, since a malformed pattern is a test bug.
func Ticks(pattern string) []bool {
	out := make([]bool, 0, len(pattern))
	for _, r := range pattern {
		switch r {
		case '1':
			out = append(out, true)
		case '0':
			out = append(out, false)
		case ' ', '_':
		default:
			panic(fmt.Sprintf("testutil: invalid pattern rune %q", r))
		}
	}
	return out
}

// RisingEdges counts low-to-high transitions, treating a high first tick
// as an edge.
func RisingEdges(train []bool) int {
	n := 0
	prev := false
	for _, level := range train {
		if level && !prev {
			n++
		}
		prev = level
	}
	return n
}
