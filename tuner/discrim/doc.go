// Package discrim classifies windowed pulse counts against a tuning.
//
// The discriminator walks the tuning's notes from highest frequency to
// lowest, one comparison step per tick, the way the equivalent register
// logic would. For each note it subtracts the measured count from a
// precomputed threshold (the note's expected count plus half the detection
// window) in fixed-width unsigned arithmetic. Counts far above the threshold
// wrap around to large values and fall out of the window on their own, so a
// single unsigned compare covers both directions.
//
// Once a note is inside the window, the raw difference is folded so that
// proximity reads the same whether the input was sharp or flat: the window
// midpoint means dead on, zero means at the edge of the window. The emitted
// flags classify that folded value as exact, high/low and near/far.
//
// A streak counter gives the output hysteresis: the last classified note is
// held through short dropouts and only cleared after a run of full scan
// passes with no match.
package discrim
