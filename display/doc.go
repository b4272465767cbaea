// Package display renders classification results on a dual seven-segment
// module with a shared segment bus and a single digit-select line.
//
// One digit shows the detected note class, the other a proximity glyph
// telling the player which way to correct. The driver alternates digits on
// every tick; while no note is classified both phases show the note digit,
// so the idle dash never alternates with a stale proximity glyph.
//
// Segment patterns follow the 0bABCDEFG* convention with the decimal dot in
// the least significant bit. Values outside a sprite table render blank.
package display
