// Package tuner assembles the full pulse-train tuner pipeline.
//
// The pipeline is a synchronous design driven one tick at a time: a
// synchronizer carries the raw input into the tick domain and reduces it to
// single-tick pulses, a window counter totals those pulses over a
// clock-defined sampling window, and a discriminator classifies each latched
// total into the nearest note of a tuning together with exact/high/far
// proximity flags. Every call to Tick computes all next-tick state from the
// state before the call, so components always observe each other's previous
// outputs, never the ones being produced.
//
// Sub-packages hold the individual stages (edge, pulse, discrim) plus the
// clock table, the note/tuning data model, the sampling configuration and a
// pulse-train generator for driving the pipeline synthetically.
package tuner
