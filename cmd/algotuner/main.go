// Command algotuner exercises the pulse-count tuner pipeline from the
// command line.
//
// Usage:
//
//	algotuner notes
//	algotuner clocks --duration 0.5
//	algotuner simulate --freq 331 --windows 6
//	algotuner trace --hold 3
//	algotuner serve --addr :8080 --debug
//
// The notes and clocks subcommands print the derived detection tables.
// simulate drives a synthesized train through the pipeline and prints the
// per-window classification timeline. trace sweeps every string of the
// tuning and exports the detected-note timeline as a Standard MIDI File.
// serve runs a continuously ticking pipeline fed by a retunable synthesized
// source and exposes its state over HTTP.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/tuner/clock"
)

var (
	flagDuration float64
	flagWindow   int
)

var rootCmd = &cobra.Command{
	Use:   "algotuner",
	Short: "Pulse-count instrument tuner toolbox",
	Long: `algotuner drives the pulse-count tuner pipeline with synthesized
signals: it prints the derived detection tables, simulates and traces
classification runs, and serves live pipeline state over HTTP.`,
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&flagDuration, "duration", 1.0, "sampling window duration in seconds")
	rootCmd.PersistentFlags().IntVar(&flagWindow, "window", 32, "detection window width in Hz")
}

// parseClock resolves a clock selection given as a short name ("1kHz") or a
// numeric code.
func parseClock(arg string) (clock.Code, error) {
	for _, s := range clock.Settings() {
		if strings.EqualFold(s.Code.String(), arg) {
			return s.Code, nil
		}
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 0 && n < clock.Count() {
		return clock.Code(n), nil
	}

	names := make([]string, 0, clock.Count())
	for _, s := range clock.Settings() {
		names = append(names, s.Code.String())
	}
	return 0, fmt.Errorf("unknown clock %q (valid: %s)", arg, strings.Join(names, ", "))
}

func main() {
	cobra.CheckErr(rootCmd.Execute())
}
