package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/tuner/clock"
)

func init() {
	rootCmd.AddCommand(clocksCmd)
}

var clocksCmd = &cobra.Command{
	Use:   "clocks",
	Short: "Print the sampling-clock table",
	Long: `Prints every supported sampling-clock rate with its selection code
and the window length in ticks it yields for the sampling duration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClocks(cmd.OutOrStdout(), flagDuration)
	},
}

func runClocks(w io.Writer, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be > 0: %v", duration)
	}

	fmt.Fprintf(w, "duration %gs, %d-bit selection code\n\n", duration, clock.CodeBits())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Code\tName\tRate [Hz]\tWindow [ticks]\n")
	fmt.Fprintf(tw, "----\t----\t---------\t--------------\n")
	for _, s := range clock.Settings() {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", s.Code, s.Code, s.FrequencyHz, s.TicksOver(duration))
	}
	return tw.Flush()
}
