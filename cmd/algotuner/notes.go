package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/algo-tuner/tuner/note"
)

func init() {
	rootCmd.AddCommand(notesCmd)
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Print the detection table of the standard guitar tuning",
	Long: `Prints every string of the standard guitar tuning together with the
pulse counts the classifier derives from the sampling duration and the
detection window: the count of an exactly tuned string and the upper
threshold of its acceptance band.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNotes(cmd.OutOrStdout(), flagDuration, flagWindow)
	},
}

func runNotes(w io.Writer, duration float64, window int) error {
	tuning := note.StandardGuitar()
	cfg := tuner.DefaultConfig()
	cfg.SamplingDuration = duration
	cfg.DetectionWindow = window

	tun, err := tuner.New(tuning, cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "tuning %s, duration %gs, window %d Hz\n\n", tuning, duration, window)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Note\tClass\tFreq [Hz]\tMIDI\tExpected\tThreshold\n")
	fmt.Fprintf(tw, "----\t-----\t---------\t----\t--------\t---------\n")
	for _, tgt := range tun.Targets() {
		n, ok := tuning.Find(tgt.Name)
		if !ok {
			return fmt.Errorf("target %s not in tuning", tgt.Name)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\t%d\t%d\n",
			tgt.Name, tgt.Class, n.FrequencyHz, n.MIDIKey(), tgt.Expected, tgt.Threshold)
	}
	return tw.Flush()
}
