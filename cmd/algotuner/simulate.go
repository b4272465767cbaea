package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/algo-tuner/tuner/clock"
	"github.com/cwbudde/algo-tuner/tuner/note"
	"github.com/cwbudde/algo-tuner/tuner/signal"
)

var (
	simFreq    float64
	simWindows int
	simClock   string
	simJitter  float64
	simDropout float64
	simSeed    int64
)

func init() {
	simulateCmd.Flags().Float64Var(&simFreq, "freq", 330, "input frequency in Hz")
	simulateCmd.Flags().IntVar(&simWindows, "windows", 4, "number of sampling windows to run")
	simulateCmd.Flags().StringVar(&simClock, "clock", "1kHz", "sampling clock (name or code)")
	simulateCmd.Flags().Float64Var(&simJitter, "jitter", 0, "edge jitter in ticks")
	simulateCmd.Flags().Float64Var(&simDropout, "dropout", 0, "probability of a high tick dropping low")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 1, "seed for jitter and dropouts")
	rootCmd.AddCommand(simulateCmd)
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive a synthesized pulse train through the pipeline",
	Long: `Synthesizes a square pulse train, optionally degraded by edge jitter
and dropouts, feeds it through the full pipeline tick by tick and prints
the count latched at each window boundary together with the
classification held at that point.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := parseClock(simClock)
		if err != nil {
			return err
		}
		return runSimulate(cmd.OutOrStdout(), simulateOptions{
			Duration: flagDuration,
			Window:   flagWindow,
			Clock:    sel,
			FreqHz:   simFreq,
			Windows:  simWindows,
			Jitter:   simJitter,
			Dropout:  simDropout,
			Seed:     simSeed,
		})
	},
}

type simulateOptions struct {
	Duration float64
	Window   int
	Clock    clock.Code
	FreqHz   float64
	Windows  int
	Jitter   float64
	Dropout  float64
	Seed     int64
}

// proximityLabel renders the classification flags the way the two-digit
// display would read them.
func proximityLabel(out tuner.Output) string {
	switch {
	case !out.Valid():
		return "-"
	case out.Exact:
		return "exact"
	case out.Far && out.High:
		return "far high"
	case out.Far:
		return "far low"
	case out.High:
		return "high"
	default:
		return "low"
	}
}

func runSimulate(w io.Writer, opts simulateOptions) error {
	if opts.Windows <= 0 {
		return fmt.Errorf("windows must be > 0: %d", opts.Windows)
	}

	setting, ok := clock.Lookup(opts.Clock)
	if !ok {
		return fmt.Errorf("clock code not in table: %d", opts.Clock)
	}

	cfg := tuner.DefaultConfig()
	cfg.SamplingDuration = opts.Duration
	cfg.DetectionWindow = opts.Window
	cfg.InitialClock = opts.Clock

	tun, err := tuner.New(note.StandardGuitar(), cfg)
	if err != nil {
		return err
	}

	gen, err := signal.NewGenerator(float64(setting.FrequencyHz), signal.WithSeed(opts.Seed))
	if err != nil {
		return err
	}

	window := int(tun.WindowTicks())
	total := opts.Windows*window + tun.SettleTicks() + 2

	var train []bool
	if opts.Jitter > 0 {
		train, err = gen.SquareJitter(opts.FreqHz, opts.Jitter, total)
	} else {
		train, err = gen.Square(opts.FreqHz, total)
	}
	if err != nil {
		return err
	}
	if opts.Dropout > 0 {
		train, err = gen.Dropout(train, opts.Dropout)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "simulating %g Hz for %d windows of %d ticks at %s\n\n",
		opts.FreqHz, opts.Windows, window, setting.Code)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tEnd tick\tCount\tNote\tProximity\n")
	fmt.Fprintf(tw, "------\t--------\t-----\t----\t---------\n")

	var out tuner.Output
	for i, level := range train {
		out = tun.Tick(tuner.Input{Pulse: level, Clock: opts.Clock})
		if (i+1)%window == 0 && (i+1)/window <= opts.Windows {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n",
				(i+1)/window, i, out.Count, out.Note, proximityLabel(out))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if out.Valid() {
		fmt.Fprintf(w, "\ndetected: note=%s proximity=%s count=%d\n", out.Note, proximityLabel(out), out.Count)
	} else {
		fmt.Fprintf(w, "\ndetected: none\n")
	}
	return nil
}
