package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-wordvocab/internal/bench"
	"github.com/example/go-wordvocab/internal/dictionary"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var (
		runs          int
		format        string
		minThroughput float64
	)

	cmd := &cobra.Command{
		Use:   "bench [corpus]",
		Short: "Benchmark vocabulary fitting throughput",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			path, err := corpusPath(cfg, args)
			if err != nil {
				return err
			}
			if runs < 1 {
				return fmt.Errorf("--runs must be at least 1")
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			// Per-run fit logs would drown the report.
			quiet := slog.New(slog.DiscardHandler)
			fit := bench.DictionaryFit(cfg.DictionaryConfig(), path, cfg.Dictionary.InMemory,
				dictionary.WithLogger(quiet))

			results, err := bench.Run(runs, fit)
			if err != nil {
				return err
			}

			stats := bench.ComputeStats(bench.Durations(results))

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				bench.FormatJSON(results, stats, w)
			default:
				bench.FormatTable(results, stats, w)
			}

			return bench.CheckThroughputThreshold(bench.MeanThroughput(results), minThroughput)
		},
	}

	cmd.Flags().IntVar(&runs, "runs", 5, "Number of fit runs")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")
	cmd.Flags().Float64Var(&minThroughput, "min-throughput", 0, "Exit non-zero if mean words/s falls below this value (0 = disabled)")

	return cmd
}
