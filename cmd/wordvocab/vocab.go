package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newVocabCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "vocab [corpus]",
		Short: "Show the most frequent vocabulary entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if format != "table" && format != "json" {
				return fmt.Errorf("--format must be 'table' or 'json'")
			}

			path := ""
			if cfg.Paths.VocabPath == "" {
				if path, err = corpusPath(cfg, args); err != nil {
					return err
				}
			}

			d, err := loadDictionary(cfg, path)
			if err != nil {
				return err
			}

			entries := d.Vocab().Entries(limit)
			w := cmd.OutOrStdout()

			if format == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			fmt.Fprintf(w, "%-8s  %-24s  %12s\n", "ID", "Word", "Freq")
			for _, e := range entries {
				fmt.Fprintf(w, "%-8d  %-24s  %12d\n", e.ID, e.Word, e.Freq)
			}
			fmt.Fprintf(w, "vocab size: %d  words: %d\n", d.NumVocab(), d.Vocab().Total())
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of entries to show (0 = all)")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table|json")

	return cmd
}
