package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newFitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fit [corpus]",
		Short: "Build a vocabulary from a corpus and write it as TSV",
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

			d, err := fitDictionary(cfg, path)
			if err != nil {
				return err
			}

			out, err := openOutput(cfg.Paths.VocabPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			if _, err := d.Vocab().WriteTo(out); err != nil {
				_ = out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close vocab: %w", err)
			}

			if cfg.Paths.VocabPath != "" {
				_, _ = fmt.Fprintf(os.Stderr, "wrote %d words to %s\n", d.NumVocab(), cfg.Paths.VocabPath)
			}
			return nil
		},
	}

	return cmd
}
