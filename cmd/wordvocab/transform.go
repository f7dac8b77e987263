package main

import (
	"fmt"
	"log/slog"

	"github.com/example/go-wordvocab/internal/config"
	"github.com/example/go-wordvocab/internal/dictionary"
	"github.com/example/go-wordvocab/internal/sampler"
	"github.com/spf13/cobra"
)

func newTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform [corpus]",
		Short: "Convert a corpus into word-id sentences, one per output line",
		Long: "Convert a corpus into word-id sentences. The vocabulary is read from " +
			"--paths-vocab-path when set and fitted on the corpus otherwise. " +
			"Sentences are streamed and capped at --dictionary-max-sentence-length ids " +
			"unless --dictionary-in-memory is set, in which case each line is one sentence. " +
			"A positive --sampler-sample-t sub-samples frequent words.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			path, err := corpusPath(cfg, args)
			if err != nil {
				return err
			}

			d, err := loadDictionary(cfg, path)
			if err != nil {
				return err
			}

			out, err := openOutput(cfg.Paths.OutputPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			n, err := runTransform(cfg, d, path, newIDWriter(out))
			if cerr := out.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
			if err != nil {
				return err
			}

			slog.Info("transform complete", slog.String("corpus", path), slog.Int("sentences", n))
			return nil
		},
	}

	return cmd
}

// runTransform writes every sentence of path to w and returns the number
// written. Sentences emptied by sub-sampling are skipped.
func runTransform(cfg config.Config, d *dictionary.Dictionary, path string, w *idWriter) (int, error) {
	s := sampler.New(cfg.Sampler.SampleT, sampler.WithSeed(cfg.Sampler.Seed))
	if s.Enabled() {
		s.BuildTable(d.Vocab().Freqs())
	}

	emit := func(ids []int) error {
		if s.Enabled() {
			ids = s.Filter(ids)
		}
		if len(ids) == 0 {
			return nil
		}
		return w.Write(ids)
	}

	if cfg.Dictionary.InMemory {
		sentences, err := d.TransformFile(path)
		if err != nil {
			return 0, err
		}
		for _, ids := range sentences {
			if err := emit(ids); err != nil {
				return 0, err
			}
		}
	} else {
		sr, err := d.OpenSentences(path)
		if err != nil {
			return 0, err
		}
		defer sr.Close()

		for ids, err := range sr.All() {
			if err != nil {
				return 0, err
			}
			if err := emit(ids); err != nil {
				return 0, err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return 0, fmt.Errorf("flush output: %w", err)
	}
	return w.n, nil
}
