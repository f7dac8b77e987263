package main

import (
	"errors"

	"github.com/example/go-wordvocab/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check corpus, vocabulary and dictionary settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			result := doctor.Run(doctor.Config{
				CorpusPath:        cfg.Paths.CorpusPath,
				VocabPath:         cfg.Paths.VocabPath,
				ReplaceWord:       cfg.Dictionary.ReplaceWord,
				Replace:           cfg.Dictionary.ReplaceLowerFreqWord,
				Normalize:         cfg.Dictionary.Normalize,
				MaxSentenceLength: cfg.Dictionary.MaxSentenceLength,
			}, cmd.OutOrStdout())

			if result.Failed() {
				return errors.New("doctor checks failed")
			}
			return nil
		},
	}

	return cmd
}
