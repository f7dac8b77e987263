package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/example/go-wordvocab/internal/sampler"
	"github.com/example/go-wordvocab/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [corpus]",
		Short: "Serve a vocabulary over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
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

			var s *sampler.DiscardSampler
			if cfg.Sampler.SampleT > 0 {
				s = sampler.New(cfg.Sampler.SampleT, sampler.WithSeed(cfg.Sampler.Seed))
			}

			pre, err := server.NewPreprocessor(d, s)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return server.New(cfg, pre, nil).Start(ctx)
		},
	}

	return cmd
}
