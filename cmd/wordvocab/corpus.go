package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/example/go-wordvocab/internal/config"
	"github.com/example/go-wordvocab/internal/dictionary"
	"github.com/example/go-wordvocab/internal/vocab"
)

// corpusPath picks the positional argument over the configured path.
func corpusPath(cfg config.Config, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Paths.CorpusPath != "" {
		return cfg.Paths.CorpusPath, nil
	}
	return "", errors.New("corpus path is required (argument or --paths-corpus-path)")
}

// fitDictionary fits a new Dictionary on the corpus at path.
func fitDictionary(cfg config.Config, path string) (*dictionary.Dictionary, error) {
	d, err := dictionary.New(cfg.DictionaryConfig(), dictionary.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}
	if err := d.FitFile(path, cfg.Dictionary.InMemory); err != nil {
		if errors.Is(err, vocab.ErrMarkerCollision) {
			return nil, fmt.Errorf("%w (set --dictionary-replace-word)", err)
		}
		return nil, err
	}

	slog.Info("vocabulary built",
		slog.String("corpus", path),
		slog.Int("vocab_size", d.NumVocab()),
		slog.Int64("words", d.NumWords()),
	)
	return d, nil
}

// loadDictionary reads the configured vocabulary file when one is set and
// otherwise fits the corpus.
func loadDictionary(cfg config.Config, corpus string) (*dictionary.Dictionary, error) {
	if cfg.Paths.VocabPath == "" {
		if corpus == "" {
			return nil, errors.New("either a corpus or --paths-vocab-path is required")
		}
		return fitDictionary(cfg, corpus)
	}

	f, err := os.Open(cfg.Paths.VocabPath)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	dcfg := cfg.DictionaryConfig()
	v, err := vocab.Read(f, dcfg.VocabOptions()...)
	if err != nil {
		return nil, fmt.Errorf("read vocab %s: %w", cfg.Paths.VocabPath, err)
	}

	slog.Info("vocabulary loaded",
		slog.String("path", cfg.Paths.VocabPath),
		slog.Int("vocab_size", v.Len()),
	)
	return dictionary.FromVocab(dcfg, v, dictionary.WithLogger(slog.Default()))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

// idWriter writes one space-separated id sequence per line.
type idWriter struct {
	bw  *bufio.Writer
	buf []byte
	n   int
}

func newIDWriter(w io.Writer) *idWriter {
	return &idWriter{bw: bufio.NewWriterSize(w, 64*1024)}
}

func (iw *idWriter) Write(ids []int) error {
	iw.buf = iw.buf[:0]
	for i, id := range ids {
		if i > 0 {
			iw.buf = append(iw.buf, ' ')
		}
		iw.buf = strconv.AppendInt(iw.buf, int64(id), 10)
	}
	iw.buf = append(iw.buf, '\n')
	iw.n++
	_, err := iw.bw.Write(iw.buf)
	return err
}

func (iw *idWriter) Flush() error { return iw.bw.Flush() }
