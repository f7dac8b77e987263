// Package doctor provides preflight checks for wordvocab inputs.
package doctor

import (
	"fmt"
	"io"
	"os"

	"github.com/example/go-wordvocab/internal/text"
	"github.com/example/go-wordvocab/internal/vocab"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Config holds the inputs each doctor check inspects. Empty paths skip the
// corresponding check.
type Config struct {
	// CorpusPath is the training corpus to verify.
	CorpusPath string
	// VocabPath is a saved vocabulary TSV to parse and validate.
	VocabPath string
	// ReplaceWord is passed to the vocabulary reader when Replace is set.
	ReplaceWord string
	Replace     bool
	// Normalize is the configured Unicode normalization form.
	Normalize string
	// MaxSentenceLength must be positive.
	MaxSentenceLength int
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- dictionary settings ---------------------------------------------
	if _, err := text.ParseForm(cfg.Normalize); err != nil {
		res.fail(fmt.Sprintf("normalize form: %v", err))
		fmt.Fprintf(w, "%s normalize form: %v\n", FailMark, err)
	} else {
		form := cfg.Normalize
		if form == "" {
			form = "none"
		}
		fmt.Fprintf(w, "%s normalize form: %s\n", PassMark, form)
	}

	if cfg.MaxSentenceLength <= 0 {
		res.fail(fmt.Sprintf("max sentence length: must be positive, got %d", cfg.MaxSentenceLength))
		fmt.Fprintf(w, "%s max sentence length: %d\n", FailMark, cfg.MaxSentenceLength)
	} else {
		fmt.Fprintf(w, "%s max sentence length: %d\n", PassMark, cfg.MaxSentenceLength)
	}

	// ---- corpus file ------------------------------------------------------
	if cfg.CorpusPath == "" {
		fmt.Fprintf(w, "%s corpus file: skipped\n", PassMark)
	} else if size, err := checkCorpus(cfg.CorpusPath); err != nil {
		res.fail(fmt.Sprintf("corpus file %q: %v", cfg.CorpusPath, err))
		fmt.Fprintf(w, "%s corpus file %s: %v\n", FailMark, cfg.CorpusPath, err)
	} else {
		fmt.Fprintf(w, "%s corpus file: %s (%d bytes)\n", PassMark, cfg.CorpusPath, size)
	}

	// ---- vocabulary file --------------------------------------------------
	if cfg.VocabPath == "" {
		fmt.Fprintf(w, "%s vocab file: skipped\n", PassMark)
	} else if n, err := checkVocab(cfg); err != nil {
		res.fail(fmt.Sprintf("vocab file %q: %v", cfg.VocabPath, err))
		fmt.Fprintf(w, "%s vocab file %s: %v\n", FailMark, cfg.VocabPath, err)
	} else {
		fmt.Fprintf(w, "%s vocab file: %s (%d words)\n", PassMark, cfg.VocabPath, n)
	}

	return res
}

func checkCorpus(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("is a directory")
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("file is empty")
	}

	// Stat succeeds on unreadable files.
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	_ = f.Close()

	return info.Size(), nil
}

func checkVocab(cfg Config) (int, error) {
	f, err := os.Open(cfg.VocabPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var opts []vocab.Option
	if cfg.Replace {
		opts = append(opts, vocab.WithReplacement(cfg.ReplaceWord))
	}

	v, err := vocab.Read(f, opts...)
	if err != nil {
		return 0, err
	}
	return v.Len(), nil
}
