// Package dictionary builds a word vocabulary from a corpus and converts text
// into sequences of word ids for word2vec-style training.
//
// A Dictionary is fitted once, from a file or from in-memory lines. File
// corpora can be streamed one character at a time so memory stays bounded by
// the longest word. After fitting, Transform converts documents in batch and
// SentenceReader converts a file lazily into length-capped sentences.
//
// A Dictionary is not safe for concurrent Fit calls. Once fitted, Transform
// and SentenceReader only read the frozen vocabulary and may run concurrently.
package dictionary

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/example/go-wordvocab/internal/text"
	"github.com/example/go-wordvocab/internal/vocab"
)

var (
	// ErrInvalidArgument reports an unusable source or configuration value.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFitted is returned by transform operations before Fit has completed.
	ErrNotFitted = errors.New("dictionary has not been fitted")
)

// Config holds the dictionary settings.
type Config struct {
	// MinCount is the minimum frequency a word needs to get its own id.
	// Values below 1 are treated as 1.
	MinCount int
	// ReplaceLowerFreqWord maps pruned and unknown words to ReplaceWord
	// instead of dropping them.
	ReplaceLowerFreqWord bool
	ReplaceWord          string
	// BOSWord and EOSWord, when non-empty, wrap every document (line).
	BOSWord string
	EOSWord string
	// MaxSentenceLength caps the sentences produced by SentenceReader.
	MaxSentenceLength int
	// Normalize is a Unicode normalization form applied to every word
	// (nfc|nfd|nfkc|nfkd, empty for none).
	Normalize string
}

// DefaultConfig returns the default dictionary settings.
func DefaultConfig() Config {
	return Config{
		MinCount:             5,
		ReplaceLowerFreqWord: false,
		ReplaceWord:          vocab.DefaultReplaceWord,
		MaxSentenceLength:    1000,
	}
}

// VocabOptions returns the vocab options matching c.
func (c Config) VocabOptions() []vocab.Option {
	if !c.ReplaceLowerFreqWord {
		return nil
	}
	return []vocab.Option{vocab.WithReplacement(c.ReplaceWord)}
}

// State is the fitting state of a Dictionary.
type State int

const (
	StateUnfit State = iota
	StateFitting
	StateFitted
)

func (s State) String() string {
	switch s {
	case StateUnfit:
		return "unfit"
	case StateFitting:
		return "fitting"
	case StateFitted:
		return "fitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Source is a corpus: either a FileSource or a LinesSource.
type Source interface {
	source()
}

// FileSource is a corpus stored in a text file, one document per line.
type FileSource struct {
	Path string
}

// LinesSource is an in-memory corpus, one document per element.
type LinesSource struct {
	Lines []string
}

func (FileSource) source()  {}
func (LinesSource) source() {}

type options struct {
	logger *slog.Logger
}

// Option configures a Dictionary.
type Option func(*options)

// WithLogger sets the logger that receives refit and empty-document warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Dictionary maps words to ids.
type Dictionary struct {
	cfg      Config
	norm     text.Normalizer
	log      *slog.Logger
	vocab    *vocab.Vocab
	state    State
	numWords int64
}

// New returns an unfitted Dictionary.
func New(cfg Config, optFns ...Option) (*Dictionary, error) {
	opts := options{logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}

	if cfg.MaxSentenceLength <= 0 {
		return nil, fmt.Errorf("%w: max sentence length must be positive, got %d",
			ErrInvalidArgument, cfg.MaxSentenceLength)
	}
	norm, err := text.ParseForm(cfg.Normalize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	cfg.MinCount = max(cfg.MinCount, 1)
	if cfg.ReplaceWord == "" {
		cfg.ReplaceWord = vocab.DefaultReplaceWord
	}

	return &Dictionary{
		cfg:  cfg,
		norm: norm,
		log:  opts.logger,
	}, nil
}

// FromVocab returns a fitted Dictionary backed by an existing vocabulary,
// typically one read back with vocab.Read.
func FromVocab(cfg Config, v *vocab.Vocab, optFns ...Option) (*Dictionary, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil vocabulary", ErrInvalidArgument)
	}
	d, err := New(cfg, optFns...)
	if err != nil {
		return nil, err
	}
	d.setVocab(v)
	return d, nil
}

// Fit builds the vocabulary from src. A FileSource is streamed one
// character at a time unless inMemory is set; a LinesSource is always read
// from memory. Fitting an already fitted Dictionary logs a warning and adds
// the new counts on top of the existing vocabulary.
func (d *Dictionary) Fit(src Source, inMemory bool) error {
	if d.state == StateFitted {
		d.log.Warn("dictionary already fitted; refitting on top of the existing vocabulary",
			slog.Int("num_vocab", d.NumVocab()),
			slog.Int64("num_words", d.numWords),
		)
	}

	var b *vocab.Builder
	if d.vocab != nil {
		b = vocab.NewBuilderFrom(d.vocab, d.cfg.VocabOptions()...)
	} else {
		b = vocab.NewBuilder(d.cfg.VocabOptions()...)
	}

	prev := d.state
	d.state = StateFitting
	if err := d.ingest(b, src, inMemory); err != nil {
		d.state = prev
		return err
	}

	v, err := b.Finalize(d.cfg.MinCount)
	if err != nil {
		d.state = prev
		return fmt.Errorf("finalize vocabulary: %w", err)
	}
	d.setVocab(v)

	d.log.Debug("dictionary fitted",
		slog.Int("num_vocab", d.NumVocab()),
		slog.Int64("num_words", d.numWords),
		slog.Int("min_count", d.cfg.MinCount),
	)
	return nil
}

// FitFile fits from a corpus file.
func (d *Dictionary) FitFile(path string, inMemory bool) error {
	return d.Fit(FileSource{Path: path}, inMemory)
}

// FitLines fits from in-memory lines.
func (d *Dictionary) FitLines(lines []string) error {
	return d.Fit(LinesSource{Lines: lines}, true)
}

func (d *Dictionary) ingest(b *vocab.Builder, src Source, inMemory bool) error {
	switch s := src.(type) {
	case FileSource:
		if s.Path == "" {
			return fmt.Errorf("%w: empty corpus path", ErrInvalidArgument)
		}
		f, err := os.Open(s.Path)
		if err != nil {
			return fmt.Errorf("open corpus: %w", err)
		}
		defer func() { _ = f.Close() }()

		if inMemory {
			return readLines(f, func(line string) { d.addDoc(b, line) })
		}
		return d.streamInto(b, d.newDocReader(f))
	case LinesSource:
		for _, line := range s.Lines {
			d.addDoc(b, line)
		}
		return nil
	default:
		return fmt.Errorf("%w: source must be a FileSource or LinesSource, got %T", ErrInvalidArgument, src)
	}
}

func (d *Dictionary) addDoc(b *vocab.Builder, line string) {
	for _, w := range d.docWords(line) {
		b.Add(w)
	}
}

func (d *Dictionary) streamInto(b *vocab.Builder, docs *docReader) error {
	for {
		tok, err := docs.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !tok.LineBreak {
			b.Add(tok.Word)
		}
	}
}

func (d *Dictionary) setVocab(v *vocab.Vocab) {
	d.vocab = v
	d.numWords = v.Total()
	d.state = StateFitted
}

// lookup returns the id emitted for word: its own id, the replacement id,
// or false when the word is dropped.
func (d *Dictionary) lookup(word string) (int, bool) {
	if id, ok := d.vocab.ID(word); ok {
		return id, true
	}
	if d.cfg.ReplaceLowerFreqWord {
		return d.vocab.MarkerID()
	}
	return 0, false
}

// State returns the fitting state.
func (d *Dictionary) State() State { return d.state }

// Fitted reports whether Fit has completed at least once.
func (d *Dictionary) Fitted() bool { return d.state == StateFitted }

// Config returns the effective configuration.
func (d *Dictionary) Config() Config { return d.cfg }

// Vocab returns the frozen vocabulary, or nil before fitting.
func (d *Dictionary) Vocab() *vocab.Vocab { return d.vocab }

// NumVocab returns the vocabulary size.
func (d *Dictionary) NumVocab() int {
	if d.vocab == nil {
		return 0
	}
	return d.vocab.Len()
}

// NumWords returns the number of word occurrences the vocabulary accounts for.
func (d *Dictionary) NumWords() int64 { return d.numWords }
