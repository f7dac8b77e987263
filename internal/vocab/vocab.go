// Package vocab implements the word frequency table behind a Dictionary.
//
// A vocabulary lives in two phases. A Builder collects words in first-seen
// order and counts them. Finalize sorts the builder by descending frequency,
// prunes (or folds) the words below the minimum count, and returns a frozen
// Vocab whose ids never change again.
package vocab

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// DefaultReplaceWord is the out-of-vocabulary marker used when none is configured.
const DefaultReplaceWord = "<unk>"

var (
	// ErrFinalized is returned by Finalize on a builder that was already finalized.
	ErrFinalized = errors.New("vocab builder already finalized")
	// ErrMarkerCollision is returned when low-frequency words must be folded into
	// the replacement word but that word was also counted as an ordinary word.
	ErrMarkerCollision = errors.New("replacement word occurs as a corpus word")
)

type options struct {
	replace     bool
	replaceWord string
}

// Option configures a Builder or a Vocab read from disk.
type Option func(*options)

// WithReplacement folds words below the minimum count into word instead of
// dropping them. An empty word selects DefaultReplaceWord.
func WithReplacement(word string) Option {
	return func(o *options) {
		if word == "" {
			word = DefaultReplaceWord
		}
		o.replace = true
		o.replaceWord = word
	}
}

func buildOptions(optFns []Option) options {
	opts := options{replaceWord: DefaultReplaceWord}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Builder accumulates word counts during ingestion.
type Builder struct {
	opts  options
	words []string
	freqs []int64
	ids   map[string]int

	// carried holds marker occurrences inherited from a previous vocabulary.
	carried int64
	done    bool
}

// NewBuilder returns an empty builder.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		opts: buildOptions(opts),
		ids:  make(map[string]int),
	}
}

// NewBuilderFrom returns a builder pre-populated with the words and
// frequencies of v, in v's id order. If v contains a folded replacement word,
// its count is carried over to the marker of the next Finalize instead of
// being treated as an ordinary word.
func NewBuilderFrom(v *Vocab, opts ...Option) *Builder {
	b := NewBuilder(opts...)
	markerID, hasMarker := v.MarkerID()
	for id, w := range v.words {
		if hasMarker && id == markerID && b.opts.replace && w == b.opts.replaceWord {
			b.carried += v.freqs[id]
			continue
		}
		b.ids[w] = len(b.words)
		b.words = append(b.words, w)
		b.freqs = append(b.freqs, v.freqs[id])
	}
	return b
}

// Add counts one occurrence of word. Calls after Finalize have no effect.
func (b *Builder) Add(word string) {
	if b.done {
		return
	}
	if id, ok := b.ids[word]; ok {
		b.freqs[id]++
		return
	}
	b.ids[word] = len(b.words)
	b.words = append(b.words, word)
	b.freqs = append(b.freqs, 1)
}

// Len returns the number of distinct words seen so far.
func (b *Builder) Len() int { return len(b.words) }

// ID returns the provisional (first-seen) id of word.
func (b *Builder) ID(word string) (int, bool) {
	id, ok := b.ids[word]
	return id, ok
}

// Freq returns how many times word was added.
func (b *Builder) Freq(word string) int64 {
	if id, ok := b.ids[word]; ok {
		return b.freqs[id]
	}
	return 0
}

// Finalize sorts the collected words by descending frequency, keeping
// first-seen order among equal counts, and reassigns ids in that order.
// Words below minCount are dropped, or folded into the replacement word
// when replacement is enabled. The marker is only added when at least one
// word falls below minCount. minCount values below 1 are treated as 1.
//
// The builder cannot be used again afterwards.
func (b *Builder) Finalize(minCount int) (*Vocab, error) {
	if b.done {
		return nil, ErrFinalized
	}
	b.done = true
	defer b.release()

	if minCount < 1 {
		minCount = 1
	}
	threshold := int64(minCount)

	order := make([]int, len(b.words))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return cmp.Compare(b.freqs[y], b.freqs[x])
	})

	cut := len(order)
	for i, idx := range order {
		if b.freqs[idx] < threshold {
			cut = i
			break
		}
	}

	words := make([]string, 0, cut+1)
	freqs := make([]int64, 0, cut+1)
	for _, idx := range order[:cut] {
		words = append(words, b.words[idx])
		freqs = append(freqs, b.freqs[idx])
	}

	if b.opts.replace && (cut < len(order) || b.carried > 0) {
		if _, ok := b.ids[b.opts.replaceWord]; ok {
			return nil, fmt.Errorf("%w: %q; pick a replacement word that does not occur in the corpus",
				ErrMarkerCollision, b.opts.replaceWord)
		}
		folded := b.carried
		for _, idx := range order[cut:] {
			folded += b.freqs[idx]
		}
		words = append(words, b.opts.replaceWord)
		freqs = append(freqs, folded)
	}

	return newVocab(words, freqs, b.opts), nil
}

func (b *Builder) release() {
	b.words = nil
	b.freqs = nil
	b.ids = nil
	b.carried = 0
}

// Vocab is a finalized, read-only vocabulary. Ids are contiguous from 0 and
// ordered by descending frequency; a folded replacement word, if any, is last.
// A Vocab is safe for concurrent reads.
type Vocab struct {
	words []string
	freqs []int64
	ids   map[string]int
	total int64
	opts  options
}

func newVocab(words []string, freqs []int64, opts options) *Vocab {
	v := &Vocab{
		words: words,
		freqs: freqs,
		ids:   make(map[string]int, len(words)),
		opts:  opts,
	}
	for id, w := range words {
		v.ids[w] = id
		v.total += freqs[id]
	}
	return v
}

// Len returns the vocabulary size, including the replacement word if present.
func (v *Vocab) Len() int { return len(v.words) }

// Word returns the word with the given id. id must be in [0, Len()).
func (v *Vocab) Word(id int) string { return v.words[id] }

// Freq returns the frequency of the given id. id must be in [0, Len()).
func (v *Vocab) Freq(id int) int64 { return v.freqs[id] }

// ID returns the id of word.
func (v *Vocab) ID(word string) (int, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// Words returns a copy of the id → word table.
func (v *Vocab) Words() []string { return slices.Clone(v.words) }

// Freqs returns a copy of the id → frequency table.
func (v *Vocab) Freqs() []int64 { return slices.Clone(v.freqs) }

// Total returns the sum of all frequencies.
func (v *Vocab) Total() int64 { return v.total }

// Replaces reports whether out-of-vocabulary words map to the replacement word.
func (v *Vocab) Replaces() bool { return v.opts.replace }

// ReplaceWord returns the configured replacement word.
func (v *Vocab) ReplaceWord() string { return v.opts.replaceWord }

// MarkerID returns the id that out-of-vocabulary words map to. It reports
// false when replacement is disabled or the replacement word has no id.
func (v *Vocab) MarkerID() (int, bool) {
	if !v.opts.replace {
		return 0, false
	}
	return v.ID(v.opts.replaceWord)
}

// Entry is one row of the vocabulary table.
type Entry struct {
	ID   int    `json:"id"`
	Word string `json:"word"`
	Freq int64  `json:"freq"`
}

// Entries returns the first limit rows in id order. A limit of 0 or less
// returns every row.
func (v *Vocab) Entries(limit int) []Entry {
	n := len(v.words)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Entry, n)
	for id := range n {
		out[id] = Entry{ID: id, Word: v.words[id], Freq: v.freqs[id]}
	}
	return out
}
