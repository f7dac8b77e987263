package server

import (
	"context"
	"strings"
	"sync"

	"github.com/example/go-wordvocab/internal/dictionary"
	"github.com/example/go-wordvocab/internal/sampler"
	"github.com/example/go-wordvocab/internal/text"
	"github.com/example/go-wordvocab/internal/vocab"
)

// Preprocessor adapts a fitted Dictionary and an optional DiscardSampler to
// the Transformer and VocabLister interfaces. The sampler's random source is
// not safe for concurrent use, so draws are serialized.
type Preprocessor struct {
	dict *dictionary.Dictionary

	mu      sync.Mutex
	sampler *sampler.DiscardSampler
}

// NewPreprocessor builds the sampler table from the dictionary's vocabulary.
// A nil sampler disables discarding.
func NewPreprocessor(d *dictionary.Dictionary, s *sampler.DiscardSampler) (*Preprocessor, error) {
	if !d.Fitted() {
		return nil, dictionary.ErrNotFitted
	}
	if s != nil {
		s.BuildTable(d.Vocab().Freqs())
	}
	return &Preprocessor{dict: d, sampler: s}, nil
}

// Transform trims raw, folds CR and CRLF line endings to LF and converts each
// line into one id sequence. Whitespace-only input returns text.ErrEmptyText.
func (p *Preprocessor) Transform(ctx context.Context, raw string, discard bool) ([][]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clean, err := text.Normalize(raw)
	if err != nil {
		return nil, err
	}

	sentences, err := p.dict.TransformLines(strings.Split(clean, "\n"))
	if err != nil {
		return nil, err
	}
	if !discard || p.sampler == nil || !p.sampler.Enabled() {
		return sentences, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	kept := sentences[:0]
	for _, seq := range sentences {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if seq = p.sampler.Filter(seq); len(seq) > 0 {
			kept = append(kept, seq)
		}
	}
	return kept, nil
}

func (p *Preprocessor) Entries(limit int) []vocab.Entry {
	return p.dict.Vocab().Entries(limit)
}
