package dictionary

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
)

// SentenceReader lazily converts a corpus into sentences of word ids.
// A sentence ends at a line break or when it reaches MaxSentenceLength
// ids, whichever comes first; long lines are split. Empty sentences are
// never returned. Memory use is bounded by one sentence and one word.
type SentenceReader struct {
	d      *Dictionary
	docs   *docReader
	closer io.Closer
	maxLen int
	buf    []int
	done   bool
}

// OpenSentences opens path and returns a SentenceReader over it.
// The caller must Close the reader.
func (d *Dictionary) OpenSentences(path string) (*SentenceReader, error) {
	if !d.Fitted() {
		return nil, ErrNotFitted
	}
	if path == "" {
		return nil, fmt.Errorf("%w: empty corpus path", ErrInvalidArgument)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	sr, err := d.NewSentenceReader(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	sr.closer = f
	return sr, nil
}

// NewSentenceReader returns a SentenceReader over r. Closing the reader
// does not close r.
func (d *Dictionary) NewSentenceReader(r io.Reader) (*SentenceReader, error) {
	if !d.Fitted() {
		return nil, ErrNotFitted
	}
	return &SentenceReader{
		d:      d,
		docs:   d.newDocReader(r),
		maxLen: d.cfg.MaxSentenceLength,
	}, nil
}

// Next returns the next sentence, or io.EOF when the corpus is exhausted.
// The returned slice is owned by the caller.
func (s *SentenceReader) Next() ([]int, error) {
	if s.done {
		return nil, io.EOF
	}

	for {
		tok, err := s.docs.next()
		if errors.Is(err, io.EOF) {
			s.done = true
			if len(s.buf) > 0 {
				return s.flush(), nil
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}

		if tok.LineBreak {
			if len(s.buf) > 0 {
				return s.flush(), nil
			}
			continue
		}

		id, ok := s.d.lookup(tok.Word)
		if !ok {
			continue
		}
		s.buf = append(s.buf, id)
		if len(s.buf) >= s.maxLen {
			return s.flush(), nil
		}
	}
}

// All returns an iterator over the remaining sentences. Iteration stops
// after the first error, which is yielded with a nil sentence.
func (s *SentenceReader) All() iter.Seq2[[]int, error] {
	return func(yield func([]int, error) bool) {
		for {
			sent, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(sent, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the underlying file, if the reader opened one.
func (s *SentenceReader) Close() error {
	s.done = true
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func (s *SentenceReader) flush() []int {
	out := s.buf
	s.buf = make([]int, 0, min(s.maxLen, 64))
	return out
}
