package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/example/go-wordvocab/internal/text"
)

// Token is one item produced by a WordReader: either a word or a line break.
type Token struct {
	Word      string
	LineBreak bool
}

// WordReader splits a character stream into words without buffering more
// than the current word. Every newline produces a LineBreak token after the
// word it terminates. WordReader is not restartable; re-open the source to
// read it again.
type WordReader struct {
	r        *bufio.Reader
	word     strings.Builder
	lineOpen bool
	brk      bool
	err      error
}

// NewWordReader returns a WordReader reading from r.
func NewWordReader(r io.Reader) *WordReader {
	return &WordReader{r: bufio.NewReader(r)}
}

// Next returns the next token. It returns io.EOF once the stream is
// exhausted; a non-empty trailing word is returned before that.
func (w *WordReader) Next() (Token, error) {
	if w.brk {
		w.brk = false
		return Token{LineBreak: true}, nil
	}
	if w.err != nil {
		return Token{}, w.err
	}

	for {
		r, _, err := w.r.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				w.err = io.EOF
			} else {
				w.err = fmt.Errorf("read corpus: %w", err)
				return Token{}, w.err
			}
			if w.word.Len() > 0 {
				return w.flush(), nil
			}
			return Token{}, w.err
		}

		if r == text.LineBreak {
			w.lineOpen = false
			if w.word.Len() > 0 {
				w.brk = true
				return w.flush(), nil
			}
			return Token{LineBreak: true}, nil
		}

		w.lineOpen = true
		if text.IsDelimiter(r) {
			if w.word.Len() > 0 {
				return w.flush(), nil
			}
			continue
		}
		w.word.WriteRune(r)
	}
}

// LineOpen reports whether characters were read after the last line break.
func (w *WordReader) LineOpen() bool { return w.lineOpen }

func (w *WordReader) flush() Token {
	tok := Token{Word: w.word.String()}
	w.word.Reset()
	return tok
}

// docReader turns a WordReader into per-line documents: words are
// normalized and split again when normalization introduces a space, and
// every line is wrapped in the configured boundary words, exactly as the
// line-based path does it.
type docReader struct {
	words *WordReader
	norm  text.Normalizer
	bos   string
	eos   string
	queue []Token
	split []string
	open  bool
	done  bool
}

func (d *Dictionary) newDocReader(r io.Reader) *docReader {
	return &docReader{
		words: NewWordReader(r),
		norm:  d.norm,
		bos:   d.cfg.BOSWord,
		eos:   d.cfg.EOSWord,
	}
}

func (dr *docReader) next() (Token, error) {
	for len(dr.queue) == 0 {
		if dr.done {
			return Token{}, io.EOF
		}

		tok, err := dr.words.Next()
		switch {
		case errors.Is(err, io.EOF):
			dr.done = true
			if dr.words.LineOpen() {
				dr.closeLine(false)
			}
		case err != nil:
			return Token{}, err
		case tok.LineBreak:
			dr.closeLine(true)
		default:
			dr.openLine()
			dr.split = dr.norm.AppendWords(dr.split[:0], tok.Word)
			for _, w := range dr.split {
				dr.queue = append(dr.queue, Token{Word: w})
			}
		}
	}

	tok := dr.queue[0]
	dr.queue = dr.queue[1:]
	return tok, nil
}

func (dr *docReader) openLine() {
	if dr.open {
		return
	}
	dr.open = true
	if dr.bos != "" {
		dr.queue = append(dr.queue, Token{Word: dr.bos})
	}
}

func (dr *docReader) closeLine(lineBreak bool) {
	dr.openLine()
	if dr.eos != "" {
		dr.queue = append(dr.queue, Token{Word: dr.eos})
	}
	if lineBreak {
		dr.queue = append(dr.queue, Token{LineBreak: true})
	}
	dr.open = false
}

// docWords returns the words of one in-memory document, boundary words included.
func (d *Dictionary) docWords(line string) []string {
	fields := text.Fields(line)
	words := make([]string, 0, len(fields)+2)
	if d.cfg.BOSWord != "" {
		words = append(words, d.cfg.BOSWord)
	}
	for _, f := range fields {
		words = d.norm.AppendWords(words, f)
	}
	if d.cfg.EOSWord != "" {
		words = append(words, d.cfg.EOSWord)
	}
	return words
}

// readLines calls fn for every line of r with the trailing newline removed.
// A final line without a newline is reported too; an empty stream has no lines.
func readLines(r io.Reader, fn func(string)) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString(text.LineBreak)
		if len(line) > 0 {
			fn(strings.TrimSuffix(line, string(text.LineBreak)))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read corpus: %w", err)
		}
	}
}
