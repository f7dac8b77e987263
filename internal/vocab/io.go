package vocab

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/go-wordvocab/internal/text"
)

// ErrMalformed is returned when a vocabulary file or table breaks an invariant.
var ErrMalformed = errors.New("malformed vocabulary")

const maxLineBytes = 1 << 20

// replaceHeader opens the first line of a vocabulary built with replacement.
// Words never contain a space, so the line cannot be mistaken for an entry.
const replaceHeader = "# replace_word "

// WriteTo writes the vocabulary as one "word<TAB>freq" line per id. A
// vocabulary built with replacement starts with a "# replace_word <word>"
// line so Read can restore the marker.
func (v *Vocab) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	if v.opts.replace {
		n, err := fmt.Fprintf(bw, "%s%s\n", replaceHeader, v.opts.replaceWord)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write vocab header: %w", err)
		}
	}
	for id, word := range v.words {
		n, err := fmt.Fprintf(bw, "%s\t%d\n", word, v.freqs[id])
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write vocab entry %d: %w", id, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("flush vocab: %w", err)
	}
	return written, nil
}

// Read parses a vocabulary written by WriteTo. Blank lines are ignored.
// A replace_word header turns replacement on with the recorded word; it
// conflicts with a WithReplacement option naming a different word.
func Read(r io.Reader, opts ...Option) (*Vocab, error) {
	var (
		words []string
		freqs []int64
	)

	o := buildOptions(opts)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	entries := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		entries++
		if entries == 1 && strings.HasPrefix(line, replaceHeader) {
			if err := o.applyHeader(strings.TrimPrefix(line, replaceHeader)); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
			}
			continue
		}
		word, rawFreq, ok := strings.Cut(line, "\t")
		if !ok || word == "" {
			return nil, fmt.Errorf("%w: line %d: want word<TAB>freq", ErrMalformed, lineNo)
		}
		freq, err := strconv.ParseInt(strings.TrimSpace(rawFreq), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad frequency: %v", ErrMalformed, lineNo, err)
		}
		words = append(words, word)
		freqs = append(freqs, freq)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}

	v := newVocab(words, freqs, o)
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (o *options) applyHeader(raw string) error {
	fields := strings.Fields(raw)
	if len(fields) != 1 {
		return fmt.Errorf("want %q followed by one word", strings.TrimSpace(replaceHeader))
	}
	if o.replace && o.replaceWord != fields[0] {
		return fmt.Errorf("file replaces with %q, caller asked for %q", fields[0], o.replaceWord)
	}
	o.replace = true
	o.replaceWord = fields[0]
	return nil
}

// Validate checks the finalized-vocabulary invariants: words are unique and
// contain no whitespace, every frequency is positive, and frequencies are
// non-increasing by id. A trailing replacement word is exempt from the
// ordering check.
func (v *Vocab) Validate() error {
	if len(v.ids) != len(v.words) {
		return fmt.Errorf("%w: %d ids for %d words (duplicate word)", ErrMalformed, len(v.ids), len(v.words))
	}

	last := len(v.words)
	if v.opts.replace && last > 0 && v.words[last-1] == v.opts.replaceWord {
		last--
	}

	for id, w := range v.words {
		if strings.IndexFunc(w, text.IsDelimiter) >= 0 {
			return fmt.Errorf("%w: id %d: word %q contains whitespace", ErrMalformed, id, w)
		}
		if v.freqs[id] < 1 {
			return fmt.Errorf("%w: id %d: frequency %d", ErrMalformed, id, v.freqs[id])
		}
		if id > 0 && id < last && v.freqs[id] > v.freqs[id-1] {
			return fmt.Errorf("%w: id %d: frequency %d exceeds previous %d",
				ErrMalformed, id, v.freqs[id], v.freqs[id-1])
		}
	}
	return nil
}
