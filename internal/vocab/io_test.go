package vocab

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestWriteToRead_PreservesTable(t *testing.T) {
	v, err := letterBuilder(WithReplacement("<unk>")).Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var buf bytes.Buffer
	n, err := v.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	if n != int64(buf.Len()) {
		t.Errorf("WriteTo returned %d; buffer holds %d bytes", n, buf.Len())
	}

	if !strings.HasPrefix(buf.String(), "# replace_word <unk>\nz\t26\n") {
		t.Errorf("unexpected leading lines in %q", buf.String()[:30])
	}

	got, err := Read(&buf, WithReplacement("<unk>"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if !slices.Equal(got.Words(), v.Words()) {
		t.Errorf("Words() = %q; want %q", got.Words(), v.Words())
	}

	if !slices.Equal(got.Freqs(), v.Freqs()) {
		t.Errorf("Freqs() = %v; want %v", got.Freqs(), v.Freqs())
	}

	if id, ok := got.MarkerID(); !ok || id != 22 {
		t.Errorf("MarkerID() = %d, %v; want 22, true", id, ok)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing tab", "word 3\n"},
		{"bad frequency", "word\tmany\n"},
		{"empty word", "\t3\n"},
		{"zero frequency", "word\t0\n"},
		{"increasing frequency", "a\t1\nb\t2\n"},
		{"duplicate word", "a\t2\na\t1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Read(%q) error = %v; want ErrMalformed", tt.input, err)
			}
		})
	}
}

func TestRead_SkipsBlankLines(t *testing.T) {
	v, err := Read(strings.NewReader("the\t5\n\nof\t3\n\n"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if v.Len() != 2 || v.Total() != 8 {
		t.Errorf("Len()=%d Total()=%d; want 2, 8", v.Len(), v.Total())
	}
}

func TestRead_TrailingMarkerExemptFromOrdering(t *testing.T) {
	input := "the\t5\nof\t3\n<unk>\t40\n"

	if _, err := Read(strings.NewReader(input)); !errors.Is(err, ErrMalformed) {
		t.Errorf("without replacement: error = %v; want ErrMalformed", err)
	}

	v, err := Read(strings.NewReader(input), WithReplacement("<unk>"))
	if err != nil {
		t.Fatalf("with replacement: %v", err)
	}

	if id, ok := v.MarkerID(); !ok || id != 2 {
		t.Errorf("MarkerID() = %d, %v; want 2, true", id, ok)
	}
}

func TestRead_HeaderRestoresReplacement(t *testing.T) {
	v, err := letterBuilder(WithReplacement("<rare>")).Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var buf bytes.Buffer
	if _, err := v.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	data := buf.String()

	// The folded marker (1+2+3+4 = 10) outranks "e" (5), so ordering only
	// validates when the marker is known.
	got, err := Read(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Read without options: %v", err)
	}

	if !got.Replaces() || got.ReplaceWord() != "<rare>" {
		t.Errorf("Replaces()=%v ReplaceWord()=%q; want true, <rare>", got.Replaces(), got.ReplaceWord())
	}

	if id, ok := got.MarkerID(); !ok || id != 22 || got.Freq(id) != 10 {
		t.Errorf("MarkerID() = %d, %v; want 22 with frequency 10", id, ok)
	}

	if _, err := Read(strings.NewReader(data), WithReplacement("<rare>")); err != nil {
		t.Errorf("Read with matching option: %v", err)
	}

	if _, err := Read(strings.NewReader(data), WithReplacement("<unk>")); !errors.Is(err, ErrMalformed) {
		t.Errorf("Read with conflicting option: error = %v; want ErrMalformed", err)
	}
}

func TestRead_NoHeaderWithoutReplacement(t *testing.T) {
	v, err := letterBuilder().Finalize(5)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	var buf bytes.Buffer
	if _, err := v.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	if strings.HasPrefix(buf.String(), "#") {
		t.Errorf("unexpected header in %q", buf.String()[:10])
	}
}

func TestRead_MalformedHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no word", "# replace_word \nthe\t5\n"},
		{"two words", "# replace_word a b\nthe\t5\n"},
		{"not first", "the\t5\n# replace_word <unk>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.input)); !errors.Is(err, ErrMalformed) {
				t.Errorf("Read(%q) error = %v; want ErrMalformed", tt.input, err)
			}
		})
	}
}
