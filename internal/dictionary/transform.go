package dictionary

import (
	"fmt"
	"log/slog"
	"os"
)

// Transform converts every document of src into word ids. Known words map
// to their id; other words map to the replacement id when replacement is
// enabled and are dropped otherwise. Documents that end up empty are logged
// and left out, so the result can be shorter than the input.
func (d *Dictionary) Transform(src Source) ([][]int, error) {
	if !d.Fitted() {
		return nil, ErrNotFitted
	}

	var out [][]int
	docID := 0
	emit := func(line string) {
		if ids := d.encode(line); len(ids) > 0 {
			out = append(out, ids)
		} else {
			d.log.Warn("document is empty", slog.Int("doc", docID))
		}
		docID++
	}

	switch s := src.(type) {
	case FileSource:
		if s.Path == "" {
			return nil, fmt.Errorf("%w: empty corpus path", ErrInvalidArgument)
		}
		f, err := os.Open(s.Path)
		if err != nil {
			return nil, fmt.Errorf("open corpus: %w", err)
		}
		defer func() { _ = f.Close() }()

		if err := readLines(f, emit); err != nil {
			return nil, err
		}
	case LinesSource:
		for _, line := range s.Lines {
			emit(line)
		}
	default:
		return nil, fmt.Errorf("%w: source must be a FileSource or LinesSource, got %T", ErrInvalidArgument, src)
	}

	return out, nil
}

// TransformLines converts in-memory lines.
func (d *Dictionary) TransformLines(lines []string) ([][]int, error) {
	return d.Transform(LinesSource{Lines: lines})
}

// TransformFile converts a corpus file line by line.
func (d *Dictionary) TransformFile(path string) ([][]int, error) {
	return d.Transform(FileSource{Path: path})
}

// FitTransform fits src in memory and converts it.
func (d *Dictionary) FitTransform(src Source) ([][]int, error) {
	if err := d.Fit(src, true); err != nil {
		return nil, err
	}
	return d.Transform(src)
}

// Encode converts a single document into word ids without logging.
func (d *Dictionary) Encode(doc string) ([]int, error) {
	if !d.Fitted() {
		return nil, ErrNotFitted
	}
	return d.encode(doc), nil
}

func (d *Dictionary) encode(line string) []int {
	words := d.docWords(line)
	ids := make([]int, 0, len(words))
	for _, w := range words {
		if id, ok := d.lookup(w); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
