// Package testutil provides shared corpus fixtures and skip helpers for tests.
//
// The letter corpus repeats the k-th letter of the alphabet k times
// ("a b b c c c ... z"), so frequencies and pruning results are easy to
// predict: with a minimum count of 5 exactly the letters e..z survive.
//
// Typical usage:
//
//	func TestFit(t *testing.T) {
//	    path := testutil.WriteDocCorpus(t, t.TempDir())
//	    ...
//	}
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fixture file names written by the helpers below.
const (
	Text8LikeName = "text8-like.txt"
	DocCorpusName = "doc.txt"
)

// LetterWords returns the letter corpus as a flat word list.
func LetterWords() []string {
	var words []string
	for i := range 26 {
		w := string(rune('a' + i))
		for range i + 1 {
			words = append(words, w)
		}
	}
	return words
}

// LetterTotal returns the number of occurrences of the letters with
// frequency in [lo, hi] in the letter corpus.
func LetterTotal(lo, hi int) int64 {
	var sum int64
	for k := max(lo, 1); k <= min(hi, 26); k++ {
		sum += int64(k)
	}
	return sum
}

// WriteText8Like writes the letter corpus as a single line with a leading
// space and no trailing newline, the way text8 is laid out.
func WriteText8Like(tb testing.TB, dir string) string {
	tb.Helper()

	content := " " + strings.Join(append([]string{""}, LetterWords()...), " ")
	return writeFile(tb, filepath.Join(dir, Text8LikeName), content)
}

// WriteDocCorpus writes the letter corpus with one letter per line, every
// line preceded by an empty line and the file ending with an empty line:
//
//	""
//	"a"
//	""
//	"b b"
//	...
//	"z z ... z"
//	""
func WriteDocCorpus(tb testing.TB, dir string) string {
	tb.Helper()

	var sb strings.Builder
	for i := range 26 {
		w := string(rune('a' + i))
		sb.WriteByte('\n')
		sb.WriteString(strings.TrimSpace(strings.Repeat(w+" ", i+1)))
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	return writeFile(tb, filepath.Join(dir, DocCorpusName), sb.String())
}

// WriteCorpus writes content to name under dir and returns the path.
func WriteCorpus(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	return writeFile(tb, filepath.Join(dir, name), content)
}

// ReadLines returns the lines of path with their trailing newlines kept,
// like reading a file line by line in most scripting languages.
func ReadLines(tb testing.TB, path string) []string {
	tb.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}

	lines := strings.SplitAfter(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// RequireCorpus skips the test unless WORDVOCAB_TEST_CORPUS names a readable
// corpus file, and returns its path. Use it for tests on large real corpora
// such as text8.
func RequireCorpus(tb testing.TB) string {
	tb.Helper()

	path := os.Getenv("WORDVOCAB_TEST_CORPUS")
	if path == "" {
		tb.Skip("WORDVOCAB_TEST_CORPUS not set; skipping large-corpus test")
	}

	if _, err := os.Stat(path); err != nil {
		tb.Skipf("corpus not available at WORDVOCAB_TEST_CORPUS=%q: %v", path, err)
	}

	return path
}

func writeFile(tb testing.TB, path, content string) string {
	tb.Helper()

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}

	return path
}
