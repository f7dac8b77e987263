package doctor_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-wordvocab/internal/doctor"
	"github.com/example/go-wordvocab/internal/testutil"
)

func baseConfig() doctor.Config {
	return doctor.Config{MaxSentenceLength: 1000}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func hasFailureContaining(failures []string, sub string) bool {
	for _, f := range failures {
		if strings.Contains(strings.ToLower(f), strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// all-pass scenario
// ---------------------------------------------------------------------------

func TestRun_AllChecksPass(t *testing.T) {
	cfg := baseConfig()
	cfg.CorpusPath = testutil.WriteDocCorpus(t, t.TempDir())
	cfg.VocabPath = writeFile(t, "vocab.tsv", "the\t10\nof\t7\ncat\t2\n")
	cfg.Normalize = "nfkc"

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected all checks to pass; failures: %v", result.Failures())
	}

	for _, want := range []string{"corpus file", "vocab file", "3 words", "nfkc"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output should mention %q:\n%s", want, out.String())
		}
	}

	if strings.Contains(out.String(), doctor.FailMark) {
		t.Errorf("output should contain no fail marks:\n%s", out.String())
	}
}

func TestRun_EmptyPathsAreSkipped(t *testing.T) {
	var out strings.Builder
	result := doctor.Run(baseConfig(), &out)

	if result.Failed() {
		t.Errorf("expected no failures; got %v", result.Failures())
	}

	if strings.Count(out.String(), "skipped") != 2 {
		t.Errorf("expected two skipped checks:\n%s", out.String())
	}
}

// ---------------------------------------------------------------------------
// corpus failures
// ---------------------------------------------------------------------------

func TestRun_CorpusFailures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.txt") }},
		{"directory", func(t *testing.T) string { return t.TempDir() }},
		{"empty", func(t *testing.T) string { return writeFile(t, "empty.txt", "") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.CorpusPath = tt.path(t)

			var out strings.Builder
			result := doctor.Run(cfg, &out)

			if !result.Failed() {
				t.Fatal("expected failure")
			}

			if !hasFailureContaining(result.Failures(), "corpus") {
				t.Errorf("expected failure mentioning corpus, got: %v", result.Failures())
			}

			if !strings.Contains(out.String(), doctor.FailMark) {
				t.Errorf("output should contain fail mark:\n%s", out.String())
			}
		})
	}
}

// ---------------------------------------------------------------------------
// vocab failures
// ---------------------------------------------------------------------------

func TestRun_VocabFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing tab", "the 10\n"},
		{"bad frequency", "the\tten\n"},
		{"not sorted", "a\t1\nb\t5\n"},
		{"duplicate", "a\t5\na\t3\n"},
		{"zero frequency", "a\t0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			cfg.VocabPath = writeFile(t, "vocab.tsv", tt.content)

			var out strings.Builder
			result := doctor.Run(cfg, &out)

			if !hasFailureContaining(result.Failures(), "vocab") {
				t.Errorf("expected failure mentioning vocab, got: %v", result.Failures())
			}
		})
	}
}

func TestRun_VocabMissing(t *testing.T) {
	cfg := baseConfig()
	cfg.VocabPath = "/nonexistent/vocab.tsv"

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "vocab") {
		t.Errorf("expected failure mentioning vocab, got: %v", result.Failures())
	}
}

func TestRun_VocabWithTrailingMarker(t *testing.T) {
	cfg := baseConfig()
	cfg.VocabPath = writeFile(t, "vocab.tsv", "the\t10\nof\t7\n<unk>\t40\n")
	cfg.Replace = true
	cfg.ReplaceWord = "<unk>"

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if result.Failed() {
		t.Errorf("expected trailing marker to validate; failures: %v", result.Failures())
	}
}

// ---------------------------------------------------------------------------
// settings
// ---------------------------------------------------------------------------

func TestRun_InvalidNormalizeForm(t *testing.T) {
	cfg := baseConfig()
	cfg.Normalize = "nfx"

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "normalize") {
		t.Errorf("expected failure mentioning normalize, got: %v", result.Failures())
	}
}

func TestRun_NonPositiveMaxSentenceLength(t *testing.T) {
	cfg := baseConfig()
	cfg.MaxSentenceLength = 0

	var out strings.Builder
	result := doctor.Run(cfg, &out)

	if !hasFailureContaining(result.Failures(), "max sentence length") {
		t.Errorf("expected failure mentioning max sentence length, got: %v", result.Failures())
	}
}

func TestResult_AddFailure(t *testing.T) {
	var r doctor.Result
	if r.Failed() {
		t.Fatal("zero Result should not be failed")
	}

	r.AddFailure("external check")
	if !r.Failed() || len(r.Failures()) != 1 {
		t.Errorf("AddFailure not recorded: %v", r.Failures())
	}
}
