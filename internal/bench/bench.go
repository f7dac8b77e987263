// Package bench provides benchmarking primitives for the wordvocab bench command.
package bench

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/example/go-wordvocab/internal/dictionary"
)

// ---------------------------------------------------------------------------
// Run result and stats
// ---------------------------------------------------------------------------

// RunResult holds the timing and corpus metadata for a single fit run.
type RunResult struct {
	Index       int
	Cold        bool // true for the first run (cold page cache)
	Duration    time.Duration
	Words       int64
	VocabSize   int
	WordsPerSec float64
}

// Stats holds aggregate timing statistics across all runs.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// The slice must be non-empty.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// ---------------------------------------------------------------------------
// Throughput helpers
// ---------------------------------------------------------------------------

// CalcThroughput returns words processed per second.
// Returns 0 if dur is zero to avoid division by zero.
func CalcThroughput(words int64, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	return float64(words) / dur.Seconds()
}

// MeanThroughput averages WordsPerSec over runs.
func MeanThroughput(runs []RunResult) float64 {
	if len(runs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range runs {
		sum += r.WordsPerSec
	}
	return sum / float64(len(runs))
}

// ---------------------------------------------------------------------------
// Fit runner
// ---------------------------------------------------------------------------

// FitFunc performs one fit and reports the number of words counted and the
// resulting vocabulary size.
type FitFunc func() (words int64, vocabSize int, err error)

// DictionaryFit returns a FitFunc that fits a fresh Dictionary on path.
func DictionaryFit(cfg dictionary.Config, path string, inMemory bool, opts ...dictionary.Option) FitFunc {
	return func() (int64, int, error) {
		d, err := dictionary.New(cfg, opts...)
		if err != nil {
			return 0, 0, err
		}
		if err := d.FitFile(path, inMemory); err != nil {
			return 0, 0, err
		}
		return d.NumWords(), d.NumVocab(), nil
	}
}

// Run calls fit n times and records each run. The first run is marked cold.
func Run(n int, fit FitFunc) ([]RunResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("runs must be positive, got %d", n)
	}

	runs := make([]RunResult, 0, n)
	for i := range n {
		start := time.Now()
		words, size, err := fit()
		elapsed := time.Since(start)
		if err != nil {
			return runs, fmt.Errorf("run %d: %w", i+1, err)
		}
		runs = append(runs, RunResult{
			Index:       i,
			Cold:        i == 0,
			Duration:    elapsed,
			Words:       words,
			VocabSize:   size,
			WordsPerSec: CalcThroughput(words, elapsed),
		})
	}
	return runs, nil
}

// Durations extracts the Duration of every run.
func Durations(runs []RunResult) []time.Duration {
	out := make([]time.Duration, len(runs))
	for i, r := range runs {
		out[i] = r.Duration
	}
	return out
}

// ---------------------------------------------------------------------------
// Throughput threshold gate
// ---------------------------------------------------------------------------

// CheckThroughputThreshold returns an error if meanWPS < minWPS.
// A threshold of 0 disables the gate.
func CheckThroughputThreshold(meanWPS, minWPS float64) error {
	if minWPS <= 0 {
		return nil
	}
	if meanWPS < minWPS {
		return fmt.Errorf("mean throughput %.0f words/s below threshold %.0f", meanWPS, minWPS)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Output formatters
// ---------------------------------------------------------------------------

// FormatTable writes a human-readable ASCII table of bench results to w.
func FormatTable(runs []RunResult, stats Stats, w io.Writer) {
	sb := &strings.Builder{}

	fmt.Fprintf(sb, "%-5s  %-5s  %10s  %12s  %8s  %12s\n", "Run", "Cold", "MS", "Words", "Vocab", "Words/s")
	fmt.Fprintln(sb, strings.Repeat("-", 64))

	for _, r := range runs {
		cold := ""
		if r.Cold {
			cold = "yes"
		}
		fmt.Fprintf(sb, "%-5d  %-5s  %10.1f  %12d  %8d  %12.0f\n",
			r.Index+1,
			cold,
			float64(r.Duration.Milliseconds()),
			r.Words,
			r.VocabSize,
			r.WordsPerSec,
		)
	}

	fmt.Fprintln(sb, strings.Repeat("-", 64))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (min)\n", "", "", float64(stats.Min.Milliseconds()))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (mean)\n", "", "", float64(stats.Mean.Milliseconds()))
	fmt.Fprintf(sb, "%-5s  %-5s  %10.1f  (max)\n", "", "", float64(stats.Max.Milliseconds()))

	fmt.Fprint(w, sb.String())
}

// jsonReport is the top-level JSON structure emitted by FormatJSON.
type jsonReport struct {
	Runs  []jsonRun `json:"runs"`
	Stats jsonStats `json:"stats"`
}

type jsonRun struct {
	Index       int     `json:"index"`
	Cold        bool    `json:"cold"`
	DurationMS  float64 `json:"duration_ms"`
	Words       int64   `json:"words"`
	VocabSize   int     `json:"vocab_size"`
	WordsPerSec float64 `json:"words_per_sec"`
}

type jsonStats struct {
	MinMS  float64 `json:"min_ms"`
	MeanMS float64 `json:"mean_ms"`
	MaxMS  float64 `json:"max_ms"`
}

// FormatJSON writes a JSON report of bench results to w.
func FormatJSON(runs []RunResult, stats Stats, w io.Writer) {
	jr := jsonReport{
		Runs: make([]jsonRun, len(runs)),
		Stats: jsonStats{
			MinMS:  float64(stats.Min.Milliseconds()),
			MeanMS: float64(stats.Mean.Milliseconds()),
			MaxMS:  float64(stats.Max.Milliseconds()),
		},
	}
	for i, r := range runs {
		jr.Runs[i] = jsonRun{
			Index:       r.Index,
			Cold:        r.Cold,
			DurationMS:  float64(r.Duration.Milliseconds()),
			Words:       r.Words,
			VocabSize:   r.VocabSize,
			WordsPerSec: r.WordsPerSec,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(jr)
}
