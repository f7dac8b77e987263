// Package sampler implements frequent-word sub-sampling for word2vec-style
// training. Each id gets a keep threshold derived from its relative
// frequency; a word is discarded when a uniform draw exceeds it.
package sampler

import (
	"math"
	"slices"

	"golang.org/x/exp/rand"
)

// DefaultSeed is the seed used when no source is supplied.
const DefaultSeed uint64 = 7

type options struct {
	src rand.Source
}

// Option configures a DiscardSampler.
type Option func(*options)

// WithSeed seeds the sampler's private generator.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.src = rand.NewSource(seed) }
}

// WithSource sets the generator source directly.
func WithSource(src rand.Source) Option {
	return func(o *options) { o.src = src }
}

// DiscardSampler decides which word occurrences to drop.
// It is not safe for concurrent use.
type DiscardSampler struct {
	sampleT float64
	rnd     *rand.Rand
	table   []float64
}

// New returns a sampler with threshold sampleT. A threshold of 0 (or
// below) disables discarding.
func New(sampleT float64, optFns ...Option) *DiscardSampler {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.src == nil {
		opts.src = rand.NewSource(DefaultSeed)
	}
	return &DiscardSampler{
		sampleT: math.Max(sampleT, 0),
		rnd:     rand.New(opts.src),
	}
}

// SampleT returns the sub-sampling threshold.
func (s *DiscardSampler) SampleT() float64 { return s.sampleT }

// Enabled reports whether Discard can ever return true.
func (s *DiscardSampler) Enabled() bool { return s.sampleT > 0 }

// BuildTable computes the per-id keep thresholds sqrt(t/f) + t/f, where f is
// the id's share of all occurrences. Ids with zero frequency get +Inf and
// are never discarded.
func (s *DiscardSampler) BuildTable(id2freq []int64) {
	var total int64
	for _, f := range id2freq {
		total += f
	}

	s.table = make([]float64, len(id2freq))
	for id, freq := range id2freq {
		if freq <= 0 || total == 0 {
			s.table[id] = math.Inf(1)
			continue
		}
		ratio := s.sampleT / (float64(freq) / float64(total))
		s.table[id] = math.Sqrt(ratio) + ratio
	}
}

// Table returns a copy of the keep thresholds.
func (s *DiscardSampler) Table() []float64 { return slices.Clone(s.table) }

// Discard reports whether this occurrence of id should be dropped. Each call
// consumes exactly one draw unless the sampler is disabled. Ids outside the
// table are kept.
func (s *DiscardSampler) Discard(id int) bool {
	if !s.Enabled() {
		return false
	}
	draw := s.rnd.Float64()
	if id < 0 || id >= len(s.table) {
		return false
	}
	return draw > s.table[id]
}

// Filter returns the ids of seq that survive sub-sampling, in order.
// seq itself is not modified.
func (s *DiscardSampler) Filter(seq []int) []int {
	if !s.Enabled() {
		return slices.Clone(seq)
	}
	kept := make([]int, 0, len(seq))
	for _, id := range seq {
		if !s.Discard(id) {
			kept = append(kept, id)
		}
	}
	return kept
}
