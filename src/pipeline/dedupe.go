package pipeline

import (
	"github.com/bits-and-blooms/bloom/v3"
)

const (
	DefaultDedupeCapacity = 1_000_000
	DefaultDedupeFPRate   = 1e-6
)

// Deduper remembers tweet ids in a Bloom filter so redelivered tweets can be
// skipped. A false positive drops a genuine tweet, so keep fpRate small.
type Deduper struct {
	filter *bloom.BloomFilter
	seen   int
}

// NewDeduper sizes the filter for capacity ids at the given false positive rate.
func NewDeduper(capacity uint, fpRate float64) *Deduper {
	if capacity == 0 {
		capacity = DefaultDedupeCapacity
	}
	if fpRate <= 0 || fpRate >= 1 {
		fpRate = DefaultDedupeFPRate
	}
	return &Deduper{filter: bloom.NewWithEstimates(capacity, fpRate)}
}

// Seen reports whether id was recorded before and records it.
// Empty ids are never considered duplicates.
func (d *Deduper) Seen(id string) bool {
	if id == "" {
		return false
	}
	if d.filter.TestOrAddString(id) {
		return true
	}
	d.seen++
	return false
}

// Distinct returns how many distinct ids have been recorded.
func (d *Deduper) Distinct() int {
	return d.seen
}
