// Package bloom provides source deduplication using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter wraps a Bloom filter for source key deduplication.
// It is safe for concurrent use by multiple goroutines.
type Filter struct {
	mu sync.RWMutex
	f  *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a source key to the filter.
func (f *Filter) Add(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.f.AddString(key)
}

// Test returns true if the source key might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(key)
}

// EstimatedCount returns the approximate number of items in the filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}
