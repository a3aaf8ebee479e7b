// Package bloom guards article ingestion against duplicate acquisition.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// TitleFilter tracks which article titles have been indexed or claimed for
// ingestion. False positives are possible and only cost a skipped fetch;
// false negatives are not, so an already-held title is never acquired twice.
// Safe for concurrent use.
type TitleFilter struct {
	mu sync.Mutex
	f  *bloom.BloomFilter
}

// NewTitleFilter creates a filter sized for n expected titles with the given
// false positive rate, seeded with the titles already indexed.
func NewTitleFilter(n uint, fpRate float64, titles []string) *TitleFilter {
	f := bloom.NewWithEstimates(n, fpRate)
	for _, title := range titles {
		f.AddString(title)
	}
	return &TitleFilter{f: f}
}

// Add marks a title as held.
func (tf *TitleFilter) Add(title string) {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.f.AddString(title)
}

// Test returns true if the title might already be held.
func (tf *TitleFilter) Test(title string) bool {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.f.TestString(title)
}

// TestAndAdd marks a title as held and returns true if it might have been
// held already. The test and the add happen under one lock, so concurrent
// callers can never both claim the same title.
func (tf *TitleFilter) TestAndAdd(title string) bool {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.f.TestAndAddString(title)
}

// EstimatedCount returns the approximate number of held titles.
func (tf *TitleFilter) EstimatedCount() uint {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return uint(tf.f.ApproximatedSize())
}
