// Package flat implements an exact cosine-similarity index over
// L2-normalized vectors, persisted as an atomic directory snapshot.
package flat

import (
	"math"
	"sort"
	"sync"

	"github.com/fwojciec/wikirag"
)

// Ensure Index implements wikirag.Index at compile time.
var _ wikirag.Index = (*Index)(nil)

// Index stores vectors row-aligned with passage metadata and scores queries
// by inner product over a full scan. Vectors are L2-normalized on insert, so
// the inner product is cosine similarity. Searches share the lock; Add,
// Save, Load and Clear take it exclusively.
type Index struct {
	mu       sync.RWMutex
	dim      int
	dir      string
	vectors  [][]float32
	passages []wikirag.Passage
}

// New creates an empty index for vectors of the given dimension. dir is the
// snapshot directory used by Save and Load; an empty dir makes the index
// memory-only.
func New(dim int, dir string) (*Index, error) {
	if dim <= 0 {
		return nil, wikirag.Errorf(wikirag.EINVALID, "index dimension must be positive, got %d", dim)
	}
	return &Index{dim: dim, dir: dir}, nil
}

// Add appends passages with their vectors. All input is validated before any
// mutation, so a failed Add leaves the index unchanged.
func (ix *Index) Add(vectors [][]float32, passages []wikirag.Passage) error {
	if len(vectors) != len(passages) {
		return wikirag.Errorf(wikirag.EINVALID, "got %d vectors for %d passages", len(vectors), len(passages))
	}
	if len(vectors) == 0 {
		return nil
	}

	normalized := make([][]float32, len(vectors))
	for i, vec := range vectors {
		if len(vec) != ix.dim {
			return wikirag.Errorf(wikirag.EDIMENSION, "vector %d has dimension %d, index expects %d", i, len(vec), ix.dim)
		}
		if err := passages[i].Validate(); err != nil {
			return err
		}
		unit, err := normalize(vec)
		if err != nil {
			return err
		}
		normalized[i] = unit
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.vectors = append(ix.vectors, normalized...)
	ix.passages = append(ix.passages, passages...)
	return nil
}

// Search returns the k passages most similar to query in descending score
// order. Ties keep insertion order. k larger than the index is clamped;
// a non-positive k or an empty index yields no results.
func (ix *Index) Search(query []float32, k int) ([]wikirag.SearchResult, error) {
	if len(query) != ix.dim {
		return nil, wikirag.Errorf(wikirag.EDIMENSION, "query has dimension %d, index expects %d", len(query), ix.dim)
	}
	unit, err := normalize(query)
	if err != nil {
		return nil, err
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.vectors) == 0 || k <= 0 {
		return nil, nil
	}

	results := make([]wikirag.SearchResult, len(ix.vectors))
	for i, vec := range ix.vectors {
		results[i] = wikirag.SearchResult{Passage: ix.passages[i], Score: dot(unit, vec)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Clear removes all records. The persisted snapshot is untouched until the
// next Save.
func (ix *Index) Clear() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.vectors = nil
	ix.passages = nil
	return nil
}

// Stats reports the number of stored passages and distinct article titles.
func (ix *Index) Stats() wikirag.IndexStats {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	titles := make(map[string]struct{}, len(ix.passages))
	for _, p := range ix.passages {
		titles[p.Title] = struct{}{}
	}
	return wikirag.IndexStats{Passages: len(ix.passages), Articles: len(titles)}
}

// Titles returns the distinct article titles in first-indexed order.
func (ix *Index) Titles() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	seen := make(map[string]struct{}, len(ix.passages))
	var titles []string
	for _, p := range ix.passages {
		if _, ok := seen[p.Title]; ok {
			continue
		}
		seen[p.Title] = struct{}{}
		titles = append(titles, p.Title)
	}
	return titles
}

// normalize returns a unit-length copy of vec. Norms accumulate in float64
// to limit rounding error.
func normalize(vec []float32) ([]float32, error) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return nil, wikirag.Errorf(wikirag.EINVALID, "zero-norm vector cannot be normalized")
	}
	inv := 1 / math.Sqrt(sum)
	unit := make([]float32, len(vec))
	for i, v := range vec {
		unit[i] = float32(float64(v) * inv)
	}
	return unit, nil
}

// dot computes the inner product of two equal-length vectors in float64.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
