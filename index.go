package wikirag

// Index stores passage vectors and serves exact similarity search.
//
// Implementations are safe for concurrent use. Vectors are L2-normalized on
// insert, so cosine similarity reduces to an inner product at search time.
type Index interface {
	// Add appends passages with their vectors; row i of vectors belongs to
	// passages[i]. Returns EDIMENSION when a vector has the wrong
	// dimensionality and EINVALID on malformed input. On error the index is
	// unchanged.
	Add(vectors [][]float32, passages []Passage) error

	// Search returns the k passages most similar to query, highest score
	// first. Ties keep insertion order. k is clamped to the index size; an
	// empty index yields no results.
	Search(query []float32, k int) ([]SearchResult, error)

	// Save persists a snapshot of the current state.
	Save() error

	// Load replaces the in-memory state with the persisted snapshot.
	// Returns ENOTFOUND when no snapshot exists and ECORRUPT when the
	// snapshot fails verification.
	Load() error

	// Clear removes all passages. The persisted snapshot is untouched until
	// the next Save.
	Clear() error

	// Stats reports passage and distinct-article counts.
	Stats() IndexStats

	// Titles returns the distinct article titles currently indexed.
	Titles() []string
}
