package mock

import "github.com/fwojciec/wikirag"

var _ wikirag.Index = (*Index)(nil)

// Index is a mock implementation of wikirag.Index.
type Index struct {
	AddFn    func(vectors [][]float32, passages []wikirag.Passage) error
	SearchFn func(query []float32, k int) ([]wikirag.SearchResult, error)
	SaveFn   func() error
	LoadFn   func() error
	ClearFn  func() error
	StatsFn  func() wikirag.IndexStats
	TitlesFn func() []string
}

func (ix *Index) Add(vectors [][]float32, passages []wikirag.Passage) error {
	return ix.AddFn(vectors, passages)
}

func (ix *Index) Search(query []float32, k int) ([]wikirag.SearchResult, error) {
	return ix.SearchFn(query, k)
}

func (ix *Index) Save() error {
	return ix.SaveFn()
}

func (ix *Index) Load() error {
	return ix.LoadFn()
}

func (ix *Index) Clear() error {
	return ix.ClearFn()
}

func (ix *Index) Stats() wikirag.IndexStats {
	return ix.StatsFn()
}

func (ix *Index) Titles() []string {
	return ix.TitlesFn()
}
