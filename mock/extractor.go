package mock

import "github.com/fwojciec/wikirag"

var _ wikirag.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of wikirag.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*wikirag.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*wikirag.ExtractResult, error) {
	return e.ExtractFn(html)
}
