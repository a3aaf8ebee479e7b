package mock

import (
	"context"

	"github.com/fwojciec/wikirag"
)

var _ wikirag.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of wikirag.Embedder.
type Embedder struct {
	EmbedQueryFn    func(ctx context.Context, text string) ([]float32, error)
	EmbedPassagesFn func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionFn     func() int
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

func (e *Embedder) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedPassagesFn(ctx, texts)
}

func (e *Embedder) Dimension() int {
	return e.DimensionFn()
}
