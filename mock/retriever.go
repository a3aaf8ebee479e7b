package mock

import (
	"context"

	"github.com/fwojciec/wikirag"
)

var (
	_ wikirag.Retriever = (*Retriever)(nil)
	_ wikirag.Indexer   = (*Indexer)(nil)
)

// Retriever is a mock implementation of wikirag.Retriever.
type Retriever struct {
	RetrieveFn func(ctx context.Context, query string) ([]wikirag.SearchResult, error)
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]wikirag.SearchResult, error) {
	return r.RetrieveFn(ctx, query)
}

// Indexer is a mock implementation of wikirag.Indexer.
type Indexer struct {
	IndexTopicFn func(ctx context.Context, topic string) (int, error)
}

func (ix *Indexer) IndexTopic(ctx context.Context, topic string) (int, error) {
	return ix.IndexTopicFn(ctx, topic)
}
