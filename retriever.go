package wikirag

import "context"

// Retriever answers similarity queries over the passage index, expanding the
// index from an ArticleSource when coverage for the query looks poor.
type Retriever interface {
	// Retrieve returns passages relevant to query, best first. An empty
	// result with a nil error means nothing cleared the similarity cut.
	Retrieve(ctx context.Context, query string) ([]SearchResult, error)
}

// Indexer acquires content about a topic and adds it to the index.
type Indexer interface {
	// IndexTopic fetches articles about topic, indexes their passages, and
	// returns the number of passages added.
	IndexTopic(ctx context.Context, topic string) (int, error)
}
