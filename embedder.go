package wikirag

import "context"

// Embedder produces vector embeddings for queries and passages.
//
// Queries and passages are embedded asymmetrically: retrieval-tuned models
// distinguish the two roles, and similarity scores are only meaningful when a
// query vector is compared against passage vectors.
type Embedder interface {
	// EmbedQuery embeds a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedPassages embeds a batch of passages, preserving order.
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the dimensionality of the produced vectors.
	Dimension() int
}
