// Package gemini implements embedding, answer generation and token counting
// on top of Google Gemini.
package gemini

import (
	"context"

	"github.com/fwojciec/wikirag"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// Task types the embedding model was trained with. Embedding queries and
// passages with matching task types improves retrieval quality over using
// one representation for both.
const (
	taskTypeQuery   = "RETRIEVAL_QUERY"
	taskTypePassage = "RETRIEVAL_DOCUMENT"
)

// Ensure Embedder implements wikirag.Embedder at compile time.
var _ wikirag.Embedder = (*Embedder)(nil)

// Embedder implements wikirag.Embedder using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
	model  string
	dim    int
}

// NewEmbedder creates an Embedder producing vectors with dim dimensions.
func NewEmbedder(client *genai.Client, dim int) (*Embedder, error) {
	if client == nil {
		return nil, wikirag.Errorf(wikirag.EINVALID, "genai client required")
	}
	if dim <= 0 {
		return nil, wikirag.Errorf(wikirag.EINVALID, "embedding dimension must be positive, got %d", dim)
	}
	return &Embedder{client: client, model: embeddingModel, dim: dim}, nil
}

// EmbedQuery embeds a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if query == "" {
		return nil, wikirag.Errorf(wikirag.EINVALID, "query required")
	}

	vectors, err := e.embed(ctx, []string{query}, taskTypeQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedPassages embeds passage texts in a single batch call. The returned
// vectors are positionally aligned with texts.
func (e *Embedder) EmbedPassages(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, wikirag.Errorf(wikirag.EINVALID, "passage %d is empty", i)
		}
	}

	return e.embed(ctx, texts, taskTypePassage)
}

// Dimension returns the dimensionality of produced vectors.
func (e *Embedder) Dimension() int {
	return e.dim
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	dim := int32(e.dim)
	config := &genai.EmbedContentConfig{
		TaskType:             taskType,
		OutputDimensionality: &dim,
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, config)
	if err != nil {
		return nil, wikirag.Errorf(wikirag.EEMBEDDING, "embedding failed: %v", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		got := 0
		if result != nil {
			got = len(result.Embeddings)
		}
		return nil, wikirag.Errorf(wikirag.EEMBEDDING, "embedding returned %d vectors for %d texts", got, len(texts))
	}

	vectors := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, wikirag.Errorf(wikirag.EEMBEDDING, "embedding %d is empty", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
