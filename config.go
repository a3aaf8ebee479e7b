package wikirag

// Config holds the tunable parameters of the retrieval subsystem. Components
// receive a Config at construction; there is no module-level state.
type Config struct {
	// ChunkSize is the target passage length in bytes.
	ChunkSize int `json:"chunk_size"`

	// ChunkOverlap is the number of bytes shared between consecutive passages.
	ChunkOverlap int `json:"chunk_overlap"`

	// MaxChunksPerArticle caps how many passages one article contributes to the index.
	MaxChunksPerArticle int `json:"max_chunks_per_article"`

	// EmbeddingDim is the dimensionality of passage and query embeddings.
	EmbeddingDim int `json:"embedding_dim"`

	// TopK is the maximum number of results a retrieval returns.
	TopK int `json:"top_k"`

	// MinSimilarity is the score below which results are discarded.
	MinSimilarity float64 `json:"min_similarity_threshold"`

	// AutoIndexThreshold is the best-result score below which new content is acquired.
	AutoIndexThreshold float64 `json:"auto_index_threshold"`

	// MaxPerArticle caps how many results one article contributes to a single retrieval.
	MaxPerArticle int `json:"max_per_article"`

	// MaxContextLength is the assembled context budget in bytes.
	MaxContextLength int `json:"max_context_length"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:           600,
		ChunkOverlap:        100,
		MaxChunksPerArticle: 15,
		EmbeddingDim:        768,
		TopK:                8,
		MinSimilarity:       0.6,
		AutoIndexThreshold:  0.8,
		MaxPerArticle:       3,
		MaxContextLength:    2000,
	}
}

// Validate returns an error if the configuration is not usable.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return Errorf(EINVALID, "chunk size must be positive")
	}
	if c.ChunkOverlap < 0 {
		return Errorf(EINVALID, "chunk overlap must not be negative")
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return Errorf(EINVALID, "chunk overlap %d must be smaller than chunk size %d", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxChunksPerArticle <= 0 {
		return Errorf(EINVALID, "max chunks per article must be positive")
	}
	if c.EmbeddingDim <= 0 {
		return Errorf(EINVALID, "embedding dimension must be positive")
	}
	if c.TopK <= 0 {
		return Errorf(EINVALID, "top k must be positive")
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return Errorf(EINVALID, "min similarity must be in [0, 1]")
	}
	if c.AutoIndexThreshold < 0 || c.AutoIndexThreshold > 1 {
		return Errorf(EINVALID, "auto index threshold must be in [0, 1]")
	}
	if c.MaxPerArticle <= 0 {
		return Errorf(EINVALID, "max per article must be positive")
	}
	if c.MaxContextLength <= 0 {
		return Errorf(EINVALID, "max context length must be positive")
	}
	return nil
}
