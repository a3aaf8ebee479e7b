package wikirag

import "time"

// Passage represents a chunk of article text prepared for embedding and
// retrieval. StartPos and EndPos are byte offsets into the source article
// text. Passages are immutable once created; the JSON field names double as
// the persisted metadata format.
type Passage struct {
	Text     string `json:"text"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	ChunkID  int    `json:"chunk_id"`
	StartPos int    `json:"start_pos"`
	EndPos   int    `json:"end_pos"`
}

// Validate returns an error if the passage contains invalid fields.
func (p *Passage) Validate() error {
	if p.Text == "" {
		return Errorf(EINVALID, "passage text required")
	}
	if p.Title == "" {
		return Errorf(EINVALID, "passage title required")
	}
	if p.ChunkID < 0 {
		return Errorf(EINVALID, "passage chunk ID must not be negative")
	}
	if p.StartPos < 0 || p.StartPos >= p.EndPos {
		return Errorf(EINVALID, "passage positions invalid: start=%d end=%d", p.StartPos, p.EndPos)
	}
	return nil
}

// SearchResult pairs a passage with its similarity to a query.
// Score is cosine similarity in [-1, 1]; higher is more similar.
type SearchResult struct {
	Passage Passage `json:"passage"`
	Score   float64 `json:"score"`
}

// Article represents a fetched encyclopedia article.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Content     string    `json:"content"`
	ContentHash string    `json:"content_hash"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.Title == "" {
		return Errorf(EINVALID, "article title required")
	}
	if a.Content == "" {
		return Errorf(EINVALID, "article content required")
	}
	return nil
}

// IndexStats describes the contents of an index.
type IndexStats struct {
	// Passages is the total number of stored records.
	Passages int `json:"passages"`

	// Articles is the number of distinct article titles.
	Articles int `json:"articles"`
}
