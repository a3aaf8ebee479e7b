package wikirag

import "context"

// ArticleCache stores fetched articles so re-indexing a title does not
// refetch its content.
type ArticleCache interface {
	// GetArticle returns the cached article for title.
	// Returns ENOTFOUND when the title is not cached.
	GetArticle(ctx context.Context, title string) (*Article, error)

	// PutArticle stores or replaces the cached article.
	PutArticle(ctx context.Context, article *Article) error
}
