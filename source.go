package wikirag

import "context"

// ArticleSource finds and fetches encyclopedia articles.
type ArticleSource interface {
	// SearchArticles returns titles of articles relevant to topic, best
	// match first.
	SearchArticles(ctx context.Context, topic string) ([]string, error)

	// FetchArticle retrieves the article with the given title.
	// Returns ENOTFOUND if no such article exists.
	FetchArticle(ctx context.Context, title string) (*Article, error)
}
