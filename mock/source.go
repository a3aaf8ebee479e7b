package mock

import (
	"context"

	"github.com/fwojciec/wikirag"
)

var _ wikirag.ArticleSource = (*ArticleSource)(nil)

// ArticleSource is a mock implementation of wikirag.ArticleSource.
type ArticleSource struct {
	SearchArticlesFn func(ctx context.Context, topic string) ([]string, error)
	FetchArticleFn   func(ctx context.Context, title string) (*wikirag.Article, error)
}

func (s *ArticleSource) SearchArticles(ctx context.Context, topic string) ([]string, error) {
	return s.SearchArticlesFn(ctx, topic)
}

func (s *ArticleSource) FetchArticle(ctx context.Context, title string) (*wikirag.Article, error) {
	return s.FetchArticleFn(ctx, title)
}
