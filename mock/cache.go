package mock

import (
	"context"

	"github.com/fwojciec/wikirag"
)

var _ wikirag.ArticleCache = (*ArticleCache)(nil)

// ArticleCache is a mock implementation of wikirag.ArticleCache.
type ArticleCache struct {
	GetArticleFn func(ctx context.Context, title string) (*wikirag.Article, error)
	PutArticleFn func(ctx context.Context, article *wikirag.Article) error
}

func (c *ArticleCache) GetArticle(ctx context.Context, title string) (*wikirag.Article, error) {
	return c.GetArticleFn(ctx, title)
}

func (c *ArticleCache) PutArticle(ctx context.Context, article *wikirag.Article) error {
	return c.PutArticleFn(ctx, article)
}
