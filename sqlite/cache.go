package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/wikirag"
)

// Compile-time interface verification.
var _ wikirag.ArticleCache = (*Cache)(nil)

// Cache implements wikirag.ArticleCache using SQLite. Articles are keyed by
// title; storing a title again replaces the previous row.
type Cache struct {
	db *DB
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db}
}

// GetArticle returns the cached article for title.
func (c *Cache) GetArticle(ctx context.Context, title string) (*wikirag.Article, error) {
	if title == "" {
		return nil, wikirag.Errorf(wikirag.EINVALID, "article title required")
	}

	var article wikirag.Article
	var fetchedAt string

	err := c.db.QueryRowContext(ctx, `
		SELECT title, url, content, content_hash, fetched_at
		FROM articles
		WHERE title = ?
	`, title).Scan(&article.Title, &article.URL, &article.Content, &article.ContentHash, &fetchedAt)

	if err == sql.ErrNoRows {
		return nil, wikirag.Errorf(wikirag.ENOTFOUND, "article %q not cached", title)
	}
	if err != nil {
		return nil, err
	}

	article.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at")
	if err != nil {
		return nil, err
	}

	return &article, nil
}

// PutArticle stores or replaces the cached article.
func (c *Cache) PutArticle(ctx context.Context, article *wikirag.Article) error {
	if article == nil {
		return wikirag.Errorf(wikirag.EINVALID, "article required")
	}
	if err := article.Validate(); err != nil {
		return err
	}

	fetchedAt := article.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO articles (title, url, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			url = excluded.url,
			content = excluded.content,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
	`, article.Title, article.URL, article.Content, article.ContentHash, fetchedAt.Format(time.RFC3339))

	return err
}
