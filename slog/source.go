// Package slog provides logging decorators for the root service interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikirag"
)

// Ensure LoggingSource implements wikirag.ArticleSource.
var _ wikirag.ArticleSource = (*LoggingSource)(nil)

// LoggingSource wraps an ArticleSource with operation logging.
type LoggingSource struct {
	next   wikirag.ArticleSource
	logger *slog.Logger
}

// NewLoggingSource creates a new LoggingSource.
func NewLoggingSource(next wikirag.ArticleSource, logger *slog.Logger) *LoggingSource {
	return &LoggingSource{next: next, logger: logger}
}

// SearchArticles delegates to the wrapped source and logs the operation.
func (s *LoggingSource) SearchArticles(ctx context.Context, topic string) (titles []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("article search",
			"topic", topic,
			"count", len(titles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchArticles(ctx, topic)
}

// FetchArticle delegates to the wrapped source and logs the operation.
func (s *LoggingSource) FetchArticle(ctx context.Context, title string) (article *wikirag.Article, err error) {
	defer func(begin time.Time) {
		size := 0
		if article != nil {
			size = len(article.Content)
		}
		s.logger.Info("article fetch",
			"title", title,
			"bytes", size,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchArticle(ctx, title)
}
