package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wikirag"
)

// Ensure LoggingRetriever implements wikirag.Retriever.
var _ wikirag.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with operation logging.
type LoggingRetriever struct {
	next   wikirag.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next wikirag.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Retrieve delegates to the wrapped retriever and logs the operation.
func (r *LoggingRetriever) Retrieve(ctx context.Context, query string) (results []wikirag.SearchResult, err error) {
	defer func(begin time.Time) {
		best := 0.0
		if len(results) > 0 {
			best = results[0].Score
		}
		r.logger.Info("retrieval",
			"query", query,
			"results", len(results),
			"best", best,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Retrieve(ctx, query)
}

// Ensure LoggingIndexer implements wikirag.Indexer.
var _ wikirag.Indexer = (*LoggingIndexer)(nil)

// LoggingIndexer wraps an Indexer with operation logging.
type LoggingIndexer struct {
	next   wikirag.Indexer
	logger *slog.Logger
}

// NewLoggingIndexer creates a new LoggingIndexer.
func NewLoggingIndexer(next wikirag.Indexer, logger *slog.Logger) *LoggingIndexer {
	return &LoggingIndexer{next: next, logger: logger}
}

// IndexTopic delegates to the wrapped indexer and logs the operation.
func (i *LoggingIndexer) IndexTopic(ctx context.Context, topic string) (added int, err error) {
	defer func(begin time.Time) {
		i.logger.Info("topic indexing",
			"topic", topic,
			"added", added,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.IndexTopic(ctx, topic)
}
