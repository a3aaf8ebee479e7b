package retrieve

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fwojciec/wikirag"
)

// IndexTopic runs one acquisition pass for topic and returns the number of
// passages added to the index. Unlike the automatic expansion inside
// Retrieve, a failed article search is returned to the caller.
func (r *Retriever) IndexTopic(ctx context.Context, topic string) (int, error) {
	if topic == "" {
		return 0, wikirag.Errorf(wikirag.EINVALID, "topic required")
	}
	if r.source == nil {
		return 0, wikirag.Errorf(wikirag.EINVALID, "retriever has no article source")
	}

	logger := r.logger.With("ingest_id", uuid.NewString())
	titles, err := r.source.SearchArticles(ctx, topic)
	if err != nil {
		return 0, err
	}
	return r.ingestTitles(ctx, logger, titles)
}

// expand runs the single automatic acquisition pass for a query. Article
// search failures degrade gracefully: they are logged and leave the existing
// results standing. Embedding and index errors fail the query.
func (r *Retriever) expand(ctx context.Context, logger *slog.Logger, topic string) (int, error) {
	titles, err := r.source.SearchArticles(ctx, topic)
	if err != nil {
		logger.Warn("article search failed, continuing with indexed content",
			"topic", topic,
			"err", err,
		)
		return 0, nil
	}
	if len(titles) == 0 {
		logger.Info("no articles found", "topic", topic)
		return 0, nil
	}
	return r.ingestTitles(ctx, logger, titles)
}

// ingestTitles fetches articles concurrently, then chunks, embeds, and
// indexes them in search-rank order. Titles the guard already holds are
// skipped, so an article is acquired at most once per index lifetime; a
// failed fetch keeps its claim and is logged rather than retried. Passages
// added before an error stay in the index.
func (r *Retriever) ingestTitles(ctx context.Context, logger *slog.Logger, titles []string) (int, error) {
	var claimed []string
	seen := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		if r.guard.TestAndAdd(title) {
			continue
		}
		claimed = append(claimed, title)
	}
	if len(claimed) == 0 {
		logger.Info("all articles already indexed", "titles", len(titles))
		return 0, nil
	}

	articles := make([]*wikirag.Article, len(claimed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, title := range claimed {
		g.Go(func() error {
			article, err := r.source.FetchArticle(gctx, title)
			if err != nil {
				logger.Warn("article fetch failed", "title", title, "err", err)
				return nil
			}
			articles[i] = article
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	added := 0
	for _, article := range articles {
		if article == nil {
			continue
		}
		passages := wikirag.ChunkText(article.Content, article.Title, article.URL,
			r.cfg.ChunkSize, r.cfg.ChunkOverlap, r.cfg.MaxChunksPerArticle)
		if len(passages) == 0 {
			logger.Warn("article yielded no passages", "title", article.Title)
			continue
		}

		texts := make([]string, len(passages))
		for i, p := range passages {
			texts[i] = p.Text
		}
		vectors, err := r.embedder.EmbedPassages(ctx, texts)
		if err != nil {
			return added, err
		}
		if err := r.index.Add(vectors, passages); err != nil {
			return added, err
		}
		added += len(passages)
		logger.Info("article indexed", "title", article.Title, "passages", len(passages))
	}

	if added > 0 {
		if err := r.index.Save(); err != nil {
			return added, err
		}
	}
	return added, nil
}
