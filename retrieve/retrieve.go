// Package retrieve implements the adaptive retrieval orchestrator.
// It coordinates query embedding, index search, diversity filtering,
// similarity thresholds, and on-demand index growth.
package retrieve

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fwojciec/wikirag"
	"github.com/fwojciec/wikirag/bloom"
)

// Ensure Retriever implements the root interfaces at compile time.
var (
	_ wikirag.Retriever = (*Retriever)(nil)
	_ wikirag.Indexer   = (*Retriever)(nil)
)

const (
	// candidateFactor widens the first-pass search so the diversity filter
	// has spare candidates to backfill from.
	candidateFactor = 2

	// relaxDelta and relaxFloor bound the one-shot threshold relaxation.
	relaxDelta = 0.15
	relaxFloor = 0.5

	// Ingest guard sizing.
	guardExpectedTitles    = 100000
	guardFalsePositiveRate = 0.01

	// fetchConcurrency bounds parallel article fetches during ingestion.
	fetchConcurrency = 4
)

// Retriever answers similarity queries over a passage index and grows the
// index from an article source when coverage for a query looks poor.
type Retriever struct {
	cfg      wikirag.Config
	embedder wikirag.Embedder
	index    wikirag.Index
	source   wikirag.ArticleSource
	guard    *bloom.TitleFilter
	logger   *slog.Logger
}

// New creates a Retriever. A nil source disables automatic index growth.
// The ingest guard is seeded from the titles already indexed, so the index
// should be loaded before the retriever is constructed.
func New(cfg wikirag.Config, embedder wikirag.Embedder, index wikirag.Index, source wikirag.ArticleSource, logger *slog.Logger) (*Retriever, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, wikirag.Errorf(wikirag.EINVALID, "embedder required")
	}
	if index == nil {
		return nil, wikirag.Errorf(wikirag.EINVALID, "index required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		cfg:      cfg,
		embedder: embedder,
		index:    index,
		source:   source,
		guard:    bloom.NewTitleFilter(guardExpectedTitles, guardFalsePositiveRate, index.Titles()),
		logger:   logger,
	}, nil
}

// Retrieve returns up to TopK passages relevant to query, best first.
//
// The index is searched wide and filtered so no single article dominates the
// results. When the index is empty or the best match falls below the
// auto-index threshold, one acquisition pass expands the index followed by a
// single re-search; the pass never repeats, whatever its outcome. Results
// under the similarity floor are cut, with one relaxation when the strict
// cut would discard everything. An empty result with a nil error means no
// sufficiently relevant content exists.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]wikirag.SearchResult, error) {
	if query == "" {
		return nil, wikirag.Errorf(wikirag.EINVALID, "query required")
	}

	logger := r.logger.With("retrieval_id", uuid.NewString())

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	accepted, err := r.searchDiverse(vector)
	if err != nil {
		return nil, err
	}

	if r.shouldExpand(accepted) {
		added, err := r.expand(ctx, logger, query)
		if err != nil {
			return nil, err
		}
		if added > 0 {
			accepted, err = r.searchDiverse(vector)
			if err != nil {
				return nil, err
			}
		}
	}

	results := r.applyThreshold(logger, accepted)
	logger.Info("retrieval finished",
		"candidates", len(accepted),
		"results", len(results),
	)
	return results, nil
}

// searchDiverse runs the wide first-pass search and walks candidates in
// descending score order, capping how many results one article contributes.
func (r *Retriever) searchDiverse(vector []float32) ([]wikirag.SearchResult, error) {
	candidates, err := r.index.Search(vector, r.cfg.TopK*candidateFactor)
	if err != nil {
		return nil, err
	}

	perTitle := make(map[string]int)
	var accepted []wikirag.SearchResult
	for _, cand := range candidates {
		if len(accepted) >= r.cfg.TopK {
			break
		}
		if perTitle[cand.Passage.Title] >= r.cfg.MaxPerArticle {
			continue
		}
		perTitle[cand.Passage.Title]++
		accepted = append(accepted, cand)
	}
	return accepted, nil
}

// shouldExpand reports whether an acquisition pass is warranted: the index
// holds nothing, or the best accepted score falls short of the auto-index
// threshold. A retriever without a source never expands.
func (r *Retriever) shouldExpand(accepted []wikirag.SearchResult) bool {
	if r.source == nil {
		return false
	}
	if r.index.Stats().Passages == 0 {
		return true
	}
	return len(accepted) == 0 || accepted[0].Score < r.cfg.AutoIndexThreshold
}

// applyThreshold cuts results below the similarity floor. When the strict
// cut discards everything it relaxes once and re-applies; the relaxed cut
// may still come up empty.
func (r *Retriever) applyThreshold(logger *slog.Logger, accepted []wikirag.SearchResult) []wikirag.SearchResult {
	strict := cut(accepted, r.cfg.MinSimilarity)
	if len(strict) > 0 || len(accepted) == 0 {
		return strict
	}

	relaxed := r.cfg.MinSimilarity - relaxDelta
	if relaxed < relaxFloor {
		relaxed = relaxFloor
	}
	logger.Info("relaxing similarity threshold",
		"strict", r.cfg.MinSimilarity,
		"relaxed", relaxed,
	)
	return cut(accepted, relaxed)
}

func cut(results []wikirag.SearchResult, threshold float64) []wikirag.SearchResult {
	var kept []wikirag.SearchResult
	for _, res := range results {
		if res.Score >= threshold {
			kept = append(kept, res)
		}
	}
	return kept
}
