package retrieve_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/wikirag"
	"github.com/fwojciec/wikirag/flat"
	"github.com/fwojciec/wikirag/mock"
)

func moonArticle(title string) *wikirag.Article {
	return &wikirag.Article{
		Title:   title,
		URL:     "https://en.wikipedia.org/wiki/" + title,
		Content: fmt.Sprintf("%s is a moon of Neptune.", title),
	}
}

func TestRetrieverRetrieve_Expansion(t *testing.T) {
	t.Parallel()

	t.Run("empty index with no matching articles yields empty result", func(t *testing.T) {
		t.Parallel()

		var searches, fetches atomic.Int64
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				searches.Add(1)
				return nil, nil
			},
			FetchArticleFn: func(context.Context, string) (*wikirag.Article, error) {
				fetches.Add(1)
				return nil, wikirag.Errorf(wikirag.ENOTFOUND, "no such article")
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), memIndex(t), src)

		results, err := r.Retrieve(context.Background(), "obscure topic")

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, int64(1), searches.Load())
		assert.Equal(t, int64(0), fetches.Load())
	})

	t.Run("expands the index exactly once per query", func(t *testing.T) {
		t.Parallel()

		var searches, fetches atomic.Int64
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				searches.Add(1)
				return []string{"Obscura"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				fetches.Add(1)
				return moonArticle(title), nil
			},
		}
		ix := diskIndex(t)
		// Ingested passages embed orthogonal to the query, so the refreshed
		// search still scores low and would invite another pass.
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0)), ix, src)

		results, err := r.Retrieve(context.Background(), "obscure topic")

		require.NoError(t, err)
		assert.Empty(t, results)
		assert.Equal(t, int64(1), searches.Load())
		assert.Equal(t, int64(1), fetches.Load())
		assert.Equal(t, 1, ix.Stats().Passages)
	})

	t.Run("ingest guard prevents refetching across queries", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Obscura"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				fetches.Add(1)
				return moonArticle(title), nil
			},
		}
		ix := diskIndex(t)
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0)), ix, src)

		_, err := r.Retrieve(context.Background(), "obscure topic")
		require.NoError(t, err)
		_, err = r.Retrieve(context.Background(), "obscure topic again")
		require.NoError(t, err)

		assert.Equal(t, int64(1), fetches.Load())
		assert.Equal(t, 1, ix.Stats().Passages)
	})

	t.Run("does not expand when the best score clears the threshold", func(t *testing.T) {
		t.Parallel()

		ix := memIndex(t)
		require.NoError(t, ix.Add(
			[][]float32{vecWithScore(0.9)},
			[]wikirag.Passage{passage("Triton", 0)},
		))
		var searches atomic.Int64
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				searches.Add(1)
				return []string{"Triton"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				return moonArticle(title), nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), ix, src)

		results, err := r.Retrieve(context.Background(), "triton")

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(0), searches.Load())
	})

	t.Run("article search failure degrades to existing results", func(t *testing.T) {
		t.Parallel()

		ix := memIndex(t)
		require.NoError(t, ix.Add(
			[][]float32{vecWithScore(0.55)},
			[]wikirag.Passage{passage("Proteus", 0)},
		))
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return nil, wikirag.Errorf(wikirag.EUNAVAILABLE, "api unreachable")
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), ix, src)

		results, err := r.Retrieve(context.Background(), "proteus")

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Proteus", results[0].Passage.Title)
	})

	t.Run("passage embedding failure fails the query", func(t *testing.T) {
		t.Parallel()

		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Larissa"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				return moonArticle(title), nil
			},
		}
		embedder := staticEmbedder(queryVec, nil)
		embedder.EmbedPassagesFn = func(context.Context, []string) ([][]float32, error) {
			return nil, wikirag.Errorf(wikirag.EEMBEDDING, "model offline")
		}
		r := newRetriever(t, testConfig(), embedder, memIndex(t), src)

		_, err := r.Retrieve(context.Background(), "larissa")

		assert.Equal(t, wikirag.EEMBEDDING, wikirag.ErrorCode(err))
	})

	t.Run("persist failure fails the query", func(t *testing.T) {
		t.Parallel()

		ix := &mock.Index{
			TitlesFn: func() []string { return nil },
			StatsFn:  func() wikirag.IndexStats { return wikirag.IndexStats{} },
			SearchFn: func([]float32, int) ([]wikirag.SearchResult, error) { return nil, nil },
			AddFn:    func([][]float32, []wikirag.Passage) error { return nil },
			SaveFn: func() error {
				return wikirag.Errorf(wikirag.EINTERNAL, "disk full")
			},
		}
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Despina"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				return moonArticle(title), nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0.9)), ix, src)

		_, err := r.Retrieve(context.Background(), "despina")

		assert.Equal(t, wikirag.EINTERNAL, wikirag.ErrorCode(err))
	})
}

func TestRetrieverIndexTopic(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty topic", func(t *testing.T) {
		t.Parallel()

		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), memIndex(t), &mock.ArticleSource{})

		_, err := r.IndexTopic(context.Background(), "")

		assert.Equal(t, wikirag.EINVALID, wikirag.ErrorCode(err))
	})

	t.Run("requires an article source", func(t *testing.T) {
		t.Parallel()

		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), memIndex(t), nil)

		_, err := r.IndexTopic(context.Background(), "moons")

		assert.Equal(t, wikirag.EINVALID, wikirag.ErrorCode(err))
	})

	t.Run("indexes and persists fetched articles", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "index")
		ix, err := flat.New(3, dir)
		require.NoError(t, err)
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Hydra", "Naiad"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				return moonArticle(title), nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0.9)), ix, src)

		added, err := r.IndexTopic(context.Background(), "moons")

		require.NoError(t, err)
		assert.Equal(t, 2, added)

		reopened, err := flat.New(3, dir)
		require.NoError(t, err)
		require.NoError(t, reopened.Load())
		assert.Equal(t, 2, reopened.Stats().Passages)
	})

	t.Run("surfaces article search failure", func(t *testing.T) {
		t.Parallel()

		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return nil, wikirag.Errorf(wikirag.EUNAVAILABLE, "api unreachable")
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), memIndex(t), src)

		_, err := r.IndexTopic(context.Background(), "moons")

		assert.Equal(t, wikirag.EUNAVAILABLE, wikirag.ErrorCode(err))
	})

	t.Run("returns zero when no articles match", func(t *testing.T) {
		t.Parallel()

		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return nil, nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, nil), memIndex(t), src)

		added, err := r.IndexTopic(context.Background(), "unheard of")

		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("skips titles already indexed", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Hydra", "Naiad"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				fetches.Add(1)
				return moonArticle(title), nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0.9)), diskIndex(t), src)

		first, err := r.IndexTopic(context.Background(), "moons")
		require.NoError(t, err)
		second, err := r.IndexTopic(context.Background(), "moons")
		require.NoError(t, err)

		assert.Equal(t, 2, first)
		assert.Zero(t, second)
		assert.Equal(t, int64(2), fetches.Load())
	})

	t.Run("deduplicates titles within a pass", func(t *testing.T) {
		t.Parallel()

		var fetches atomic.Int64
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Hydra", "Hydra", "Hydra"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				fetches.Add(1)
				return moonArticle(title), nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0.9)), diskIndex(t), src)

		added, err := r.IndexTopic(context.Background(), "hydra")

		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, int64(1), fetches.Load())
	})

	t.Run("continues past fetch failures", func(t *testing.T) {
		t.Parallel()

		ix := diskIndex(t)
		src := &mock.ArticleSource{
			SearchArticlesFn: func(context.Context, string) ([]string, error) {
				return []string{"Hydra", "Naiad"}, nil
			},
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				if title == "Hydra" {
					return nil, wikirag.Errorf(wikirag.EUNAVAILABLE, "timeout")
				}
				return moonArticle(title), nil
			},
		}
		r := newRetriever(t, testConfig(), staticEmbedder(queryVec, vecWithScore(0.9)), ix, src)

		added, err := r.IndexTopic(context.Background(), "moons")

		require.NoError(t, err)
		assert.Equal(t, 1, added)
		assert.Equal(t, []string{"Naiad"}, ix.Titles())
	})
}
