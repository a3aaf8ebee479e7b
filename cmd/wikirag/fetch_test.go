package main_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fwojciec/wikirag"
	main "github.com/fwojciec/wikirag/cmd/wikirag"
	"github.com/fwojciec/wikirag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints converted article content", func(t *testing.T) {
		t.Parallel()

		source := &mock.ArticleSource{
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				require.Equal(t, "Triton (moon)", title)
				return &wikirag.Article{
					Title:       "Triton (moon)",
					URL:         "https://en.wikipedia.org/wiki/Triton_(moon)",
					Content:     "Triton is the largest moon of Neptune.",
					ContentHash: "c0ffee00c0ffee00",
					FetchedAt:   time.Now().UTC(),
				}, nil
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: stderr,
			Source: source,
		}

		cmd := &main.FetchCmd{Title: "Triton (moon)"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Triton is the largest moon of Neptune.")
		assert.Contains(t, stderr.String(), "https://en.wikipedia.org/wiki/Triton_(moon)")
		assert.Contains(t, stderr.String(), "hash c0ffee00c0ffee00")
	})

	t.Run("surfaces fetch errors", func(t *testing.T) {
		t.Parallel()

		source := &mock.ArticleSource{
			FetchArticleFn: func(_ context.Context, title string) (*wikirag.Article, error) {
				return nil, wikirag.Errorf(wikirag.ENOTFOUND, "article %q not found", title)
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Source: source,
		}

		cmd := &main.FetchCmd{Title: "Planet Nine observations"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, wikirag.ENOTFOUND, wikirag.ErrorCode(err))
		assert.Contains(t, stderr.String(), `error: article "Planet Nine observations" not found`)
	})
}
