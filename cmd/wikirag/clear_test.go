package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/wikirag"
	main "github.com/fwojciec/wikirag/cmd/wikirag"
	"github.com/fwojciec/wikirag/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires force", func(t *testing.T) {
		t.Parallel()

		cleared := false
		index := &mock.Index{
			ClearFn: func() error {
				cleared = true
				return nil
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Index:  index,
		}

		cmd := &main.ClearCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, wikirag.EINVALID, wikirag.ErrorCode(err))
		assert.Contains(t, stderr.String(), "use --force")
		assert.False(t, cleared)
	})

	t.Run("clears and persists", func(t *testing.T) {
		t.Parallel()

		cleared, saved := false, false
		index := &mock.Index{
			StatsFn: func() wikirag.IndexStats {
				return wikirag.IndexStats{Passages: 3, Articles: 1}
			},
			ClearFn: func() error {
				cleared = true
				return nil
			},
			SaveFn: func() error {
				saved = true
				return nil
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Index:  index,
		}

		cmd := &main.ClearCmd{Force: true}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.True(t, cleared)
		assert.True(t, saved)
		assert.Contains(t, stdout.String(), "Cleared 3 passages.")
	})

	t.Run("surfaces save errors", func(t *testing.T) {
		t.Parallel()

		index := &mock.Index{
			StatsFn: func() wikirag.IndexStats {
				return wikirag.IndexStats{}
			},
			ClearFn: func() error {
				return nil
			},
			SaveFn: func() error {
				return wikirag.Errorf(wikirag.EINTERNAL, "disk full")
			},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Index:  index,
		}

		cmd := &main.ClearCmd{Force: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error: disk full")
	})
}
