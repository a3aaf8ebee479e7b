package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/wikirag"
	main "github.com/fwojciec/wikirag/cmd/wikirag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMain(t *testing.T) {
	t.Run("uses WIKIRAG_DATA when set", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("WIKIRAG_DATA", dir)

		m := main.NewMain()

		assert.Equal(t, dir, m.DataDir)
	})

	t.Run("defaults to a .wikirag directory", func(t *testing.T) {
		t.Setenv("WIKIRAG_DATA", "")

		m := main.NewMain()

		assert.True(t, strings.HasSuffix(m.DataDir, ".wikirag"), "got %q", m.DataDir)
	})
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, args ...string) (*main.Main, *bytes.Buffer, *bytes.Buffer, error) {
		t.Helper()
		m := main.NewMain()
		m.DataDir = t.TempDir()
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), args, stdout, stderr)
		return m, stdout, stderr, err
	}

	t.Run("returns error when no command given", func(t *testing.T) {
		t.Parallel()

		_, stdout, _, err := run(t)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "Usage:")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		_, stdout, _, err := run(t, "--help")

		require.NoError(t, err)
		for _, name := range []string{"ask", "search", "index", "fetch", "stats", "clear"} {
			assert.Contains(t, stdout.String(), name)
		}
	})

	t.Run("rejects unknown commands", func(t *testing.T) {
		t.Parallel()

		_, _, _, err := run(t, "frobnicate")

		require.Error(t, err)
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		_, _, _, err := run(t, "stats", "--chunk-overlap=600")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "chunk overlap")
	})

	t.Run("reports stats for a fresh data directory", func(t *testing.T) {
		t.Parallel()

		_, stdout, _, err := run(t, "stats")

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Passages:  0")
		assert.Contains(t, stdout.String(), "Articles:  0")
		assert.Contains(t, stdout.String(), "Dimension: 768")
	})

	t.Run("resolves the command after global flags", func(t *testing.T) {
		t.Parallel()

		_, stdout, _, err := run(t, "--verbose", "stats")

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Passages:  0")
	})

	t.Run("clear requires force", func(t *testing.T) {
		t.Parallel()

		_, _, stderr, err := run(t, "clear")

		require.Error(t, err)
		assert.Equal(t, wikirag.EINVALID, wikirag.ErrorCode(err))
		assert.Contains(t, stderr.String(), "use --force")
	})

	t.Run("clear persists an empty snapshot", func(t *testing.T) {
		t.Parallel()

		m, stdout, _, err := run(t, "clear", "--force")

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Cleared 0 passages.")

		_, err = os.Stat(filepath.Join(m.DataDir, "index", "vectors.bin"))
		require.NoError(t, err)

		// A fresh process loads the snapshot instead of starting empty.
		m2 := main.NewMain()
		m2.DataDir = m.DataDir
		stdout2 := &bytes.Buffer{}
		err = m2.Run(context.Background(), []string{"stats"}, stdout2, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout2.String(), "Passages:  0")
	})

	t.Run("creates the data directory", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DataDir = filepath.Join(t.TempDir(), "nested", "wikirag")
		err := m.Run(context.Background(), []string{"stats"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(m.DataDir, "articles.db"))
		require.NoError(t, err)
	})
}

func TestMain_Run_RequiresAPIKey(t *testing.T) {
	for _, args := range [][]string{
		{"ask", "Who discovered Triton?"},
		{"search", "largest moon of Neptune"},
		{"index", "moons of Neptune"},
	} {
		t.Run(args[0], func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "")

			m := main.NewMain()
			m.DataDir = t.TempDir()
			stderr := &bytes.Buffer{}
			err := m.Run(context.Background(), args, &bytes.Buffer{}, stderr)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "GEMINI_API_KEY")
			assert.Contains(t, stderr.String(), "https://aistudio.google.com/apikey")
		})
	}
}
