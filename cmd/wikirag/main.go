package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/wikirag"
	"github.com/fwojciec/wikirag/flat"
	"github.com/fwojciec/wikirag/gemini"
	"github.com/fwojciec/wikirag/htmltomarkdown"
	"github.com/fwojciec/wikirag/retrieve"
	wikislog "github.com/fwojciec/wikirag/slog"
	"github.com/fwojciec/wikirag/sqlite"
	"github.com/fwojciec/wikirag/trafilatura"
	"github.com/fwojciec/wikirag/wikipedia"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Data directory holding the index snapshot and the article cache.
	// Set before calling Run().
	DataDir string

	// SQLite database backing the article cache.
	DB *sqlite.DB

	// Passage index, exposed for end-to-end testing.
	Index wikirag.Index
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DataDir: defaultDataDir(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wikirag"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wikirag --help' to see available commands")
	}

	if arg := args[0]; arg == "help" || arg == "--help" || arg == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Global flags may precede the command, so resolve it from the parse.
	cmd, _, _ := strings.Cut(kongCtx.Command(), " ")

	cfg := cli.config()
	if err := cfg.Validate(); err != nil {
		return err
	}
	deps.Config = cfg

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelInfo
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if err := os.MkdirAll(m.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %q: %w", m.DataDir, err)
	}

	// Load the persisted index. A missing snapshot means a first run; a bad
	// one only blocks commands that keep it.
	index, err := flat.New(cfg.EmbeddingDim, filepath.Join(m.DataDir, "index"))
	if err != nil {
		return err
	}
	if err := index.Load(); err != nil {
		switch {
		case wikirag.ErrorCode(err) == wikirag.ENOTFOUND:
		case cmd == "clear":
		default:
			if wikirag.ErrorCode(err) == wikirag.ECORRUPT {
				fmt.Fprintln(stderr, "Hint: the index snapshot is unreadable. Run 'wikirag clear --force' to reset it.")
			}
			return fmt.Errorf("failed to load index from %q: %w", m.DataDir, err)
		}
	}
	m.Index = index
	deps.Index = index

	// Open the article cache database
	dbPath := filepath.Join(m.DataDir, "articles.db")
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set WIKIRAG_DATA to use a different data directory\n")
		return fmt.Errorf("failed to open article cache at %q: %w", dbPath, err)
	}
	defer m.Close()

	// Wire command-specific dependencies based on command
	if cmd == "ask" || cmd == "search" || cmd == "index" || cmd == "fetch" {
		source, err := wikipedia.New(htmltomarkdown.NewConverter(),
			wikipedia.WithExtractor(trafilatura.NewExtractor()),
			wikipedia.WithCache(sqlite.NewCache(m.DB), cacheMaxAge),
			wikipedia.WithLogger(deps.Logger),
		)
		if err != nil {
			return err
		}
		deps.Source = wikislog.NewLoggingSource(source, deps.Logger)
	}

	var client *genai.Client
	if cmd == "ask" || cmd == "search" || cmd == "index" {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		embedder, err := gemini.NewEmbedder(client, cfg.EmbeddingDim)
		if err != nil {
			return err
		}

		retriever, err := retrieve.New(cfg, embedder, index, deps.Source, deps.Logger)
		if err != nil {
			return err
		}
		deps.Retriever = wikislog.NewLoggingRetriever(retriever, deps.Logger)
		deps.Indexer = wikislog.NewLoggingIndexer(retriever, deps.Logger)
	}

	if cmd == "ask" {
		generator, err := gemini.NewGenerator(client)
		if err != nil {
			return err
		}
		deps.Generator = generator

		tokens, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		deps.Tokens = tokens
	}

	return kongCtx.Run(deps)
}

// tokenizerModel is used for token counting and matches the model
// gemini.NewGenerator answers with.
const tokenizerModel = "gemini-2.5-flash"

// cacheMaxAge bounds how long a cached article is served before acquisition
// refetches it.
const cacheMaxAge = 7 * 24 * time.Hour

func defaultDataDir() string {
	if dir := os.Getenv("WIKIRAG_DATA"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wikirag"
	}
	return filepath.Join(home, ".wikirag")
}
