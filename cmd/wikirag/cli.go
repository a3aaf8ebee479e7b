package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/wikirag"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Config    wikirag.Config
	Logger    *slog.Logger
	Index     wikirag.Index
	Source    wikirag.ArticleSource
	Retriever wikirag.Retriever
	Indexer   wikirag.Indexer
	Generator wikirag.Generator
	Tokens    wikirag.TokenCounter
}

// CLI defines the command-line interface structure for Kong. The global
// flags mirror wikirag.DefaultConfig.
type CLI struct {
	Verbose       bool    `short:"v" help:"Enable info-level logging"`
	ChunkSize     int     `default:"600" env:"WIKIRAG_CHUNK_SIZE" help:"Target passage length in bytes"`
	ChunkOverlap  int     `default:"100" env:"WIKIRAG_CHUNK_OVERLAP" help:"Bytes shared between consecutive passages"`
	MaxChunks     int     `default:"15" env:"WIKIRAG_MAX_CHUNKS" help:"Passage cap per article at indexing time"`
	Dimension     int     `default:"768" env:"WIKIRAG_DIMENSION" help:"Embedding dimensionality"`
	TopK          int     `default:"8" env:"WIKIRAG_TOP_K" help:"Maximum results per retrieval"`
	MinSimilarity float64 `default:"0.6" env:"WIKIRAG_MIN_SIMILARITY" help:"Score below which results are discarded"`
	AutoIndex     float64 `default:"0.8" env:"WIKIRAG_AUTO_INDEX" help:"Best-result score below which new articles are acquired"`
	MaxPerArticle int     `default:"3" env:"WIKIRAG_MAX_PER_ARTICLE" help:"Result cap per article in one retrieval"`
	MaxContext    int     `default:"2000" env:"WIKIRAG_MAX_CONTEXT" help:"Assembled context budget in bytes"`

	Ask    AskCmd    `cmd:"" help:"Answer a question from indexed articles"`
	Search SearchCmd `cmd:"" help:"Show the passages a query retrieves"`
	Index  IndexCmd  `cmd:"" help:"Fetch and index articles about a topic"`
	Fetch  FetchCmd  `cmd:"" help:"Fetch one article and print its converted text"`
	Stats  StatsCmd  `cmd:"" help:"Show index statistics"`
	Clear  ClearCmd  `cmd:"" help:"Remove all passages from the index"`
}

// config builds the retrieval configuration from the parsed global flags.
func (c *CLI) config() wikirag.Config {
	return wikirag.Config{
		ChunkSize:           c.ChunkSize,
		ChunkOverlap:        c.ChunkOverlap,
		MaxChunksPerArticle: c.MaxChunks,
		EmbeddingDim:        c.Dimension,
		TopK:                c.TopK,
		MinSimilarity:       c.MinSimilarity,
		AutoIndexThreshold:  c.AutoIndex,
		MaxPerArticle:       c.MaxPerArticle,
		MaxContextLength:    c.MaxContext,
	}
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	Question string `arg:"" help:"Question to answer"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Query to search for"`
}

// IndexCmd is the "index" subcommand.
type IndexCmd struct {
	Topic string `arg:"" help:"Topic to fetch articles about"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	Title string `arg:"" help:"Article title"`
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	Force bool `help:"Confirm clearing"`
}
