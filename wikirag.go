// Package wikirag provides a self-expanding retrieval subsystem over
// encyclopedia articles. It splits article text into overlapping,
// sentence-aware passages, indexes passage embeddings for exact
// cosine-similarity search, and answers natural language queries with the
// most relevant passages, acquiring and indexing new articles on demand
// when the existing index cannot answer with enough confidence.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or function (e.g., flat/, gemini/,
// wikipedia/, sqlite/).
package wikirag
