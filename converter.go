package wikirag

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean article HTML into Markdown text suitable
	// for chunking and embedding.
	Convert(html string) (string, error)
}
