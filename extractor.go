package wikirag

// ExtractResult holds the main content extracted from a full HTML page.
type ExtractResult struct {
	// Title is the page title from document metadata.
	Title string

	// ContentHTML is the article body with boilerplate (navigation,
	// footers, sidebars) removed.
	ContentHTML string
}

// Extractor pulls article content out of full HTML pages. It serves as the
// fallback when an article's plain extract is empty or unavailable.
type Extractor interface {
	// Extract processes raw page HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}
