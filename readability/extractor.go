package readability

import (
	"strings"

	"github.com/fwojciec/wikirag"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements wikirag.Extractor at compile time.
var _ wikirag.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to pull article content out of full pages.
// It is an alternative to the trafilatura extractor.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw page HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*wikirag.ExtractResult, error) {
	if rawHTML == "" {
		return nil, wikirag.Errorf(wikirag.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &wikirag.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
