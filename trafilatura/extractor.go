package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/wikirag"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements wikirag.Extractor at compile time.
var _ wikirag.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull article content out of full pages.
// It backs article fetching when the plain extract API returns nothing.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &wikirag.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
