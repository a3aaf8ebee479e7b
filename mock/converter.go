package mock

import "github.com/fwojciec/wikirag"

var _ wikirag.Converter = (*Converter)(nil)

// Converter is a mock implementation of wikirag.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
