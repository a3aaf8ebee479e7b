package mock

import (
	"context"

	"github.com/fwojciec/wikirag"
)

var _ wikirag.Generator = (*Generator)(nil)

// Generator is a mock implementation of wikirag.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, contextText, question string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, contextText, question string) (string, error) {
	return g.GenerateFn(ctx, contextText, question)
}
