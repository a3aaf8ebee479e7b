package wikirag

import "context"

// Generator produces an answer to a question grounded in assembled context.
type Generator interface {
	// Generate answers question using only the information in contextText.
	Generate(ctx context.Context, contextText, question string) (string, error)
}
