package wikirag

import "context"

// TokenCounter counts model tokens in text, e.g. to report how much of a
// prompt budget an assembled context consumes.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
