package main

import (
	"fmt"

	"github.com/fwojciec/wikirag"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	article, err := deps.Source.FetchArticle(deps.Ctx, c.Title)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stderr, "%s (%d bytes, hash %s)\n", article.URL, len(article.Content), article.ContentHash)
	fmt.Fprintln(deps.Stdout, article.Content)

	return nil
}
