package main

import (
	"fmt"

	"github.com/fwojciec/wikirag"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	results, err := deps.Retriever.Retrieve(deps.Ctx, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No relevant information found to answer your question. Try rephrasing or asking about a different topic.")
		return nil
	}

	contextText := wikirag.AssembleContext(results, deps.Config.MaxContextLength)

	if deps.Tokens != nil {
		if n, err := deps.Tokens.CountTokens(deps.Ctx, contextText); err == nil {
			fmt.Fprintf(deps.Stderr, "context: %d tokens\n", n)
		}
	}

	answer, err := deps.Generator.Generate(deps.Ctx, contextText, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer)
	fmt.Fprintln(deps.Stdout, "\nSources:")
	for _, url := range sourceURLs(results) {
		fmt.Fprintf(deps.Stdout, "  %s\n", url)
	}

	return nil
}

// sourceURLs returns the distinct article URLs behind results, best first.
func sourceURLs(results []wikirag.SearchResult) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, r := range results {
		url := r.Passage.URL
		if url == "" || seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}
