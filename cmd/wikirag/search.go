package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/wikirag"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Retriever.Retrieve(deps.Ctx, c.Query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matching passages. Use 'wikirag index <topic>' to index articles first.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. %.3f  %s\n   %s\n", i+1, r.Score, r.Passage.Title, snippet(r.Passage.Text))
	}

	return nil
}

// snippetLen bounds how much passage text a search row shows.
const snippetLen = 100

// snippet flattens text to a single line and truncates it for display.
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= snippetLen {
		return text
	}
	cut := snippetLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
