package main

import (
	"fmt"

	"github.com/fwojciec/wikirag"
)

// Run executes the index command.
func (c *IndexCmd) Run(deps *Dependencies) error {
	added, err := deps.Indexer.IndexTopic(deps.Ctx, c.Topic)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}

	if added == 0 {
		fmt.Fprintf(deps.Stdout, "No new passages indexed for %q.\n", c.Topic)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Indexed %d passages about %q.\n", added, c.Topic)
	return nil
}
