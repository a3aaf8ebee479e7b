package main

import (
	"fmt"

	"github.com/fwojciec/wikirag"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm clearing the index\n")
		return wikirag.Errorf(wikirag.EINVALID, "use --force to confirm clearing the index")
	}

	stats := deps.Index.Stats()

	if err := deps.Index.Clear(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}
	if err := deps.Index.Save(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wikirag.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cleared %d passages.\n", stats.Passages)
	return nil
}
