package main

import "fmt"

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats := deps.Index.Stats()

	fmt.Fprintf(deps.Stdout, "Passages:  %d\n", stats.Passages)
	fmt.Fprintf(deps.Stdout, "Articles:  %d\n", stats.Articles)
	fmt.Fprintf(deps.Stdout, "Dimension: %d\n", deps.Config.EmbeddingDim)

	return nil
}
