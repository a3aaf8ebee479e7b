package wikirag

import (
	"fmt"
	"strings"
)

// AssembleContext formats search results into a single prompt context string.
// Each result becomes a numbered source block:
//
//	[Source N: Title]
//	passage text
//
// Blocks are joined by a blank line. Results are consumed in order and a
// block that would push the total past maxLen is skipped along with all
// remaining results. Returns "" when results is empty or maxLen is not
// positive.
func AssembleContext(results []SearchResult, maxLen int) string {
	if len(results) == 0 || maxLen <= 0 {
		return ""
	}

	var blocks []string
	total := 0
	for i, res := range results {
		block := fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, res.Passage.Title, res.Passage.Text)
		if total+len(block) > maxLen {
			break
		}
		blocks = append(blocks, block)
		total += len(block)
	}

	return strings.Join(blocks, "\n")
}
