package wikirag

import (
	"strings"
	"unicode/utf8"
)

// sentenceTerminators are the characters a chunk prefers to end after.
const sentenceTerminators = ".!?"

// ChunkText splits text into overlapping passages of roughly size bytes,
// preferring to end each passage just after a sentence terminator. The
// terminator search extends overlap bytes past the target size, and a
// terminator is only used when it falls beyond the chunk midpoint, so
// passages never collapse into fragments. Consecutive passages share overlap
// bytes; together their [StartPos, EndPos) ranges cover the whole text and
// ChunkID counts up from 0.
//
// Offsets are byte offsets, adjusted forward so a passage never splits a
// UTF-8 rune. Empty text yields no passages; text no longer than size yields
// a single passage spanning all of it. A non-positive maxChunks means no
// limit. The cursor advances strictly on every iteration, so chunking
// terminates for any input.
func ChunkText(text, title, url string, size, overlap, maxChunks int) []Passage {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	if len(text) <= size {
		return []Passage{{
			Text:    text,
			Title:   title,
			URL:     url,
			EndPos:  len(text),
			ChunkID: 0,
		}}
	}

	var passages []Passage
	start := 0
	for start < len(text) {
		if maxChunks > 0 && len(passages) >= maxChunks {
			break
		}

		end := start + size
		if end >= len(text) {
			end = len(text)
		} else {
			window := end + overlap
			if window > len(text) {
				window = len(text)
			}
			if p := strings.LastIndexAny(text[start:window], sentenceTerminators); p > size/2 {
				end = start + p + 1
			}
			end = ceilRuneBoundary(text, end)
		}

		passages = append(passages, Passage{
			Text:     text[start:end],
			Title:    title,
			URL:      url,
			ChunkID:  len(passages),
			StartPos: start,
			EndPos:   end,
		})

		if end >= len(text) {
			break
		}

		next := ceilRuneBoundary(text, end-overlap)
		if next <= start {
			next = ceilRuneBoundary(text, start+1)
		}
		start = next
	}

	return passages
}

// ceilRuneBoundary moves pos forward to the nearest UTF-8 rune boundary.
func ceilRuneBoundary(s string, pos int) int {
	if pos <= 0 {
		return 0
	}
	for pos < len(s) && !utf8.RuneStart(s[pos]) {
		pos++
	}
	return pos
}
