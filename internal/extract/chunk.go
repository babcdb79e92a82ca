package extract

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinChunkLength is the shortest block, in characters, kept as a chunk.
const DefaultMinChunkLength = 55

// Chunk splits text on blank lines and keeps the trimmed blocks longer than
// minLength characters, in document order.
func Chunk(text string, minLength int) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	blocks := strings.Split(strings.TrimSpace(text), "\n\n")

	chunks := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if utf8.RuneCountInString(block) > minLength {
			chunks = append(chunks, block)
		}
	}
	return chunks
}
