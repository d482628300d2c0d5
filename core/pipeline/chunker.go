package pipeline

import (
	"fmt"
	"strings"
)

// NormalizeWhitespace collapses every whitespace run to a single space and
// trims the result.
func NormalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// LengthChunker creates a chunker that slices normalized text into
// consecutive, non-overlapping windows of at most maxLen characters. The
// final window may be shorter. Splitting is purely length-bounded, with no
// sentence awareness, so identical input always yields identical chunks.
func LengthChunker(maxLen int) ChunkFunc {
	return func(text string) ([]string, error) {
		if maxLen <= 0 {
			return nil, fmt.Errorf("max chunk length must be positive")
		}

		normalized := NormalizeWhitespace(text)
		if normalized == "" {
			return []string{}, nil
		}

		runes := []rune(normalized)
		chunks := make([]string, 0, (len(runes)+maxLen-1)/maxLen)
		for start := 0; start < len(runes); start += maxLen {
			end := start + maxLen
			if end > len(runes) {
				end = len(runes)
			}
			chunks = append(chunks, string(runes[start:end]))
		}

		return chunks, nil
	}
}
