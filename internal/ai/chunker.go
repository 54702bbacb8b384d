package ai

import (
	"iter"
	"strings"
)

const DefaultChunkSize = 500

// Chunks splits text on whitespace runs and groups the resulting words into
// spans of at most chunkSize words, rejoined with single spaces. The sequence
// is lazy and restartable; empty input yields nothing. The trailing partial
// group is emitted as its own chunk.
func Chunks(text string, chunkSize int) iter.Seq[string] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return func(yield func(string) bool) {
		group := make([]string, 0, chunkSize)
		for word := range strings.FieldsSeq(text) {
			group = append(group, word)
			if len(group) == chunkSize {
				if !yield(strings.Join(group, " ")) {
					return
				}
				group = group[:0]
			}
		}
		if len(group) > 0 {
			yield(strings.Join(group, " "))
		}
	}
}
