package ai

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func collectChunks(text string, size int) []string {
	var out []string
	for c := range Chunks(text, size) {
		out = append(out, c)
	}
	return out
}

func TestChunks_GroupsWords(t *testing.T) {
	words := make([]string, 1200)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	text := strings.Join(words, " ")

	chunks := collectChunks(text, 500)
	require.Len(t, chunks, 3)
	require.Len(t, strings.Fields(chunks[0]), 500)
	require.Len(t, strings.Fields(chunks[1]), 500)
	require.Len(t, strings.Fields(chunks[2]), 200)

	// space-joined concatenation reconstructs the token sequence
	require.Equal(t, text, strings.Join(chunks, " "))
}

func TestChunks_EmptyInput(t *testing.T) {
	require.Empty(t, collectChunks("", 500))
	require.Empty(t, collectChunks("   \n\t  ", 500))
}

func TestChunks_ExactMultiple(t *testing.T) {
	chunks := collectChunks("a b c d", 2)
	require.Equal(t, []string{"a b", "c d"}, chunks)
}

func TestChunks_CollapsesWhitespaceRuns(t *testing.T) {
	chunks := collectChunks("a \t b\n\nc", 10)
	require.Equal(t, []string{"a b c"}, chunks)
}

func TestChunks_Restartable(t *testing.T) {
	seq := Chunks("one two three four five", 2)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.Equal(t, first, second)
	require.Equal(t, []string{"one two", "three four", "five"}, first)
}
