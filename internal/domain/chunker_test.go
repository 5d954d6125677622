package domain_test

import (
	"fmt"
	"strings"
	"testing"

	"docqa-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWords(n int) []string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return words
}

func TestChunk_EmptyInput(t *testing.T) {
	chunker := domain.NewChunker()

	assert.Nil(t, chunker.Chunk("", "doc-1"))
	assert.Nil(t, chunker.Chunk("   \n\t  ", "doc-1"))
}

func TestChunk_SingleWindow(t *testing.T) {
	chunker := domain.NewChunker()

	chunks := chunker.Chunk("alpha beta gamma", "doc-1")

	require.Len(t, chunks, 1)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].SequenceNumber)
	assert.Equal(t, "alpha beta gamma", chunks[0].Content)
}

func TestChunk_ExactWindowBoundary(t *testing.T) {
	chunker := domain.NewChunker()
	content := strings.Join(makeWords(domain.ChunkTokenCount), " ")

	chunks := chunker.Chunk(content, "doc-1")

	require.Len(t, chunks, 1)
	assert.Equal(t, content, chunks[0].Content)
}

func TestChunk_WindowCountAndSequence(t *testing.T) {
	chunker := domain.NewChunker()
	words := makeWords(domain.ChunkTokenCount*2 + 500)

	chunks := chunker.Chunk(strings.Join(words, " "), "doc-1")

	require.Len(t, chunks, 3)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.SequenceNumber)
		assert.Equal(t, "doc-1", chunk.DocumentID)
	}
	assert.Len(t, strings.Fields(chunks[0].Content), domain.ChunkTokenCount)
	assert.Len(t, strings.Fields(chunks[1].Content), domain.ChunkTokenCount)
	assert.Len(t, strings.Fields(chunks[2].Content), 500)
}

func TestChunk_TokensReconstruct(t *testing.T) {
	chunker := domain.NewChunker()
	words := makeWords(domain.ChunkTokenCount + 37)
	// Mixed whitespace collapses: tokenization splits on any run of spaces,
	// tabs, or newlines.
	content := strings.Join(words, " \n\t ")

	chunks := chunker.Chunk(content, "doc-1")

	var rebuilt []string
	for _, chunk := range chunks {
		rebuilt = append(rebuilt, strings.Fields(chunk.Content)...)
	}
	assert.Equal(t, words, rebuilt)
}
