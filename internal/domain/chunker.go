package domain

import "strings"

// ChunkTokenCount is the fixed chunk window size in whitespace tokens.
const ChunkTokenCount = 1000

// Chunker defines the interface for splitting document text into chunks.
type Chunker interface {
	Chunk(content, documentID string) []Chunk
}

type tokenWindowChunker struct{}

// NewChunker creates the default fixed-window token chunker.
func NewChunker() Chunker {
	return &tokenWindowChunker{}
}

// Chunk splits content on whitespace into tokens, discards empty tokens,
// and groups the rest into non-overlapping windows of ChunkTokenCount
// tokens joined with single spaces. Sequence numbers are 0-based and
// contiguous. Tokenization is whitespace-only; there is no sentence or
// semantic boundary awareness.
func (c *tokenWindowChunker) Chunk(content, documentID string) []Chunk {
	tokens := strings.Fields(content)
	if len(tokens) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, (len(tokens)+ChunkTokenCount-1)/ChunkTokenCount)
	for start := 0; start < len(tokens); start += ChunkTokenCount {
		end := start + ChunkTokenCount
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, Chunk{
			DocumentID:     documentID,
			Content:        strings.Join(tokens[start:end], " "),
			SequenceNumber: start / ChunkTokenCount,
		})
	}

	return chunks
}
