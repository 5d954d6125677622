package domain

import "time"

// Document is a full uploaded text document as stored in the search backend.
// The ID is minted at ingestion time and never reused.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Chunk is a bounded window of a document's tokens, the unit of lexical
// retrieval. Chunks are produced once at ingestion and are immutable.
type Chunk struct {
	DocumentID     string `json:"documentId"`
	Content        string `json:"content"`
	SequenceNumber int    `json:"sequenceNumber"`
}
