// Package ingest defines the Provider interface for the Murshed backend's
// document ingestion route.
//
// Ingestion builds (or rebuilds) the retrieval index that the chat route
// answers from. The index is keyed by the session identifier, so each
// conversation owns its own corpus.
//
// Implementations must be safe for concurrent use.
package ingest

import "context"

// File is one document queued for ingestion.
type File struct {
	// Name is the original file name, including extension.
	Name string

	// ContentType is the MIME type sent with the upload (e.g., "application/pdf").
	ContentType string

	// Content is the complete file body.
	Content []byte
}

// Request carries everything one ingestion call needs.
type Request struct {
	// SessionID keys the backend index this corpus belongs to.
	SessionID string

	// Files are the documents to ingest. Must be non-empty.
	Files []File

	// ChunkSize and ChunkOverlap control passage splitting, in characters.
	ChunkSize    int
	ChunkOverlap int

	// EmbeddingsModel, VectorStore and LLMModel select the backend's
	// retrieval stack for this index.
	EmbeddingsModel string
	VectorStore     string
	LLMModel        string
}

// Provider is the abstraction over the ingestion backend.
//
// IngestDocuments performs exactly one network attempt and returns a
// classified *fault.Error on failure. A nil return means the index is built
// and the conversation may start.
type Provider interface {
	IngestDocuments(ctx context.Context, req Request) error
}
