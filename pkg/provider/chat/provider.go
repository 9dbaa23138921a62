// Package chat defines the Provider interface for the Murshed backend's
// document-grounded question answering route.
//
// Every reply may carry source references back into the ingested documents;
// the controller stores them verbatim on the assistant turn.
//
// Implementations must be safe for concurrent use.
package chat

import "context"

// Source is one reference from a reply into an ingested document.
// Supplied by the backend, read-only for the controller.
type Source struct {
	// Document is the ingested file name the passage came from.
	Document string

	// Pages lists the page numbers of the cited passages.
	Pages []int
}

// Reply is the backend's answer to a query.
type Reply struct {
	// Text is the assistant's answer.
	Text string

	// Sources lists the documents the answer was grounded on. May be empty.
	Sources []Source
}

// Provider is the abstraction over the question answering backend.
//
// Ask performs exactly one network attempt, bounded by the provider's
// configured timeout, and returns a classified *fault.Error on failure.
type Provider interface {
	// Ask submits query against the document index identified by sessionID
	// on behalf of userID and returns the grounded reply.
	Ask(ctx context.Context, query, sessionID, userID string) (*Reply, error)
}
