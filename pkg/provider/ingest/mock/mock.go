// Package mock provides a test double for ingest.Provider.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/murshed/pkg/provider/ingest"
)

// Compile-time interface assertion.
var _ ingest.Provider = (*Provider)(nil)

// Provider is a configurable mock implementation of ingest.Provider.
// The zero value accepts every request.
type Provider struct {
	// IngestFunc, when set, handles IngestDocuments calls.
	IngestFunc func(ctx context.Context, req ingest.Request) error

	mu       sync.Mutex
	requests []ingest.Request
}

// IngestDocuments records the request and delegates to IngestFunc when set.
func (p *Provider) IngestDocuments(ctx context.Context, req ingest.Request) error {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()

	if p.IngestFunc != nil {
		return p.IngestFunc(ctx, req)
	}
	return nil
}

// CallCount returns the number of IngestDocuments invocations so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// Requests returns a copy of every recorded request.
func (p *Provider) Requests() []ingest.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ingest.Request, len(p.requests))
	copy(out, p.requests)
	return out
}
