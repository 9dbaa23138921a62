// Package mock provides a test double for chat.Provider.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/murshed/pkg/provider/chat"
)

// Compile-time interface assertion.
var _ chat.Provider = (*Provider)(nil)

// Provider is a configurable mock implementation of chat.Provider.
// The zero value echoes the query back as the reply text.
type Provider struct {
	// AskFunc, when set, handles Ask calls.
	AskFunc func(ctx context.Context, query, sessionID, userID string) (*chat.Reply, error)

	mu      sync.Mutex
	queries []string
}

// Ask records the query and delegates to AskFunc when set.
func (p *Provider) Ask(ctx context.Context, query, sessionID, userID string) (*chat.Reply, error) {
	p.mu.Lock()
	p.queries = append(p.queries, query)
	p.mu.Unlock()

	if p.AskFunc != nil {
		return p.AskFunc(ctx, query, sessionID, userID)
	}
	return &chat.Reply{Text: "echo: " + query}, nil
}

// CallCount returns the number of Ask invocations so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queries)
}

// Queries returns a copy of every query passed to Ask.
func (p *Provider) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.queries))
	copy(out, p.queries)
	return out
}
