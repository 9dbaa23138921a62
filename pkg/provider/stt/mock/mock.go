// Package mock provides a test double for stt.Provider.
package mock

import (
	"context"
	"sync"
)

// Provider is a configurable mock implementation of stt.Provider.
// The zero value returns "mock transcript" for every call.
type Provider struct {
	// TranscribeFunc, when set, handles Transcribe calls.
	TranscribeFunc func(ctx context.Context, wav []byte) (string, error)

	mu       sync.Mutex
	captures [][]byte
}

// Transcribe records the capture and delegates to TranscribeFunc when set.
func (p *Provider) Transcribe(ctx context.Context, wav []byte) (string, error) {
	p.mu.Lock()
	cp := make([]byte, len(wav))
	copy(cp, wav)
	p.captures = append(p.captures, cp)
	p.mu.Unlock()

	if p.TranscribeFunc != nil {
		return p.TranscribeFunc(ctx, wav)
	}
	return "mock transcript", nil
}

// CallCount returns the number of Transcribe invocations so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.captures)
}

// Captures returns copies of every capture passed to Transcribe.
func (p *Provider) Captures() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.captures))
	copy(out, p.captures)
	return out
}
