// Package mock provides a test double for tts.Provider.
package mock

import (
	"context"
	"sync"

	"github.com/MrWong99/murshed/pkg/provider/tts"
)

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

// Provider is a configurable mock implementation of tts.Provider.
// The zero value returns a fixed one-byte audio blob for every call.
type Provider struct {
	// SynthesizeFunc, when set, handles Synthesize calls.
	SynthesizeFunc func(ctx context.Context, text string, voice tts.Voice) (*tts.Audio, error)

	// ProviderName is returned by Name. Defaults to "mock".
	ProviderName string

	mu    sync.Mutex
	calls []Call
}

// Call records the arguments of one Synthesize invocation.
type Call struct {
	Text  string
	Voice tts.Voice
}

// Synthesize records the call and delegates to SynthesizeFunc when set.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.Voice) (*tts.Audio, error) {
	p.mu.Lock()
	p.calls = append(p.calls, Call{Text: text, Voice: voice})
	p.mu.Unlock()

	if p.SynthesizeFunc != nil {
		return p.SynthesizeFunc(ctx, text, voice)
	}
	return &tts.Audio{MIME: tts.MIMEMPEG, Data: []byte{0xFF}}, nil
}

// Name returns ProviderName or "mock".
func (p *Provider) Name() string {
	if p.ProviderName != "" {
		return p.ProviderName
	}
	return "mock"
}

// Calls returns a copy of all recorded Synthesize calls.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Call, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns the number of Synthesize invocations so far.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}
