// Package playht implements tts.Provider against the Murshed backend's
// PlayHT synthesis route (POST /api/playht-text-to-speech).
//
// The PlayHT route has a single server-configured voice; the voice argument
// to Synthesize is ignored.
package playht

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

const (
	synthesizeEndpoint = "/api/playht-text-to-speech"
	defaultTimeout     = 30 * time.Second
)

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithTimeout sets the per-request HTTP timeout. Defaults to 30 s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// Provider implements tts.Provider backed by the PlayHT route.
type Provider struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Provider targeting the backend at baseURL. baseURL must be
// non-empty.
func New(baseURL string, opts ...Option) (*Provider, error) {
	if baseURL == "" {
		return nil, errors.New("playht: baseURL must not be empty")
	}
	p := &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Name returns "playht", the registry name of this route.
func (p *Provider) Name() string { return "playht" }

// synthesizeRequest is the JSON body for POST /api/playht-text-to-speech.
type synthesizeRequest struct {
	Text string `json:"text"`
}

// errorResponse is the JSON envelope the backend uses for failures.
type errorResponse struct {
	Message string `json:"message"`
}

// Synthesize performs a single POST /api/playht-text-to-speech round trip.
// The voice argument is ignored; PlayHT voice selection is server-side.
func (p *Provider) Synthesize(ctx context.Context, text string, _ tts.Voice) (*tts.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("playht: text must not be empty")
	}

	body, err := json.Marshal(synthesizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("playht: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+synthesizeEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("playht: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fault.FromTransport("synthesis", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("synthesis returned status %d", resp.StatusCode)
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Message != "" {
			msg = er.Message
		}
		return nil, fault.New(fault.KindBackendRejected, msg)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.FromTransport("synthesis", err)
	}
	return &tts.Audio{MIME: tts.MIMEMPEG, Data: data}, nil
}
