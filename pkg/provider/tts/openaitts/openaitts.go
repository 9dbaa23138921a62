// Package openaitts implements tts.Provider against the Murshed backend's
// OpenAI-voiced synthesis route (POST /api/text-to-speech).
//
// The backend proxies to OpenAI's TTS models and streams back the encoded
// audio verbatim, so the response body is the audio payload itself rather
// than a JSON envelope.
package openaitts

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
	synthesizeEndpoint = "/api/text-to-speech"
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

// WithHTTPClient replaces the HTTP client used for requests. Mainly useful
// in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// Provider implements tts.Provider backed by the voiced synthesis route.
type Provider struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Provider targeting the backend at baseURL
// (e.g., "https://testing.murshed.marahel.sa"). baseURL must be non-empty.
func New(baseURL string, opts ...Option) (*Provider, error) {
	if baseURL == "" {
		return nil, errors.New("openaitts: baseURL must not be empty")
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

// Name returns "openai", the registry name of the voiced route.
func (p *Provider) Name() string { return "openai" }

// synthesizeRequest is the JSON body for POST /api/text-to-speech.
type synthesizeRequest struct {
	Text      string `json:"text"`
	VoiceType string `json:"voice_type"`
}

// errorResponse is the JSON envelope the backend uses for failures.
type errorResponse struct {
	Message string `json:"message"`
}

// Synthesize performs a single POST /api/text-to-speech round trip and
// returns the complete encoded audio.
func (p *Provider) Synthesize(ctx context.Context, text string, voice tts.Voice) (*tts.Audio, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("openaitts: text must not be empty")
	}
	if !voice.IsValid() {
		return nil, fmt.Errorf("openaitts: unknown voice %q", voice)
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, VoiceType: string(voice)})
	if err != nil {
		return nil, fmt.Errorf("openaitts: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+synthesizeEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openaitts: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fault.FromTransport("synthesis", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, rejectionError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.FromTransport("synthesis", err)
	}
	return &tts.Audio{MIME: tts.MIMEMPEG, Data: data}, nil
}

// rejectionError builds a backend_rejected failure from a non-200 response,
// preferring the backend-provided message when the body carries one.
func rejectionError(resp *http.Response) *fault.Error {
	msg := fmt.Sprintf("synthesis returned status %d", resp.StatusCode)
	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Message != "" {
		msg = er.Message
	}
	return fault.New(fault.KindBackendRejected, msg)
}
