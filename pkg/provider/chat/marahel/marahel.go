// Package marahel implements chat.Provider against the Murshed backend's
// question answering route (POST /api/chat-bot).
package marahel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrWong99/murshed/pkg/provider/chat"
	"github.com/MrWong99/murshed/pkg/provider/fault"
)

const (
	askEndpoint = "/api/chat-bot"

	// defaultTimeout bounds the full ask round trip. Retrieval plus inference
	// regularly takes double-digit seconds on cold indexes.
	defaultTimeout = 30 * time.Second
)

// Compile-time interface assertion.
var _ chat.Provider = (*Provider)(nil)

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

// Provider implements chat.Provider backed by the Murshed ask route.
type Provider struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Provider targeting the backend at baseURL. baseURL must be
// non-empty.
func New(baseURL string, opts ...Option) (*Provider, error) {
	if baseURL == "" {
		return nil, errors.New("marahel: baseURL must not be empty")
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

// askRequest is the JSON body for POST /api/chat-bot.
type askRequest struct {
	Query     string `json:"query"`
	ChatbotID string `json:"chatbot_id"`
	UserID    string `json:"user_id"`
}

// askResponse is the JSON envelope returned on success.
type askResponse struct {
	Data struct {
		Response string `json:"response"`
		Source   []struct {
			Documents struct {
				Filename string `json:"filename"`
				Pages    []int  `json:"pages"`
			} `json:"documents"`
		} `json:"source"`
	} `json:"data"`
}

// errorResponse is the JSON envelope the backend uses for failures.
type errorResponse struct {
	Message string `json:"message"`
}

// Ask performs a single POST /api/chat-bot round trip.
func (p *Provider) Ask(ctx context.Context, query, sessionID, userID string) (*chat.Reply, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("marahel: query must not be empty")
	}

	body, err := json.Marshal(askRequest{Query: query, ChatbotID: sessionID, UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("marahel: marshal ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+askEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("marahel: create ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fault.FromTransport("ask", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("ask returned status %d", resp.StatusCode)
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Message != "" {
			msg = er.Message
		}
		return nil, fault.New(fault.KindBackendRejected, msg)
	}

	var ar askResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return nil, fmt.Errorf("marahel: decode ask response: %w", err)
	}

	reply := &chat.Reply{Text: ar.Data.Response}
	for _, s := range ar.Data.Source {
		reply.Sources = append(reply.Sources, chat.Source{
			Document: s.Documents.Filename,
			Pages:    s.Documents.Pages,
		})
	}
	return reply, nil
}
