// Package marahel implements stt.Provider against the Murshed backend's
// transcription route (POST /api/speech-to-text).
//
// The capture is uploaded as a multipart file field named "file"; the
// transcript comes back inside the backend's usual {data:{response}} envelope.
package marahel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/stt"
)

const (
	transcribeEndpoint = "/api/speech-to-text"
	defaultTimeout     = 15 * time.Second

	// uploadName is the filename the backend expects for the capture part.
	uploadName = "audio.wav"
)

// Compile-time interface assertion.
var _ stt.Provider = (*Provider)(nil)

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithTimeout sets the per-request HTTP timeout. Defaults to 15 s.
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

// Provider implements stt.Provider backed by the Murshed transcription route.
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

// transcribeResponse is the JSON envelope returned by POST /api/speech-to-text.
type transcribeResponse struct {
	Data struct {
		Response string `json:"response"`
	} `json:"data"`
}

// errorResponse is the JSON envelope the backend uses for failures.
type errorResponse struct {
	Message string `json:"message"`
}

// Transcribe uploads wav as a multipart form and returns the transcript.
func (p *Provider) Transcribe(ctx context.Context, wav []byte) (string, error) {
	if len(wav) == 0 {
		return "", fault.New(fault.KindEmptyAudio, "capture is empty")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := createWAVPart(mw)
	if err != nil {
		return "", fmt.Errorf("marahel: create form file: %w", err)
	}
	if _, err := fw.Write(wav); err != nil {
		return "", fmt.Errorf("marahel: write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("marahel: close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+transcribeEndpoint, &body)
	if err != nil {
		return "", fmt.Errorf("marahel: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fault.FromTransport("transcription", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("transcription returned status %d", resp.StatusCode)
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Message != "" {
			msg = er.Message
		}
		return "", fault.New(fault.KindBackendRejected, msg)
	}

	var tr transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("marahel: decode transcription response: %w", err)
	}

	text := strings.TrimSpace(tr.Data.Response)
	if text == "" {
		return "", fault.New(fault.KindEmptyAudio, "backend produced an empty transcript")
	}
	return text, nil
}

// createWAVPart creates the multipart file part with an explicit audio/wav
// content type, which the backend requires for codec detection.
func createWAVPart(mw *multipart.Writer) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, uploadName))
	h.Set("Content-Type", "audio/wav")
	return mw.CreatePart(h)
}
