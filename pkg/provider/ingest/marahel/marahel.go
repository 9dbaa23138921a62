// Package marahel implements ingest.Provider against the Murshed backend's
// ingestion route (POST /api/Ingestion_File).
//
// Documents are uploaded as repeated multipart "files" parts alongside the
// splitting and retrieval-stack form fields. Ingestion is the slowest backend
// operation by far, so the default timeout is generous.
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
	"strconv"
	"strings"
	"time"

	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/ingest"
)

const (
	ingestEndpoint = "/api/Ingestion_File"
	defaultTimeout = 5 * time.Minute
)

// Compile-time interface assertion.
var _ ingest.Provider = (*Provider)(nil)

// Option is a functional option for configuring the Provider.
type Option func(*Provider)

// WithTimeout sets the per-request HTTP timeout. Defaults to 5 min.
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

// Provider implements ingest.Provider backed by the Murshed ingestion route.
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

// errorResponse is the JSON envelope the backend uses for failures.
type errorResponse struct {
	Message string `json:"message"`
}

// IngestDocuments performs a single POST /api/Ingestion_File round trip.
func (p *Provider) IngestDocuments(ctx context.Context, req ingest.Request) error {
	if len(req.Files) == 0 {
		return errors.New("marahel: at least one file is required")
	}
	if req.SessionID == "" {
		return errors.New("marahel: session id must not be empty")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for _, f := range req.Files {
		fw, err := createFilePart(mw, f.Name, f.ContentType)
		if err != nil {
			return fmt.Errorf("marahel: create form file %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return fmt.Errorf("marahel: write form file %s: %w", f.Name, err)
		}
	}

	fields := map[string]string{
		"chatbot_id":       req.SessionID,
		"chunk_size":       strconv.Itoa(req.ChunkSize),
		"chunk_overlap":    strconv.Itoa(req.ChunkOverlap),
		"embeddings_model": req.EmbeddingsModel,
		"vectorstore_name": req.VectorStore,
		"llm":              req.LLMModel,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("marahel: write form field %s: %w", name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("marahel: close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+ingestEndpoint, &body)
	if err != nil {
		return fmt.Errorf("marahel: create ingestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fault.FromTransport("ingestion", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("ingestion returned status %d", resp.StatusCode)
		var er errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Message != "" {
			msg = er.Message
		}
		return fault.New(fault.KindBackendRejected, msg)
	}
	return nil
}

// createFilePart creates one multipart "files" part carrying the document's
// own content type instead of the octet-stream default.
func createFilePart(mw *multipart.Writer, name, contentType string) (io.Writer, error) {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return mw.CreatePart(h)
}
