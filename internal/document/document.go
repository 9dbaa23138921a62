// Package document prepares a session's corpus: it validates document paths,
// reads the files, and drives the backend ingestion that builds the retrieval
// index the conversation answers from.
package document

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/murshed/internal/observe"
	"github.com/MrWong99/murshed/internal/session"
	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/ingest"
)

const pdfContentType = "application/pdf"

// Params are the corpus-splitting and retrieval-stack settings sent with
// every ingestion. The zero value is replaced by DefaultParams.
type Params struct {
	ChunkSize       int
	ChunkOverlap    int
	EmbeddingsModel string
	VectorStore     string
	LLMModel        string
}

// DefaultParams returns the backend's expected defaults.
func DefaultParams() Params {
	return Params{
		ChunkSize:       1000,
		ChunkOverlap:    100,
		EmbeddingsModel: "openai",
		VectorStore:     "qdrant",
		LLMModel:        "openai",
	}
}

// Service ingests documents into a session's backend index.
type Service struct {
	provider ingest.Provider
	params   Params
	logger   *slog.Logger
	metrics  *observe.Metrics

	readConcurrency int
}

// Option customises a Service.
type Option func(*Service)

// WithParams overrides the ingestion parameters.
func WithParams(p Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService creates a Service backed by provider.
func NewService(provider ingest.Provider, opts ...Option) (*Service, error) {
	if provider == nil {
		return nil, errors.New("document: ingest provider must not be nil")
	}
	s := &Service{
		provider:        provider,
		params:          DefaultParams(),
		readConcurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s, nil
}

// Process ingests the documents at paths into sess's backend index.
//
// Unsupported file types are rejected locally, before any file is read or any
// network call is made; that rejection does not mark the session as failed.
// Once processing starts, any failure sets the session's sticky
// processing-error flag, which gates the conversation until a later ingestion
// succeeds. On success the flag clears, the document gate opens, and the
// conversation history resets: the old turns were grounded on the old corpus.
func (s *Service) Process(ctx context.Context, sess *session.Session, paths []string) error {
	if sess == nil {
		return errors.New("document: session must not be nil")
	}
	if len(paths) == 0 {
		return errors.New("document: at least one document path is required")
	}

	for _, p := range paths {
		if !strings.EqualFold(filepath.Ext(p), ".pdf") {
			err := fault.New(fault.KindUnsupportedDocument, "unsupported document type: "+filepath.Base(p)+" (only PDF is accepted)")
			sess.SetErrorFrom(err)
			return err
		}
	}

	files, err := readAll(ctx, paths, s.readConcurrency)
	if err != nil {
		sess.ProcessingError = true
		sess.SetErrorFrom(err)
		return err
	}

	start := time.Now()
	err = s.provider.IngestDocuments(ctx, ingest.Request{
		SessionID:       sess.ID,
		Files:           files,
		ChunkSize:       s.params.ChunkSize,
		ChunkOverlap:    s.params.ChunkOverlap,
		EmbeddingsModel: s.params.EmbeddingsModel,
		VectorStore:     s.params.VectorStore,
		LLMModel:        s.params.LLMModel,
	})
	s.metrics.IngestDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		sess.ProcessingError = true
		sess.SetErrorFrom(err)
		s.logger.Error("document ingestion failed", "files", len(files), "error", err)
		s.metrics.RecordProviderRequest(ctx, "marahel", "ingest", "error")
		return err
	}
	s.metrics.RecordProviderRequest(ctx, "marahel", "ingest", "ok")

	sess.DocumentReady = true
	sess.ProcessingError = false
	sess.ClearError()
	sess.ResetHistory()
	s.logger.Info("document corpus ready", "files", len(files), "session", sess.ID)
	return nil
}

// readAll loads every file into memory, a few at a time.
func readAll(ctx context.Context, paths []string, concurrency int) ([]ingest.File, error) {
	files := make([]ingest.File, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			content, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			files[i] = ingest.File{
				Name:        filepath.Base(p),
				ContentType: pdfContentType,
				Content:     content,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
