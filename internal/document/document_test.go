package document

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrWong99/murshed/internal/session"
	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/ingest"
	ingestmock "github.com/MrWong99/murshed/pkg/provider/ingest/mock"
)

func writeTempPDF(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestProcessSuccess(t *testing.T) {
	mock := &ingestmock.Provider{}
	svc, err := NewService(mock)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	sess := session.New()
	sess.AppendUserTurn("old question grounded on the old corpus")
	path := writeTempPDF(t, "thesis.pdf", []byte("%PDF-1.7 content"))

	if err := svc.Process(context.Background(), sess, []string{path}); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !sess.DocumentReady || sess.ProcessingError {
		t.Errorf("flags: ready=%v processingError=%v", sess.DocumentReady, sess.ProcessingError)
	}
	if sess.Len() != 0 {
		t.Error("a new corpus must reset the conversation history")
	}

	reqs := mock.Requests()
	if len(reqs) != 1 {
		t.Fatalf("ingest calls: got %d, want 1", len(reqs))
	}
	req := reqs[0]
	if req.SessionID != sess.ID {
		t.Errorf("session id: got %q, want %q", req.SessionID, sess.ID)
	}
	if len(req.Files) != 1 || req.Files[0].Name != "thesis.pdf" || req.Files[0].ContentType != "application/pdf" {
		t.Errorf("files: got %+v", req.Files)
	}
	if string(req.Files[0].Content) != "%PDF-1.7 content" {
		t.Errorf("content: got %q", req.Files[0].Content)
	}
	if req.ChunkSize != 1000 || req.ChunkOverlap != 100 ||
		req.EmbeddingsModel != "openai" || req.VectorStore != "qdrant" || req.LLMModel != "openai" {
		t.Errorf("default params not applied: %+v", req)
	}
}

func TestProcessRejectsNonPDFLocally(t *testing.T) {
	mock := &ingestmock.Provider{}
	svc, _ := NewService(mock)
	sess := session.New()

	err := svc.Process(context.Background(), sess, []string{"notes.docx"})
	if fault.KindOf(err) != fault.KindUnsupportedDocument {
		t.Fatalf("error kind: got %v", fault.KindOf(err))
	}
	if mock.CallCount() != 0 {
		t.Error("rejection must happen before any network call")
	}
	if sess.ProcessingError {
		t.Error("local rejection must not mark processing as failed")
	}
	if sess.LastError() == nil || sess.LastError().Kind != fault.KindUnsupportedDocument {
		t.Errorf("surfaced error: got %+v", sess.LastError())
	}
}

func TestProcessFailureIsSticky(t *testing.T) {
	mock := &ingestmock.Provider{
		IngestFunc: func(ctx context.Context, req ingest.Request) error {
			return fault.New(fault.KindBackendRejected, "embedding service unavailable")
		},
	}
	svc, _ := NewService(mock)
	sess := session.New()
	path := writeTempPDF(t, "doc.pdf", []byte("%PDF"))

	if err := svc.Process(context.Background(), sess, []string{path}); err == nil {
		t.Fatal("expected ingestion failure")
	}
	if !sess.ProcessingError {
		t.Error("failed ingestion must set the sticky flag")
	}
	if sess.DocumentReady {
		t.Error("failed ingestion must not open the document gate")
	}

	// A later successful ingestion clears the gate.
	mock.IngestFunc = nil
	if err := svc.Process(context.Background(), sess, []string{path}); err != nil {
		t.Fatalf("second Process: %v", err)
	}
	if sess.ProcessingError || !sess.DocumentReady {
		t.Errorf("flags after recovery: ready=%v processingError=%v", sess.DocumentReady, sess.ProcessingError)
	}
	if sess.LastError() != nil {
		t.Error("recovery must clear the surfaced error")
	}
}

func TestProcessUnreadableFile(t *testing.T) {
	mock := &ingestmock.Provider{}
	svc, _ := NewService(mock)
	sess := session.New()

	err := svc.Process(context.Background(), sess, []string{filepath.Join(t.TempDir(), "missing.pdf")})
	if err == nil {
		t.Fatal("expected read failure")
	}
	if mock.CallCount() != 0 {
		t.Error("unreadable files must not reach the backend")
	}
	if !sess.ProcessingError {
		t.Error("read failure after validation must set the sticky flag")
	}
}

func TestProcessValidatesArguments(t *testing.T) {
	svc, _ := NewService(&ingestmock.Provider{})
	if err := svc.Process(context.Background(), nil, []string{"a.pdf"}); err == nil {
		t.Error("nil session must be rejected")
	}
	if err := svc.Process(context.Background(), session.New(), nil); err == nil {
		t.Error("empty path list must be rejected")
	}
	if _, err := NewService(nil); err == nil {
		t.Error("nil provider must be rejected")
	}
}

func TestCustomParams(t *testing.T) {
	mock := &ingestmock.Provider{}
	svc, _ := NewService(mock, WithParams(Params{
		ChunkSize:       512,
		ChunkOverlap:    64,
		EmbeddingsModel: "openai",
		VectorStore:     "qdrant",
		LLMModel:        "openai",
	}))
	sess := session.New()
	path := writeTempPDF(t, "doc.pdf", []byte("%PDF"))

	if err := svc.Process(context.Background(), sess, []string{path}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	req := mock.Requests()[0]
	if req.ChunkSize != 512 || req.ChunkOverlap != 64 {
		t.Errorf("custom params not applied: %+v", req)
	}
}
