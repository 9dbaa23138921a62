package marahel

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/ingest"
)

func sampleRequest() ingest.Request {
	return ingest.Request{
		SessionID: "sess-1",
		Files: []ingest.File{
			{Name: "a.pdf", ContentType: "application/pdf", Content: []byte("%PDF-a")},
			{Name: "b.pdf", ContentType: "application/pdf", Content: []byte("%PDF-b")},
		},
		ChunkSize:       1000,
		ChunkOverlap:    100,
		EmbeddingsModel: "openai",
		VectorStore:     "qdrant",
		LLMModel:        "openai",
	}
}

func TestIngestDocumentsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/Ingestion_File" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		wantFields := map[string]string{
			"chatbot_id":       "sess-1",
			"chunk_size":       "1000",
			"chunk_overlap":    "100",
			"embeddings_model": "openai",
			"vectorstore_name": "qdrant",
			"llm":              "openai",
		}
		for name, want := range wantFields {
			if got := r.FormValue(name); got != want {
				t.Errorf("field %s: got %q, want %q", name, got, want)
			}
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Fatalf("files parts: got %d, want 2", len(files))
		}
		if files[0].Filename != "a.pdf" || files[1].Filename != "b.pdf" {
			t.Errorf("file names: got %q, %q", files[0].Filename, files[1].Filename)
		}
		f, _ := files[0].Open()
		defer f.Close()
		body, _ := io.ReadAll(f)
		if string(body) != "%PDF-a" {
			t.Error("first file content mismatch")
		}
	}))
	defer srv.Close()

	p, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.IngestDocuments(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("IngestDocuments: %v", err)
	}
}

func TestIngestDocumentsBackendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "corpus too large"})
	}))
	defer srv.Close()

	p, _ := New(srv.URL)
	err := p.IngestDocuments(context.Background(), sampleRequest())
	if fault.KindOf(err) != fault.KindBackendRejected {
		t.Fatalf("kind: got %q, want backend_rejected", fault.KindOf(err))
	}
	if !strings.Contains(err.Error(), "corpus too large") {
		t.Errorf("error should carry backend message, got %v", err)
	}
}

func TestIngestDocumentsRequiresFiles(t *testing.T) {
	p, _ := New("http://localhost:1")
	req := sampleRequest()
	req.Files = nil
	if err := p.IngestDocuments(context.Background(), req); err == nil {
		t.Fatal("expected error for empty file list")
	}
}

func TestIngestDocumentsRequiresSessionID(t *testing.T) {
	p, _ := New("http://localhost:1")
	req := sampleRequest()
	req.SessionID = ""
	if err := p.IngestDocuments(context.Background(), req); err == nil {
		t.Fatal("expected error for missing session id")
	}
}
