package playht

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

func TestSynthesizeSuccess(t *testing.T) {
	audio := []byte("playht-mpeg")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/playht-text-to-speech" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req synthesizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "bonjour" {
			t.Errorf("text: got %q", req.Text)
		}
		w.Write(audio)
	}))
	defer srv.Close()

	p, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// The voice argument must be ignored, including invalid values.
	got, err := p.Synthesize(context.Background(), "bonjour", tts.Voice("ignored"))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(got.Data, audio) {
		t.Error("audio bytes do not match server response")
	}
}

func TestSynthesizeBackendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "playht quota exceeded"})
	}))
	defer srv.Close()

	p, _ := New(srv.URL)
	_, err := p.Synthesize(context.Background(), "hello", tts.DefaultVoice)
	if fault.KindOf(err) != fault.KindBackendRejected {
		t.Fatalf("kind: got %q, want backend_rejected (err=%v)", fault.KindOf(err), err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	p, _ := New("http://localhost:1")
	if _, err := p.Synthesize(context.Background(), "", tts.DefaultVoice); err == nil {
		t.Fatal("expected error for empty text")
	}
}
