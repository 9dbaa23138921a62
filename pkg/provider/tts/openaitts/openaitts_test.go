package openaitts

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty baseURL")
	}
}

func TestSynthesizeSuccess(t *testing.T) {
	audio := []byte("mpeg-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/text-to-speech" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req synthesizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "hello" {
			t.Errorf("text: got %q, want %q", req.Text, "hello")
		}
		if req.VoiceType != "nova" {
			t.Errorf("voice_type: got %q, want %q", req.VoiceType, "nova")
		}
		w.Write(audio)
	}))
	defer srv.Close()

	p, err := New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := p.Synthesize(context.Background(), "hello", tts.VoiceNova)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(got.Data, audio) {
		t.Error("audio bytes do not match server response")
	}
	if got.MIME != tts.MIMEMPEG {
		t.Errorf("MIME: got %q, want %q", got.MIME, tts.MIMEMPEG)
	}
}

func TestSynthesizeBackendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "voice model unavailable"})
	}))
	defer srv.Close()

	p, _ := New(srv.URL)
	_, err := p.Synthesize(context.Background(), "hello", tts.VoiceAlloy)
	if fault.KindOf(err) != fault.KindBackendRejected {
		t.Fatalf("kind: got %q, want %q (err=%v)", fault.KindOf(err), fault.KindBackendRejected, err)
	}
	if want := "voice model unavailable"; !bytes.Contains([]byte(err.Error()), []byte(want)) {
		t.Errorf("error should carry the backend message, got %v", err)
	}
}

func TestSynthesizeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	p, _ := New(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := p.Synthesize(context.Background(), "hello", tts.VoiceAlloy)
	if fault.KindOf(err) != fault.KindTimeout {
		t.Fatalf("kind: got %q, want %q (err=%v)", fault.KindOf(err), fault.KindTimeout, err)
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	p, _ := New("http://localhost:1")
	if _, err := p.Synthesize(context.Background(), "   ", tts.VoiceAlloy); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesizeRejectsUnknownVoice(t *testing.T) {
	p, _ := New("http://localhost:1")
	if _, err := p.Synthesize(context.Background(), "hello", tts.Voice("baritone")); err == nil {
		t.Fatal("expected error for unknown voice")
	}
}
