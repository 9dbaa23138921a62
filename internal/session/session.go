// Package session holds the state of one conversation with the Murshed
// backend: identifiers, the ordered turn history, provider preferences, and
// the in-flight guards that make repeated render passes idempotent.
//
// A Session is exclusively owned by its controller and is only ever mutated
// from inside a render pass. Render passes never overlap for the same
// session, so the type carries no locking — concurrency discipline lives in
// the driver, not here.
package session

import (
	"crypto/sha256"

	"github.com/google/uuid"

	"github.com/MrWong99/murshed/pkg/provider/chat"
	"github.com/MrWong99/murshed/pkg/provider/fault"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

// Role identifies the author of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the conversation. Turns are immutable once appended,
// with two exceptions owned by the audio fill-in: attaching the synthesised
// Audio (at most once) and the synthesis attempt counter.
type Turn struct {
	// Role is the turn's author.
	Role Role

	// Text is the message content.
	Text string

	// Sources lists the documents an assistant reply was grounded on.
	// Always nil for user turns.
	Sources []chat.Source

	// Audio is the synthesised speech for an assistant reply. Nil until the
	// fill-in pass attaches it; never recomputed or overwritten once set.
	Audio *tts.Audio

	// SynthAttempts counts failed synthesis attempts for this turn, so the
	// fill-in can stop retrying after the configured cap.
	SynthAttempts int
}

// ErrorInfo is the last surfaced, non-fatal error of the session.
type ErrorInfo struct {
	Kind    fault.Kind
	Message string
}

// Fingerprint identifies a raw audio capture by content. Two captures with
// the same fingerprint are the same utterance re-delivered by the capture
// surface.
type Fingerprint [sha256.Size]byte

// FingerprintOf computes the content fingerprint of a capture.
func FingerprintOf(capture []byte) Fingerprint {
	return sha256.Sum256(capture)
}

// AudioGuard deduplicates the continuously re-delivered microphone channel.
// It remembers only the most recently accepted capture — a rolling memo, not
// a history — plus the transcription in-flight flag.
type AudioGuard struct {
	lastAccepted Fingerprint
	accepted     bool

	// Transcribing is set for the duration of a transcription call so that a
	// re-entrant pass cannot start a second one.
	Transcribing bool
}

// Accept records fp as the most recently accepted capture.
func (g *AudioGuard) Accept(fp Fingerprint) {
	g.lastAccepted = fp
	g.accepted = true
}

// IsNew reports whether fp differs from the most recently accepted capture.
// Every fingerprint is new until the first Accept.
func (g *AudioGuard) IsNew(fp Fingerprint) bool {
	return !g.accepted || fp != g.lastAccepted
}

// Session is the durable-for-the-session state of one conversation.
type Session struct {
	// ID keys the backend document index for this conversation.
	ID string

	// UserID identifies the user to the backend.
	UserID string

	// DocumentReady is true once an ingestion has succeeded.
	DocumentReady bool

	// ProcessingError is the sticky ingestion failure flag. It gates the
	// conversation until a later ingestion succeeds.
	ProcessingError bool

	// TTSProvider names the synthesis route used by the fill-in pass
	// (e.g., "openai", "playht").
	TTSProvider string

	// Voice is the voice used by voice-capable synthesis routes.
	Voice tts.Voice

	// Guard deduplicates the audio input channel across render passes.
	Guard AudioGuard

	lastError *ErrorInfo
	turns     []Turn
}

// New creates a Session with freshly generated identifiers and defaults.
// Identifiers are generated exactly once, here, and live for the session.
func New() *Session {
	return &Session{
		ID:          uuid.NewString(),
		UserID:      uuid.NewString(),
		TTSProvider: "openai",
		Voice:       tts.DefaultVoice,
	}
}

// Turns returns a copy of the conversation history in append order.
// Mutating the returned slice does not affect the session; the Audio
// pointers are shared because blobs are immutable once attached.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the history.
func (s *Session) Len() int {
	return len(s.turns)
}

// AppendUserTurn appends a user message to the history.
func (s *Session) AppendUserTurn(text string) {
	s.turns = append(s.turns, Turn{Role: RoleUser, Text: text})
}

// AppendAssistantTurn appends an assistant reply, audio intentionally absent.
// The fill-in pass attaches audio later, once the text is already visible.
func (s *Session) AppendAssistantTurn(text string, sources []chat.Source) {
	s.turns = append(s.turns, Turn{Role: RoleAssistant, Text: text, Sources: sources})
}

// AttachAudio attaches blob to the assistant turn at index i. The operation
// is idempotent by construction: it reports false and changes nothing when
// the index is out of range, the turn is not an assistant turn, or audio is
// already present.
func (s *Session) AttachAudio(i int, blob *tts.Audio) bool {
	if i < 0 || i >= len(s.turns) || blob == nil {
		return false
	}
	t := &s.turns[i]
	if t.Role != RoleAssistant || t.Audio != nil {
		return false
	}
	t.Audio = blob
	return true
}

// MarkSynthAttempt records one failed synthesis attempt against turn i and
// returns the updated count. Attempts on turns that already have audio are
// not recorded.
func (s *Session) MarkSynthAttempt(i int) int {
	if i < 0 || i >= len(s.turns) {
		return 0
	}
	t := &s.turns[i]
	if t.Role != RoleAssistant || t.Audio != nil {
		return t.SynthAttempts
	}
	t.SynthAttempts++
	return t.SynthAttempts
}

// LastError returns the last surfaced error, or nil.
func (s *Session) LastError() *ErrorInfo {
	return s.lastError
}

// SetError surfaces a non-fatal error to the view.
func (s *Session) SetError(kind fault.Kind, message string) {
	s.lastError = &ErrorInfo{Kind: kind, Message: message}
}

// SetErrorFrom surfaces err, carrying over its fault kind when it has one.
func (s *Session) SetErrorFrom(err error) {
	if err == nil {
		return
	}
	s.lastError = &ErrorInfo{Kind: fault.KindOf(err), Message: err.Error()}
}

// ClearError removes the surfaced error.
func (s *Session) ClearError() {
	s.lastError = nil
}

// ResetHistory drops the conversation history. Used when a new corpus is
// ingested: the old conversation was grounded on the old index.
func (s *Session) ResetHistory() {
	s.turns = nil
}
