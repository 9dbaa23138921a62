package controller

import "github.com/MrWong99/murshed/internal/session"

// Inputs carries the external events delivered to one render pass. Both
// fields are optional; the capture surface may re-deliver the same audio
// buffer on every pass.
type Inputs struct {
	// TypedText is a text submission made for this pass, if any.
	TypedText string

	// AudioCapture is the raw WAV buffer most recently captured from the
	// microphone, if any. The same buffer may arrive on many passes in a
	// row; the fingerprint guard decides whether it is new.
	AudioCapture []byte
}

// View is the presentation-facing result of one render pass. It is a
// snapshot: mutating it has no effect on the session.
type View struct {
	// Turns is the conversation history in append order.
	Turns []session.Turn

	// Directive is a prompt the user must act on before the conversation
	// can proceed, e.g. asking for a document to be ingested. Empty when
	// the conversation is ready.
	Directive string

	// Recognized is the transcript of an audio capture accepted during this
	// pass. Empty when the pass had no voiced submission.
	Recognized string

	// Err is the last surfaced, non-fatal error, or nil.
	Err *session.ErrorInfo

	// Rerender asks the driver to schedule an immediate follow-up pass.
	// Set after an assistant turn is appended so the reply text becomes
	// visible before audio synthesis starts.
	Rerender bool
}
