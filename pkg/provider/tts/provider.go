// Package tts defines the Provider interface for the Text-to-Speech routes of
// the Murshed backend.
//
// The backend exposes two synthesis routes — one backed by OpenAI voices and
// one backed by PlayHT — and both are modelled as implementations of the same
// Provider interface so that the session controller can switch between them by
// name without branching on call shape. Synthesis is batch: one HTTP round
// trip per utterance, returning the complete encoded audio.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// Provider is the abstraction over a synthesis route of the backend.
//
// Synthesize performs exactly one network attempt. Failures are returned as
// classified *fault.Error values; the provider never retries internally —
// retry policy belongs to the caller (see the controller's fill-in pass).
type Provider interface {
	// Synthesize converts text into encoded audio using the given voice.
	// Providers that do not support voice selection ignore the voice argument.
	//
	// The returned Audio is non-nil exactly when error is nil. An empty text
	// argument is an error; callers should not ask for silence.
	Synthesize(ctx context.Context, text string, voice Voice) (*Audio, error)

	// Name returns the provider's registry name (e.g., "openai", "playht").
	Name() string
}
