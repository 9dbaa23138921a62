// Package stt defines the Provider interface for the Speech-to-Text route of
// the Murshed backend.
//
// Transcription is batch: the capture surface hands over one complete WAV
// utterance and the provider performs a single HTTP round trip to turn it
// into text. There is no streaming session — deduplication of re-delivered
// captures is the controller's job, not the provider's.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// Provider is the abstraction over a batch transcription backend.
//
// Transcribe performs exactly one network attempt and returns a classified
// *fault.Error on failure. Providers never retry internally.
type Provider interface {
	// Transcribe converts a complete WAV capture into text. An empty capture
	// is rejected locally (fault.KindEmptyAudio) without a network call; a
	// blank transcript from the backend is reported the same way so callers
	// can treat "nothing recognisable was said" uniformly.
	Transcribe(ctx context.Context, wav []byte) (string, error)
}
