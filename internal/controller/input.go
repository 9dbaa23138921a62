package controller

import (
	"context"
	"strings"
	"time"

	"github.com/MrWong99/murshed/internal/session"
)

// disambiguate turns the pass inputs into at most one effective submission.
//
// A non-empty audio capture wins over typed text, but only when its
// fingerprint differs from the last accepted one and no transcription is
// already in flight; the capture surface re-delivers the same buffer on every
// pass, so the guard is what keeps one utterance from becoming many turns.
// When a new capture fails to transcribe the pass has no submission at all —
// typed text is a fallback for "no new audio", not for "audio failed".
//
// The second return value is the transcript of an accepted capture, surfaced
// to the view, or empty for typed and empty passes.
func (c *Controller) disambiguate(ctx context.Context, in Inputs) (string, string) {
	if len(in.AudioCapture) > 0 {
		fp := session.FingerprintOf(in.AudioCapture)
		switch {
		case !c.sess.Guard.IsNew(fp):
			c.metrics.CapturesDeduplicated.Add(ctx, 1)
		case c.sess.Guard.Transcribing:
			// A pass is already mid-transcription for this session.
		default:
			text, ok := c.transcribe(ctx, in.AudioCapture)
			if !ok {
				return "", ""
			}
			c.sess.Guard.Accept(fp)
			return text, text
		}
	}

	if typed := strings.TrimSpace(in.TypedText); typed != "" {
		return typed, ""
	}
	return "", ""
}

// transcribe runs the speech-to-text round trip under the in-flight guard.
func (c *Controller) transcribe(ctx context.Context, capture []byte) (string, bool) {
	c.sess.Guard.Transcribing = true
	defer func() { c.sess.Guard.Transcribing = false }()

	start := time.Now()
	text, err := c.stt.Transcribe(ctx, capture)
	c.metrics.TranscribeDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		c.sess.SetErrorFrom(err)
		c.logger.Warn("transcription failed", "error", err)
		c.metrics.RecordProviderRequest(ctx, "marahel", "transcribe", "error")
		return "", false
	}
	c.metrics.RecordProviderRequest(ctx, "marahel", "transcribe", "ok")
	return text, true
}
