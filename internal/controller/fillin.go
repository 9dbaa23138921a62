package controller

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrWong99/murshed/internal/session"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

// fillIn scans the history for assistant turns without audio and synthesises
// the missing blobs. Each gap gets at most one attempt per pass; a failed
// attempt counts against the per-turn cap and is retried on the next pass.
// Independent gaps run concurrently, but all results are attached here, on
// the pass goroutine, in history order.
func (c *Controller) fillIn(ctx context.Context) {
	route, ok := c.tts[c.sess.TTSProvider]
	if !ok {
		c.logger.Error("no synthesis route for provider", "provider", c.sess.TTSProvider)
		return
	}

	turns := c.sess.Turns()
	var gaps []int
	for i, t := range turns {
		if t.Role == session.RoleAssistant && t.Audio == nil &&
			t.Text != "" && t.SynthAttempts < c.maxSynthAttempts {
			gaps = append(gaps, i)
		}
	}
	if len(gaps) == 0 {
		return
	}

	voice := c.sess.Voice
	results := make([]*tts.Audio, len(gaps))

	var g errgroup.Group
	g.SetLimit(c.synthConcurrency)
	for n, idx := range gaps {
		n, idx := n, idx
		g.Go(func() error {
			start := time.Now()
			blob, err := route.Synthesize(ctx, turns[idx].Text, voice)
			c.metrics.SynthesizeDuration.Record(ctx, time.Since(start).Seconds())
			if err != nil {
				// Gap stays open for the next pass; no error is surfaced
				// because the reply text is already usable.
				c.logger.Warn("synthesis failed", "provider", route.Name(), "turn", idx, "error", err)
				c.metrics.RecordProviderRequest(ctx, route.Name(), "synthesize", "error")
				return nil
			}
			c.metrics.RecordProviderRequest(ctx, route.Name(), "synthesize", "ok")
			results[n] = blob
			return nil
		})
	}
	_ = g.Wait()

	for n, idx := range gaps {
		if results[n] != nil {
			c.sess.AttachAudio(idx, results[n])
			continue
		}
		if c.sess.MarkSynthAttempt(idx) >= c.maxSynthAttempts {
			c.logger.Warn("giving up on turn audio", "turn", idx, "attempts", c.maxSynthAttempts)
		}
	}
}
