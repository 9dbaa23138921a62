// Package controller implements the render-pass state machine that drives one
// conversation: it disambiguates the two input channels, submits effective
// queries to the chat backend, and lazily attaches synthesised audio to
// assistant turns.
//
// A render pass is one call to [Controller.RenderPass]. The driver guarantees
// passes never overlap for the same controller; within that contract every
// pass is idempotent with respect to re-delivered inputs.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/MrWong99/murshed/internal/observe"
	"github.com/MrWong99/murshed/internal/session"
	"github.com/MrWong99/murshed/pkg/provider/chat"
	"github.com/MrWong99/murshed/pkg/provider/stt"
	"github.com/MrWong99/murshed/pkg/provider/tts"
)

const (
	defaultAskTimeout       = 30 * time.Second
	defaultMaxSynthAttempts = 3
	defaultSynthConcurrency = 2
)

// Directives surfaced when the conversation cannot proceed.
const (
	DirectiveIngestFirst  = "Ingest a document to start the conversation."
	DirectiveIngestFailed = "Document processing failed. Ingest a document to continue."
)

// Controller owns one session and advances it through render passes.
type Controller struct {
	sess    *session.Session
	stt     stt.Provider
	tts     map[string]tts.Provider
	chat    chat.Provider
	logger  *slog.Logger
	metrics *observe.Metrics

	askTimeout       time.Duration
	maxSynthAttempts int
	synthConcurrency int
}

// Option customises a Controller.
type Option func(*Controller)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithMetrics sets the metrics sink. Defaults to observe.DefaultMetrics().
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithAskTimeout bounds each chat request. Defaults to 30s.
func WithAskTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.askTimeout = d
	}
}

// WithMaxSynthAttempts caps failed synthesis attempts per assistant turn.
// Once the cap is reached the turn stays text-only. Defaults to 3.
func WithMaxSynthAttempts(n int) Option {
	return func(c *Controller) {
		c.maxSynthAttempts = n
	}
}

// WithSynthConcurrency bounds how many turns are synthesised in parallel
// during one fill-in scan. Defaults to 2.
func WithSynthConcurrency(n int) Option {
	return func(c *Controller) {
		c.synthConcurrency = n
	}
}

// New creates a Controller for sess. ttsRoutes maps provider names (as stored
// in the session's TTSProvider field) to synthesis providers and must contain
// at least one route.
func New(sess *session.Session, sttProvider stt.Provider, ttsRoutes map[string]tts.Provider, chatProvider chat.Provider, opts ...Option) (*Controller, error) {
	if sess == nil {
		return nil, errors.New("controller: session must not be nil")
	}
	if sttProvider == nil {
		return nil, errors.New("controller: stt provider must not be nil")
	}
	if len(ttsRoutes) == 0 {
		return nil, errors.New("controller: at least one tts route is required")
	}
	if chatProvider == nil {
		return nil, errors.New("controller: chat provider must not be nil")
	}

	c := &Controller{
		sess:             sess,
		stt:              sttProvider,
		tts:              ttsRoutes,
		chat:             chatProvider,
		askTimeout:       defaultAskTimeout,
		maxSynthAttempts: defaultMaxSynthAttempts,
		synthConcurrency: defaultSynthConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.metrics == nil {
		c.metrics = observe.DefaultMetrics()
	}
	if _, ok := c.tts[sess.TTSProvider]; !ok {
		return nil, errors.New("controller: session tts provider " + sess.TTSProvider + " has no route")
	}
	return c, nil
}

// Session returns the session owned by this controller.
func (c *Controller) Session() *session.Session {
	return c.sess
}

// RenderPass evaluates the whole session once: disambiguate inputs, submit an
// effective query if there is one, fill in missing turn audio, and emit a
// view. Callers must serialise passes; RenderPass itself may fan out
// synthesis calls internally but attaches their results before returning.
func (c *Controller) RenderPass(ctx context.Context, in Inputs) View {
	c.metrics.RenderPasses.Add(ctx, 1)

	query, recognized := c.disambiguate(ctx, in)

	var rerender bool
	if query != "" {
		rerender = c.orchestrate(ctx, query)
	}

	// Defer synthesis to the follow-up pass so a fresh reply is rendered as
	// text before the slow audio round trips begin.
	if !rerender {
		c.fillIn(ctx)
	}

	return View{
		Turns:      c.sess.Turns(),
		Directive:  c.directive(),
		Recognized: recognized,
		Err:        c.sess.LastError(),
		Rerender:   rerender,
	}
}

// orchestrate appends the user turn, asks the backend, and appends the reply.
// Reports whether an assistant turn was appended and an immediate follow-up
// pass should run. Refuses to touch history while no document is ready; that
// is a precondition surfaced as a view directive, not an error.
func (c *Controller) orchestrate(ctx context.Context, query string) bool {
	if !c.sess.DocumentReady || c.sess.ProcessingError {
		return false
	}

	c.sess.ClearError()
	c.sess.AppendUserTurn(query)
	c.metrics.RecordTurn(ctx, string(session.RoleUser))

	actx, cancel := context.WithTimeout(ctx, c.askTimeout)
	defer cancel()

	start := time.Now()
	reply, err := c.chat.Ask(actx, query, c.sess.ID, c.sess.UserID)
	c.metrics.AskDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		// The dangling user turn stays; the conversation can continue.
		c.sess.SetErrorFrom(err)
		c.logger.Warn("chat request failed", "error", err)
		c.metrics.RecordProviderRequest(ctx, "marahel", "ask", "error")
		return false
	}
	c.metrics.RecordProviderRequest(ctx, "marahel", "ask", "ok")

	c.sess.AppendAssistantTurn(reply.Text, reply.Sources)
	c.metrics.RecordTurn(ctx, string(session.RoleAssistant))
	return true
}

// directive returns the blocking prompt for the current session state.
func (c *Controller) directive() string {
	switch {
	case c.sess.ProcessingError:
		return DirectiveIngestFailed
	case !c.sess.DocumentReady:
		return DirectiveIngestFirst
	default:
		return ""
	}
}
