// Command murshed is the terminal client for the Murshed document assistant.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/MrWong99/murshed/internal/config"
	"github.com/MrWong99/murshed/internal/controller"
	"github.com/MrWong99/murshed/internal/document"
	"github.com/MrWong99/murshed/internal/health"
	"github.com/MrWong99/murshed/internal/observe"
	"github.com/MrWong99/murshed/internal/session"
	"github.com/MrWong99/murshed/internal/tui"
	chatmarahel "github.com/MrWong99/murshed/pkg/provider/chat/marahel"
	ingestmarahel "github.com/MrWong99/murshed/pkg/provider/ingest/marahel"
	sttmarahel "github.com/MrWong99/murshed/pkg/provider/stt/marahel"
	"github.com/MrWong99/murshed/pkg/provider/tts"
	"github.com/MrWong99/murshed/pkg/provider/tts/openaitts"
	"github.com/MrWong99/murshed/pkg/provider/tts/playht"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	backendURL := flag.String("backend", "", "backend base URL (overrides backend.base_url from the config)")
	logPath := flag.String("log", "", "log file path (the TUI owns the terminal; empty discards logs)")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		// A missing config file is fine when -backend supplies the one
		// required value; everything else has defaults.
		if *backendURL != "" && errors.Is(err, os.ErrNotExist) {
			cfg = config.Default()
		} else if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "murshed: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
			return 1
		} else {
			fmt.Fprintf(os.Stderr, "murshed: %v\n", err)
			return 1
		}
	}
	if *backendURL != "" {
		cfg.Backend.BaseURL = strings.TrimSuffix(*backendURL, "/")
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "murshed: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger, closeLog, err := newLogger(*logPath, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "murshed: %v\n", err)
		return 1
	}
	defer closeLog()
	slog.SetDefault(logger)

	slog.Info("murshed starting",
		"backend", cfg.Backend.BaseURL,
		"tts_provider", cfg.TTS.Provider,
		"log_level", cfg.LogLevel,
	)

	// ── Metrics ───────────────────────────────────────────────────────────────
	obs, err := observe.InitProvider(observe.ProviderConfig{ServiceName: "murshed"})
	if err != nil {
		slog.Error("failed to initialise metrics", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("metrics shutdown error", "err", err)
		}
	}()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", obs.Handler())
		health.New(health.BackendChecker(cfg.Backend.BaseURL, nil)).Register(mux)
		go func() {
			slog.Info("metrics listening", "addr", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				slog.Error("metrics listener error", "err", err)
			}
		}()
	}

	// ── Backend adapters ──────────────────────────────────────────────────────
	base := cfg.Backend.BaseURL

	var sttOpts []sttmarahel.Option
	if d := cfg.Backend.TranscribeTimeout.Std(); d > 0 {
		sttOpts = append(sttOpts, sttmarahel.WithTimeout(d))
	}
	sttProvider, err := sttmarahel.New(base, sttOpts...)
	if err != nil {
		slog.Error("failed to create transcription adapter", "err", err)
		return 1
	}

	var openaiOpts []openaitts.Option
	var playhtOpts []playht.Option
	if d := cfg.Backend.SynthesizeTimeout.Std(); d > 0 {
		openaiOpts = append(openaiOpts, openaitts.WithTimeout(d))
		playhtOpts = append(playhtOpts, playht.WithTimeout(d))
	}
	openaiProvider, err := openaitts.New(base, openaiOpts...)
	if err != nil {
		slog.Error("failed to create openai tts adapter", "err", err)
		return 1
	}
	playhtProvider, err := playht.New(base, playhtOpts...)
	if err != nil {
		slog.Error("failed to create playht tts adapter", "err", err)
		return 1
	}

	var chatOpts []chatmarahel.Option
	if d := cfg.Backend.AskTimeout.Std(); d > 0 {
		chatOpts = append(chatOpts, chatmarahel.WithTimeout(d))
	}
	chatProvider, err := chatmarahel.New(base, chatOpts...)
	if err != nil {
		slog.Error("failed to create chat adapter", "err", err)
		return 1
	}

	var ingestOpts []ingestmarahel.Option
	if d := cfg.Backend.IngestTimeout.Std(); d > 0 {
		ingestOpts = append(ingestOpts, ingestmarahel.WithTimeout(d))
	}
	ingestProvider, err := ingestmarahel.New(base, ingestOpts...)
	if err != nil {
		slog.Error("failed to create ingestion adapter", "err", err)
		return 1
	}

	// ── Session and controller ────────────────────────────────────────────────
	sess := session.New()
	sess.TTSProvider = cfg.TTS.Provider
	if cfg.TTS.Voice != "" {
		sess.Voice = tts.Voice(cfg.TTS.Voice)
	}

	ctrlOpts := []controller.Option{
		controller.WithLogger(logger),
		controller.WithMaxSynthAttempts(cfg.Audio.MaxSynthAttempts),
		controller.WithSynthConcurrency(cfg.Audio.SynthConcurrency),
	}
	if d := cfg.Backend.AskTimeout.Std(); d > 0 {
		ctrlOpts = append(ctrlOpts, controller.WithAskTimeout(d))
	}
	ctrl, err := controller.New(sess, sttProvider, map[string]tts.Provider{
		"openai": openaiProvider,
		"playht": playhtProvider,
	}, chatProvider, ctrlOpts...)
	if err != nil {
		slog.Error("failed to create controller", "err", err)
		return 1
	}

	docs, err := document.NewService(ingestProvider,
		document.WithLogger(logger),
		document.WithParams(document.Params{
			ChunkSize:       cfg.Ingestion.ChunkSize,
			ChunkOverlap:    cfg.Ingestion.ChunkOverlap,
			EmbeddingsModel: cfg.Ingestion.EmbeddingsModel,
			VectorStore:     cfg.Ingestion.VectorStore,
			LLMModel:        cfg.Ingestion.LLMModel,
		}),
	)
	if err != nil {
		slog.Error("failed to create document service", "err", err)
		return 1
	}

	// ── TUI ───────────────────────────────────────────────────────────────────
	slog.Info("session ready", "session_id", sess.ID, "user_id", sess.UserID)
	if err := tui.Run(ctrl, docs, tui.Options{
		Providers: config.TTSProviders,
		Logger:    logger,
	}); err != nil {
		slog.Error("tui error", "err", err)
		return 1
	}

	slog.Info("goodbye")
	return 0
}

// newLogger builds the process logger. The TUI owns the terminal, so logs go
// to a file when -log is given and are discarded otherwise.
func newLogger(path string, level config.LogLevel) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: level.SlogLevel()}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %q: %w", path, err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}
