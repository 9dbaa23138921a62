package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrWong99/murshed/pkg/provider/tts"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r on top of [Default] and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.base_url is required"))
	} else if strings.HasSuffix(cfg.Backend.BaseURL, "/") {
		errs = append(errs, fmt.Errorf("backend.base_url %q must not end with a slash", cfg.Backend.BaseURL))
	}

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if !slices.Contains(TTSProviders, cfg.TTS.Provider) {
		errs = append(errs, fmt.Errorf("tts.provider %q is invalid; valid values: %s", cfg.TTS.Provider, strings.Join(TTSProviders, ", ")))
	}
	if cfg.TTS.Voice != "" && !tts.Voice(cfg.TTS.Voice).IsValid() {
		errs = append(errs, fmt.Errorf("tts.voice %q is not a known voice", cfg.TTS.Voice))
	}
	if cfg.TTS.Provider == "playht" && cfg.TTS.Voice != "" {
		slog.Warn("tts.voice is ignored by the playht route; the backend chooses the voice")
	}

	if cfg.Ingestion.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("ingestion.chunk_size %d must be positive", cfg.Ingestion.ChunkSize))
	}
	if cfg.Ingestion.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("ingestion.chunk_overlap %d must not be negative", cfg.Ingestion.ChunkOverlap))
	}
	if cfg.Ingestion.ChunkSize > 0 && cfg.Ingestion.ChunkOverlap >= cfg.Ingestion.ChunkSize {
		errs = append(errs, fmt.Errorf("ingestion.chunk_overlap %d must be smaller than chunk_size %d", cfg.Ingestion.ChunkOverlap, cfg.Ingestion.ChunkSize))
	}

	if cfg.Audio.MaxSynthAttempts < 1 {
		errs = append(errs, fmt.Errorf("audio.max_synth_attempts %d must be at least 1", cfg.Audio.MaxSynthAttempts))
	}
	if cfg.Audio.SynthConcurrency < 1 {
		errs = append(errs, fmt.Errorf("audio.synth_concurrency %d must be at least 1", cfg.Audio.SynthConcurrency))
	}

	for _, d := range []struct {
		name string
		val  Duration
	}{
		{"backend.transcribe_timeout", cfg.Backend.TranscribeTimeout},
		{"backend.synthesize_timeout", cfg.Backend.SynthesizeTimeout},
		{"backend.ask_timeout", cfg.Backend.AskTimeout},
		{"backend.ingest_timeout", cfg.Backend.IngestTimeout},
	} {
		if d.val < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", d.name))
		}
	}

	return errors.Join(errs...)
}

// SlogLevel maps the configured level to its slog equivalent.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
