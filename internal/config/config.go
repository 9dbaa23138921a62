// Package config provides the configuration schema and loader for the
// Murshed conversation client.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration wraps time.Duration with YAML support for strings like "30s".
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration structure for Murshed.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	TTS       TTSConfig       `yaml:"tts"`
	Ingestion IngestionConfig `yaml:"ingestion"`
	Audio     AudioConfig     `yaml:"audio"`

	// LogLevel controls verbosity. Defaults to "info".
	LogLevel LogLevel `yaml:"log_level"`

	// MetricsAddr is the TCP address serving the Prometheus scrape endpoint
	// (e.g., ":9091"). Leave empty to disable the metrics listener.
	MetricsAddr string `yaml:"metrics_addr"`
}

// BackendConfig locates the Murshed backend and bounds its round trips.
type BackendConfig struct {
	// BaseURL is the backend origin, without a trailing slash
	// (e.g., "https://testing.murshed.marahel.sa").
	BaseURL string `yaml:"base_url"`

	// Per-route timeouts. Zero values fall back to the adapters' defaults.
	TranscribeTimeout Duration `yaml:"transcribe_timeout"`
	SynthesizeTimeout Duration `yaml:"synthesize_timeout"`
	AskTimeout        Duration `yaml:"ask_timeout"`
	IngestTimeout     Duration `yaml:"ingest_timeout"`
}

// TTSConfig selects the initial synthesis route and voice. Both can be
// changed mid-session from the UI.
type TTSConfig struct {
	// Provider is the synthesis route: "openai" or "playht".
	Provider string `yaml:"provider"`

	// Voice is the voice used by the openai route. Ignored by playht,
	// which chooses its own voice server-side.
	Voice string `yaml:"voice"`
}

// IngestionConfig holds the corpus-splitting and retrieval-stack parameters
// sent with every document ingestion.
type IngestionConfig struct {
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	EmbeddingsModel string `yaml:"embeddings_model"`
	VectorStore     string `yaml:"vectorstore"`
	LLMModel        string `yaml:"llm"`
}

// AudioConfig tunes the lazy audio fill-in.
type AudioConfig struct {
	// MaxSynthAttempts caps failed synthesis attempts per assistant turn
	// before the turn stays text-only.
	MaxSynthAttempts int `yaml:"max_synth_attempts"`

	// SynthConcurrency bounds parallel synthesis calls within one pass.
	SynthConcurrency int `yaml:"synth_concurrency"`
}

// TTSProviders lists the synthesis routes the backend exposes.
var TTSProviders = []string{"openai", "playht"}

// Default returns a Config with every optional field set to its default.
// Backend.BaseURL stays empty and must be provided.
func Default() *Config {
	return &Config{
		TTS: TTSConfig{
			Provider: "openai",
			Voice:    "alloy",
		},
		Ingestion: IngestionConfig{
			ChunkSize:       1000,
			ChunkOverlap:    100,
			EmbeddingsModel: "openai",
			VectorStore:     "qdrant",
			LLMModel:        "openai",
		},
		Audio: AudioConfig{
			MaxSynthAttempts: 3,
			SynthConcurrency: 2,
		},
		LogLevel: LogInfo,
	}
}
