package testsupport

import (
	"path/filepath"
	"testing"

	"resound/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.VideoDir = filepath.Join(base, "video")
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.AudioInputDir = filepath.Join(base, "audio-input")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.History.Path = filepath.Join(base, "history.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithoutHistory disables run-history recording on the test config.
func WithoutHistory() ConfigOption {
	return func(cfg *config.Config) {
		cfg.History.Enabled = false
	}
}
