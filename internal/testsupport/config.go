// Package testsupport provides shared fixtures for splitplan tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"splitplan/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.TasksDB = filepath.Join(base, "state", "tasks.db")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithMaxNameLength overrides the sanitization limit on the test config.
func WithMaxNameLength(n int) ConfigOption {
	return func(c *config.Config) {
		c.Naming.MaxNameLength = n
	}
}
