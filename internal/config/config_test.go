package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"splitplan/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported missing")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Naming.MaxNameLength != 50 {
		t.Fatalf("expected default max_name_length 50, got %d", cfg.Naming.MaxNameLength)
	}
	if cfg.Workflow.ManifestFile != "manifest.md" {
		t.Fatalf("unexpected manifest filename: %q", cfg.Workflow.ManifestFile)
	}
	if !filepath.IsAbs(cfg.Paths.StateDir) {
		t.Fatalf("expected state dir expanded to absolute path, got %q", cfg.Paths.StateDir)
	}
	if cfg.Paths.TasksDB != filepath.Join(cfg.Paths.StateDir, "tasks.db") {
		t.Fatalf("expected tasks db under state dir, got %q", cfg.Paths.TasksDB)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		"state_dir = " + quote(filepath.Join(dir, "state")),
		"[naming]",
		"max_name_length = 24",
		"[workflow]",
		`manifest_file = "project-manifest.md"`,
		"[logging]",
		`format = "json"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Naming.MaxNameLength != 24 {
		t.Fatalf("expected max_name_length 24, got %d", cfg.Naming.MaxNameLength)
	}
	if cfg.Workflow.ManifestFile != "project-manifest.md" {
		t.Fatalf("unexpected manifest filename: %q", cfg.Workflow.ManifestFile)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	// Unset sections keep defaults.
	if cfg.Workflow.SpecFile != "spec.md" {
		t.Fatalf("expected default spec filename, got %q", cfg.Workflow.SpecFile)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"bad log format", "[logging]\nformat = \"xml\""},
		{"zero name length", "[naming]\nmax_name_length = 0"},
		{"path in filename", "[workflow]\nmanifest_file = \"sub/manifest.md\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config invalid: %v", err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := config.ExpandPath("~/planning")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if got != filepath.Join(home, "planning") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
