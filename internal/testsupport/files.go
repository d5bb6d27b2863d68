package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and parents) with the given content.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MkdirAll creates a directory tree, failing the test on error.
func MkdirAll(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// ManifestDoc renders a planning document whose manifest block declares the
// given NN-name entries.
func ManifestDoc(entries ...string) string {
	doc := "<!-- SPLIT_MANIFEST\n"
	for _, entry := range entries {
		doc += entry + "\n"
	}
	doc += "END_MANIFEST -->\n\n# Project Manifest\n"
	return doc
}
