package workflow_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"splitplan/internal/testsupport"
	"splitplan/internal/workflow"
)

func planningWithManifest(t *testing.T, entries ...string) (string, string) {
	t.Helper()
	planning := t.TempDir()
	input := filepath.Join(planning, "input.md")
	testsupport.WriteFile(t, input, "# Project\n")
	testsupport.WriteFile(t, filepath.Join(planning, "manifest.md"), testsupport.ManifestDoc(entries...))
	return planning, input
}

func TestCreateDirsMaterializesManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	planning, input := planningWithManifest(t, "01-backend", "02-frontend")

	result, err := workflow.CreateDirs(cfg, nil, input)
	if err != nil {
		t.Fatalf("CreateDirs failed: %v", err)
	}
	if !reflect.DeepEqual(result.Created, []string{"01-backend", "02-frontend"}) {
		t.Fatalf("unexpected created: %v", result.Created)
	}
	if result.SplitsRoot != filepath.Join(planning, "splits") {
		t.Fatalf("unexpected splits root %q", result.SplitsRoot)
	}
	for _, dir := range result.Created {
		if info, err := os.Stat(filepath.Join(result.SplitsRoot, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}

	second, err := workflow.CreateDirs(cfg, nil, input)
	if err != nil {
		t.Fatalf("second CreateDirs failed: %v", err)
	}
	if len(second.Created) != 0 || len(second.Skipped) != 2 {
		t.Fatalf("second pass must only skip: %#v", second.Result)
	}
}

func TestCreateDirsWithoutManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := filepath.Join(t.TempDir(), "input.md")
	testsupport.WriteFile(t, input, "# Project\n")

	_, err := workflow.CreateDirs(cfg, nil, input)
	if err == nil {
		t.Fatal("expected error without manifest")
	}
	if kind := workflow.Kind(err); kind != "input-unavailable" {
		t.Fatalf("expected input-unavailable, got %q (%v)", kind, err)
	}
}

func TestCreateDirsMalformedManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	planning := t.TempDir()
	input := filepath.Join(planning, "input.md")
	testsupport.WriteFile(t, input, "# Project\n")
	testsupport.WriteFile(t, filepath.Join(planning, "manifest.md"), "prose first\n<!-- SPLIT_MANIFEST\n01-a\nEND_MANIFEST -->\n")

	_, err := workflow.CreateDirs(cfg, nil, input)
	if err == nil {
		t.Fatal("expected error for malformed manifest")
	}
	if kind := workflow.Kind(err); kind != "manifest-malformed" {
		t.Fatalf("expected manifest-malformed, got %q (%v)", kind, err)
	}
}

func TestCreateDirsFileCollision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	planning, input := planningWithManifest(t, "01-backend")
	testsupport.WriteFile(t, filepath.Join(planning, "splits", "01-backend"), "in the way\n")

	_, err := workflow.CreateDirs(cfg, nil, input)
	if err == nil {
		t.Fatal("expected collision error")
	}
	if kind := workflow.Kind(err); kind != "directory-collision" {
		t.Fatalf("expected directory-collision, got %q (%v)", kind, err)
	}
}
