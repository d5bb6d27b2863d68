package session_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"splitplan/internal/fingerprint"
	"splitplan/internal/resume"
	"splitplan/internal/session"
	"splitplan/internal/testsupport"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)

	record := session.NewRecord("sess-1", "/planning/input.md", "/planning", "sha256:abc")
	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("sess-1", "/planning/input.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected record")
	}
	if loaded.SessionID != "sess-1" || loaded.InputFingerprint != "sha256:abc" {
		t.Fatalf("unexpected record: %#v", loaded)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt set on save")
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)

	record, err := store.Load("absent", "/nowhere/input.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil for missing record, got %#v", record)
	}
}

func TestLoadWithoutSessionIDScansByInputPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)

	// Simulates a session created without an external id: the generated id
	// is unknown to the next invocation, only the input path is.
	record := session.NewRecord("", "/planning/input.md", "/planning", "sha256:abc")
	generated := record.SessionID
	if generated == "" {
		t.Fatal("expected generated session id")
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load("", "/planning/input.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded == nil || loaded.SessionID != generated {
		t.Fatalf("expected scan to recover record, got %#v", loaded)
	}
}

func TestRecordsSegregatedByInputPath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)

	if err := store.Save(session.NewRecord("sess-1", "/a/input.md", "/a", "sha256:a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(session.NewRecord("sess-1", "/b/input.md", "/b", "sha256:b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	a, err := store.Load("sess-1", "/a/input.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if a == nil || a.InputFingerprint != "sha256:a" {
		t.Fatalf("wrong record for /a: %#v", a)
	}
	b, err := store.Load("sess-1", "/b/input.md")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if b == nil || b.InputFingerprint != "sha256:b" {
		t.Fatalf("wrong record for /b: %#v", b)
	}
}

func TestSaveLeavesNoTempFilesBehind(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)

	record := session.NewRecord("sess-1", "/planning/input.md", "/planning", "sha256:abc")
	if err := store.Save(record); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(cfg.Paths.StateDir, "sessions"))
	if err != nil {
		t.Fatalf("read sessions dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Fatalf("temp file left behind: %s", entry.Name())
		}
	}
}

func TestObserveDerivesMarkersFromArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)
	planning := t.TempDir()

	markers, err := store.Observe(planning)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if resume.Resolve(markers) != resume.StepInterview {
		t.Fatalf("empty planning dir should resolve to interview, got %v", markers)
	}

	testsupport.WriteFile(t, store.InterviewPath(planning), "# Interview\nnotes\n")
	markers, err = store.Observe(planning)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if !markers.InterviewPresent || markers.ManifestPresent {
		t.Fatalf("unexpected markers: %#v", markers)
	}

	testsupport.WriteFile(t, store.ManifestPath(planning), testsupport.ManifestDoc("01-backend", "02-frontend"))
	markers, err = store.Observe(planning)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if !markers.ManifestPresent {
		t.Fatalf("expected manifest marker: %#v", markers)
	}
	if len(markers.ManifestDirs) != 2 {
		t.Fatalf("expected manifest dirs: %#v", markers)
	}

	testsupport.MkdirAll(t, filepath.Join(store.SplitsRoot(planning), "01-backend"))
	testsupport.MkdirAll(t, filepath.Join(store.SplitsRoot(planning), "02-frontend"))
	testsupport.MkdirAll(t, filepath.Join(store.SplitsRoot(planning), "not-a-split"))
	testsupport.WriteFile(t, store.SpecPath(planning, "01-backend"), "# Spec\n")

	markers, err = store.Observe(planning)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if len(markers.SplitDirs) != 2 {
		t.Fatalf("expected invalid names filtered: %#v", markers.SplitDirs)
	}
	if len(markers.SplitsWithSpec) != 1 || markers.SplitsWithSpec[0] != "01-backend" {
		t.Fatalf("unexpected specs: %#v", markers.SplitsWithSpec)
	}
	if resume.Resolve(markers) != resume.StepSpecGeneration {
		t.Fatalf("expected spec-generation, got %q", resume.Resolve(markers))
	}
}

func TestObserveIgnoresEmptyInterview(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)
	planning := t.TempDir()

	testsupport.WriteFile(t, store.InterviewPath(planning), "")
	markers, err := store.Observe(planning)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if markers.InterviewPresent {
		t.Fatal("empty transcript must not count as present")
	}
}

func TestObserveIgnoresMalformedManifest(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)
	planning := t.TempDir()

	testsupport.WriteFile(t, store.ManifestPath(planning), "prose first\n<!-- SPLIT_MANIFEST\n01-a\nEND_MANIFEST -->\n")
	markers, err := store.Observe(planning)
	if err != nil {
		t.Fatalf("Observe failed: %v", err)
	}
	if markers.ManifestPresent {
		t.Fatal("malformed manifest must not count as present")
	}
}

func TestCheckDrift(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := session.NewStore(cfg)
	planning := t.TempDir()

	input := filepath.Join(planning, "input.md")
	testsupport.WriteFile(t, input, "original content\n")
	digest, err := fingerprint.FromFile(input)
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}

	record := session.NewRecord("sess-1", input, planning, digest)
	changed, current, err := store.CheckDrift(record)
	if err != nil {
		t.Fatalf("CheckDrift failed: %v", err)
	}
	if changed {
		t.Fatal("expected no drift")
	}
	if current != digest {
		t.Fatalf("unexpected current digest %q", current)
	}

	testsupport.WriteFile(t, input, "edited content\n")
	changed, current, err = store.CheckDrift(record)
	if err != nil {
		t.Fatalf("CheckDrift failed: %v", err)
	}
	if !changed {
		t.Fatal("expected drift after edit")
	}
	if current == digest {
		t.Fatal("expected new digest after edit")
	}
}
