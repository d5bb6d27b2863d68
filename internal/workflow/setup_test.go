package workflow_test

import (
	"path/filepath"
	"strings"
	"testing"

	"splitplan/internal/resume"
	"splitplan/internal/testsupport"
	"splitplan/internal/workflow"
)

func TestSetupNewSession(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	planning := t.TempDir()
	input := filepath.Join(planning, "input.md")
	testsupport.WriteFile(t, input, "# Project\nrequirements\n")

	result, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if result.Mode != "new" || result.SessionID != "sess-1" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if result.Step != resume.StepInterview {
		t.Fatalf("fresh session must start at interview, got %q", result.Step)
	}
	if result.PlanningDir != planning {
		t.Fatalf("planning dir must be the input's parent, got %q", result.PlanningDir)
	}
	if !strings.HasPrefix(result.InputFingerprint, "sha256:") {
		t.Fatalf("unexpected fingerprint %q", result.InputFingerprint)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestSetupWithoutSessionIDWarnsAndGenerates(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := filepath.Join(t.TempDir(), "input.md")
	testsupport.WriteFile(t, input, "# Project\n")

	result, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if result.SessionID == "" {
		t.Fatal("expected generated session id")
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "session namespace unavailable") {
		t.Fatalf("expected namespace warning, got %v", result.Warnings)
	}

	// A later invocation without an id must find the same session.
	again, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input})
	if err != nil {
		t.Fatalf("second Setup failed: %v", err)
	}
	if again.Mode != "resume" || again.SessionID != result.SessionID {
		t.Fatalf("expected resume of generated session: %#v", again)
	}
}

func TestSetupResumeDetectsDrift(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := filepath.Join(t.TempDir(), "input.md")
	testsupport.WriteFile(t, input, "original\n")

	if _, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	testsupport.WriteFile(t, input, "edited\n")
	result, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if result.Mode != "resume" {
		t.Fatalf("expected resume, got %q", result.Mode)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "changed since the last run") {
		t.Fatalf("expected drift warning, got %v", result.Warnings)
	}

	// The stored fingerprint is untouched, so the warning repeats until the
	// caller decides what to do with the changed input.
	result, err = workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "changed since the last run") {
		t.Fatalf("drift warning must persist across runs, got %v", result.Warnings)
	}
}

func TestSetupAcceptInputChangesRebaselines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	input := filepath.Join(t.TempDir(), "input.md")
	testsupport.WriteFile(t, input, "original\n")

	if _, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	testsupport.WriteFile(t, input, "edited\n")

	result, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1", AcceptInputChanges: true})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "re-baselined") {
		t.Fatalf("expected re-baseline notice, got %v", result.Warnings)
	}

	// After explicit acceptance the unchanged input is quiet again.
	result, err = workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("expected no warnings after acceptance, got %v", result.Warnings)
	}
}

func TestSetupResolvesResumeStepFromArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	planning := t.TempDir()
	input := filepath.Join(planning, "input.md")
	testsupport.WriteFile(t, input, "# Project\n")
	testsupport.WriteFile(t, filepath.Join(planning, "interview.md"), "transcript\n")
	testsupport.WriteFile(t, filepath.Join(planning, "manifest.md"), testsupport.ManifestDoc("01-backend"))

	result, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: input, SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if result.Step != resume.StepConfirmation {
		t.Fatalf("expected confirmation, got %q", result.Step)
	}
}

func TestSetupRejectsUnusableInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := t.TempDir()

	cases := map[string]string{
		"missing":      filepath.Join(dir, "absent.md"),
		"not markdown": filepath.Join(dir, "input.txt"),
		"empty":        filepath.Join(dir, "empty.md"),
		"directory":    dir,
	}
	testsupport.WriteFile(t, cases["not markdown"], "text\n")
	testsupport.WriteFile(t, cases["empty"], "")

	for label, path := range cases {
		_, err := workflow.Setup(cfg, nil, workflow.SetupOptions{InputPath: path})
		if err == nil {
			t.Fatalf("%s: expected error", label)
		}
		if kind := workflow.Kind(err); kind != "input-unavailable" {
			t.Fatalf("%s: expected input-unavailable, got %q (%v)", label, kind, err)
		}
	}
}
