package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"splitplan/internal/testsupport"
)

type cliTestEnv struct {
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "splitplan.toml")
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[logging]
format = "json"
level = "warn"
`, filepath.Join(base, "state"), filepath.Join(base, "logs"))
	testsupport.WriteFile(t, configPath, content)

	// Generated-id fallbacks must come from the flag, not the test runner's
	// environment.
	t.Setenv("SPLITPLAN_SESSION_ID", "")
	t.Setenv("SPLITPLAN_TASK_LIST_ID", "")

	return &cliTestEnv{configPath: configPath, baseDir: base}
}

func (env *cliTestEnv) planningDoc(t *testing.T, content string) string {
	t.Helper()
	input := filepath.Join(env.baseDir, "planning", "input.md")
	testsupport.WriteFile(t, input, content)
	return input
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func runCLIWithStdin(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func decodePayload(t *testing.T, out string) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	return payload
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
