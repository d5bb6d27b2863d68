package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"splitplan/internal/tasks"
)

// hookInput is the session-start payload delivered on stdin by the hosting
// environment.
type hookInput struct {
	SessionID string `json:"session_id"`
}

type hookSpecificOutput struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

type hookOutput struct {
	HookSpecificOutput hookSpecificOutput `json:"hookSpecificOutput"`
}

func newHookCommand() *cobra.Command {
	hookCmd := &cobra.Command{
		Use:    "hook",
		Short:  "Hosting-environment hook handlers",
		Hidden: true,
	}
	hookCmd.AddCommand(newCaptureSessionCommand())
	return hookCmd
}

// newCaptureSessionCommand reads the session-start payload and hands the
// session id back as context for later invocations. Hooks must never block a
// session, so every failure path still exits zero with empty context.
func newCaptureSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "capture-session",
		Short:       "Capture the session id from a session-start payload",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input hookInput
			if data, err := io.ReadAll(cmd.InOrStdin()); err == nil {
				_ = json.Unmarshal(data, &input)
			}

			context := ""
			if id := strings.TrimSpace(input.SessionID); id != "" {
				context = fmt.Sprintf(
					"Current session id: %s. When invoking splitplan, pass --session-id %s or export %s=%s so pipeline progress is mirrored into the session task list.",
					id, id, tasks.EnvSessionID, id,
				)
			}

			return writeJSON(cmd, hookOutput{
				HookSpecificOutput: hookSpecificOutput{
					HookEventName:     "SessionStart",
					AdditionalContext: context,
				},
			})
		},
	}
}
