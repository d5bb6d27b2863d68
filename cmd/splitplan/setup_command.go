package main

import (
	"github.com/spf13/cobra"

	"splitplan/internal/tasks"
	"splitplan/internal/workflow"
)

type setupPayload struct {
	Success bool `json:"success"`
	*workflow.SetupResult
	SessionSource    tasks.Source `json:"session_id_source"`
	SessionIDMatched *bool        `json:"session_id_matched,omitempty"`
	TasksSynced      bool         `json:"tasks_synced"`
}

func newSetupCommand(ctx *commandContext) *cobra.Command {
	var acceptInputChanges bool

	cmd := &cobra.Command{
		Use:   "setup <input.md>",
		Short: "Validate the input document and resolve where the pipeline resumes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON(cmd, func() (any, error) {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return nil, err
				}
				sessionCtx := ctx.sessionContext()

				result, err := workflow.Setup(cfg, ctx.ensureLogger(), workflow.SetupOptions{
					InputPath:          args[0],
					SessionID:          sessionCtx.SessionID,
					AcceptInputChanges: acceptInputChanges,
				})
				if err != nil {
					return nil, err
				}

				payload := setupPayload{
					Success:          true,
					SetupResult:      result,
					SessionSource:    sessionCtx.Source,
					SessionIDMatched: sessionCtx.Matches(result.SessionID),
				}

				// The sink is best-effort; a sync failure downgrades to a
				// warning rather than failing setup.
				if sessionCtx.SessionID != "" {
					if err := syncTasks(cmd, cfg, sessionCtx.SessionID, result.Step); err != nil {
						result.Warnings = append(result.Warnings, "task sync failed: "+err.Error())
					} else {
						payload.TasksSynced = true
					}
				}
				return payload, nil
			})
		},
	}

	cmd.Flags().BoolVar(&acceptInputChanges, "accept-input-changes", false, "Re-baseline the stored input fingerprint after the document changed")
	return cmd
}
