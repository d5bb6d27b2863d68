package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"splitplan/internal/config"
	"splitplan/internal/resume"
	"splitplan/internal/tasks"
	"splitplan/internal/workflow"
)

func newTasksCommand(ctx *commandContext) *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "External task list utilities",
	}
	tasksCmd.AddCommand(newTasksSyncCommand(ctx))
	tasksCmd.AddCommand(newTasksListCommand(ctx))
	return tasksCmd
}

type tasksSyncPayload struct {
	Success   bool         `json:"success"`
	SessionID string       `json:"session_id"`
	Source    tasks.Source `json:"session_id_source"`
	Step      resume.Step  `json:"resume_step"`
	Synced    int          `json:"synced"`
}

func newTasksSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <input.md>",
		Short: "Mirror pipeline progress into the task list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON(cmd, func() (any, error) {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return nil, err
				}
				sessionCtx := ctx.sessionContext()
				if sessionCtx.SessionID == "" {
					return nil, workflow.Wrap(workflow.ErrSessionNamespace, "tasks", "sync",
						"no session id; pass --session-id or set "+tasks.EnvSessionID, nil)
				}

				status, err := workflow.Status(cfg, workflow.SetupOptions{InputPath: args[0]})
				if err != nil {
					return nil, err
				}
				if err := syncTasks(cmd, cfg, sessionCtx.SessionID, status.Step); err != nil {
					return nil, err
				}
				return tasksSyncPayload{
					Success:   true,
					SessionID: sessionCtx.SessionID,
					Source:    sessionCtx.Source,
					Step:      status.Step,
					Synced:    len(tasks.Pipeline()),
				}, nil
			})
		},
	}
}

func newTasksListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the stored task list for the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sessionCtx := ctx.sessionContext()
			if sessionCtx.SessionID == "" {
				return workflow.Wrap(workflow.ErrSessionNamespace, "tasks", "list",
					"no session id; pass --session-id or set "+tasks.EnvSessionID, nil)
			}

			store, err := tasks.Open(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows, err := store.List(cmd.Context(), sessionCtx.SessionID)
			if err != nil {
				return err
			}

			tableRows := make([][]string, 0, len(rows))
			for _, task := range rows {
				tableRows = append(tableRows, []string{
					strconv.Itoa(task.Position),
					task.Subject,
					string(task.Status),
				})
			}
			out := cmd.OutOrStdout()
			_, err = out.Write([]byte(renderTable([]string{"#", "Task", "Status"}, tableRows, 1) + "\n"))
			return err
		},
	}
}

// syncTasks opens the sink, writes the pipeline for the session, and closes
// it again. Invocations are short-lived, so no connection is held open.
func syncTasks(cmd *cobra.Command, cfg *config.Config, sessionID string, step resume.Step) error {
	store, err := tasks.Open(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()
	_, err = store.Sync(cmd.Context(), sessionID, step)
	return err
}
