package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"splitplan/internal/workflow"
)

type statusPayload struct {
	Success bool `json:"success"`
	*workflow.StatusResult
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status <input.md>",
		Short: "Show pipeline progress for a planning directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sessionCtx := ctx.sessionContext()

			if jsonOutput {
				return runJSON(cmd, func() (any, error) {
					result, err := workflow.Status(cfg, workflow.SetupOptions{
						InputPath: args[0],
						SessionID: sessionCtx.SessionID,
					})
					if err != nil {
						return nil, err
					}
					return statusPayload{Success: true, StatusResult: result}, nil
				})
			}

			result, err := workflow.Status(cfg, workflow.SetupOptions{
				InputPath: args[0],
				SessionID: sessionCtx.SessionID,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			_, err = fmt.Fprintln(out, renderStatus(result, colorize))
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit machine-readable JSON")
	return cmd
}

func renderStatus(result *workflow.StatusResult, colorize bool) string {
	var lines []string

	lines = append(lines, renderSectionHeader("Session", colorize)...)
	sessionLabel := "none"
	if result.HasRecord {
		sessionLabel = result.SessionID
	}
	lines = append(lines,
		renderStatusLine("Input", statusInfo, result.InputPath, colorize),
		renderStatusLine("Session", statusInfo, sessionLabel, colorize),
		renderStatusLine("Resume step", statusOK, string(result.Step), colorize),
	)
	if result.Drifted {
		lines = append(lines, renderStatusLine("Input drift", statusWarn, "input changed since the last run", colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Artifacts", colorize)...)
	lines = append(lines,
		renderStatusLine("Interview", statusInfo, presentOrMissing(result.Markers.InterviewPresent), colorize),
		renderStatusLine("Manifest", statusInfo, manifestSummary(result), colorize),
	)

	if rows := splitRows(result); len(rows) > 0 {
		lines = append(lines, "")
		lines = append(lines, renderSectionHeader("Splits", colorize)...)
		lines = append(lines, renderTable([]string{"Directory", "Declared", "On disk", "Spec"}, rows))
	}

	return strings.Join(lines, "\n")
}

func splitRows(result *workflow.StatusResult) [][]string {
	declared := toSet(result.Markers.ManifestDirs)
	onDisk := toSet(result.Markers.SplitDirs)
	withSpec := toSet(result.Markers.SplitsWithSpec)

	// Declared order first, then stray directories not in the manifest.
	seen := map[string]bool{}
	var rows [][]string
	for _, dir := range append(append([]string{}, result.Markers.ManifestDirs...), result.Markers.SplitDirs...) {
		if seen[dir] {
			continue
		}
		seen[dir] = true
		rows = append(rows, []string{dir, yesNo(declared[dir]), yesNo(onDisk[dir]), yesNo(withSpec[dir])})
	}
	return rows
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func presentOrMissing(present bool) string {
	if present {
		return "present"
	}
	return "missing"
}

func manifestSummary(result *workflow.StatusResult) string {
	if !result.Markers.ManifestPresent {
		return "missing"
	}
	return fmt.Sprintf("%d splits declared", len(result.Markers.ManifestDirs))
}
