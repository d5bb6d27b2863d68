package main

import (
	"github.com/spf13/cobra"

	"splitplan/internal/workflow"
)

type addSplitPayload struct {
	Success bool `json:"success"`
	*workflow.AddSplitResult
}

func newAddSplitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-split <input.md> <name>",
		Short: "Append a split to the manifest with the next free index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON(cmd, func() (any, error) {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return nil, err
				}
				result, err := workflow.AddSplit(cfg, ctx.ensureLogger(), args[0], args[1])
				if err != nil {
					return nil, err
				}
				return addSplitPayload{Success: true, AddSplitResult: result}, nil
			})
		},
	}
}
