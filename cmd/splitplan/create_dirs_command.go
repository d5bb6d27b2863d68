package main

import (
	"github.com/spf13/cobra"

	"splitplan/internal/workflow"
)

type createDirsPayload struct {
	Success bool `json:"success"`
	*workflow.CreateDirsResult
}

func newCreateDirsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create-dirs <input.md>",
		Short: "Materialize split directories from the manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJSON(cmd, func() (any, error) {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return nil, err
				}
				result, err := workflow.CreateDirs(cfg, ctx.ensureLogger(), args[0])
				if err != nil {
					return nil, err
				}
				return createDirsPayload{Success: true, CreateDirsResult: result}, nil
			})
		},
	}
}
