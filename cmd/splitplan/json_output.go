package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"splitplan/internal/workflow"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorPayload struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

// runJSON executes fn and writes either its payload or a structured error
// object to stdout. The error still propagates so the process exits non-zero.
func runJSON(cmd *cobra.Command, fn func() (any, error)) error {
	payload, err := fn()
	if err != nil {
		_ = writeJSON(cmd, errorPayload{
			Error: errorBody{Kind: workflow.Kind(err), Message: err.Error()},
		})
		return err
	}
	return writeJSON(cmd, payload)
}
