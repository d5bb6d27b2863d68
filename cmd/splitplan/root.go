package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var sessionFlag string

	ctx := newCommandContext(&configFlag, &sessionFlag)

	rootCmd := &cobra.Command{
		Use:           "splitplan",
		Short:         "Split-planning pipeline CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&sessionFlag, "session-id", "", "Session id for the external task list")

	rootCmd.AddCommand(newSetupCommand(ctx))
	rootCmd.AddCommand(newCreateDirsCommand(ctx))
	rootCmd.AddCommand(newAddSplitCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newTasksCommand(ctx))
	rootCmd.AddCommand(newHookCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
