package main

import (
	"github.com/spf13/cobra"

	"smart-locator/internal/bootstrap"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Start the interactive capture console",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app := bootstrap.NewApp()
			app.Run()

			return app.Err()
		},
	}
}
