package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartlocator",
		Short: "Generate and score robust locators for DOM elements",
		Long: `smartlocator captures an element from a live browser page, derives
CSS, XPath, id and role-based locators for it and scores them to recommend
the one most likely to survive UI changes.

Configuration is read from the environment (and .env when present).`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.SetVersionTemplate("{{.Version}}\n")

	root.AddCommand(
		newConsoleCmd(),
		newGenerateCmd(),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
