package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			output.Print(version.GetInfo().String())
		},
	}
}
