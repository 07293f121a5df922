package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/settings"
	"github.com/devopsos/cli/internal/wizard"
)

func newWizardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wizard",
		Short: "Edit settings interactively",
		Long: `Walk through every tool category interactively and write the result to
the settings file. Aborting or declining the final confirmation leaves the
file untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settingsPath()

			rec, _, err := settings.Resolve(path, "", nil)
			if err != nil {
				return err
			}

			outcome, err := wizard.Run(path, rec)
			if err != nil {
				return err
			}

			if !outcome.Saved {
				output.Println("No changes written.")
				return nil
			}
			output.Println(output.FormatCheckmark("Settings written to " + path))
			return nil
		},
	}
}
