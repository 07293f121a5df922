package cmd

import (
	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/devcontainer"
	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/settings"
)

func newGenDevcontainerCmd() *cobra.Command {
	var (
		name         string
		outputPath   string
		customValues string
	)

	cmd := &cobra.Command{
		Use:   "devcontainer",
		Short: "Generate a devcontainer definition",
		Long: `Generate a devcontainer.json from the settings file. Version pins and
install toggles become Docker build arguments; enabled tools contribute
editor extensions and forwarded ports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, "devcontainer")

			rec, _, err := settings.Resolve(settingsPath(), customValues, nil)
			if err != nil {
				return err
			}

			def := devcontainer.Compose(rec)
			if name != "" {
				def.Name = name
			}

			data, err := def.Encode()
			if err != nil {
				return err
			}
			if err := writeArtifact(outputPath, data); err != nil {
				return err
			}

			output.Println(output.FormatCheckmark("Devcontainer written to " + outputPath))
			output.Debug("devcontainer generated",
				"extensions", len(def.Customizations.VSCode.Extensions),
				"ports", len(def.ForwardPorts))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "devcontainer display name override")
	cmd.Flags().StringVar(&outputPath, "output", ".devcontainer/devcontainer.json", "output file path")
	cmd.Flags().StringVar(&customValues, "custom-values", "", "path to a custom values file (JSON or YAML)")
	return cmd
}
