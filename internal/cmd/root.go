// Package cmd provides the CLI command implementations.
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/settings"
	"github.com/devopsos/cli/internal/version"
)

var (
	flagVerbose  bool
	flagSettings string
)

// NewRootCmd creates the base command for the devos CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "devos",
		Short: "DevOps environment scaffolding CLI",
		Long: `devos generates development environment and CI/CD configuration from a
single shared settings file.

It provides commands to:
  - Manage the settings file (init, show, vet, interactive wizard)
  - Generate devcontainer definitions
  - Generate GitHub Actions workflows and Jenkins pipelines
  - Generate Kubernetes deployment configurations
  - Diff regenerated artifacts against files on disk`,
		PersistentPreRunE: initializeGlobals,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "increase output verbosity")
	rootCmd.PersistentFlags().StringVarP(&flagSettings, "settings", "s", "", "path to settings file (env: DEVOS_SETTINGS)")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newWizardCmd())
	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newDiffCmd())

	return rootCmd
}

// initializeGlobals sets up logging and the environment binding layer.
func initializeGlobals(cmd *cobra.Command, _ []string) error {
	output.SetupLogging(flagVerbose)

	viper.SetEnvPrefix("DEVOS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	info := version.GetInfo()
	output.Debug("devos started", "version", info.Version)

	return nil
}

// settingsPath resolves the settings file location: flag, then environment,
// then the default name in the working directory.
func settingsPath() string {
	if flagSettings != "" {
		return flagSettings
	}
	if env := os.Getenv("DEVOS_SETTINGS"); env != "" {
		return env
	}
	return settings.DefaultFileName
}
