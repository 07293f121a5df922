package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	oerrors "github.com/devopsos/cli/internal/errors"
	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/settings"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage the shared settings file",
	}
	cmd.AddCommand(newSettingsInitCmd())
	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsVetCmd())
	return cmd
}

func newSettingsInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settingsPath()

			if _, err := os.Stat(path); err == nil && !force {
				return &oerrors.DetailError{
					Type:     "already exists",
					Message:  "a settings file already exists at this path",
					Location: path,
					Hint:     "Use --force to overwrite it with defaults",
					Cause:    oerrors.ErrValidation,
				}
			}

			if err := settings.Save(path, settings.Defaults()); err != nil {
				return err
			}
			output.Println(output.FormatCheckmark("Settings written to " + path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Long: `Print the effective settings after merging defaults with the persisted
settings file. A missing settings file falls back to defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, _, err := settings.Resolve(settingsPath(), "", nil)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(rec, "", "  ")
				if err != nil {
					return fmt.Errorf("encoding settings: %w", err)
				}
				output.Println(string(data))
			case "yaml":
				data, err := sigsyaml.Marshal(rec)
				if err != nil {
					return fmt.Errorf("encoding settings: %w", err)
				}
				output.Print(string(data))
			case "":
				printRecord(rec)
			default:
				return oerrors.NewValidationError(
					fmt.Sprintf("unknown output format %q", format),
					"", "format", "Valid formats: json, yaml")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "output format (json or yaml; default is a styled listing)")
	return cmd
}

var categoryHeadings = []struct {
	key   string
	title string
}{
	{settings.CategoryLanguages, "Programming Languages"},
	{settings.CategoryCICD, "CI/CD Tools"},
	{settings.CategoryKubernetes, "Kubernetes Tools"},
	{settings.CategoryBuildTools, "Build Tools"},
	{settings.CategoryCodeAnalysis, "Code Analysis Tools"},
	{settings.CategoryDevOpsTools, "DevOps Tools"},
}

// printRecord renders the record as color-coded tool listings per category.
func printRecord(rec *settings.Record) {
	styles := output.GetStyles()
	for _, heading := range categoryHeadings {
		output.Println(styles.Bold.Render(heading.title + ":"))
		for _, tool := range sortedTools(rec.Category(heading.key)) {
			output.Println(output.FormatToolLine(tool, rec.Enabled(heading.key, tool)))
		}
		output.Println("")
	}

	output.Println(styles.Bold.Render("Versions:"))
	for _, tool := range sortedKeys(rec.Versions) {
		output.Println("- " + styles.Noun.Render(tool) + ": " + rec.Versions[tool])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTools(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newSettingsVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet [file]",
		Short: "Validate a settings file",
		Long: `Validate a settings file against the embedded schema.

Checks performed:
  1. The file parses as JSON (comment lines allowed)
  2. Category maps hold only boolean toggles
  3. No unknown top-level keys
  4. Enabled languages have pinned versions

Without an argument the resolved settings path is vetted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := settingsPath()
			if len(args) == 1 {
				path = args[0]
			}

			validator, err := settings.NewValidator()
			if err != nil {
				return err
			}

			issues, err := validator.VetFile(path)
			if err != nil {
				return err
			}

			if len(issues) == 0 {
				output.Println(output.FormatCheckmark("Settings are valid: " + path))
				return nil
			}

			styles := output.GetStyles()
			output.Println(styles.Error.Render(fmt.Sprintf("%d issue(s) in %s", len(issues), path)))
			for _, issue := range issues {
				output.Println("  " + issue.String())
			}
			exitErr := oerrors.NewExitError(1, oerrors.Wrap(oerrors.ErrValidation, "settings vet failed"))
			exitErr.Printed = true
			return exitErr
		},
	}
}
