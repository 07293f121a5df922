package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/devopsos/cli/internal/compose"
	"github.com/devopsos/cli/internal/settings"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate environment and CI/CD artifacts",
		Long: `Generate artifacts from the shared settings file.

Every generator reads the same settings record, so a devcontainer, a
GitHub Actions workflow, and a Jenkins pipeline generated from the same
file agree on which tools are enabled and at which versions.`,
	}
	cmd.AddCommand(newGenDevcontainerCmd())
	cmd.AddCommand(newGenWorkflowCmd())
	cmd.AddCommand(newGenPipelineCmd())
	cmd.AddCommand(newGenManifestsCmd())
	cmd.AddCommand(newGenCICDCmd())
	return cmd
}

// genFlags holds the flag set shared by the workflow, pipeline, and cicd
// generators.
type genFlags struct {
	name         string
	targetType   string
	languages    string
	kubernetes   bool
	method       string
	registry     string
	image        string
	imageTag     string
	branches     string
	matrix       bool
	parameters   bool
	scm          string
	customValues string
}

func (g *genFlags) register(cmd *cobra.Command, defaultType string) {
	cmd.Flags().StringVar(&g.name, "name", "DevOps-OS", "project name used in artifact names")
	cmd.Flags().StringVar(&g.targetType, "type", defaultType, "artifact type to generate")
	cmd.Flags().StringVar(&g.languages, "languages", "python,javascript", "comma-separated languages, or \"all\"")
	cmd.Flags().BoolVar(&g.kubernetes, "kubernetes", false, "include Kubernetes deployment steps")
	cmd.Flags().StringVar(&g.method, "k8s-method", "kubectl", "deployment method (kubectl, kustomize, argocd, flux)")
	cmd.Flags().StringVar(&g.registry, "registry", "docker.io", "container registry URL")
	cmd.Flags().StringVar(&g.image, "image", "docker.io/yourorg/devops-os:latest", "container image for job execution")
	cmd.Flags().StringVar(&g.imageTag, "tag", "", "image tag pushed by deploy steps")
	cmd.Flags().StringVar(&g.branches, "branches", "", "comma-separated trigger branches (default main,develop)")
	cmd.Flags().StringVar(&g.customValues, "custom-values", "", "path to a custom values file (JSON or YAML)")
}

// applyEnvFallbacks fills unset flags from DEVOS_<AREA>_<FLAG> environment
// variables. An explicit flag always wins over the environment.
func applyEnvFallbacks(cmd *cobra.Command, area string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}
		val := viper.GetString(area + "." + f.Name)
		if val == "" {
			return
		}
		_ = f.Value.Set(val)
	})
}

// buildRequest merges flags, the settings file, and custom values into a
// composition request. The settings file overrides the flag-derived
// language set; custom values override both.
func (g *genFlags) buildRequest() (*compose.Request, *settings.Record, error) {
	target, err := compose.ParseTarget(g.targetType)
	if err != nil {
		return nil, nil, err
	}

	base := &settings.Record{Languages: compose.ParseLanguages(g.languages)}
	rec, values, err := settings.Resolve(settingsPath(), g.customValues, base)
	if err != nil {
		return nil, nil, err
	}

	req := &compose.Request{
		Name:       g.name,
		Target:     target,
		Languages:  rec.Languages,
		Kubernetes: g.kubernetes,
		Method:     compose.Method(g.method),
		Registry:   g.registry,
		Image:      g.image,
		ImageTag:   g.imageTag,
		Branches:   splitList(g.branches),
		Matrix:     g.matrix,
		Parameters: g.parameters,
		SCM:        g.scm,
		Values:     values,
	}
	return req, rec, nil
}

func splitList(list string) []string {
	var out []string
	for _, raw := range strings.Split(list, ",") {
		if name := strings.TrimSpace(raw); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// writeArtifact writes content to path, creating parent directories.
func writeArtifact(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, content, 0o644)
}
