package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/compose"
	"github.com/devopsos/cli/internal/manifest"
	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/settings"
)

func newGenManifestsCmd() *cobra.Command {
	var (
		app          string
		environment  string
		method       string
		registry     string
		tag          string
		replicas     string
		customValues string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "manifests",
		Short: "Generate Kubernetes deployment configuration",
		Long: `Generate Kubernetes manifests for an application. The layout depends on
the deployment method: plain manifests for kubectl, a base plus per
environment overlay for kustomize, an Application for Argo CD, and
GitRepository plus Kustomization resources for Flux.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, "k8s")

			_, values, err := settings.Resolve(settingsPath(), customValues, nil)
			if err != nil {
				return err
			}

			req := &compose.Request{
				Name:        app,
				Method:      compose.Method(method),
				Registry:    registry,
				ImageTag:    tag,
				Environment: environment,
				Replicas:    replicas,
				Values:      values,
			}

			files, err := manifest.Generate(req)
			if err != nil {
				return err
			}
			for rel, content := range files {
				if err := writeArtifact(filepath.Join(outputDir, rel), []byte(content)); err != nil {
					return err
				}
			}

			output.Print(output.RenderFileTree(outputDir, files))

			lines, err := manifest.Summary(files)
			if err != nil {
				return err
			}
			for _, line := range lines {
				output.Println("  " + line)
			}

			output.Println("")
			output.Println("Apply with: " + manifest.ApplyHint(req, outputDir))
			return nil
		},
	}

	cmd.Flags().StringVar(&app, "app", "", "application name (required)")
	cmd.Flags().StringVar(&environment, "environment", "dev", "target environment")
	cmd.Flags().StringVar(&method, "method", "kubectl", "deployment method (kubectl, kustomize, argocd, flux)")
	cmd.Flags().StringVar(&registry, "registry", "ghcr.io/your-org", "container registry URL")
	cmd.Flags().StringVar(&tag, "tag", "latest", "image tag")
	cmd.Flags().StringVar(&replicas, "replicas", "", "replica count override")
	cmd.Flags().StringVar(&customValues, "custom-values", "", "path to a custom values file (JSON or YAML)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "k8s", "output directory")
	_ = cmd.MarkFlagRequired("app")
	return cmd
}
