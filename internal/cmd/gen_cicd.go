package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/compose"
	oerrors "github.com/devopsos/cli/internal/errors"
	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/pipeline"
	"github.com/devopsos/cli/internal/workflow"
)

func newGenCICDCmd() *cobra.Command {
	var (
		gf        genFlags
		outputDir string
		github    bool
		jenkins   bool
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "cicd",
		Short: "Generate matching workflow and pipeline",
		Long: `Generate a GitHub Actions workflow and a Jenkins pipeline from one
configuration, plus a CICD-README.md describing what was generated.
Both artifacts read the same settings, so the two systems stay in
agreement about languages and deployment.

With neither --github nor --jenkins, both are generated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, "cicd")

			if all || (!github && !jenkins) {
				github = true
				jenkins = true
			}

			// Only targets both composers accept are valid here, so the
			// command never leaves one artifact behind after a rejection.
			if err := validateCICDTarget(gf.targetType); err != nil {
				return err
			}

			req, rec, err := gf.buildRequest()
			if err != nil {
				return err
			}

			var written []string
			generate := func() error {
				if github {
					doc, err := workflow.Compose(req, rec)
					if err != nil {
						return err
					}
					data, err := doc.Encode()
					if err != nil {
						return err
					}
					path := filepath.Join(outputDir, ".github", "workflows", workflow.Filename(req))
					if err := writeArtifact(path, data); err != nil {
						return err
					}
					written = append(written, path)
				}

				if jenkins {
					content, err := pipeline.Compose(req, rec)
					if err != nil {
						return err
					}
					path := filepath.Join(outputDir, "Jenkinsfile")
					if err := writeArtifact(path, []byte(content)); err != nil {
						return err
					}
					written = append(written, path)
				}

				readmePath := filepath.Join(outputDir, "CICD-README.md")
				readme := cicdReadme(&gf, github, jenkins)
				if err := writeArtifact(readmePath, []byte(readme)); err != nil {
					return err
				}
				written = append(written, readmePath)
				return nil
			}

			if err := output.RunWithSpinner(cmd.Context(), generate,
				output.WithTitle("Generating CI/CD configuration...")); err != nil {
				return err
			}

			for _, path := range written {
				output.Println(output.FormatCheckmark("Wrote " + path))
			}
			return nil
		},
	}

	gf.register(cmd, "complete")
	cmd.Flags().BoolVar(&gf.matrix, "matrix", false, "enable the os/arch build matrix")
	cmd.Flags().BoolVar(&gf.parameters, "parameters", false, "add build parameters to the pipeline")
	cmd.Flags().StringVar(&gf.scm, "scm", "git", "pipeline checkout source (git, svn, none)")
	cmd.Flags().BoolVar(&github, "github", false, "generate only the GitHub Actions workflow")
	cmd.Flags().BoolVar(&jenkins, "jenkins", false, "generate only the Jenkins pipeline")
	cmd.Flags().BoolVar(&all, "all", false, "generate both artifacts")
	cmd.Flags().StringVar(&outputDir, "output-dir", ".", "output directory")
	return cmd
}

// validateCICDTarget restricts combined generation to the targets both the
// workflow and pipeline composers accept.
func validateCICDTarget(targetType string) error {
	target, err := compose.ParseTarget(targetType)
	if err != nil {
		return err
	}
	switch target {
	case compose.TargetBuild, compose.TargetTest, compose.TargetDeploy, compose.TargetComplete:
		return nil
	}
	return oerrors.NewValidationError(
		fmt.Sprintf("target type %q is not valid for combined generation", target),
		"", "type",
		"Valid types: build, test, deploy, complete",
	)
}

// cicdReadme summarizes the generated configuration for the repository.
func cicdReadme(gf *genFlags, github, jenkins bool) string {
	var b strings.Builder
	b.WriteString("# " + gf.name + " CI/CD Configuration\n\n")
	b.WriteString("This directory contains CI/CD configuration files generated by devos.\n\n")

	if github {
		b.WriteString("## GitHub Actions Workflow\n\n")
		b.WriteString("- Type: " + gf.targetType + "\n")
		b.WriteString("- Languages: " + gf.languages + "\n")
		if gf.kubernetes {
			b.WriteString("- Kubernetes Deployment Method: " + gf.method + "\n")
		}
		if gf.matrix {
			b.WriteString("- Matrix Build: Enabled\n")
		}
		b.WriteString("\nWorkflow location: `.github/workflows/`\n\n")
	}

	if jenkins {
		b.WriteString("## Jenkins Pipeline\n\n")
		b.WriteString("- Type: " + gf.targetType + "\n")
		b.WriteString("- Languages: " + gf.languages + "\n")
		if gf.kubernetes {
			b.WriteString("- Kubernetes Deployment Method: " + gf.method + "\n")
		}
		if gf.parameters {
			b.WriteString("- Parameterized: Enabled\n")
		}
		b.WriteString("\nPipeline location: `Jenkinsfile`\n\n")
	}

	b.WriteString("## Usage\n\n")
	if github {
		b.WriteString("### GitHub Actions\n\n")
		b.WriteString("The workflow runs automatically on pushes to the configured branches.\n\n")
	}
	if jenkins {
		b.WriteString("### Jenkins\n\n")
		b.WriteString("1. Create a new Jenkins Pipeline job\n")
		b.WriteString("2. Point it at the Jenkinsfile in your repository\n")
		if gf.parameters {
			b.WriteString("3. Configure the build parameters per run\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Regenerate after changing the settings file with `devos gen cicd`.\n")
	return b.String()
}
