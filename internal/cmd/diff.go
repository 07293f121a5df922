package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/compose"
	"github.com/devopsos/cli/internal/devcontainer"
	"github.com/devopsos/cli/internal/diff"
	oerrors "github.com/devopsos/cli/internal/errors"
	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/pipeline"
	"github.com/devopsos/cli/internal/workflow"
)

func newDiffCmd() *cobra.Command {
	var gf genFlags

	cmd := &cobra.Command{
		Use:   "diff <artifact-file>",
		Short: "Compare a regenerated artifact against a file on disk",
		Long: `Recompose an artifact from the current settings and compare it against
the file on disk. The artifact kind is inferred from the file name:

  devcontainer.json   devcontainer definition
  Jenkinsfile*        Jenkins pipeline (line diff)
  <name>-<type>.yml   GitHub Actions workflow (structural diff)

Exits non-zero when the file differs from what would be generated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, "diff")
			path := args[0]

			result, err := diffArtifact(path, &gf)
			if err != nil {
				return err
			}

			if !result.HasChanges() {
				output.Println(output.FormatCheckmark(path + " is up to date"))
				return nil
			}

			output.Println(result.Report)
			exitErr := oerrors.NewExitError(1, oerrors.Wrap(oerrors.ErrValidation, "artifact differs from generated output"))
			exitErr.Printed = true
			return exitErr
		},
	}

	gf.register(cmd, "")
	cmd.Flags().BoolVar(&gf.matrix, "matrix", false, "enable the os/arch build matrix")
	cmd.Flags().BoolVar(&gf.parameters, "parameters", false, "add build parameters to the pipeline")
	cmd.Flags().StringVar(&gf.scm, "scm", "git", "pipeline checkout source (git, svn, none)")
	return cmd
}

// diffArtifact recomposes the artifact the file name implies and compares.
func diffArtifact(path string, gf *genFlags) (*diff.Result, error) {
	base := filepath.Base(path)

	switch {
	case base == "devcontainer.json":
		if gf.targetType == "" {
			gf.targetType = string(compose.TargetComplete)
		}
		_, rec, err := gf.buildRequest()
		if err != nil {
			return nil, err
		}
		composed, err := devcontainer.Compose(rec).Encode()
		if err != nil {
			return nil, err
		}
		return diff.CompareFile(path, composed, output.IsTTY())

	case strings.HasPrefix(base, "Jenkinsfile"):
		if gf.targetType == "" {
			gf.targetType = string(compose.TargetComplete)
		}
		req, rec, err := gf.buildRequest()
		if err != nil {
			return nil, err
		}
		composed, err := pipeline.Compose(req, rec)
		if err != nil {
			return nil, err
		}
		existing, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &diff.Result{
					Path:   path,
					Report: fmt.Sprintf("%s does not exist yet; the whole artifact is new", path),
				}, nil
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		return diff.CompareText(path, existing, []byte(composed)), nil

	case strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml"):
		if gf.targetType == "" {
			gf.targetType = workflowTargetFromName(base)
		}
		req, rec, err := gf.buildRequest()
		if err != nil {
			return nil, err
		}
		doc, err := workflow.Compose(req, rec)
		if err != nil {
			return nil, err
		}
		composed, err := doc.Encode()
		if err != nil {
			return nil, err
		}
		return diff.CompareFile(path, composed, output.IsTTY())
	}

	return nil, oerrors.NewValidationError(
		fmt.Sprintf("cannot infer artifact kind from %q", base),
		path, "artifact-file",
		"Expected devcontainer.json, a Jenkinsfile, or a <name>-<type>.yml workflow",
	)
}

// workflowTargetFromName extracts the target type from a workflow file name
// of the form <slug>-<type>.yml.
func workflowTargetFromName(base string) string {
	name := strings.TrimSuffix(strings.TrimSuffix(base, ".yml"), ".yaml")
	if i := strings.LastIndex(name, "-"); i >= 0 {
		return name[i+1:]
	}
	return name
}
