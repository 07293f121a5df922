package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/workflow"
)

func newGenWorkflowCmd() *cobra.Command {
	var (
		gf        genFlags
		outputDir string
	)

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Generate a GitHub Actions workflow",
		Long: `Generate a GitHub Actions workflow of the requested type. Build and test
steps cover every enabled language in fixed order; deployment steps are
added when Kubernetes is enabled.

Valid types: build, test, deploy, complete, reusable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, "gha")

			req, rec, err := gf.buildRequest()
			if err != nil {
				return err
			}

			doc, err := workflow.Compose(req, rec)
			if err != nil {
				return err
			}
			data, err := doc.Encode()
			if err != nil {
				return err
			}

			path := filepath.Join(outputDir, workflow.Filename(req))
			if err := writeArtifact(path, data); err != nil {
				return err
			}

			output.Println(output.FormatCheckmark("Workflow written to " + path))
			output.Debug("workflow generated",
				"type", string(req.Target),
				"languages", strings.Join(req.OrderedLanguages(), ","),
				"kubernetes", req.Kubernetes)
			return nil
		},
	}

	gf.register(cmd, "complete")
	cmd.Flags().BoolVar(&gf.matrix, "matrix", false, "enable the os/arch build matrix")
	cmd.Flags().StringVar(&outputDir, "output", ".github/workflows", "output directory")
	return cmd
}
