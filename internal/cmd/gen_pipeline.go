package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/devopsos/cli/internal/output"
	"github.com/devopsos/cli/internal/pipeline"
)

func newGenPipelineCmd() *cobra.Command {
	var (
		gf         genFlags
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Generate a Jenkins pipeline",
		Long: `Generate a declarative Jenkinsfile of the requested type. Stages cover
every enabled language; the parameterized type adds build parameters so
one pipeline serves multiple configurations.

Valid types: build, test, deploy, complete, parameterized.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			applyEnvFallbacks(cmd, "jenkins")

			req, rec, err := gf.buildRequest()
			if err != nil {
				return err
			}

			content, err := pipeline.Compose(req, rec)
			if err != nil {
				return err
			}
			if err := writeArtifact(outputPath, []byte(content)); err != nil {
				return err
			}

			output.Println(output.FormatCheckmark("Pipeline written to " + outputPath))
			output.Debug("pipeline generated",
				"type", string(req.Target),
				"languages", strings.Join(req.OrderedLanguages(), ","),
				"parameterized", req.Parameters || string(req.Target) == "parameterized")
			return nil
		},
	}

	gf.register(cmd, "complete")
	cmd.Flags().StringVar(&gf.scm, "scm", "git", "checkout source (git, svn, none)")
	cmd.Flags().BoolVar(&gf.parameters, "parameters", false, "add build parameters to non-parameterized types")
	cmd.Flags().StringVar(&outputPath, "output", "Jenkinsfile", "output file path")
	return cmd
}
