package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/devopsos/cli/internal/errors"
)

func TestDiff_UpToDateWorkflow(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	require.NoError(t, runRoot(t, "gen", "workflow", "--type", "build", "--output", dir))

	path := filepath.Join(dir, "devops-os-build.yml")
	assert.NoError(t, runRoot(t, "diff", path))
}

func TestDiff_ChangedWorkflow(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	require.NoError(t, runRoot(t, "gen", "workflow", "--type", "build", "--output", dir))

	path := filepath.Join(dir, "devops-os-build.yml")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	changed := append(content, []byte("env:\n  DRIFTED: \"1\"\n")...)
	require.NoError(t, os.WriteFile(path, changed, 0o644))

	err = runRoot(t, "diff", path)
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
	assert.True(t, exitErr.Printed)
}

func TestDiff_UpToDatePipeline(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	path := filepath.Join(t.TempDir(), "Jenkinsfile")

	require.NoError(t, runRoot(t, "gen", "pipeline", "--type", "complete", "--output", path))
	assert.NoError(t, runRoot(t, "diff", path, "--type", "complete"))
}

func TestDiff_MissingFile(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))

	path := filepath.Join(t.TempDir(), "devops-os-build.yml")
	err := runRoot(t, "diff", path)
	require.Error(t, err)

	var exitErr *oerrors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.Code)
}

func TestDiff_UnknownArtifact(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))

	err := runRoot(t, "diff", "notes.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot infer artifact kind")
}

func TestWorkflowTargetFromName(t *testing.T) {
	assert.Equal(t, "build", workflowTargetFromName("my-project-build.yml"))
	assert.Equal(t, "complete", workflowTargetFromName("app-complete.yaml"))
	assert.Equal(t, "deploy", workflowTargetFromName("deploy.yml"))
}
