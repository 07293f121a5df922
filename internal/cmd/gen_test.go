package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRoot executes the full command tree so persistent flags and the
// environment binding layer behave as they do in production.
func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestGenWorkflow_WritesFile(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	err := runRoot(t, "gen", "workflow", "--type", "build", "--output", dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "devops-os-build.yml")
	require.FileExists(t, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "jobs:")
	assert.Contains(t, string(content), "Build Python package")
}

func TestGenWorkflow_UnknownType(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))

	err := runRoot(t, "gen", "workflow", "--type", "bogus", "--output", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target type")
}

func TestGenWorkflow_TypeFromEnvironment(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("DEVOS_GHA_TYPE", "test")
	dir := t.TempDir()

	err := runRoot(t, "gen", "workflow", "--output", dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "devops-os-test.yml"))
}

func TestGenPipeline_WritesFile(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	path := filepath.Join(t.TempDir(), "Jenkinsfile")

	err := runRoot(t, "gen", "pipeline", "--type", "complete", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "pipeline {")
	assert.Contains(t, string(content), "stage('Build')")
}

func TestGenPipeline_ReusableRejected(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))

	err := runRoot(t, "gen", "pipeline", "--type", "reusable",
		"--output", filepath.Join(t.TempDir(), "Jenkinsfile"))
	require.Error(t, err)
}

func TestGenDevcontainer_WritesFile(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	path := filepath.Join(t.TempDir(), ".devcontainer", "devcontainer.json")

	err := runRoot(t, "gen", "devcontainer", "--output", path)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"INSTALL_PYTHON"`)
	assert.Contains(t, string(content), `"forwardPorts"`)
}

func TestGenManifests_WritesFiles(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	err := runRoot(t, "gen", "manifests", "--app", "myapp", "--output-dir", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "deployment.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: myapp")
	assert.NotContains(t, string(content), "${APP_NAME}")
}

func TestGenManifests_KustomizeLayout(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	err := runRoot(t, "gen", "manifests", "--app", "myapp",
		"--method", "kustomize", "--environment", "staging", "--output-dir", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "base", "deployment.yaml"))
	assert.FileExists(t, filepath.Join(dir, "base", "kustomization.yaml"))
	assert.FileExists(t, filepath.Join(dir, "overlays", "staging", "kustomization.yaml"))
}

func TestGenManifests_RequiresApp(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))

	err := runRoot(t, "gen", "manifests", "--output-dir", t.TempDir())
	require.Error(t, err)
}

func TestGenCICD_WritesBoth(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	err := runRoot(t, "gen", "cicd", "--type", "build", "--output-dir", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, ".github", "workflows", "devops-os-build.yml"))
	assert.FileExists(t, filepath.Join(dir, "Jenkinsfile"))

	readme, err := os.ReadFile(filepath.Join(dir, "CICD-README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), "GitHub Actions Workflow")
	assert.Contains(t, string(readme), "Jenkins Pipeline")
}

func TestGenCICD_RejectsSingleComposerTargets(t *testing.T) {
	for _, target := range []string{"reusable", "parameterized"} {
		t.Run(target, func(t *testing.T) {
			t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
			dir := t.TempDir()

			err := runRoot(t, "gen", "cicd", "--type", target, "--output-dir", dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not valid for combined generation")

			// A rejected target must not leave partial output behind.
			assert.NoDirExists(t, filepath.Join(dir, ".github"))
			assert.NoFileExists(t, filepath.Join(dir, "Jenkinsfile"))
			assert.NoFileExists(t, filepath.Join(dir, "CICD-README.md"))
		})
	}
}

func TestGenCICD_GithubOnly(t *testing.T) {
	t.Setenv("DEVOS_SETTINGS", filepath.Join(t.TempDir(), "missing.json"))
	dir := t.TempDir()

	err := runRoot(t, "gen", "cicd", "--type", "build", "--github", "--output-dir", dir)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, ".github", "workflows", "devops-os-build.yml"))
	assert.NoFileExists(t, filepath.Join(dir, "Jenkinsfile"))
}

func TestGenWorkflow_SettingsOverrideLanguages(t *testing.T) {
	settingsFile := filepath.Join(t.TempDir(), "devcontainer.env.json")
	require.NoError(t, os.WriteFile(settingsFile,
		[]byte(`{"languages": {"go": true}}`), 0o644))
	t.Setenv("DEVOS_SETTINGS", settingsFile)
	dir := t.TempDir()

	err := runRoot(t, "gen", "workflow", "--type", "build",
		"--languages", "python", "--output", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "devops-os-build.yml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Build Go application")
	assert.NotContains(t, string(content), "Build Python package")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"main", "develop"}, splitList("main, develop"))
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
}
