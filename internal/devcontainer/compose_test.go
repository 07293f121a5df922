package devcontainer

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devopsos/cli/internal/settings"
)

func TestComposeDefaults(t *testing.T) {
	def := Compose(settings.Defaults())

	t.Run("build args carry versions and toggles", func(t *testing.T) {
		args := map[string]string{}
		for _, a := range def.Build.Args {
			args[a.Key] = a.Value
		}
		assert.Equal(t, "3.11", args["PYTHON_VERSION"])
		assert.Equal(t, "true", args["INSTALL_PYTHON"])
		assert.Equal(t, "false", args["INSTALL_LENS"])
		assert.Equal(t, "false", args["INSTALL_JENKINS"])
		assert.Equal(t, "2.45.0", args["PROMETHEUS_VERSION"])
	})

	t.Run("version pins come before toggles", func(t *testing.T) {
		assert.Equal(t, "PYTHON_VERSION", def.Build.Args[0].Key)
		assert.Equal(t, "GO_VERSION", def.Build.Args[3].Key)
	})

	t.Run("docker socket mount", func(t *testing.T) {
		require.Len(t, def.Mounts, 1)
		assert.Contains(t, def.Mounts[0], "docker.sock")
	})

	t.Run("base extensions appended last", func(t *testing.T) {
		ext := def.Customizations.VSCode.Extensions
		require.GreaterOrEqual(t, len(ext), 5)
		assert.Equal(t, "eamodio.gitlens", ext[len(ext)-1])
		assert.Equal(t, "ms-python.python", ext[0])
	})

	t.Run("forward ports for enabled services", func(t *testing.T) {
		assert.Equal(t, []int{8081, 9090, 3000, 9200, 9300, 5601}, def.ForwardPorts)
	})

	t.Run("post create set when kubernetes tools enabled", func(t *testing.T) {
		assert.NotEmpty(t, def.PostCreateCommand)
	})
}

func TestComposeDisabledCategories(t *testing.T) {
	rec := &settings.Record{
		Languages: map[string]bool{"go": true},
	}
	def := Compose(rec)

	t.Run("no language extensions besides go", func(t *testing.T) {
		ext := def.Customizations.VSCode.Extensions
		assert.Equal(t, "golang.go", ext[0])
		assert.NotContains(t, ext, "ms-python.python")
		assert.NotContains(t, ext, "redhat.java")
	})

	t.Run("no ports and no post create", func(t *testing.T) {
		assert.Empty(t, def.ForwardPorts)
		assert.Empty(t, def.PostCreateCommand)
	})

	t.Run("toggles render false", func(t *testing.T) {
		for _, a := range def.Build.Args {
			if a.Key == "INSTALL_DOCKER" {
				assert.Equal(t, "false", a.Value)
			}
		}
	})
}

func TestExtensionsDeduplicated(t *testing.T) {
	// eslint is recommended by both the javascript language and the eslint
	// analysis toggle; kubernetes-tools by both cicd and kubernetes.
	def := Compose(settings.Defaults())

	counts := map[string]int{}
	for _, e := range def.Customizations.VSCode.Extensions {
		counts[e]++
	}
	assert.Equal(t, 1, counts["dbaeumer.vscode-eslint"])
	assert.Equal(t, 1, counts["ms-kubernetes-tools.vscode-kubernetes-tools"])
}

func TestEncode(t *testing.T) {
	def := Compose(settings.Defaults())
	data, err := def.Encode()
	require.NoError(t, err)

	t.Run("valid JSON round trip", func(t *testing.T) {
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		assert.Equal(t, DefinitionName, m["name"])
	})

	t.Run("args keep insertion order", func(t *testing.T) {
		text := string(data)
		assert.Less(t, strings.Index(text, "PYTHON_VERSION"), strings.Index(text, "INSTALL_PYTHON"))
		assert.Less(t, strings.Index(text, "INSTALL_PYTHON"), strings.Index(text, "INSTALL_DOCKER"))
	})

	t.Run("deterministic", func(t *testing.T) {
		again, err := Compose(settings.Defaults()).Encode()
		require.NoError(t, err)
		assert.Equal(t, data, again)
	})

	t.Run("empty ports render as empty array", func(t *testing.T) {
		minimal, err := Compose(&settings.Record{}).Encode()
		require.NoError(t, err)
		assert.Contains(t, string(minimal), "\"forwardPorts\": []")
	})
}
