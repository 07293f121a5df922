package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/devopsos/cli/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, "settings.json", `{
			"languages": {"python": true, "go": false},
			"versions": {"python": "3.12"}
		}`)

		rec, err := Load(path)
		require.NoError(t, err)
		assert.True(t, rec.Enabled(CategoryLanguages, "python"))
		assert.False(t, rec.Enabled(CategoryLanguages, "go"))
		assert.Equal(t, "3.12", rec.Version("python", ""))
	})

	t.Run("comment lines are stripped", func(t *testing.T) {
		path := writeFile(t, "settings.json", `{
			// tool toggles
			"languages": {"python": true}
		}`)

		rec, err := Load(path)
		require.NoError(t, err)
		assert.True(t, rec.Enabled(CategoryLanguages, "python"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeFile(t, "settings.json", `{"languages": `)

		_, err := Load(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
	})
}

func TestLoadCustom(t *testing.T) {
	t.Run("categories and flat values", func(t *testing.T) {
		path := writeFile(t, "custom.json", `{
			"languages": {"python": true},
			"container_image": "registry.example.com/base:1.0",
			"artifact_path": "build/"
		}`)

		custom, err := LoadCustom(path)
		require.NoError(t, err)
		assert.True(t, custom.Record.Enabled(CategoryLanguages, "python"))
		assert.Equal(t, "registry.example.com/base:1.0", custom.Values["container_image"])
		assert.Equal(t, "build/", custom.Values["artifact_path"])
	})

	t.Run("yaml input", func(t *testing.T) {
		path := writeFile(t, "custom.yaml", "container_image: img:latest\nkubernetes:\n  flux: true\n")

		custom, err := LoadCustom(path)
		require.NoError(t, err)
		assert.Equal(t, "img:latest", custom.Values["container_image"])
		assert.True(t, custom.Record.Enabled(CategoryKubernetes, "flux"))
	})

	t.Run("non-boolean category value", func(t *testing.T) {
		path := writeFile(t, "custom.json", `{"languages": {"python": "yes"}}`)

		_, err := LoadCustom(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrValidation))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCustom(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, oerrors.ErrNotFound))
	})
}

func TestResolve(t *testing.T) {
	t.Run("missing settings file falls back to defaults", func(t *testing.T) {
		rec, values, err := Resolve(filepath.Join(t.TempDir(), "absent.json"), "", nil)
		require.NoError(t, err)
		assert.Equal(t, Defaults(), rec)
		assert.Empty(t, values)
	})

	t.Run("settings file beats flag-derived base", func(t *testing.T) {
		path := writeFile(t, "settings.json", `{"languages": {"java": true}}`)

		base := &Record{Languages: map[string]bool{"python": true}}
		rec, _, err := Resolve(path, "", base)
		require.NoError(t, err)
		assert.True(t, rec.Enabled(CategoryLanguages, "java"))
		assert.False(t, rec.Enabled(CategoryLanguages, "python"))
	})

	t.Run("custom beats settings file", func(t *testing.T) {
		settingsPath := writeFile(t, "settings.json", `{"kubernetes": {"flux": true}}`)
		customPath := writeFile(t, "custom.json", `{"kubernetes": {"kustomize": true}}`)

		rec, _, err := Resolve(settingsPath, customPath, nil)
		require.NoError(t, err)
		assert.True(t, rec.Enabled(CategoryKubernetes, "kustomize"))
		assert.False(t, rec.Enabled(CategoryKubernetes, "flux"))
	})

	t.Run("explicit custom path must exist", func(t *testing.T) {
		_, _, err := Resolve("", filepath.Join(t.TempDir(), "absent.json"), nil)
		require.Error(t, err)
	})
}

func TestSave(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "settings.json")
		require.NoError(t, Save(path, Defaults()))

		rec, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Defaults(), rec)
	})

	t.Run("rewrites wholesale", func(t *testing.T) {
		path := writeFile(t, "settings.json", `{"languages": {"python": true}, "cicd": {"docker": true}}`)

		require.NoError(t, Save(path, &Record{Languages: map[string]bool{"go": true}}))

		rec, err := Load(path)
		require.NoError(t, err)
		assert.True(t, rec.Enabled(CategoryLanguages, "go"))
		assert.False(t, rec.Enabled(CategoryCICD, "docker"))
	})
}

func TestVet(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	t.Run("valid settings", func(t *testing.T) {
		issues, err := v.VetBytes([]byte(`{
			"languages": {"python": true},
			"versions": {"python": "3.11"}
		}`))
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("unknown top-level key", func(t *testing.T) {
		issues, err := v.VetBytes([]byte(`{"langauges": {"python": true}}`))
		require.NoError(t, err)
		assert.NotEmpty(t, issues)
	})

	t.Run("non-boolean toggle", func(t *testing.T) {
		issues, err := v.VetBytes([]byte(`{"languages": {"python": "yes"}}`))
		require.NoError(t, err)
		assert.NotEmpty(t, issues)
	})

	t.Run("enabled language without version", func(t *testing.T) {
		issues, err := v.VetBytes([]byte(`{"languages": {"javascript": true}}`))
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Equal(t, "versions.node", issues[0].Field)
	})
}
