package diff

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareYAML(t *testing.T) {
	t.Run("identical documents", func(t *testing.T) {
		doc := []byte("name: demo\njobs:\n  build:\n    runs-on: ubuntu-latest\n")
		result, err := CompareYAML("wf.yml", doc, doc, false)
		require.NoError(t, err)
		assert.False(t, result.HasChanges())
	})

	t.Run("changed value surfaces", func(t *testing.T) {
		before := []byte("name: demo\nreplicas: 2\n")
		after := []byte("name: demo\nreplicas: 3\n")
		result, err := CompareYAML("dep.yml", before, after, false)
		require.NoError(t, err)
		assert.True(t, result.HasChanges())
		assert.Contains(t, result.Report, "replicas")
	})

	t.Run("key order does not matter", func(t *testing.T) {
		a := []byte("a: 1\nb: 2\n")
		b := []byte("b: 2\na: 1\n")
		result, err := CompareYAML("f.yml", a, b, false)
		require.NoError(t, err)
		assert.False(t, result.HasChanges())
	})
}

func TestCompareFile(t *testing.T) {
	t.Run("missing file is all new", func(t *testing.T) {
		result, err := CompareFile(filepath.Join(t.TempDir(), "absent.yml"), []byte("a: 1\n"), false)
		require.NoError(t, err)
		assert.True(t, result.HasChanges())
		assert.Contains(t, result.Report, "does not exist")
	})

	t.Run("existing file compared", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "wf.yml")
		require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0o644))

		result, err := CompareFile(path, []byte("a: 1\n"), false)
		require.NoError(t, err)
		assert.False(t, result.HasChanges())
	})
}

func TestCompareText(t *testing.T) {
	t.Run("equal content", func(t *testing.T) {
		result := CompareText("Jenkinsfile", []byte("pipeline {\n}\n"), []byte("pipeline {\n}\n"))
		assert.False(t, result.HasChanges())
	})

	t.Run("changed lines marked", func(t *testing.T) {
		result := CompareText("Jenkinsfile",
			[]byte("image 'old:1'\ntimeout 60\n"),
			[]byte("image 'new:2'\ntimeout 60\n"))
		assert.True(t, result.HasChanges())
		assert.Contains(t, result.Report, "- image 'old:1'")
		assert.Contains(t, result.Report, "+ image 'new:2'")
		assert.NotContains(t, result.Report, "timeout")
	})
}
