package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	t.Run("all valid targets", func(t *testing.T) {
		for _, want := range TargetTypes {
			got, err := ParseTarget(string(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		}
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := ParseTarget("release")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "release")
	})
}

func TestMethodKnown(t *testing.T) {
	for _, m := range Methods {
		assert.True(t, m.Known(), string(m))
	}
	assert.False(t, Method("helm").Known())
	assert.False(t, Method("").Known())
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"My Project", "my-project"},
		{"payment_service", "payment-service"},
		{"API  Gateway!", "api-gateway"},
		{"app", "app"},
	}

	for _, tt := range tests {
		r := &Request{Name: tt.name}
		assert.Equal(t, tt.want, r.Slug(), tt.name)
	}
}

func TestOrderedLanguages(t *testing.T) {
	t.Run("fixed order regardless of input", func(t *testing.T) {
		r := &Request{Languages: map[string]bool{"go": true, "python": true, "java": true}}
		assert.Equal(t, []string{"python", "java", "go"}, r.OrderedLanguages())
	})

	t.Run("disabled languages absent", func(t *testing.T) {
		r := &Request{Languages: map[string]bool{"javascript": true, "python": false}}
		assert.Equal(t, []string{"javascript"}, r.OrderedLanguages())
	})

	t.Run("empty set", func(t *testing.T) {
		r := &Request{}
		assert.Empty(t, r.OrderedLanguages())
	})
}

func TestParseLanguages(t *testing.T) {
	t.Run("comma list", func(t *testing.T) {
		set := ParseLanguages("python, go")
		assert.Equal(t, map[string]bool{"python": true, "go": true}, set)
	})

	t.Run("all keyword", func(t *testing.T) {
		set := ParseLanguages("all")
		assert.Len(t, set, len(LanguageOrder))
	})

	t.Run("unknown names dropped", func(t *testing.T) {
		set := ParseLanguages("rust,python")
		assert.Equal(t, map[string]bool{"python": true}, set)
	})
}

func TestTriggerBranches(t *testing.T) {
	r := &Request{}
	assert.Equal(t, []string{"main", "develop"}, r.TriggerBranches())

	r.Branches = []string{"release"}
	assert.Equal(t, []string{"release"}, r.TriggerBranches())
}
