package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devopsos/cli/internal/compose"
)

func TestSubstitute(t *testing.T) {
	t.Run("known tokens replaced", func(t *testing.T) {
		out := Substitute("app: ${APP_NAME}", map[string]string{"APP_NAME": "shop"})
		assert.Equal(t, "app: shop", out)
	})

	t.Run("unknown tokens pass through", func(t *testing.T) {
		out := Substitute("key: ${SECRET_REF}", map[string]string{"APP_NAME": "shop"})
		assert.Equal(t, "key: ${SECRET_REF}", out)
	})

	t.Run("idempotent once resolved", func(t *testing.T) {
		values := map[string]string{"APP_NAME": "shop"}
		once := Substitute("${APP_NAME}-${ENVIRONMENT}", values)
		twice := Substitute(once, values)
		assert.Equal(t, once, twice)
	})

	t.Run("malformed tokens untouched", func(t *testing.T) {
		in := "a: ${} b: $APP c: ${1BAD}"
		assert.Equal(t, in, Substitute(in, map[string]string{"APP": "x"}))
	})
}

func TestTokens(t *testing.T) {
	tokens := Tokens("${A} ${B} ${A}")
	assert.Equal(t, []string{"A", "B"}, tokens)
}

func TestValues(t *testing.T) {
	t.Run("derived defaults", func(t *testing.T) {
		req := &compose.Request{Name: "shop", Registry: "ghcr.io/acme"}
		values := Values(req)
		assert.Equal(t, "shop", values["APP_NAME"])
		assert.Equal(t, "dev", values["ENVIRONMENT"])
		assert.Equal(t, "2", values["REPLICAS"])
		assert.Equal(t, "true", values["FEATURE_FLAGS"])
		assert.Equal(t, "db-dev", values["DB_HOST"])
		assert.Equal(t, "shop-dev", values["DB_NAME"])
		assert.Equal(t, "placeholder", values["DB_PASSWORD"])
	})

	t.Run("prod disables feature flags", func(t *testing.T) {
		req := &compose.Request{Name: "shop", Environment: "prod"}
		assert.Equal(t, "false", Values(req)["FEATURE_FLAGS"])
	})

	t.Run("custom values override", func(t *testing.T) {
		req := &compose.Request{
			Name:   "shop",
			Values: map[string]string{"DB_USER": "svc-shop", "EXTRA": "1"},
		}
		values := Values(req)
		assert.Equal(t, "svc-shop", values["DB_USER"])
		assert.Equal(t, "1", values["EXTRA"])
	})
}

func TestGenerateLayouts(t *testing.T) {
	base := func(method compose.Method) *compose.Request {
		return &compose.Request{
			Name:        "shop",
			Method:      method,
			Registry:    "ghcr.io/acme",
			Environment: "staging",
			Replicas:    "3",
		}
	}

	t.Run("kubectl", func(t *testing.T) {
		files, err := Generate(base(compose.MethodKubectl))
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Contains(t, files["deployment.yaml"], "name: shop")
		assert.Contains(t, files["deployment.yaml"], "replicas: 3")
		assert.Contains(t, files["deployment.yaml"], "image: ghcr.io/acme/shop:latest")
	})

	t.Run("kustomize", func(t *testing.T) {
		files, err := Generate(base(compose.MethodKustomize))
		require.NoError(t, err)
		require.Len(t, files, 3)
		assert.Contains(t, files, "base/deployment.yaml")
		assert.Contains(t, files, "base/kustomization.yaml")
		assert.Contains(t, files, "overlays/staging/kustomization.yaml")
		assert.Contains(t, files["overlays/staging/kustomization.yaml"], "namePrefix: staging-")
	})

	t.Run("argocd", func(t *testing.T) {
		files, err := Generate(base(compose.MethodArgoCD))
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Contains(t, files["argocd/application.yaml"], "name: shop-staging")
	})

	t.Run("flux", func(t *testing.T) {
		files, err := Generate(base(compose.MethodFlux))
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Contains(t, files["flux/deployment.yaml"], "kind: GitRepository")
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		_, err := Generate(base(compose.Method("helm")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "helm")
	})
}

func TestGenerateNoUnresolvedTokens(t *testing.T) {
	req := &compose.Request{Name: "shop", Method: compose.MethodKustomize, Registry: "ghcr.io/acme"}
	files, err := Generate(req)
	require.NoError(t, err)
	for p, content := range files {
		assert.Empty(t, Tokens(content), p)
	}
}

func TestSummary(t *testing.T) {
	req := &compose.Request{Name: "shop", Method: compose.MethodKubectl, Registry: "ghcr.io/acme"}
	files, err := Generate(req)
	require.NoError(t, err)

	lines, err := Summary(files)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Deployment/shop (deployment.yaml)",
		"Service/shop (deployment.yaml)",
	}, lines)
}

func TestApplyHint(t *testing.T) {
	req := &compose.Request{Name: "shop", Method: compose.MethodKustomize, Environment: "prod"}
	assert.Equal(t, "kubectl apply -k k8s/overlays/prod", ApplyHint(req, "k8s"))

	req.Method = compose.MethodKubectl
	assert.Equal(t, "kubectl apply -f k8s/deployment.yaml", ApplyHint(req, "k8s"))
}
