package manifest

import (
	"fmt"

	"github.com/devopsos/cli/internal/compose"
)

// Values builds the substitution map for a request. Flat custom values
// override the derived defaults key by key. Secret-bearing placeholders
// render as literal "placeholder" and are expected to be replaced by the
// cluster's secret management.
func Values(req *compose.Request) map[string]string {
	env := req.Environment
	if env == "" {
		env = "dev"
	}
	replicas := req.Replicas
	if replicas == "" {
		replicas = "2"
	}
	featureFlags := "true"
	if env == "prod" {
		featureFlags = "false"
	}
	tag := req.ImageTag
	if tag == "" {
		tag = "latest"
	}

	values := map[string]string{
		"APP_NAME":           req.Name,
		"ENVIRONMENT":        env,
		"CONTAINER_REGISTRY": req.Registry,
		"IMAGE_TAG":          tag,
		"REPLICAS":           replicas,
		"FEATURE_FLAGS":      featureFlags,
		"DB_USER":            "dbuser",
		"DB_PASSWORD":        "placeholder",
		"DB_HOST":            "db-" + env,
		"DB_NAME":            fmt.Sprintf("%s-%s", req.Name, env),
		"API_KEY":            "placeholder",
	}

	for k, v := range req.Values {
		values[k] = v
	}
	return values
}
