// Package compose defines the request model shared by the artifact
// generators: what to generate, for which languages, and how deployment
// is wired. Composition itself lives in the per-artifact packages.
package compose

import (
	"fmt"
	"regexp"
	"strings"

	oerrors "github.com/devopsos/cli/internal/errors"
)

// TargetType selects the shape of a generated workflow or pipeline.
type TargetType string

const (
	TargetBuild         TargetType = "build"
	TargetTest          TargetType = "test"
	TargetDeploy        TargetType = "deploy"
	TargetComplete      TargetType = "complete"
	TargetReusable      TargetType = "reusable"
	TargetParameterized TargetType = "parameterized"
)

// TargetTypes lists every valid target in presentation order.
var TargetTypes = []TargetType{
	TargetBuild,
	TargetTest,
	TargetDeploy,
	TargetComplete,
	TargetReusable,
	TargetParameterized,
}

// ParseTarget validates a target type string. An unknown target is the one
// request error composition surfaces; everything else degrades gracefully.
func ParseTarget(s string) (TargetType, error) {
	for _, t := range TargetTypes {
		if TargetType(s) == t {
			return t, nil
		}
	}
	return "", oerrors.NewValidationError(
		fmt.Sprintf("unknown target type %q", s),
		"", "type",
		fmt.Sprintf("Valid types: %s", joinTargets()),
	)
}

func joinTargets() string {
	names := make([]string, len(TargetTypes))
	for i, t := range TargetTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Method selects the Kubernetes deployment tooling.
type Method string

const (
	MethodKubectl   Method = "kubectl"
	MethodKustomize Method = "kustomize"
	MethodArgoCD    Method = "argocd"
	MethodFlux      Method = "flux"
)

// Methods lists every deployment method with rendered steps.
var Methods = []Method{MethodKubectl, MethodKustomize, MethodArgoCD, MethodFlux}

// Known reports whether the method has rendered deployment steps. An
// unknown method yields no deploy steps rather than an error.
func (m Method) Known() bool {
	for _, known := range Methods {
		if m == known {
			return true
		}
	}
	return false
}

// LanguageOrder fixes the order languages appear in generated artifacts.
var LanguageOrder = []string{"python", "java", "javascript", "go"}

// Request carries everything a composer needs. Composition is a pure
// function of the request plus the resolved settings record; two equal
// requests always produce byte-identical artifacts.
type Request struct {
	// Name is the project name. Filenames derive from its slug.
	Name string

	Target TargetType

	// Languages holds the enabled language set. Iteration always goes
	// through OrderedLanguages, never over the map.
	Languages map[string]bool

	// Kubernetes enables deployment steps; Method picks the tooling.
	Kubernetes bool
	Method     Method

	Registry string
	Image    string
	ImageTag string

	// Branches filters push/pull_request triggers. Empty means the
	// default main/develop pair.
	Branches []string

	// Matrix toggles the os/arch build matrix.
	Matrix bool

	// Parameters forces a parameters block into pipelines that are not
	// of the parameterized target type.
	Parameters bool

	// SCM selects the pipeline checkout source: git, svn, or none.
	SCM string

	// Environment is the deployment environment for manifests.
	Environment string

	// Replicas is the manifest replica count as rendered.
	Replicas string

	// Values carries flat overrides from the custom-values file
	// (container_image, artifact_path, test_report_path).
	Values map[string]string
}

// slugPattern matches characters replaced by dashes in file names.
var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases the project name and collapses runs of other characters
// into single dashes.
func (r *Request) Slug() string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(r.Name), "-")
	return strings.Trim(slug, "-")
}

// OrderedLanguages returns the enabled languages in fixed order. Languages
// outside the known enumeration never appear.
func (r *Request) OrderedLanguages() []string {
	var out []string
	for _, lang := range LanguageOrder {
		if r.Languages[lang] {
			out = append(out, lang)
		}
	}
	return out
}

// LanguageEnabled reports whether a language is in the request set.
func (r *Request) LanguageEnabled(lang string) bool {
	return r.Languages[lang]
}

// ParseLanguages builds a language set from a comma-separated list,
// dropping unknown names. "all" enables the full enumeration.
func ParseLanguages(list string) map[string]bool {
	out := map[string]bool{}
	if strings.TrimSpace(list) == "all" {
		for _, lang := range LanguageOrder {
			out[lang] = true
		}
		return out
	}
	for _, raw := range strings.Split(list, ",") {
		name := strings.ToLower(strings.TrimSpace(raw))
		for _, lang := range LanguageOrder {
			if name == lang {
				out[lang] = true
			}
		}
	}
	return out
}

// Value returns a flat custom value, or fallback when unset.
func (r *Request) Value(key, fallback string) string {
	if v, ok := r.Values[key]; ok && v != "" {
		return v
	}
	return fallback
}

// TriggerBranches returns the configured branch filter or the default pair.
func (r *Request) TriggerBranches() []string {
	if len(r.Branches) > 0 {
		return r.Branches
	}
	return []string{"main", "develop"}
}
