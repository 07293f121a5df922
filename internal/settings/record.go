// Package settings provides the persisted Configuration Record driving all
// generators: per-category tool toggles plus version strings, stored as a
// single JSON settings file.
package settings

// Category keys as they appear in the settings file.
const (
	CategoryLanguages    = "languages"
	CategoryCICD         = "cicd"
	CategoryKubernetes   = "kubernetes"
	CategoryBuildTools   = "build_tools"
	CategoryCodeAnalysis = "code_analysis"
	CategoryDevOpsTools  = "devops_tools"
)

// Categories lists all boolean category keys in presentation order.
var Categories = []string{
	CategoryLanguages,
	CategoryCICD,
	CategoryKubernetes,
	CategoryBuildTools,
	CategoryCodeAnalysis,
	CategoryDevOpsTools,
}

// Record is the Configuration Record: feature flags grouped into categories
// plus free-form version strings. A nil category map means every tool in that
// category is disabled; callers go through Enabled rather than indexing maps.
type Record struct {
	Languages    map[string]bool   `json:"languages,omitempty"`
	CICD         map[string]bool   `json:"cicd,omitempty"`
	Kubernetes   map[string]bool   `json:"kubernetes,omitempty"`
	BuildTools   map[string]bool   `json:"build_tools,omitempty"`
	CodeAnalysis map[string]bool   `json:"code_analysis,omitempty"`
	DevOpsTools  map[string]bool   `json:"devops_tools,omitempty"`
	Versions     map[string]string `json:"versions,omitempty"`
}

// category returns the map for a category key, nil for unknown keys.
func (r *Record) category(key string) map[string]bool {
	switch key {
	case CategoryLanguages:
		return r.Languages
	case CategoryCICD:
		return r.CICD
	case CategoryKubernetes:
		return r.Kubernetes
	case CategoryBuildTools:
		return r.BuildTools
	case CategoryCodeAnalysis:
		return r.CodeAnalysis
	case CategoryDevOpsTools:
		return r.DevOpsTools
	default:
		return nil
	}
}

// setCategory replaces the map for a category key.
func (r *Record) setCategory(key string, m map[string]bool) {
	switch key {
	case CategoryLanguages:
		r.Languages = m
	case CategoryCICD:
		r.CICD = m
	case CategoryKubernetes:
		r.Kubernetes = m
	case CategoryBuildTools:
		r.BuildTools = m
	case CategoryCodeAnalysis:
		r.CodeAnalysis = m
	case CategoryDevOpsTools:
		r.DevOpsTools = m
	}
}

// Category returns the toggle map for a category key, nil for unknown keys.
// The returned map is the record's own; callers that mutate it should go
// through SetCategory instead.
func (r *Record) Category(key string) map[string]bool {
	return r.category(key)
}

// SetCategory replaces a category's toggle map wholesale.
func (r *Record) SetCategory(key string, m map[string]bool) {
	r.setCategory(key, m)
}

// Enabled reports whether a tool is enabled in a category. It is total:
// an unknown category, a nil category map, or a missing tool key all mean
// "disabled", never an error.
func (r *Record) Enabled(category, tool string) bool {
	m := r.category(category)
	if m == nil {
		return false
	}
	return m[tool]
}

// AnyEnabled reports whether any tool in the category is enabled.
func (r *Record) AnyEnabled(category string) bool {
	for _, on := range r.category(category) {
		if on {
			return true
		}
	}
	return false
}

// Version returns the version string for a tool, or fallback when unset.
func (r *Record) Version(tool, fallback string) string {
	if v, ok := r.Versions[tool]; ok && v != "" {
		return v
	}
	return fallback
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := &Record{}
	for _, key := range Categories {
		src := r.category(key)
		if src == nil {
			continue
		}
		dst := make(map[string]bool, len(src))
		for k, v := range src {
			dst[k] = v
		}
		out.setCategory(key, dst)
	}
	if r.Versions != nil {
		out.Versions = make(map[string]string, len(r.Versions))
		for k, v := range r.Versions {
			out.Versions[k] = v
		}
	}
	return out
}

// Overlay applies other on top of r, shallow per top-level category: a
// category present in other replaces r's category wholesale; absent
// categories are left untouched. Versions merge the same way.
func (r *Record) Overlay(other *Record) {
	if other == nil {
		return
	}
	for _, key := range Categories {
		if m := other.category(key); m != nil {
			r.setCategory(key, m)
		}
	}
	if other.Versions != nil {
		r.Versions = other.Versions
	}
}

// Defaults returns the hard-coded default Configuration Record.
func Defaults() *Record {
	return &Record{
		Languages: map[string]bool{
			"python":     true,
			"java":       true,
			"javascript": true,
			"go":         true,
		},
		CICD: map[string]bool{
			"docker":         true,
			"terraform":      true,
			"kubectl":        true,
			"helm":           true,
			"github_actions": true,
		},
		Kubernetes: map[string]bool{
			"k9s":           true,
			"kustomize":     true,
			"argocd_cli":    true,
			"lens":          false,
			"kubeseal":      true,
			"flux":          true,
			"kind":          true,
			"minikube":      true,
			"openshift_cli": false,
		},
		BuildTools: map[string]bool{
			"gradle": true,
			"maven":  true,
			"ant":    true,
			"make":   true,
			"cmake":  true,
		},
		CodeAnalysis: map[string]bool{
			"sonarqube":  true,
			"checkstyle": true,
			"pmd":        true,
			"eslint":     true,
			"pylint":     true,
		},
		DevOpsTools: map[string]bool{
			"nexus":      true,
			"prometheus": true,
			"grafana":    true,
			"elk":        true,
			"jenkins":    false,
		},
		Versions: map[string]string{
			"python":     "3.11",
			"java":       "17",
			"node":       "20",
			"go":         "1.21",
			"nexus":      "3.50.0",
			"prometheus": "2.45.0",
			"grafana":    "10.0.0",
			"k9s":        "0.29.1",
			"argocd":     "2.8.4",
			"flux":       "2.1.2",
			"kustomize":  "5.2.1",
		},
	}
}
