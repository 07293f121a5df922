// Package devcontainer composes devcontainer.json definitions from the
// settings record. Output key order is fixed so regeneration is stable
// under version control.
package devcontainer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/devopsos/cli/internal/settings"
)

// DefinitionName is the fixed devcontainer display name.
const DefinitionName = "DevOps OS - Multi-Language Development Environment"

// Arg is one Docker build argument.
type Arg struct {
	Key   string
	Value string
}

// Args is an ordered set of build arguments. Plain maps would marshal in
// sorted key order and scatter the version/toggle grouping.
type Args []Arg

// MarshalJSON renders the arguments as a JSON object in insertion order.
func (a Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, arg := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(arg.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(arg.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Build is the devcontainer build block.
type Build struct {
	Dockerfile string `json:"dockerfile"`
	Args       Args   `json:"args"`
}

// VSCode holds editor customizations.
type VSCode struct {
	Extensions []string `json:"extensions"`
}

// Customizations wraps per-editor settings.
type Customizations struct {
	VSCode VSCode `json:"vscode"`
}

// Definition is a complete devcontainer.json document.
type Definition struct {
	Name              string         `json:"name"`
	Build             Build          `json:"build"`
	Mounts            []string       `json:"mounts"`
	Customizations    Customizations `json:"customizations"`
	ForwardPorts      []int          `json:"forwardPorts"`
	PostCreateCommand string         `json:"postCreateCommand,omitempty"`
}

// Encode renders the definition as indented JSON with a trailing newline.
func (d *Definition) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding devcontainer definition: %w", err)
	}
	return append(data, '\n'), nil
}

func flag(on bool) string {
	if on {
		return "true"
	}
	return "false"
}

// buildArgs derives the Dockerfile arguments: version pins first, then the
// install toggles grouped by category.
func buildArgs(rec *settings.Record) Args {
	on := func(category, tool string) string {
		return flag(rec.Enabled(category, tool))
	}

	return Args{
		{"PYTHON_VERSION", rec.Version("python", "3.11")},
		{"JAVA_VERSION", rec.Version("java", "17")},
		{"NODE_VERSION", rec.Version("node", "20")},
		{"GO_VERSION", rec.Version("go", "1.21")},

		{"INSTALL_PYTHON", on(settings.CategoryLanguages, "python")},
		{"INSTALL_JAVA", on(settings.CategoryLanguages, "java")},
		{"INSTALL_JS", on(settings.CategoryLanguages, "javascript")},
		{"INSTALL_GO", on(settings.CategoryLanguages, "go")},

		{"INSTALL_DOCKER", on(settings.CategoryCICD, "docker")},
		{"INSTALL_TERRAFORM", on(settings.CategoryCICD, "terraform")},
		{"INSTALL_KUBECTL", on(settings.CategoryCICD, "kubectl")},
		{"INSTALL_HELM", on(settings.CategoryCICD, "helm")},
		{"INSTALL_GITHUB_ACTIONS", on(settings.CategoryCICD, "github_actions")},

		{"INSTALL_K9S", on(settings.CategoryKubernetes, "k9s")},
		{"K9S_VERSION", rec.Version("k9s", "0.29.1")},
		{"INSTALL_KUSTOMIZE", on(settings.CategoryKubernetes, "kustomize")},
		{"KUSTOMIZE_VERSION", rec.Version("kustomize", "5.2.1")},
		{"INSTALL_ARGOCD_CLI", on(settings.CategoryKubernetes, "argocd_cli")},
		{"ARGOCD_VERSION", rec.Version("argocd", "2.8.4")},
		{"INSTALL_LENS", on(settings.CategoryKubernetes, "lens")},
		{"INSTALL_KUBESEAL", on(settings.CategoryKubernetes, "kubeseal")},
		{"INSTALL_FLUX", on(settings.CategoryKubernetes, "flux")},
		{"FLUX_VERSION", rec.Version("flux", "2.1.2")},
		{"INSTALL_KIND", on(settings.CategoryKubernetes, "kind")},
		{"INSTALL_MINIKUBE", on(settings.CategoryKubernetes, "minikube")},
		{"INSTALL_OPENSHIFT_CLI", on(settings.CategoryKubernetes, "openshift_cli")},

		{"INSTALL_GRADLE", on(settings.CategoryBuildTools, "gradle")},
		{"INSTALL_MAVEN", on(settings.CategoryBuildTools, "maven")},
		{"INSTALL_ANT", on(settings.CategoryBuildTools, "ant")},
		{"INSTALL_MAKE", on(settings.CategoryBuildTools, "make")},
		{"INSTALL_CMAKE", on(settings.CategoryBuildTools, "cmake")},

		{"INSTALL_SONARQUBE", on(settings.CategoryCodeAnalysis, "sonarqube")},
		{"INSTALL_CHECKSTYLE", on(settings.CategoryCodeAnalysis, "checkstyle")},
		{"INSTALL_PMD", on(settings.CategoryCodeAnalysis, "pmd")},
		{"INSTALL_ESLINT", on(settings.CategoryCodeAnalysis, "eslint")},
		{"INSTALL_PYLINT", on(settings.CategoryCodeAnalysis, "pylint")},

		{"INSTALL_NEXUS", on(settings.CategoryDevOpsTools, "nexus")},
		{"NEXUS_VERSION", rec.Version("nexus", "3.50.0")},
		{"INSTALL_PROMETHEUS", on(settings.CategoryDevOpsTools, "prometheus")},
		{"PROMETHEUS_VERSION", rec.Version("prometheus", "2.45.0")},
		{"INSTALL_GRAFANA", on(settings.CategoryDevOpsTools, "grafana")},
		{"GRAFANA_VERSION", rec.Version("grafana", "10.0.0")},
		{"INSTALL_ELK", on(settings.CategoryDevOpsTools, "elk")},
		{"INSTALL_JENKINS", on(settings.CategoryDevOpsTools, "jenkins")},
	}
}

// baseExtensions are appended last regardless of configuration.
var baseExtensions = []string{
	"github.copilot",
	"github.copilot-chat",
	"ms-vsliveshare.vsliveshare",
	"streetsidesoftware.code-spell-checker",
	"eamodio.gitlens",
}

// extensions derives the VS Code extension list. Order follows the category
// walk; an extension recommended by several toggles appears once, at its
// first position.
func extensions(rec *settings.Record) []string {
	var out []string
	seen := map[string]bool{}
	add := func(ids ...string) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}

	if rec.Enabled(settings.CategoryLanguages, "python") {
		add("ms-python.python", "ms-python.vscode-pylance", "ms-python.black-formatter")
	}
	if rec.Enabled(settings.CategoryLanguages, "java") {
		add("vscjava.vscode-java-pack", "redhat.java", "vscjava.vscode-maven", "vscjava.vscode-gradle")
	}
	if rec.Enabled(settings.CategoryLanguages, "javascript") {
		add("dbaeumer.vscode-eslint", "esbenp.prettier-vscode", "ms-vscode.vscode-typescript-next")
	}
	if rec.Enabled(settings.CategoryLanguages, "go") {
		add("golang.go")
	}

	if rec.Enabled(settings.CategoryCICD, "docker") {
		add("ms-azuretools.vscode-docker")
	}
	if rec.Enabled(settings.CategoryCICD, "terraform") {
		add("hashicorp.terraform")
	}
	if rec.Enabled(settings.CategoryCICD, "kubectl") || rec.Enabled(settings.CategoryCICD, "helm") {
		add("ms-kubernetes-tools.vscode-kubernetes-tools")
	}

	if rec.AnyEnabled(settings.CategoryKubernetes) {
		add("ms-kubernetes-tools.vscode-kubernetes-tools", "mindaro.mindaro")
	}
	if rec.Enabled(settings.CategoryKubernetes, "argocd_cli") {
		add("argoproj.argocd-vscode-extension")
	}
	if rec.Enabled(settings.CategoryKubernetes, "flux") {
		add("weaveworks.vscode-gitops-tools")
	}
	if rec.Enabled(settings.CategoryCICD, "github_actions") {
		add("github.vscode-github-actions")
	}

	if rec.Enabled(settings.CategoryCodeAnalysis, "sonarqube") {
		add("SonarSource.sonarlint-vscode")
	}
	if rec.Enabled(settings.CategoryCodeAnalysis, "checkstyle") && rec.Enabled(settings.CategoryLanguages, "java") {
		add("shengchen.vscode-checkstyle")
	}
	if rec.Enabled(settings.CategoryCodeAnalysis, "pmd") && rec.Enabled(settings.CategoryLanguages, "java") {
		add("vscjava.vscode-java-dependency")
	}
	if rec.Enabled(settings.CategoryCodeAnalysis, "eslint") && rec.Enabled(settings.CategoryLanguages, "javascript") {
		add("dbaeumer.vscode-eslint")
	}
	if rec.Enabled(settings.CategoryCodeAnalysis, "pylint") && rec.Enabled(settings.CategoryLanguages, "python") {
		add("ms-python.pylint")
	}

	if rec.Enabled(settings.CategoryDevOpsTools, "jenkins") {
		add("secanis.jenkinsfile-support")
	}

	add(baseExtensions...)
	return out
}

// forwardPorts maps enabled services to their well-known ports.
func forwardPorts(rec *settings.Record) []int {
	ports := []int{}
	if rec.Enabled(settings.CategoryDevOpsTools, "nexus") {
		ports = append(ports, 8081)
	}
	if rec.Enabled(settings.CategoryDevOpsTools, "prometheus") {
		ports = append(ports, 9090)
	}
	if rec.Enabled(settings.CategoryDevOpsTools, "grafana") {
		ports = append(ports, 3000)
	}
	if rec.Enabled(settings.CategoryDevOpsTools, "elk") {
		ports = append(ports, 9200, 9300, 5601)
	}
	if rec.Enabled(settings.CategoryDevOpsTools, "jenkins") {
		ports = append(ports, 8080)
	}
	return ports
}

// Compose builds the devcontainer definition for a settings record.
func Compose(rec *settings.Record) *Definition {
	def := &Definition{
		Name: DefinitionName,
		Build: Build{
			Dockerfile: "Dockerfile",
			Args:       buildArgs(rec),
		},
		Mounts: []string{
			"source=/var/run/docker.sock,target=/var/run/docker.sock,type=bind",
		},
		Customizations: Customizations{
			VSCode: VSCode{Extensions: extensions(rec)},
		},
		ForwardPorts: forwardPorts(rec),
	}

	// Keep the manifest generator on PATH inside the container.
	if rec.AnyEnabled(settings.CategoryKubernetes) {
		def.PostCreateCommand = "command -v devos > /dev/null || go install github.com/devopsos/cli/cmd/devos@latest"
	}

	return def
}
