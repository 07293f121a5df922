package manifest

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/devopsos/cli/internal/compose"
	oerrors "github.com/devopsos/cli/internal/errors"
)

//go:embed templates
var templateFS embed.FS

func render(templatePath string, values map[string]string) (string, error) {
	data, err := templateFS.ReadFile(path.Join("templates", templatePath))
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", templatePath, err)
	}
	return Substitute(string(data), values), nil
}

// Generate renders the manifest set for a request. The returned map holds
// relative output paths and their contents; the layout depends on the
// deployment method.
func Generate(req *compose.Request) (map[string]string, error) {
	if !req.Method.Known() {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("unknown deployment method %q", req.Method),
			"", "method",
			"Valid methods: kubectl, kustomize, argocd, flux",
		)
	}

	values := Values(req)
	env := values["ENVIRONMENT"]
	files := map[string]string{}

	switch req.Method {
	case compose.MethodKubectl:
		content, err := render("deployment.yaml", values)
		if err != nil {
			return nil, err
		}
		files["deployment.yaml"] = content

	case compose.MethodKustomize:
		deployment, err := render("deployment.yaml", values)
		if err != nil {
			return nil, err
		}
		base, err := render("kustomize/base/kustomization.yaml", values)
		if err != nil {
			return nil, err
		}
		overlay, err := render("kustomize/overlays/env/kustomization.yaml", values)
		if err != nil {
			return nil, err
		}
		files["base/deployment.yaml"] = deployment
		files["base/kustomization.yaml"] = base
		files[path.Join("overlays", env, "kustomization.yaml")] = overlay

	case compose.MethodArgoCD:
		content, err := render("argocd/application.yaml", values)
		if err != nil {
			return nil, err
		}
		files["argocd/application.yaml"] = content

	case compose.MethodFlux:
		content, err := render("flux/deployment.yaml", values)
		if err != nil {
			return nil, err
		}
		files["flux/deployment.yaml"] = content
	}

	return files, nil
}

// Summary parses the rendered manifests and reports one "Kind/name" line
// per resource, sorted by file path.
func Summary(files map[string]string) ([]string, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var lines []string
	for _, p := range paths {
		for _, doc := range strings.Split(files[p], "\n---\n") {
			if strings.TrimSpace(doc) == "" {
				continue
			}
			var obj map[string]any
			if err := sigsyaml.Unmarshal([]byte(doc), &obj); err != nil {
				return nil, fmt.Errorf("parsing rendered manifest %s: %w", p, err)
			}
			u := &unstructured.Unstructured{Object: obj}
			if u.GetKind() == "" {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s/%s (%s)", u.GetKind(), u.GetName(), p))
		}
	}
	return lines, nil
}

// ApplyHint returns the command to apply the generated configuration.
func ApplyHint(req *compose.Request, outputDir string) string {
	env := req.Environment
	if env == "" {
		env = "dev"
	}
	switch req.Method {
	case compose.MethodKustomize:
		return fmt.Sprintf("kubectl apply -k %s", path.Join(outputDir, "overlays", env))
	case compose.MethodArgoCD:
		return fmt.Sprintf("argocd app create %s --repo https://github.com/your-org/your-repo.git --path kubernetes/overlays/%s --dest-server https://kubernetes.default.svc --dest-namespace %s-%s",
			req.Name, env, req.Name, env)
	case compose.MethodFlux:
		return fmt.Sprintf("flux create kustomization %s --source=%s --path=./kubernetes/overlays/%s", req.Name, req.Name, env)
	default:
		return fmt.Sprintf("kubectl apply -f %s", path.Join(outputDir, "deployment.yaml"))
	}
}
