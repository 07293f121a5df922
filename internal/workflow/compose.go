package workflow

import (
	"fmt"
	"strings"

	"github.com/devopsos/cli/internal/compose"
	oerrors "github.com/devopsos/cli/internal/errors"
	"github.com/devopsos/cli/internal/settings"
)

// Compose builds the workflow document for a request. It is pure: the same
// request and record always yield the same document.
func Compose(req *compose.Request, rec *settings.Record) (*Document, error) {
	switch req.Target {
	case compose.TargetBuild:
		return composeBuild(req, rec), nil
	case compose.TargetTest:
		return composeTest(req, rec), nil
	case compose.TargetDeploy:
		return composeDeploy(req), nil
	case compose.TargetComplete:
		return composeComplete(req, rec), nil
	case compose.TargetReusable:
		return composeReusable(req), nil
	default:
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("workflow generation does not support target type %q", req.Target),
			"", "type",
			"Valid types: build, test, deploy, complete, reusable",
		)
	}
}

// Filename derives the output file name from the request.
func Filename(req *compose.Request) string {
	return fmt.Sprintf("%s-%s.yml", req.Slug(), req.Target)
}

func container(req *compose.Request) *Container {
	return &Container{
		Image:   req.Value("container_image", req.Image),
		Options: "--user root",
	}
}

func checkoutStep() Step {
	return Step{Name: "Checkout code", Uses: "actions/checkout@v3"}
}

func setupStep(phase string) Step {
	return Step{
		Name: fmt.Sprintf("Set up %s environment", phase),
		Run:  fmt.Sprintf("echo 'Setting up %s environment'", phase),
	}
}

// artifactSuffix distinguishes per-leg artifacts in matrix builds.
func artifactSuffix(req *compose.Request) string {
	if req.Matrix {
		return "-${{ matrix.os }}-${{ matrix.arch }}"
	}
	return ""
}

// applyMatrix switches jobs onto the os/arch matrix. Only the strategy,
// runs-on, and artifact names differ between matrix and plain builds.
func applyMatrix(req *compose.Request, jobs ...*Job) {
	if !req.Matrix {
		return
	}
	for _, job := range jobs {
		job.Strategy = &Strategy{
			Matrix: Matrix{
				OS:   []string{"ubuntu-latest"},
				Arch: []string{"amd64", "arm64"},
			},
			FailFast: false,
		}
		job.RunsOn = "${{ matrix.os }}"
	}
}

// buildSteps appends per-language build steps in the fixed language order.
func buildSteps(req *compose.Request, rec *settings.Record) []Step {
	var steps []Step
	for _, lang := range req.OrderedLanguages() {
		switch lang {
		case "python":
			steps = append(steps,
				Step{Name: "Install Python dependencies", Run: "if [ -f requirements.txt ]; then pip install -r requirements.txt; fi"},
				Step{Name: "Build Python package", Run: "if [ -f setup.py ]; then pip install -e .; elif [ -f pyproject.toml ]; then pip install -e .; fi"},
			)
		case "java":
			steps = append(steps,
				Step{Name: "Set up Java environment", Run: "echo 'Setting up Java environment'"},
				Step{Name: "Build with Maven", Run: "if [ -f pom.xml ]; then mvn -B package --file pom.xml; fi"},
				Step{Name: "Build with Gradle", Run: "if [ -f build.gradle ]; then ./gradlew build; fi"},
			)
		case "javascript":
			steps = append(steps,
				Step{Name: "Install Node.js dependencies", Run: "if [ -f package.json ]; then npm ci; fi"},
				Step{Name: "Build JavaScript/TypeScript", Run: "if [ -f package.json ]; then npm run build --if-present; fi"},
			)
		case "go":
			steps = append(steps,
				Step{Name: "Build Go application", Run: "if [ -f go.mod ]; then go build -v ./...; fi"},
			)
		}
	}

	if rec.Enabled(settings.CategoryCodeAnalysis, "sonarqube") {
		steps = append(steps, Step{Name: "SonarQube Analysis", Run: "echo 'Running SonarQube analysis'"})
	}

	steps = append(steps, Step{
		Name: "Upload build artifacts",
		Uses: "actions/upload-artifact@v3",
		With: Mapping{
			{Key: "name", Value: "build-artifacts" + artifactSuffix(req)},
			{Key: "path", Value: req.Value("artifact_path", "dist/")},
			{Key: "retention-days", Value: 1},
		},
	})
	return steps
}

// testSteps appends per-language test steps plus lint steps gated on the
// code analysis toggles.
func testSteps(req *compose.Request, rec *settings.Record) []Step {
	var steps []Step
	for _, lang := range req.OrderedLanguages() {
		switch lang {
		case "python":
			steps = append(steps,
				Step{Name: "Install Python dependencies", Run: "if [ -f requirements.txt ]; then pip install -r requirements.txt pytest pytest-cov; fi"},
				Step{Name: "Run Python tests", Run: "if [ -d tests ]; then python -m pytest --cov=./ --cov-report=xml; fi"},
			)
			if rec.Enabled(settings.CategoryCodeAnalysis, "pylint") {
				steps = append(steps, Step{Name: "Run Pylint", Run: "if command -v pylint &> /dev/null; then pylint --disable=C0111 **/*.py; fi"})
			}
		case "java":
			steps = append(steps,
				Step{Name: "Set up Java environment", Run: "echo 'Setting up Java environment'"},
				Step{Name: "Run Java tests with Maven", Run: "if [ -f pom.xml ]; then mvn -B test --file pom.xml; fi"},
				Step{Name: "Run Java tests with Gradle", Run: "if [ -f build.gradle ]; then ./gradlew test; fi"},
			)
			if rec.Enabled(settings.CategoryCodeAnalysis, "checkstyle") {
				steps = append(steps, Step{Name: "Run Checkstyle", Run: "if [ -f pom.xml ]; then mvn checkstyle:checkstyle; fi"})
			}
		case "javascript":
			steps = append(steps,
				Step{Name: "Install Node.js dependencies", Run: "if [ -f package.json ]; then npm ci; fi"},
				Step{Name: "Run JavaScript tests", Run: "if [ -f package.json ]; then npm test; fi"},
			)
			if rec.Enabled(settings.CategoryCodeAnalysis, "eslint") {
				steps = append(steps, Step{Name: "Run ESLint", Run: "if [ -f package.json ] && grep -q eslint package.json; then npm run lint; fi"})
			}
		case "go":
			steps = append(steps, Step{Name: "Run Go tests", Run: "if [ -f go.mod ]; then go test -v ./...; fi"})
		}
	}

	steps = append(steps,
		Step{
			Name: "Upload test results",
			Uses: "actions/upload-artifact@v3",
			With: Mapping{
				{Key: "name", Value: "test-results" + artifactSuffix(req)},
				{Key: "path", Value: req.Value("test_report_path", "test-reports/")},
				{Key: "retention-days", Value: 1},
			},
		},
		Step{
			Name: "Upload coverage reports",
			Uses: "codecov/codecov-action@v3",
			With: Mapping{
				{Key: "files", Value: "./coverage.xml,./coverage/lcov.info"},
				{Key: "fail_ci_if_error", Value: false},
			},
		},
	)
	return steps
}

func dockerPushStep(req *compose.Request) Step {
	return Step{
		Name: "Build and Push Docker Image",
		If:   "github.ref == 'refs/heads/main'",
		Run: strings.Join([]string{
			"echo \"${{ secrets.REGISTRY_TOKEN }}\" | docker login " + req.Registry + " -u ${{ github.actor }} --password-stdin",
			"docker build -t " + req.Registry + "/${{ github.repository_owner }}/${{ github.event.repository.name }}:latest .",
			"docker push " + req.Registry + "/${{ github.repository_owner }}/${{ github.event.repository.name }}:latest",
		}, "\n"),
	}
}

// kubernetesStep returns the deployment step for the request's method, or
// nil when Kubernetes is off or the method has no rendered steps.
func kubernetesStep(req *compose.Request) *Step {
	if !req.Kubernetes {
		return nil
	}
	switch req.Method {
	case compose.MethodKubectl:
		return &Step{
			Name: "Deploy to Kubernetes",
			If:   "github.ref == 'refs/heads/main'",
			Run: strings.Join([]string{
				"mkdir -p $HOME/.kube",
				"echo \"${{ secrets.KUBECONFIG }}\" > $HOME/.kube/config",
				"chmod 600 $HOME/.kube/config",
				"kubectl apply -f ./k8s/deployment.yaml",
				"kubectl apply -f ./k8s/service.yaml",
				"kubectl rollout status deployment/my-app",
			}, "\n"),
		}
	case compose.MethodKustomize:
		return &Step{
			Name: "Deploy to Kubernetes with Kustomize",
			If:   "github.ref == 'refs/heads/main'",
			Run: strings.Join([]string{
				"mkdir -p $HOME/.kube",
				"echo \"${{ secrets.KUBECONFIG }}\" > $HOME/.kube/config",
				"chmod 600 $HOME/.kube/config",
				"kubectl apply -k ./k8s/overlays/${ENVIRONMENT}",
				"kubectl rollout status deployment/my-app",
			}, "\n"),
			Env: Mapping{
				{Key: "ENVIRONMENT", Value: "${{ github.event.inputs.environment || 'dev' }}"},
			},
		}
	case compose.MethodArgoCD:
		return &Step{
			Name: "Deploy with ArgoCD",
			If:   "github.ref == 'refs/heads/main'",
			Run: strings.Join([]string{
				"argocd login $ARGOCD_SERVER --username $ARGOCD_USERNAME --password $ARGOCD_PASSWORD --insecure",
				"argocd app sync my-application",
				"argocd app wait my-application --health",
			}, "\n"),
			Env: Mapping{
				{Key: "ARGOCD_SERVER", Value: "${{ secrets.ARGOCD_SERVER }}"},
				{Key: "ARGOCD_USERNAME", Value: "${{ secrets.ARGOCD_USERNAME }}"},
				{Key: "ARGOCD_PASSWORD", Value: "${{ secrets.ARGOCD_PASSWORD }}"},
			},
		}
	case compose.MethodFlux:
		return &Step{
			Name: "Deploy with Flux",
			If:   "github.ref == 'refs/heads/main'",
			Run: strings.Join([]string{
				"flux reconcile source git flux-system",
				"flux reconcile kustomization flux-system",
			}, "\n"),
		}
	default:
		// Unknown methods degrade to no deploy step.
		return nil
	}
}

func environmentInput() Mapping {
	return Mapping{
		{Key: "environment", Value: Input{
			Description: "Environment to deploy to",
			Required:    true,
			Default:     "dev",
			Type:        "choice",
			Options:     []string{"dev", "test", "staging", "prod"},
		}},
	}
}

func composeBuild(req *compose.Request, rec *settings.Record) *Document {
	branches := req.TriggerBranches()
	job := &Job{
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("build")},
	}
	applyMatrix(req, job)
	job.Steps = append(job.Steps, buildSteps(req, rec)...)

	return &Document{
		Name: req.Name + " Build",
		On: Triggers{
			Push:             &BranchFilter{Branches: branches},
			PullRequest:      &BranchFilter{Branches: branches},
			WorkflowDispatch: &Dispatch{},
		},
		Jobs: Jobs{{Name: "build", Job: job}},
	}
}

func composeTest(req *compose.Request, rec *settings.Record) *Document {
	branches := req.TriggerBranches()
	job := &Job{
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("test")},
	}
	applyMatrix(req, job)
	job.Steps = append(job.Steps, testSteps(req, rec)...)

	return &Document{
		Name: req.Name + " Test",
		On: Triggers{
			Push:             &BranchFilter{Branches: branches},
			PullRequest:      &BranchFilter{Branches: branches},
			WorkflowDispatch: &Dispatch{},
		},
		Jobs: Jobs{{Name: "test", Job: job}},
	}
}

func composeDeploy(req *compose.Request) *Document {
	job := &Job{
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps: []Step{
			checkoutStep(),
			setupStep("deployment"),
			dockerPushStep(req),
		},
	}
	if step := kubernetesStep(req); step != nil {
		job.Steps = append(job.Steps, *step)
	}

	return &Document{
		Name: req.Name + " Deploy",
		On: Triggers{
			Push:             &BranchFilter{Branches: req.TriggerBranches()},
			WorkflowDispatch: &Dispatch{Inputs: environmentInput()},
		},
		Jobs: Jobs{{Name: "deploy", Job: job}},
	}
}

func composeComplete(req *compose.Request, rec *settings.Record) *Document {
	branches := req.TriggerBranches()

	build := &Job{
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("build")},
	}
	test := &Job{
		Needs:     []string{"build"},
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("test")},
	}
	deploy := &Job{
		Needs:     []string{"test"},
		If:        "github.ref == 'refs/heads/main'",
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("deployment")},
	}
	applyMatrix(req, build, test, deploy)

	build.Steps = append(build.Steps, buildSteps(req, rec)...)
	test.Steps = append(test.Steps, testSteps(req, rec)...)
	deploy.Steps = append(deploy.Steps, dockerPushStep(req))
	if step := kubernetesStep(req); step != nil {
		deploy.Steps = append(deploy.Steps, *step)
	}

	return &Document{
		Name: req.Name + " CI/CD",
		On: Triggers{
			Push:             &BranchFilter{Branches: branches},
			PullRequest:      &BranchFilter{Branches: branches},
			WorkflowDispatch: &Dispatch{Inputs: environmentInput()},
		},
		Jobs: Jobs{
			{Name: "build", Job: build},
			{Name: "test", Job: test},
			{Name: "deploy", Job: deploy},
		},
	}
}

// languagesJSON renders the request's language set as a JSON object in the
// fixed language order, used as a reusable workflow input default.
func languagesJSON(req *compose.Request) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, lang := range compose.LanguageOrder {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q: %t", lang, req.LanguageEnabled(lang))
	}
	sb.WriteByte('}')
	return sb.String()
}

func composeReusable(req *compose.Request) *Document {
	build := &Job{
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("build")},
	}
	test := &Job{
		Needs:     []string{"build"},
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps:     []Step{checkoutStep(), setupStep("test")},
	}
	deploy := &Job{
		Needs:     []string{"test"},
		If:        "github.ref == 'refs/heads/main'",
		RunsOn:    "ubuntu-latest",
		Container: container(req),
		Steps: []Step{
			checkoutStep(),
			setupStep("deployment"),
			{
				Name: "Parse input configurations",
				ID:   "config",
				Run: strings.Join([]string{
					"echo \"languages=${{ inputs.languages }}\" >> $GITHUB_OUTPUT",
					"echo \"k8s_deploy=${{ inputs.kubernetes_deploy }}\" >> $GITHUB_OUTPUT",
					"echo \"k8s_method=${{ inputs.k8s_method }}\" >> $GITHUB_OUTPUT",
					"echo \"env=${{ inputs.environment }}\" >> $GITHUB_OUTPUT",
				}, "\n"),
			},
			{
				Name: "Build and Push Docker Image",
				If:   "github.ref == 'refs/heads/main'",
				Run: strings.Join([]string{
					"echo \"${{ secrets.registry_token }}\" | docker login " + req.Registry + " -u ${{ github.actor }} --password-stdin",
					"docker build -t " + req.Registry + "/${{ github.repository_owner }}/${{ github.event.repository.name }}:latest .",
					"docker push " + req.Registry + "/${{ github.repository_owner }}/${{ github.event.repository.name }}:latest",
				}, "\n"),
			},
		},
	}
	applyMatrix(req, build, test, deploy)

	// The caller decides at invocation time; the method dispatch runs in
	// shell instead of being fixed at generation time.
	deploy.Steps = append(deploy.Steps, Step{
		Name: "Deploy to Kubernetes",
		If:   "github.ref == 'refs/heads/main' && steps.config.outputs.k8s_deploy == 'true'",
		Run: strings.Join([]string{
			"mkdir -p $HOME/.kube",
			"echo \"${{ secrets.kubeconfig }}\" > $HOME/.kube/config",
			"chmod 600 $HOME/.kube/config",
			"if [[ \"${{ steps.config.outputs.k8s_method }}\" == \"kubectl\" ]]; then",
			"  kubectl apply -f ./k8s/deployment.yaml",
			"  kubectl apply -f ./k8s/service.yaml",
			"  kubectl rollout status deployment/my-app",
			"elif [[ \"${{ steps.config.outputs.k8s_method }}\" == \"kustomize\" ]]; then",
			"  kubectl apply -k ./k8s/overlays/${{ steps.config.outputs.env }}",
			"  kubectl rollout status deployment/my-app",
			"elif [[ \"${{ steps.config.outputs.k8s_method }}\" == \"argocd\" ]]; then",
			"  argocd login $ARGOCD_SERVER --username $ARGOCD_USERNAME --password $ARGOCD_PASSWORD --insecure",
			"  argocd app sync my-application",
			"  argocd app wait my-application --health",
			"elif [[ \"${{ steps.config.outputs.k8s_method }}\" == \"flux\" ]]; then",
			"  flux reconcile source git flux-system",
			"  flux reconcile kustomization flux-system",
			"fi",
		}, "\n"),
	})

	return &Document{
		Name: req.Name + " Reusable Workflow",
		On: Triggers{
			WorkflowCall: &Call{
				Inputs: Mapping{
					{Key: "environment", Value: Input{
						Description: "Environment to deploy to",
						Required:    false,
						Default:     "dev",
						Type:        "string",
					}},
					{Key: "languages", Value: Input{
						Description: "JSON string of languages to enable",
						Required:    false,
						Default:     languagesJSON(req),
						Type:        "string",
					}},
					{Key: "kubernetes_deploy", Value: Input{
						Description: "Whether to deploy to Kubernetes",
						Required:    false,
						Default:     req.Kubernetes,
						Type:        "boolean",
					}},
					{Key: "k8s_method", Value: Input{
						Description: "Kubernetes deployment method",
						Required:    false,
						Default:     string(req.Method),
						Type:        "string",
					}},
				},
				Secrets: Mapping{
					{Key: "registry_token", Value: SecretDecl{
						Description: "Token for container registry",
						Required:    false,
					}},
					{Key: "kubeconfig", Value: SecretDecl{
						Description: "Kubernetes configuration",
						Required:    false,
					}},
				},
			},
		},
		Jobs: Jobs{
			{Name: "build", Job: build},
			{Name: "test", Job: test},
			{Name: "deploy", Job: deploy},
		},
	}
}
