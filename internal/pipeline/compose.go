// Package pipeline composes declarative Jenkins pipelines. The output is
// plain Jenkinsfile text built line by line; ordering is fixed so a given
// request always renders identically.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/devopsos/cli/internal/compose"
	oerrors "github.com/devopsos/cli/internal/errors"
	"github.com/devopsos/cli/internal/settings"
)

// Compose builds the Jenkinsfile for a request.
func Compose(req *compose.Request, rec *settings.Record) (string, error) {
	switch req.Target {
	case compose.TargetBuild, compose.TargetTest, compose.TargetDeploy,
		compose.TargetComplete, compose.TargetParameterized:
	default:
		return "", oerrors.NewValidationError(
			fmt.Sprintf("pipeline generation does not support target type %q", req.Target),
			"", "type",
			"Valid types: build, test, deploy, complete, parameterized",
		)
	}

	parameterized := req.Target == compose.TargetParameterized || req.Parameters

	var b strings.Builder
	b.WriteString("pipeline {\n")
	b.WriteString("    agent {\n")
	b.WriteString("        docker {\n")
	fmt.Fprintf(&b, "            image '%s'\n", req.Value("container_image", req.Image))
	b.WriteString("            args '-v /var/run/docker.sock:/var/run/docker.sock -u root'\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")

	if parameterized {
		writeParameters(&b, req)
	}
	writeEnvironment(&b, req)
	writeOptions(&b)

	b.WriteString("    stages {\n")
	if hasStage(req.Target, compose.TargetBuild) {
		writeBuildStage(&b, req)
	}
	if hasStage(req.Target, compose.TargetTest) {
		writeTestStage(&b, req, rec)
	}
	if hasStage(req.Target, compose.TargetDeploy) {
		writeDeployStage(&b, req)
	}
	b.WriteString("    }\n")

	writePost(&b)
	b.WriteString("}\n")

	return b.String(), nil
}

// hasStage reports whether the target includes a stage. complete and
// parameterized pipelines carry all three.
func hasStage(target, stage compose.TargetType) bool {
	if target == stage {
		return true
	}
	return target == compose.TargetComplete || target == compose.TargetParameterized
}

func writeParameters(b *strings.Builder, req *compose.Request) {
	b.WriteString("    parameters {\n")
	for _, lang := range compose.LanguageOrder {
		fmt.Fprintf(b,
			"        booleanParam(name: '%s_ENABLED', defaultValue: %t, description: 'Enable %s tools')\n",
			strings.ToUpper(lang), req.LanguageEnabled(lang), capitalize(lang))
	}
	if req.Kubernetes {
		b.WriteString("        booleanParam(name: 'KUBERNETES_DEPLOY', defaultValue: true, description: 'Deploy to Kubernetes')\n")
		fmt.Fprintf(b,
			"        choice(name: 'K8S_METHOD', choices: ['kubectl', 'kustomize', 'argocd', 'flux'], defaultValue: '%s', description: 'Kubernetes deployment method')\n",
			req.Method)
		b.WriteString("        choice(name: 'ENVIRONMENT', choices: ['dev', 'test', 'staging', 'prod'], defaultValue: 'dev', description: 'Deployment environment')\n")
	}
	fmt.Fprintf(b, "        string(name: 'REGISTRY_URL', defaultValue: '%s', description: 'Container registry URL')\n", req.Registry)
	b.WriteString("        string(name: 'IMAGE_NAME', defaultValue: 'app', description: 'Name of the container image')\n")
	b.WriteString("        string(name: 'IMAGE_TAG', defaultValue: 'latest', description: 'Container image tag')\n")
	b.WriteString("    }\n")
}

func writeEnvironment(b *strings.Builder, req *compose.Request) {
	b.WriteString("    environment {\n")
	b.WriteString("        WORKSPACE_DIR = '${WORKSPACE}'\n")
	fmt.Fprintf(b, "        REGISTRY_URL = params.REGISTRY_URL ?: '%s'\n", req.Registry)
	b.WriteString("        IMAGE_NAME = params.IMAGE_NAME ?: 'app'\n")
	b.WriteString("        IMAGE_TAG = params.IMAGE_TAG ?: 'latest'\n")
	if req.Kubernetes {
		b.WriteString("        KUBERNETES_DEPLOY = params.KUBERNETES_DEPLOY ?: true\n")
		fmt.Fprintf(b, "        K8S_METHOD = params.K8S_METHOD ?: '%s'\n", req.Method)
		b.WriteString("        ENVIRONMENT = params.ENVIRONMENT ?: 'dev'\n")
	}
	for _, lang := range compose.LanguageOrder {
		upper := strings.ToUpper(lang)
		fmt.Fprintf(b, "        %s_ENABLED = params.%s_ENABLED ?: %t\n", upper, upper, req.LanguageEnabled(lang))
	}
	b.WriteString("    }\n")
}

func writeOptions(b *strings.Builder) {
	b.WriteString("    options {\n")
	b.WriteString("        timestamps()\n")
	b.WriteString("        timeout(time: 60, unit: 'MINUTES')\n")
	b.WriteString("        buildDiscarder(logRotator(numToKeepStr: '10'))\n")
	b.WriteString("        disableConcurrentBuilds()\n")
	b.WriteString("        ansiColor('xterm')\n")
	b.WriteString("    }\n")
}

// writeShell emits a sh block whose body is guarded by the language's
// enablement variable so parameterized runs can switch tools off.
func writeShell(b *strings.Builder, lines ...string) {
	b.WriteString("                sh '''\n")
	for _, line := range lines {
		b.WriteString("                    " + line + "\n")
	}
	b.WriteString("                '''\n")
}

func writeBuildStage(b *strings.Builder, req *compose.Request) {
	b.WriteString("        stage('Build') {\n")
	b.WriteString("            steps {\n")
	if req.SCM != "none" {
		b.WriteString("                checkout scm\n")
	}

	for _, lang := range req.OrderedLanguages() {
		switch lang {
		case "python":
			writeShell(b,
				"if [ ${PYTHON_ENABLED} = 'true' ] && [ -f requirements.txt ]; then",
				"    pip install -r requirements.txt",
				"fi",
				"if [ ${PYTHON_ENABLED} = 'true' ] && [ -f setup.py ]; then",
				"    pip install -e .",
				"elif [ ${PYTHON_ENABLED} = 'true' ] && [ -f pyproject.toml ]; then",
				"    pip install -e .",
				"fi",
			)
		case "java":
			writeShell(b,
				"if [ ${JAVA_ENABLED} = 'true' ] && [ -f pom.xml ]; then",
				"    mvn -B package --file pom.xml",
				"fi",
				"if [ ${JAVA_ENABLED} = 'true' ] && [ -f build.gradle ]; then",
				"    ./gradlew build",
				"fi",
			)
		case "javascript":
			writeShell(b,
				"if [ ${JAVASCRIPT_ENABLED} = 'true' ] && [ -f package.json ]; then",
				"    npm ci",
				"    npm run build --if-present",
				"fi",
			)
		case "go":
			writeShell(b,
				"if [ ${GO_ENABLED} = 'true' ] && [ -f go.mod ]; then",
				"    go build -v ./...",
				"fi",
			)
		}
	}

	b.WriteString("                archiveArtifacts artifacts: '**/target/*.jar, **/dist/*, **/build/*, **/*.zip, **/*.tar.gz', allowEmptyArchive: true\n")
	b.WriteString("            }\n")
	b.WriteString("        }\n")
}

func writeTestStage(b *strings.Builder, req *compose.Request, rec *settings.Record) {
	b.WriteString("        stage('Test') {\n")
	b.WriteString("            steps {\n")

	for _, lang := range req.OrderedLanguages() {
		switch lang {
		case "python":
			writeShell(b,
				"if [ ${PYTHON_ENABLED} = 'true' ] && [ -f requirements.txt ]; then",
				"    pip install -r requirements.txt pytest pytest-cov",
				"fi",
				"if [ ${PYTHON_ENABLED} = 'true' ] && [ -d tests ]; then",
				"    python -m pytest --cov=./ --cov-report=xml",
				"fi",
			)
			if rec.Enabled(settings.CategoryCodeAnalysis, "pylint") {
				writeShell(b,
					"if [ ${PYTHON_ENABLED} = 'true' ] && command -v pylint &> /dev/null; then",
					"    pylint --disable=C0111 **/*.py || true",
					"fi",
				)
			}
		case "java":
			writeShell(b,
				"if [ ${JAVA_ENABLED} = 'true' ] && [ -f pom.xml ]; then",
				"    mvn -B test --file pom.xml",
				"fi",
				"if [ ${JAVA_ENABLED} = 'true' ] && [ -f build.gradle ]; then",
				"    ./gradlew test",
				"fi",
			)
			if rec.Enabled(settings.CategoryCodeAnalysis, "checkstyle") {
				writeShell(b,
					"if [ ${JAVA_ENABLED} = 'true' ] && [ -f pom.xml ]; then",
					"    mvn checkstyle:checkstyle || true",
					"fi",
				)
			}
		case "javascript":
			writeShell(b,
				"if [ ${JAVASCRIPT_ENABLED} = 'true' ] && [ -f package.json ]; then",
				"    npm test || true",
				"fi",
			)
			if rec.Enabled(settings.CategoryCodeAnalysis, "eslint") {
				writeShell(b,
					"if [ ${JAVASCRIPT_ENABLED} = 'true' ] && [ -f package.json ] && grep -q eslint package.json; then",
					"    npm run lint || true",
					"fi",
				)
			}
		case "go":
			writeShell(b,
				"if [ ${GO_ENABLED} = 'true' ] && [ -f go.mod ]; then",
				"    go test -v ./...",
				"fi",
			)
		}
	}

	b.WriteString("                junit '**/target/surefire-reports/*.xml, **/test-results/*.xml, **/junit-reports/*.xml', allowEmptyResults: true\n")
	b.WriteString("            }\n")
	b.WriteString("        }\n")
}

func writeDeployStage(b *strings.Builder, req *compose.Request) {
	b.WriteString("        stage('Deploy') {\n")
	b.WriteString("            when {\n")
	b.WriteString("                expression {\n")
	b.WriteString("                    return env.ENVIRONMENT != 'prod' || (env.ENVIRONMENT == 'prod' && currentBuild.resultIsBetterOrEqualTo('SUCCESS'))\n")
	b.WriteString("                }\n")
	b.WriteString("            }\n")

	if req.Kubernetes {
		b.WriteString("            input {\n")
		b.WriteString("                message \"Deploy to production?\"\n")
		b.WriteString("                ok \"Yes\"\n")
		b.WriteString("                submitter \"admin\"\n")
		b.WriteString("                parameters {\n")
		b.WriteString("                    string(name: 'CONFIRM_DEPLOY', defaultValue: 'no', description: 'Type YES to confirm deployment to production')\n")
		b.WriteString("                }\n")
		b.WriteString("                when {\n")
		b.WriteString("                    expression { return env.ENVIRONMENT == 'prod' }\n")
		b.WriteString("                }\n")
		b.WriteString("            }\n")
	}

	b.WriteString("            steps {\n")
	b.WriteString("                script {\n")
	b.WriteString("                    def imageName = \"${REGISTRY_URL}/${IMAGE_NAME}:${IMAGE_TAG}\"\n")
	b.WriteString("                    docker.withRegistry('https://' + REGISTRY_URL, 'registry-credentials') {\n")
	b.WriteString("                        def customImage = docker.build(imageName)\n")
	b.WriteString("                        customImage.push()\n")
	b.WriteString("                    }\n")
	b.WriteString("                }\n")

	if req.Kubernetes {
		writeKubernetesScript(b)
	}

	b.WriteString("                sh '''\n")
	b.WriteString("                    echo \"Deployment completed successfully\"\n")
	b.WriteString("                '''\n")
	b.WriteString("            }\n")
	b.WriteString("        }\n")
}

// writeKubernetesScript emits the runtime method dispatch. Jenkins picks the
// method from environment, so all four branches are always present.
func writeKubernetesScript(b *strings.Builder) {
	for _, line := range []string{
		"                script {",
		"                    if (env.KUBERNETES_DEPLOY == 'true') {",
		"                        withCredentials([file(credentialsId: 'kubeconfig', variable: 'KUBECONFIG')]) {",
		"                            sh 'mkdir -p ~/.kube && cp $KUBECONFIG ~/.kube/config && chmod 600 ~/.kube/config'",
		"                            if (env.K8S_METHOD == 'kubectl') {",
		"                                sh '''",
		"                                    kubectl apply -f ./k8s/deployment.yaml",
		"                                    kubectl apply -f ./k8s/service.yaml",
		"                                    kubectl rollout status deployment/my-app",
		"                                '''",
		"                            } else if (env.K8S_METHOD == 'kustomize') {",
		"                                sh '''",
		"                                    kubectl apply -k ./k8s/overlays/${ENVIRONMENT}",
		"                                    kubectl rollout status deployment/my-app",
		"                                '''",
		"                            } else if (env.K8S_METHOD == 'argocd') {",
		"                                withCredentials([",
		"                                    string(credentialsId: 'argocd-server', variable: 'ARGOCD_SERVER'),",
		"                                    usernamePassword(credentialsId: 'argocd-credentials', usernameVariable: 'ARGOCD_USERNAME', passwordVariable: 'ARGOCD_PASSWORD')",
		"                                ]) {",
		"                                    sh '''",
		"                                        argocd login $ARGOCD_SERVER --username $ARGOCD_USERNAME --password $ARGOCD_PASSWORD --insecure",
		"                                        argocd app sync my-application",
		"                                        argocd app wait my-application --health",
		"                                    '''",
		"                                }",
		"                            } else if (env.K8S_METHOD == 'flux') {",
		"                                sh '''",
		"                                    flux reconcile source git flux-system",
		"                                    flux reconcile kustomization flux-system",
		"                                '''",
		"                            }",
		"                        }",
		"                    }",
		"                }",
	} {
		b.WriteString(line + "\n")
	}
}

func writePost(b *strings.Builder) {
	b.WriteString("    post {\n")
	b.WriteString("        always {\n")
	b.WriteString("            cleanWs()\n")
	b.WriteString("        }\n")
	b.WriteString("        success {\n")
	b.WriteString("            echo 'Pipeline completed successfully!'\n")
	b.WriteString("        }\n")
	b.WriteString("        failure {\n")
	b.WriteString("            echo 'Pipeline failed!'\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
