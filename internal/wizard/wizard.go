// Package wizard drives the interactive settings editor: one multi-select
// per tool category, seeded from the current record, written back to the
// settings file only after an explicit confirmation.
package wizard

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/devopsos/cli/internal/settings"
)

// categoryTools fixes the selectable tools and their display order per
// category. Unknown tools already present in the record survive untouched.
var categoryTools = map[string][]string{
	settings.CategoryLanguages:    {"python", "java", "javascript", "go"},
	settings.CategoryCICD:         {"docker", "terraform", "kubectl", "helm", "github_actions"},
	settings.CategoryKubernetes:   {"k9s", "kustomize", "argocd_cli", "lens", "kubeseal", "flux", "kind", "minikube", "openshift_cli"},
	settings.CategoryBuildTools:   {"gradle", "maven", "ant", "make", "cmake"},
	settings.CategoryCodeAnalysis: {"sonarqube", "checkstyle", "pmd", "eslint", "pylint"},
	settings.CategoryDevOpsTools:  {"nexus", "prometheus", "grafana", "elk", "jenkins"},
}

var categoryTitles = map[string]string{
	settings.CategoryLanguages:    "Programming languages",
	settings.CategoryCICD:         "CI/CD tools",
	settings.CategoryKubernetes:   "Kubernetes tools",
	settings.CategoryBuildTools:   "Build tools",
	settings.CategoryCodeAnalysis: "Code analysis tools",
	settings.CategoryDevOpsTools:  "DevOps services",
}

// Outcome reports how the wizard ended.
type Outcome struct {
	// Saved is true when the record was confirmed and written.
	Saved bool

	// Record is the edited record, valid only when Saved.
	Record *settings.Record
}

// Run walks the user through every category and persists the result to
// path. Declining the final confirmation or aborting the form leaves the
// settings file untouched and is not an error.
func Run(path string, base *settings.Record) (*Outcome, error) {
	rec := base.Clone()
	selections := map[string]*[]string{}

	var groups []*huh.Group
	for _, category := range settings.Categories {
		tools := categoryTools[category]

		var selected []string
		for _, tool := range tools {
			if rec.Enabled(category, tool) {
				selected = append(selected, tool)
			}
		}
		selections[category] = &selected

		options := make([]huh.Option[string], len(tools))
		for i, tool := range tools {
			options[i] = huh.NewOption(tool, tool)
		}

		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(categoryTitles[category]).
				Options(options...).
				Value(&selected),
		))
	}

	confirmed := false
	groups = append(groups, huh.NewGroup(
		huh.NewConfirm().
			Title("Write these settings?").
			Description("The settings file is rewritten in full.").
			Affirmative("Save").
			Negative("Discard").
			Value(&confirmed),
	))

	if err := huh.NewForm(groups...).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return &Outcome{}, nil
		}
		return nil, err
	}
	if !confirmed {
		return &Outcome{}, nil
	}

	for category, selected := range selections {
		applySelection(rec, category, categoryTools[category], *selected)
	}

	if err := settings.Save(path, rec); err != nil {
		return nil, err
	}
	return &Outcome{Saved: true, Record: rec}, nil
}

// applySelection rewrites a category from the chosen tool set, keeping any
// tools outside the selectable list as they were.
func applySelection(rec *settings.Record, category string, tools, selected []string) {
	chosen := map[string]bool{}
	for _, tool := range selected {
		chosen[tool] = true
	}

	updated := map[string]bool{}
	for _, tool := range tools {
		updated[tool] = chosen[tool]
	}
	for tool, on := range rec.Category(category) {
		if _, known := updated[tool]; !known {
			updated[tool] = on
		}
	}
	rec.SetCategory(category, updated)
}

// SelectableTools returns a copy of the wizard's tool list for a category.
func SelectableTools(category string) []string {
	return append([]string(nil), categoryTools[category]...)
}
