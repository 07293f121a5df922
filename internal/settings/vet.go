package settings

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaFS embed.FS

// Issue is a single finding from vetting a settings file.
type Issue struct {
	Field   string
	Message string
}

func (i Issue) String() string {
	if i.Field == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// Validator checks settings files against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schemaData, err := schemaFS.ReadFile("schema.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded schema: %w", err)
	}

	schema := ctx.CompileBytes(schemaData)
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{ctx: ctx, schema: schema}, nil
}

// VetBytes validates raw settings JSON against the schema and returns all
// findings. Comment lines are stripped first, matching Load.
func (v *Validator) VetBytes(data []byte) ([]Issue, error) {
	expr, err := cuejson.Extract("settings", stripComments(data))
	if err != nil {
		return nil, fmt.Errorf("parsing settings JSON: %w", err)
	}

	val := v.ctx.BuildExpr(expr)
	if val.Err() != nil {
		return nil, fmt.Errorf("building settings value: %w", val.Err())
	}

	unified := v.schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var issues []Issue
		for _, e := range cueerrors.Errors(err) {
			field := strings.Join(e.Path(), ".")
			issues = append(issues, Issue{
				Field:   field,
				Message: e.Error(),
			})
		}
		return issues, nil
	}

	return v.lint(data)
}

// VetFile validates the settings file at path.
func (v *Validator) VetFile(path string) ([]Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return v.VetBytes(data)
}

// lint runs semantic checks beyond the structural schema.
func (v *Validator) lint(data []byte) ([]Issue, error) {
	rec := &Record{}
	if err := json.Unmarshal(stripComments(data), rec); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}

	var issues []Issue
	for _, lang := range []string{"python", "java", "go"} {
		if rec.Enabled(CategoryLanguages, lang) && rec.Version(lang, "") == "" {
			issues = append(issues, Issue{
				Field:   "versions." + lang,
				Message: fmt.Sprintf("language %q is enabled but has no pinned version", lang),
			})
		}
	}
	if rec.Enabled(CategoryLanguages, "javascript") && rec.Version("node", "") == "" {
		issues = append(issues, Issue{
			Field:   "versions.node",
			Message: "language \"javascript\" is enabled but node has no pinned version",
		})
	}
	return issues, nil
}
