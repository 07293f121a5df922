package settings

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sigsyaml "sigs.k8s.io/yaml"

	oerrors "github.com/devopsos/cli/internal/errors"
)

// DefaultFileName is the settings file looked up in the working directory
// when --settings and DEVOS_SETTINGS are both unset.
const DefaultFileName = "devcontainer.env.json"

// stripComments removes lines whose first non-blank characters are "//".
// The settings file is plain JSON but historically allowed comment lines.
func stripComments(data []byte) []byte {
	var out bytes.Buffer
	for _, line := range bytes.Split(data, []byte("\n")) {
		if strings.HasPrefix(strings.TrimSpace(string(line)), "//") {
			continue
		}
		out.Write(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// Load reads a settings file into a Record. Comment lines are stripped
// before parsing. A malformed file is a fatal configuration error.
func Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("settings file not found", path,
				"Run 'devos settings init' to create one")
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	var rec Record
	if err := json.Unmarshal(stripComments(data), &rec); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid settings",
			Message:  fmt.Sprintf("settings file is not valid JSON: %v", err),
			Location: path,
			Hint:     "Fix the JSON or regenerate with 'devos settings init --force'",
			Cause:    oerrors.ErrValidation,
		}
	}
	return &rec, nil
}

// Custom holds the contents of a custom-values file: an optional partial
// Record overlay plus flat string values consumed by the generators
// (container_image, artifact_path, test_report_path, manifest placeholders).
type Custom struct {
	Record *Record
	Values map[string]string
}

// LoadCustom reads a custom-values file, accepting JSON or YAML. Category
// keys become a Record overlay; remaining scalar string entries become flat
// values. An explicitly requested file that cannot be read is fatal.
func LoadCustom(path string) (*Custom, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, oerrors.NewNotFoundError("custom values file not found", path, "")
		}
		return nil, fmt.Errorf("reading custom values %s: %w", path, err)
	}

	// sigs.k8s.io/yaml handles both YAML and JSON input.
	var raw map[string]json.RawMessage
	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, &oerrors.DetailError{
			Type:     "invalid custom values",
			Message:  fmt.Sprintf("custom values file could not be parsed: %v", err),
			Location: path,
			Cause:    oerrors.ErrValidation,
		}
	}

	custom := &Custom{
		Record: &Record{},
		Values: map[string]string{},
	}

	for key, val := range raw {
		if isCategoryKey(key) {
			var m map[string]bool
			if err := json.Unmarshal(val, &m); err != nil {
				return nil, &oerrors.DetailError{
					Type:     "invalid custom values",
					Message:  fmt.Sprintf("category %q must map tool names to booleans: %v", key, err),
					Location: path,
					Field:    key,
					Cause:    oerrors.ErrValidation,
				}
			}
			custom.Record.setCategory(key, m)
			continue
		}
		if key == "versions" {
			var m map[string]string
			if err := json.Unmarshal(val, &m); err != nil {
				return nil, &oerrors.DetailError{
					Type:     "invalid custom values",
					Message:  fmt.Sprintf("versions must map tool names to strings: %v", err),
					Location: path,
					Field:    key,
					Cause:    oerrors.ErrValidation,
				}
			}
			custom.Record.Versions = m
			continue
		}
		var s string
		if err := json.Unmarshal(val, &s); err == nil {
			custom.Values[key] = s
		}
		// Non-string scalars outside known categories are ignored.
	}

	return custom, nil
}

func isCategoryKey(key string) bool {
	for _, c := range Categories {
		if key == c {
			return true
		}
	}
	return false
}

// Resolve produces the effective Record for an invocation. Precedence, lowest
// first: hard-coded defaults, caller-provided base overlay (flag-derived
// categories), the persisted settings file, the custom-values file. Merging
// is shallow per category. A missing settings file falls back to defaults; a
// missing custom-values file (when a path was given) is fatal.
func Resolve(settingsPath, customPath string, base *Record) (*Record, map[string]string, error) {
	rec := Defaults()
	rec.Overlay(base)

	if settingsPath != "" {
		persisted, err := Load(settingsPath)
		if err != nil {
			// A missing settings file is not an error; defaults apply.
			if !isNotFound(err) {
				return nil, nil, err
			}
			persisted = nil
		}
		rec.Overlay(persisted)
	}

	values := map[string]string{}
	if customPath != "" {
		custom, err := LoadCustom(customPath)
		if err != nil {
			return nil, nil, err
		}
		rec.Overlay(custom.Record)
		values = custom.Values
	}

	return rec, values, nil
}

func isNotFound(err error) bool {
	return stderrors.Is(err, oerrors.ErrNotFound)
}

// Save writes the record to path wholesale, creating parent directories.
// The file is always rewritten in full, never patched in place.
func Save(path string, rec *Record) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory %s: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings file %s: %w", path, err)
	}
	return nil
}
