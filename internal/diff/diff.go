// Package diff compares freshly composed artifacts against files already on
// disk, so regeneration surfaces exactly what would change before anything
// is overwritten.
package diff

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
)

// Result holds the rendered comparison for one artifact.
type Result struct {
	// Path is the on-disk file compared against.
	Path string

	// Report is the rendered human-readable diff, empty when identical.
	Report string
}

// HasChanges reports whether the artifact differs from the file.
func (r *Result) HasChanges() bool {
	return r.Report != ""
}

// CompareFile diffs composed content against the file at path. A missing
// file counts as an all-new artifact.
func CompareFile(path string, composed []byte, useColor bool) (*Result, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Result{
				Path:   path,
				Report: fmt.Sprintf("%s does not exist yet; the whole artifact is new", path),
			}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return CompareYAML(path, existing, composed, useColor)
}

// CompareYAML runs a structural YAML comparison between the existing and
// composed documents.
func CompareYAML(path string, existing, composed []byte, useColor bool) (*Result, error) {
	from, err := parseInput(path, existing)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	to, err := parseInput("composed", composed)
	if err != nil {
		return nil, fmt.Errorf("parsing composed artifact: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return nil, fmt.Errorf("comparing documents: %w", err)
	}

	if len(report.Diffs) == 0 {
		return &Result{Path: path}, nil
	}

	rendered, err := renderReport(report, useColor)
	if err != nil {
		return nil, err
	}
	return &Result{Path: path, Report: rendered}, nil
}

// CompareText diffs non-YAML artifacts (Jenkinsfiles) line by line.
func CompareText(path string, existing, composed []byte) *Result {
	if bytes.Equal(existing, composed) {
		return &Result{Path: path}
	}

	oldLines := strings.Split(string(existing), "\n")
	newLines := strings.Split(string(composed), "\n")

	var sb strings.Builder
	max := len(oldLines)
	if len(newLines) > max {
		max = len(newLines)
	}
	for i := 0; i < max; i++ {
		var oldLine, newLine string
		if i < len(oldLines) {
			oldLine = oldLines[i]
		}
		if i < len(newLines) {
			newLine = newLines[i]
		}
		if oldLine == newLine {
			continue
		}
		if oldLine != "" || i < len(oldLines) {
			fmt.Fprintf(&sb, "- %s\n", oldLine)
		}
		if newLine != "" || i < len(newLines) {
			fmt.Fprintf(&sb, "+ %s\n", newLine)
		}
	}
	return &Result{Path: path, Report: strings.TrimRight(sb.String(), "\n")}
}

func parseInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing diff report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
