// Package workflow composes GitHub Actions workflow documents. The document
// model keeps every mapping in insertion order so a given request always
// renders to byte-identical YAML.
package workflow

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair in an ordered mapping.
type Entry struct {
	Key   string
	Value any
}

// Mapping is a YAML mapping that preserves insertion order.
type Mapping []Entry

// MarshalYAML renders the mapping as a yaml.Node so key order survives
// encoding. A nil mapping is omitted via omitempty on the field.
func (m Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: e.Key}
		val := &yaml.Node{}
		if err := val.Encode(e.Value); err != nil {
			return nil, fmt.Errorf("encoding mapping value for %q: %w", e.Key, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// Step is a single workflow step. Exactly one of Uses and Run is set.
type Step struct {
	Name string  `yaml:"name"`
	ID   string  `yaml:"id,omitempty"`
	Uses string  `yaml:"uses,omitempty"`
	If   string  `yaml:"if,omitempty"`
	Run  string  `yaml:"run,omitempty"`
	With Mapping `yaml:"with,omitempty"`
	Env  Mapping `yaml:"env,omitempty"`
}

// BranchFilter narrows push and pull_request triggers.
type BranchFilter struct {
	Branches []string `yaml:"branches"`
}

// Input declares a workflow_dispatch or workflow_call input.
type Input struct {
	Description string   `yaml:"description"`
	Required    bool     `yaml:"required"`
	Default     any      `yaml:"default"`
	Type        string   `yaml:"type"`
	Options     []string `yaml:"options,omitempty"`
}

// Dispatch is the workflow_dispatch trigger. With no inputs it renders
// as an empty mapping.
type Dispatch struct {
	Inputs Mapping `yaml:"inputs,omitempty"`
}

// SecretDecl declares a secret a reusable workflow accepts.
type SecretDecl struct {
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

// Call is the workflow_call trigger of a reusable workflow.
type Call struct {
	Inputs  Mapping `yaml:"inputs"`
	Secrets Mapping `yaml:"secrets"`
}

// Triggers is the "on" block.
type Triggers struct {
	Push             *BranchFilter `yaml:"push,omitempty"`
	PullRequest      *BranchFilter `yaml:"pull_request,omitempty"`
	WorkflowDispatch *Dispatch     `yaml:"workflow_dispatch,omitempty"`
	WorkflowCall     *Call         `yaml:"workflow_call,omitempty"`
}

// Container is the job execution container.
type Container struct {
	Image   string `yaml:"image"`
	Options string `yaml:"options"`
}

// Matrix is the os/arch build matrix.
type Matrix struct {
	OS   []string `yaml:"os"`
	Arch []string `yaml:"arch"`
}

// Strategy wraps the matrix with fail-fast disabled.
type Strategy struct {
	Matrix   Matrix `yaml:"matrix"`
	FailFast bool   `yaml:"fail-fast"`
}

// Job is one workflow job.
type Job struct {
	Needs     []string   `yaml:"needs,omitempty"`
	If        string     `yaml:"if,omitempty"`
	RunsOn    string     `yaml:"runs-on"`
	Container *Container `yaml:"container,omitempty"`
	Strategy  *Strategy  `yaml:"strategy,omitempty"`
	Steps     []Step     `yaml:"steps"`
}

// NamedJob pairs a job with its key in the jobs mapping.
type NamedJob struct {
	Name string
	Job  *Job
}

// Jobs preserves job declaration order.
type Jobs []NamedJob

// MarshalYAML renders jobs as an ordered mapping.
func (j Jobs) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, nj := range j {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: nj.Name}
		val := &yaml.Node{}
		if err := val.Encode(nj.Job); err != nil {
			return nil, fmt.Errorf("encoding job %q: %w", nj.Name, err)
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// Document is a complete workflow file.
type Document struct {
	Name string   `yaml:"name"`
	On   Triggers `yaml:"on"`
	Jobs Jobs     `yaml:"jobs"`
}

// Encode renders the document as YAML with two-space indentation.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encoding workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("closing workflow encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// job returns the named job, nil when absent.
func (j Jobs) job(name string) *Job {
	for _, nj := range j {
		if nj.Name == name {
			return nj.Job
		}
	}
	return nil
}
