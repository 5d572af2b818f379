// Package config holds the JSON job configuration consumed by the intake
// commands, plus the Options bag shared with the parsers.
//
// A job lists input files to load into one workspace, optional business
// rules, and metrics settings. Commands also accept bare file paths; the job
// file exists so a repeatable run can be checked into a repo and validated
// before execution.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"intake/internal/schema"
)

// Input describes one file to ingest.
type Input struct {
	// Path is the local file path (CSV, XLSX, or HTML).
	Path string `json:"path"`
	// Name overrides the logical table name. Defaults to the file base name
	// without extension.
	Name string `json:"name,omitempty"`
	// Options are parser options (delimiter, charset, sheet, ...).
	Options Options `json:"options,omitempty"`
}

// MetricsConfig selects and configures a metrics backend.
type MetricsConfig struct {
	// Backend is "datadog", "none", or empty (none).
	Backend string   `json:"backend,omitempty"`
	Job     string   `json:"job,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Job is a complete intake run configuration.
type Job struct {
	Name    string        `json:"name,omitempty"`
	Inputs  []Input       `json:"inputs"`
	Rules   []schema.Rule `json:"rules,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty"`
}

// Severity of a config validation issue.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one configuration problem located by Path (a dotted JSON path).
type Issue struct {
	Severity string
	Path     string
	Message  string
}

// LoadJob decodes a Job from a JSON file.
func LoadJob(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, fmt.Errorf("open job config: %w", err)
	}
	defer f.Close()
	return DecodeJob(f)
}

// DecodeJob decodes a Job from JSON. Unknown fields are rejected so typos in
// hand-written configs surface immediately instead of being ignored.
func DecodeJob(r io.Reader) (Job, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var j Job
	if err := dec.Decode(&j); err != nil {
		return Job{}, fmt.Errorf("decode job config: %w", err)
	}
	return j, nil
}

// ValidateJob checks a Job for structural problems and returns all issues
// found. An empty result means the job is runnable.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	if len(j.Inputs) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "inputs",
			Message:  "at least one input is required",
		})
	}

	seen := make(map[string]int, len(j.Inputs))
	for i, in := range j.Inputs {
		p := fmt.Sprintf("inputs[%d]", i)
		if strings.TrimSpace(in.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     p + ".path",
				Message:  "path must not be empty",
			})
			continue
		}
		name := in.Name
		if name == "" {
			name = TableNameFromPath(in.Path)
		}
		if prev, dup := seen[name]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     p + ".name",
				Message: fmt.Sprintf("table name %q also produced by inputs[%d]; later input replaces the earlier one",
					name, prev),
			})
		} else {
			seen[name] = i
		}
	}

	switch j.Metrics.Backend {
	case "", "none", "datadog":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "metrics.backend",
			Message:  fmt.Sprintf("unknown metrics backend %q (want datadog or none)", j.Metrics.Backend),
		})
	}

	for i, r := range j.Rules {
		if r.Type == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("rules[%d].type", i),
				Message:  "rule type must not be empty",
			})
		}
	}

	return issues
}

// TableNameFromPath derives the logical table name from a file path: the base
// name with its extension stripped, lower-cased.
func TableNameFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return strings.ToLower(strings.TrimSpace(base))
}
