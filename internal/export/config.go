package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"intake/internal/dataset"
	"intake/internal/schema"
	"intake/internal/validate"
)

// Document is the machine-readable companion to the CSV export: everything a
// downstream allocator needs to interpret the data without re-inferring it.
type Document struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Tables      []TableInfo      `json:"tables"`
	Rules       []schema.Rule    `json:"rules"`
	Validation  validate.Summary `json:"validation"`
}

// TableInfo is one table's entry in the config document.
type TableInfo struct {
	Name   string       `json:"name"`
	File   string       `json:"source_file,omitempty"`
	Rows   int          `json:"rows"`
	Schema schema.Table `json:"schema"`
}

// Build assembles the config document from the live workspace. The clock is
// a parameter so exports are reproducible in tests.
func Build(s *dataset.Store, now time.Time) Document {
	doc := Document{
		GeneratedAt: now.UTC(),
		Rules:       s.Rules(),
		Validation:  validate.Summarize(s.Findings()),
	}
	for _, t := range s.Tables() {
		doc.Tables = append(doc.Tables, TableInfo{
			Name:   t.Name,
			File:   t.File,
			Rows:   len(t.Rows),
			Schema: t.Schema,
		})
	}
	if doc.Tables == nil {
		doc.Tables = []TableInfo{}
	}
	if doc.Rules == nil {
		doc.Rules = []schema.Rule{}
	}
	return doc
}

// WriteConfig writes the config document as indented JSON.
func WriteConfig(w io.Writer, s *dataset.Store, now time.Time) error {
	return writeJSON(w, Build(s, now), "config")
}

// WriteSchemas writes only the inferred table schemas as indented JSON, in
// load order. This is the lightweight export used to review inference
// results without the full config document.
func WriteSchemas(w io.Writer, s *dataset.Store) error {
	schemas := make([]schema.Table, 0, len(s.Tables()))
	for _, t := range s.Tables() {
		schemas = append(schemas, t.Schema)
	}
	return writeJSON(w, schemas, "schemas")
}

func writeJSON(w io.Writer, v any, what string) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("export %s: marshal: %w", what, err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("export %s: write: %w", what, err)
	}
	return nil
}
