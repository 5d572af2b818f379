// Package validate implements the validation engine: row-level schema
// compliance, cross-table referential integrity, heuristic domain checks,
// and a registry-based extension point for business-logic checks.
//
// Findings are non-fatal and accumulate for review; validation never aborts
// ingestion or blocks edits. The findings for a table are a pure function of
// that table's rows, its schema, and the values of tables it references.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"intake/internal/classify"
	"intake/internal/schema"
)

// burnoutThreshold is the fixed per-phase load above which a worker row is
// flagged as a burnout risk.
const burnoutThreshold = 8

// Source provides cross-table value lookups for referential-integrity
// checks. The dataset store implements it; tests can supply a fixture map.
type Source interface {
	// ColumnValues returns all values of the named column of the named
	// table, or false when the table or column does not exist.
	ColumnValues(table, column string) ([]string, bool)
}

// Table runs all validation passes over one table and returns the combined
// findings. Rows are positional and aligned to t.Columns; cells are expected
// to already be normalized.
func Table(t schema.Table, rows [][]string, src Source) []schema.Finding {
	var out []schema.Finding
	out = append(out, compliance(t, rows)...)
	out = append(out, crossReference(t, rows, src)...)
	out = append(out, burnout(t, rows)...)
	out = append(out, ruleFindings(t, rows, src)...)
	return out
}

// compliance emits missing_required and type_mismatch findings.
//
// Type re-validation is implemented for number and email columns: numbers
// have a safe repair value (0) and are auto-fixable, emails do not and are
// not. Other types either cannot fail after normalization or have no
// meaningful re-check.
func compliance(t schema.Table, rows [][]string) []schema.Finding {
	var out []schema.Finding
	for ri, row := range rows {
		for ci, col := range t.Columns {
			var v string
			if ci < len(row) {
				v = strings.TrimSpace(row[ci])
			}

			if v == "" {
				if !col.Required {
					continue
				}
				fixable := col.Type == schema.TypeNumber || col.Type == schema.TypeBoolean
				f := schema.Finding{
					ID:          uuid.NewString(),
					Table:       t.Name,
					Row:         ri,
					Column:      col.Name,
					Message:     fmt.Sprintf("%s is required but empty", col.Name),
					Severity:    schema.SeverityError,
					Type:        schema.FindingMissingRequired,
					AutoFixable: fixable,
				}
				if fixable {
					f.Suggestion = "fill with the column default"
				}
				out = append(out, f)
				continue
			}

			switch col.Type {
			case schema.TypeNumber:
				if !classify.LooksLikeNumber(v) {
					out = append(out, schema.Finding{
						ID:          uuid.NewString(),
						Table:       t.Name,
						Row:         ri,
						Column:      col.Name,
						Message:     fmt.Sprintf("%q is not a valid number", v),
						Severity:    schema.SeverityError,
						Type:        schema.FindingTypeMismatch,
						Suggestion:  "replace with 0",
						AutoFixable: true,
					})
				}
			case schema.TypeEmail:
				if !classify.LooksLikeEmail(v) {
					out = append(out, schema.Finding{
						ID:       uuid.NewString(),
						Table:    t.Name,
						Row:      ri,
						Column:   col.Name,
						Message:  fmt.Sprintf("%q is not a valid email address", v),
						Severity: schema.SeverityError,
						Type:     schema.FindingTypeMismatch,
						// No safe default exists for an email address.
						AutoFixable: false,
					})
				}
			}
		}
	}
	return out
}

// crossReference checks every declared relationship: each non-empty value in
// the link column must appear somewhere in the target table's column of the
// same name. Relationships whose target table or column is not loaded are
// skipped; they cannot be confirmed or denied.
func crossReference(t schema.Table, rows [][]string, src Source) []schema.Finding {
	if src == nil {
		return nil
	}
	var out []schema.Finding
	for _, rel := range t.Relationships {
		ci := columnIndex(t, rel.Column)
		if ci < 0 {
			continue
		}
		targetVals, ok := src.ColumnValues(rel.Table, rel.Column)
		if !ok {
			continue
		}
		known := make(map[string]struct{}, len(targetVals))
		for _, v := range targetVals {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			known[v] = struct{}{}
		}

		for ri, row := range rows {
			if ci >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[ci])
			if v == "" {
				continue
			}
			if _, found := known[v]; found {
				continue
			}
			out = append(out, schema.Finding{
				ID:     uuid.NewString(),
				Table:  t.Name,
				Row:    ri,
				Column: rel.Column,
				Message: fmt.Sprintf("value %q in %s.%s has no match in %s.%s",
					v, t.Name, rel.Column, rel.Table, rel.Column),
				Severity:    schema.SeverityError,
				Type:        schema.FindingUnknownReference,
				AutoFixable: false,
			})
		}
	}
	return out
}

// burnout flags worker rows whose load/capacity value exceeds the fixed
// threshold. Only tables classified as workers are checked.
func burnout(t schema.Table, rows [][]string) []schema.Finding {
	if t.Entity != schema.EntityWorkers {
		return nil
	}
	var out []schema.Finding
	for ci, col := range t.Columns {
		n := strings.ToLower(col.Name)
		if !strings.Contains(n, "load") && !strings.Contains(n, "capacity") {
			continue
		}
		for ri, row := range rows {
			if ci >= len(row) {
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(row[ci]), 64)
			if err != nil {
				continue
			}
			if f > burnoutThreshold {
				out = append(out, schema.Finding{
					ID:     uuid.NewString(),
					Table:  t.Name,
					Row:    ri,
					Column: col.Name,
					Message: fmt.Sprintf("%s of %s exceeds the burnout threshold of %d",
						col.Name, strconv.FormatFloat(f, 'f', -1, 64), burnoutThreshold),
					Severity:    schema.SeverityWarning,
					Type:        schema.FindingBurnoutRisk,
					Suggestion:  "reduce the assigned load or raise capacity",
					AutoFixable: false,
				})
			}
		}
	}
	return out
}

func columnIndex(t schema.Table, name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}
