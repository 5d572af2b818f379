// Package dataset holds the in-memory workspace: every loaded table, its
// inferred schema, its current (normalized) rows, validation findings, and
// business rules.
//
// The Store replaces what the original UI kept as ambient global state with
// one explicit struct passed to each handler. All mutation goes through
// methods; every mutation that can change validation results triggers
// re-validation of the affected tables.
//
// Concurrency: the Store is intentionally NOT safe for concurrent use. The
// workspace is driven by discrete user actions (upload, edit, fix, rule
// creation) that run to completion one at a time; callers must serialize.
// Nothing is persisted: workspace lifetime is process lifetime.
package dataset

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"intake/internal/classify"
	"intake/internal/metrics"
	"intake/internal/normalize"
	"intake/internal/schema"
	"intake/internal/validate"
	"intake/pkg/records"
)

// ErrNoData is the single hard failure of ingestion: the file produced no
// usable table. It aborts only that file; previously loaded tables are
// unaffected.
var ErrNoData = errors.New("no data found in file")

// Logger is the minimal logging interface used by the store.
// *log.Logger satisfies this interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Table is one loaded table: inferred schema plus normalized positional rows
// aligned to the schema's column order.
type Table struct {
	Name   string
	File   string
	Schema schema.Table
	Rows   [][]string
}

// Headers returns the column names in schema order.
func (t *Table) Headers() []string { return t.Schema.ColumnNames() }

// Store is the workspace state.
//
// Metrics and Logger are optional seams; leave nil to discard. Set them
// before the first mutation.
type Store struct {
	Metrics metrics.Backend
	Logger  Logger

	tables   map[string]*Table
	order    []string
	findings map[string][]schema.Finding
	rules    []schema.Rule
}

// NewStore returns an empty workspace.
func NewStore() *Store {
	return &Store{
		tables:   make(map[string]*Table),
		findings: make(map[string][]schema.Finding),
	}
}

func (s *Store) metrics() metrics.Backend {
	if s.Metrics == nil {
		return metrics.Nop()
	}
	return s.Metrics
}

func (s *Store) logf(format string, v ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Printf(format, v...)
}

var _ Logger = (*log.Logger)(nil)

// Upsert ingests a parsed raw table: infers its schema, normalizes every
// cell, and installs (or replaces) the table under raw.Name. The new table's
// findings are computed, and so are the findings of every table whose
// relationships target it, since their cross-reference results may have
// changed.
//
// Errors:
//   - ErrNoData (wrapped with the file name) when the table has no header.
func (s *Store) Upsert(raw *records.Raw) (*Table, error) {
	if raw.Empty() {
		return nil, fmt.Errorf("%s: %w", raw.File, ErrNoData)
	}
	start := time.Now()

	sch := classify.Synthesize(raw)

	// Copy and align rows to the header width, then normalize in place.
	rows := make([][]string, len(raw.Rows))
	for i, src := range raw.Rows {
		row := make([]string, len(raw.Headers))
		copy(row, src)
		normalize.Row(row, sch.Columns)
		rows[i] = row
	}

	t := &Table{
		Name:   raw.Name,
		File:   raw.File,
		Schema: sch,
		Rows:   rows,
	}

	if _, exists := s.tables[raw.Name]; !exists {
		s.order = append(s.order, raw.Name)
	}
	s.tables[raw.Name] = t

	s.revalidate(s.affectedBy(raw.Name))

	s.metrics().IncCounter(metrics.MetricTablesLoaded, 1, nil)
	s.metrics().IncCounter(metrics.MetricRowsIngested, float64(len(rows)), metrics.Labels{"table": raw.Name})
	s.metrics().ObserveHistogram(metrics.MetricIngestSeconds, time.Since(start).Seconds(), nil)
	s.logf("ingested table=%s rows=%d columns=%d entity=%s", t.Name, len(rows), len(sch.Columns), sch.Entity)

	return t, nil
}

// Remove discards a table and its findings, then re-validates every table
// that referenced it (their cross-reference checks now skip the missing
// target rather than reporting stale results).
func (s *Store) Remove(name string) {
	if _, ok := s.tables[name]; !ok {
		return
	}
	delete(s.tables, name)
	delete(s.findings, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.revalidate(s.referrersOf(name))
}

// UpdateCell edits one cell. The value is stored trimmed, as typed; it is
// not normalized, so a mismatched edit surfaces as a finding rather than
// being coerced. The table and every table referencing it are re-validated.
func (s *Store) UpdateCell(table string, row int, column string, value string) error {
	t, ok := s.tables[table]
	if !ok {
		return fmt.Errorf("update cell: unknown table %q", table)
	}
	ci := -1
	for i, c := range t.Schema.Columns {
		if c.Name == column {
			ci = i
			break
		}
	}
	if ci < 0 {
		return fmt.Errorf("update cell: table %q has no column %q", table, column)
	}
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("update cell: row %d out of range for table %q (%d rows)", row, table, len(t.Rows))
	}

	t.Rows[row][ci] = strings.TrimSpace(value)
	s.revalidate(s.affectedBy(table))
	return nil
}

// ApplyFix resolves one auto-fixable finding by writing its deterministic
// schema-derived replacement value through the normal cell-update path,
// which re-validates the affected tables.
//
// Errors:
//   - unknown finding id
//   - finding is not auto-fixable
func (s *Store) ApplyFix(findingID string) error {
	f, ok := s.finding(findingID)
	if !ok {
		return fmt.Errorf("apply fix: unknown finding %q", findingID)
	}
	if !f.AutoFixable {
		return fmt.Errorf("apply fix: finding %q (%s) is not auto-fixable", findingID, f.Type)
	}
	t, ok := s.tables[f.Table]
	if !ok {
		return fmt.Errorf("apply fix: unknown table %q", f.Table)
	}
	col, ok := t.Schema.Column(f.Column)
	if !ok {
		return fmt.Errorf("apply fix: table %q has no column %q", f.Table, f.Column)
	}

	// Fix values pass through the normalizer like ingested cells do.
	fix := normalize.Value(normalize.FixValue(f.Type, col), col)
	if err := s.UpdateCell(f.Table, f.Row, f.Column, fix); err != nil {
		return err
	}
	s.metrics().IncCounter(metrics.MetricFixesApplied, 1, metrics.Labels{"type": f.Type})
	s.logf("fix applied table=%s row=%d column=%s value=%q", f.Table, f.Row, f.Column, fix)
	return nil
}

// affectedBy returns the tables whose findings must be recomputed after a
// change to name: the table itself plus every table with a relationship
// targeting it. The original design refreshed only the mutated table, which
// left stale cross-reference findings when a referenced table changed; we
// recompute referrers as well.
func (s *Store) affectedBy(name string) []string {
	out := []string{name}
	out = append(out, s.referrersOf(name)...)
	return out
}

// referrersOf returns the tables (in load order) that declare a relationship
// targeting name, excluding name itself.
func (s *Store) referrersOf(name string) []string {
	var out []string
	for _, n := range s.order {
		if n == name {
			continue
		}
		for _, rel := range s.tables[n].Schema.Relationships {
			if rel.Table == name {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// revalidate recomputes findings for the named tables. Findings of all other
// tables are preserved as-is.
func (s *Store) revalidate(names []string) {
	start := time.Now()
	for _, n := range names {
		t, ok := s.tables[n]
		if !ok {
			continue
		}
		fs := validate.Table(t.Schema, t.Rows, s)
		s.findings[n] = fs

		for _, f := range fs {
			s.metrics().IncCounter(metrics.MetricFindings, 1, metrics.Labels{
				"severity": string(f.Severity),
				"type":     f.Type,
			})
		}
	}
	s.metrics().ObserveHistogram(metrics.MetricCheckSeconds, time.Since(start).Seconds(), nil)
}

// ColumnValues implements validate.Source over the live workspace.
func (s *Store) ColumnValues(table, column string) ([]string, bool) {
	t, ok := s.tables[table]
	if !ok {
		return nil, false
	}
	ci := -1
	for i, c := range t.Schema.Columns {
		if c.Name == column {
			ci = i
			break
		}
	}
	if ci < 0 {
		return nil, false
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		if ci < len(row) {
			out = append(out, row[ci])
		} else {
			out = append(out, "")
		}
	}
	return out, true
}

// Table returns the named table, or false.
func (s *Store) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns all tables in load order.
func (s *Store) Tables() []*Table {
	out := make([]*Table, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.tables[n])
	}
	return out
}

// Findings returns all findings, flattened in table load order.
func (s *Store) Findings() []schema.Finding {
	var out []schema.Finding
	for _, n := range s.order {
		out = append(out, s.findings[n]...)
	}
	return out
}

// FindingsFor returns the findings of one table.
func (s *Store) FindingsFor(table string) []schema.Finding {
	return s.findings[table]
}

func (s *Store) finding(id string) (schema.Finding, bool) {
	for _, fs := range s.findings {
		for _, f := range fs {
			if f.ID == id {
				return f, true
			}
		}
	}
	return schema.Finding{}, false
}

// AddRule appends a business rule to the workspace. Rules are advisory and
// never auto-deleted.
func (s *Store) AddRule(r schema.Rule) {
	s.rules = append(s.rules, r)
}

// Rules returns all rules in creation order.
func (s *Store) Rules() []schema.Rule {
	return append([]schema.Rule(nil), s.rules...)
}
