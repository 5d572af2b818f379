// Package records defines the raw tabular container produced by the parsers
// and consumed by classification and ingestion.
//
// A Raw table is positional: every data row is aligned to the header order.
// Parsers are responsible for skipping or padding misaligned rows so that
// downstream code can index cells by column position without re-checking.
package records

// Raw is one parsed table: a header row plus positional data rows.
//
// Cell values are raw strings exactly as parsed; normalization against an
// inferred schema happens later, at ingest.
type Raw struct {
	// Name is the logical table name, usually derived from the file name.
	Name string
	// File is the originating file name, when known.
	File string

	Headers []string
	Rows    [][]string
}

// Empty reports whether the table carries no usable data. A header row with
// zero data rows still counts as data (an empty but well-formed table).
func (r *Raw) Empty() bool {
	return r == nil || len(r.Headers) == 0
}

// ColumnIndex returns the position of the named header, or -1.
func (r *Raw) ColumnIndex(name string) int {
	for i, h := range r.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns all values of the i-th column in row order. Rows shorter
// than the header (which parsers should not produce) contribute "".
func (r *Raw) Column(i int) []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		if i >= 0 && i < len(row) {
			out = append(out, row[i])
		} else {
			out = append(out, "")
		}
	}
	return out
}

// ColumnByName returns all values of the named column, or false when the
// header does not exist.
func (r *Raw) ColumnByName(name string) ([]string, bool) {
	i := r.ColumnIndex(name)
	if i < 0 {
		return nil, false
	}
	return r.Column(i), true
}
