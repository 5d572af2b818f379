// Package export renders the cleaned workspace into its downstream formats:
// per-table CSV, a machine-readable config document, schema dumps, and a
// SQLite database (see the sqlite subpackage).
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"intake/internal/dataset"
)

// WriteCSV writes one table as CSV: header row first, then the normalized
// data rows. Quoting and escaping follow RFC 4180 so values containing the
// delimiter, quotes, or newlines survive a round trip.
func WriteCSV(w io.Writer, t *dataset.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers()); err != nil {
		return fmt.Errorf("export csv %s: write header: %w", t.Name, err)
	}
	for i, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("export csv %s: write row %d: %w", t.Name, i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv %s: flush: %w", t.Name, err)
	}
	return nil
}
