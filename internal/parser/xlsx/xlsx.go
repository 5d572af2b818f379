// Package xlsx reads Excel workbooks into raw tables, one per sheet.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"intake/internal/config"
	"intake/pkg/records"
)

// Read parses a workbook into raw tables, one per non-empty sheet.
//
// Options:
//
//	sheet       string  read only the named sheet (default: all sheets)
//	trim_space  bool    trim cell whitespace (default true)
//
// The first non-empty row of each sheet is its header; rows above it are
// skipped (title banners are common in hand-made spreadsheets). Data rows
// are aligned to the header width. Sheets with no header row are dropped.
// Table names come from the sheet name, lowercased with spaces collapsed to
// underscores; a workbook with one sheet uses the fallback name instead.
//
// Errors: a workbook that cannot be opened, or a named sheet that does not
// exist, fails the whole file.
func Read(src io.Reader, name, file string, opt config.Options) ([]*records.Raw, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("xlsx %s: open: %w", file, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if want := opt.String("sheet", ""); want != "" {
		found := false
		for _, s := range sheets {
			if s == want {
				sheets, found = []string{s}, true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("xlsx %s: no sheet %q", file, want)
		}
	}

	trim := opt.Bool("trim_space", true)

	var out []*records.Raw
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx %s: sheet %q: %w", file, sheet, err)
		}

		raw := fromRows(rows, trim)
		if raw == nil {
			continue
		}
		raw.File = file
		raw.Name = tableName(sheet)
		out = append(out, raw)
	}

	// A single-sheet workbook is "the" table of the file; name it after the
	// file like a CSV rather than after a default sheet title like Sheet1.
	if len(out) == 1 {
		out[0].Name = name
	}
	return out, nil
}

func fromRows(rows [][]string, trim bool) *records.Raw {
	clean := func(row []string) []string {
		if !trim {
			return row
		}
		for i, v := range row {
			row[i] = strings.TrimSpace(v)
		}
		return row
	}
	nonEmpty := func(row []string) bool {
		for _, v := range row {
			if v != "" {
				return true
			}
		}
		return false
	}

	start := -1
	for i, row := range rows {
		if nonEmpty(clean(row)) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	raw := &records.Raw{Headers: rows[start]}
	for _, row := range rows[start+1:] {
		if !nonEmpty(clean(row)) {
			continue
		}
		aligned := make([]string, len(raw.Headers))
		copy(aligned, row)
		raw.Rows = append(raw.Rows, aligned)
	}
	return raw
}

func tableName(sheet string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(sheet)), " ", "_")
}
