// Package htmltable reads <table> elements from an HTML document into raw
// tables. Pages saved from reporting tools and intranet exports are a common
// intake source alongside CSV and workbooks.
package htmltable

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"intake/pkg/records"
)

// Read extracts one raw table per <table> element, in DOM order.
//
// Header resolution, first of:
//  1. the cells of the first row inside <thead>
//  2. the first row that contains any <th> cell
//  3. the first row of the table
//
// Subsequent rows become data rows, aligned to the header width. Table names
// come from <caption> text, then the id attribute, then name for the first
// table and name_N for the rest.
//
// Tables that yield no header are skipped rather than failing the page.
func Read(src io.Reader, name, file string) ([]*records.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(src)
	if err != nil {
		return nil, fmt.Errorf("html %s: parse: %w", file, err)
	}

	var out []*records.Raw
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		raw := extractTable(table)
		if raw == nil {
			return
		}
		raw.File = file
		raw.Name = tableName(table, name, i)
		out = append(out, raw)
	})
	return out, nil
}

func extractTable(table *goquery.Selection) *records.Raw {
	rows := table.Find("tr")
	if rows.Length() == 0 {
		return nil
	}

	headerIx := 0
	if th := rows.FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return tr.Find("th").Length() > 0
	}); th.Length() > 0 {
		first := th.First()
		rows.EachWithBreak(func(i int, tr *goquery.Selection) bool {
			if tr.Nodes[0] == first.Nodes[0] {
				headerIx = i
				return false
			}
			return true
		})
	}

	raw := &records.Raw{}
	rows.Each(func(i int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		switch {
		case i < headerIx:
			// rows above the header are banner rows; skip them
		case i == headerIx:
			raw.Headers = cells
		default:
			if allEmpty(cells) {
				return
			}
			aligned := make([]string, len(raw.Headers))
			copy(aligned, cells)
			raw.Rows = append(raw.Rows, aligned)
		}
	})

	if len(raw.Headers) == 0 {
		return nil
	}
	return raw
}

func cellTexts(tr *goquery.Selection) []string {
	var out []string
	tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func tableName(table *goquery.Selection, fallback string, i int) string {
	if cap := strings.TrimSpace(table.Find("caption").First().Text()); cap != "" {
		return strings.ReplaceAll(strings.ToLower(cap), " ", "_")
	}
	if id, ok := table.Attr("id"); ok && strings.TrimSpace(id) != "" {
		return strings.ToLower(strings.TrimSpace(id))
	}
	if i == 0 {
		return fallback
	}
	return fmt.Sprintf("%s_%d", fallback, i+1)
}
