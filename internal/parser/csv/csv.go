// Package csv reads delimited text files into raw tables.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"intake/internal/config"
	"intake/pkg/records"
)

// charsets maps the supported source encodings to their decoders. UTF-8
// input needs no entry; it passes through untouched.
var charsets = map[string]encoding.Encoding{
	"windows-1250": charmap.Windows1250,
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-2":   charmap.ISO8859_2,
}

// Read parses one delimited file into a raw table.
//
// Options:
//
//	comma             rune    field delimiter (default ',')
//	trim_space        bool    trim cell whitespace (default true)
//	lazy_quotes       bool    tolerate bare quotes inside fields (default false)
//	has_header        bool    first record is the header (default true)
//	charset           string  source encoding (default UTF-8); see charsets
//	skip_misaligned   bool    drop records wider/narrower than the header
//	                          instead of failing (default true); dropped rows
//	                          are still padded or truncated when false
//
// The first header cell has any UTF-8 BOM stripped. Data rows are aligned to
// the header width. Rows whose cells are all empty are dropped.
//
// Errors: an unreadable header or an unsupported charset fails the whole
// file; individual malformed records are reported through onErr (may be nil)
// and skipped.
func Read(ctx context.Context, src io.Reader, name, file string, opt config.Options, onErr func(line int, err error)) (*records.Raw, error) {
	if cs := opt.String("charset", ""); cs != "" {
		enc, ok := charsets[strings.ToLower(cs)]
		if !ok {
			return nil, fmt.Errorf("csv %s: unsupported charset %q", file, cs)
		}
		src = transform.NewReader(src, enc.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = opt.Rune("comma", ',')
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	trim := opt.Bool("trim_space", true)
	skipMisaligned := opt.Bool("skip_misaligned", true)

	var line int
	readRec := func() ([]string, error) {
		line++
		return cr.Read()
	}

	raw := &records.Raw{Name: name, File: file}

	if opt.Bool("has_header", true) {
		hdr, err := readRec()
		if err != nil {
			return nil, fmt.Errorf("csv %s: read header: %w", file, err)
		}
		raw.Headers = make([]string, len(hdr))
		for i, h := range hdr {
			if i == 0 {
				h = strings.TrimPrefix(h, "\uFEFF")
			}
			raw.Headers[i] = strings.TrimSpace(h)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rec, err := readRec()
		if err == io.EOF {
			break
		}
		if err != nil {
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: %w", err))
			}
			continue
		}

		if raw.Headers == nil {
			// Headerless input: synthesize column_1..column_N from the
			// first record's width.
			raw.Headers = make([]string, len(rec))
			for i := range rec {
				raw.Headers[i] = fmt.Sprintf("column_%d", i+1)
			}
		}

		if len(rec) != len(raw.Headers) && skipMisaligned {
			if onErr != nil {
				onErr(line, fmt.Errorf("csv read: record has %d fields, want %d", len(rec), len(raw.Headers)))
			}
			continue
		}

		row := make([]string, len(raw.Headers))
		empty := true
		for i := range row {
			if i >= len(rec) {
				continue
			}
			v := rec[i]
			if trim {
				v = strings.TrimSpace(v)
			}
			row[i] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		raw.Rows = append(raw.Rows, row)
	}

	return raw, nil
}
