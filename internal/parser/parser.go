// Package parser sniffs input formats and dispatches to the per-format
// readers. One input file can yield several raw tables (workbook sheets,
// multiple tables on an HTML page); CSV always yields exactly one.
package parser

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"intake/internal/config"
	csvparser "intake/internal/parser/csv"
	"intake/internal/parser/htmltable"
	"intake/internal/parser/xlsx"
	"intake/pkg/records"
)

// Format identifies an input file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
)

// zip local file header magic; xlsx workbooks are zip archives.
var zipMagic = []byte("PK\x03\x04")

// DetectFormat resolves the format of an input from its file extension,
// falling back to content sniffing when the extension is unknown. An
// ambiguous file defaults to CSV, the dominant intake format.
func DetectFormat(path string, head []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".html", ".htm":
		return FormatHTML
	}
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX
	}
	if t := bytes.TrimLeft(head, " \t\r\n\uFEFF"); len(t) > 0 && t[0] == '<' {
		return FormatHTML
	}
	return FormatCSV
}

// LoadFile reads one input file into raw tables.
//
// The table name defaults to the file's base name without extension; set the
// "table" option to override it. A .tsv extension implies a tab delimiter
// unless the "comma" option says otherwise. Recoverable per-record parse
// errors go to onErr (may be nil); anything else fails the file.
func LoadFile(ctx context.Context, path string, opt config.Options, onErr func(line int, err error)) ([]*records.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	head, _ := br.Peek(512)

	name := opt.String("table", "")
	if name == "" {
		name = config.TableNameFromPath(path)
	}

	switch DetectFormat(path, head) {
	case FormatXLSX:
		return xlsx.Read(br, name, path, opt)

	case FormatHTML:
		return htmltable.Read(br, name, path)

	default:
		if strings.EqualFold(filepath.Ext(path), ".tsv") {
			if _, ok := opt["comma"]; !ok {
				opt = withOption(opt, "comma", "\t")
			}
		}
		raw, err := csvparser.Read(ctx, br, name, path, opt, onErr)
		if err != nil {
			return nil, err
		}
		return []*records.Raw{raw}, nil
	}
}

// withOption returns a copy of opt with one key set, leaving the caller's
// map untouched.
func withOption(opt config.Options, key string, val any) config.Options {
	out := make(config.Options, len(opt)+1)
	for k, v := range opt {
		out[k] = v
	}
	out[key] = val
	return out
}
