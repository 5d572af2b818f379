// Command probe infers table schemas from raw data files.
//
// It reads each input (CSV, TSV, XLSX, or HTML tables), infers per-column
// types and constraints, classifies each table as clients, workers, or
// tasks, and detects cross-table relationships from column naming. No
// validation runs; probe is the fast "what did you make of my files" tool.
//
// Output modes
//
//   - Default mode: prints the inferred schemas as JSON to stdout.
//   - Report mode (-report): prints a human-readable summary per table and
//     suppresses JSON output, which keeps the command pleasant for
//     interactive use and scripting.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"intake/internal/config"
	"intake/internal/dataset"
	"intake/internal/schema"
)

func main() {
	var (
		// flagComma overrides the CSV delimiter. TSV files default to tab
		// without needing this flag.
		flagComma = flag.String("comma", "", "CSV delimiter (default ',', tab for .tsv)")

		// flagCharset selects the source text encoding for CSV inputs.
		// UTF-8 input needs no flag.
		flagCharset = flag.String("charset", "", "CSV charset: windows-1250, windows-1252, iso-8859-1, iso-8859-2")

		// flagSheet restricts XLSX inputs to one named sheet.
		flagSheet = flag.String("sheet", "", "Read only the named XLSX sheet (default: all sheets)")

		// flagPretty controls JSON indentation. Ignored in report mode.
		flagPretty = flag.Bool("pretty", true, "Pretty-print JSON output")

		// flagReport switches to the human-readable per-table summary.
		flagReport = flag.Bool("report", false, "Print a text report instead of JSON schemas")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "missing input files")
		flag.Usage()
		os.Exit(2)
	}

	// Probing local files should be quick; a stuck filesystem is better
	// reported than waited on.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	opt := config.Options{}
	if *flagComma != "" {
		opt["comma"] = *flagComma
	}
	if *flagCharset != "" {
		opt["charset"] = *flagCharset
	}
	if *flagSheet != "" {
		opt["sheet"] = *flagSheet
	}

	store := dataset.NewStore()
	store.Logger = log.New(os.Stderr, "", log.LstdFlags)

	for _, path := range flag.Args() {
		if err := store.Load(ctx, config.Input{Path: path, Options: opt}); err != nil {
			log.Fatalf("probe %s: %v", path, err)
		}
	}

	if *flagReport {
		printReport(os.Stdout, store)
		return
	}

	schemas := make([]schema.Table, 0, len(store.Tables()))
	for _, t := range store.Tables() {
		schemas = append(schemas, t.Schema)
	}

	enc := json.NewEncoder(os.Stdout)
	if *flagPretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(schemas); err != nil {
		log.Fatalf("encode schemas: %v", err)
	}
}

func printReport(w *os.File, store *dataset.Store) {
	for _, t := range store.Tables() {
		sch := t.Schema
		fmt.Fprintf(w, "table %s (%s, %.0f%% confidence): %d rows, %d columns\n",
			sch.Name, sch.Entity, sch.EntityConfidence*100, len(t.Rows), len(sch.Columns))
		if sch.PrimaryKey != "" {
			fmt.Fprintf(w, "  primary key: %s\n", sch.PrimaryKey)
		}
		for _, c := range sch.Columns {
			var marks []string
			if c.Required {
				marks = append(marks, "required")
			}
			if c.Unique {
				marks = append(marks, "unique")
			}
			suffix := ""
			if len(marks) > 0 {
				suffix = " [" + strings.Join(marks, ", ") + "]"
			}
			fmt.Fprintf(w, "  %-24s %-8s %3.0f%%%s\n", c.Name, c.Type, c.Confidence*100, suffix)
		}
		for _, rel := range sch.Relationships {
			fmt.Fprintf(w, "  relationship: %s -> %s (%s)\n", rel.Column, rel.Table, rel.Type)
		}
		fmt.Fprintln(w)
	}
}
