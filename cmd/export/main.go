// Command export loads data files, validates them, and writes the cleaned
// result for downstream tools.
//
// Formats
//
//   - csv      one <table>.csv per workspace table in -out
//   - config   a single JSON document with schemas, rules, and the
//     validation summary (config.json in -out, or stdout with -out "")
//   - schemas  the inferred schemas only (schemas.json, or stdout)
//   - sqlite   one database file (intake.db in -out) with typed columns and
//     foreign keys derived from detected relationships
//
// Remaining error-severity findings do not block the export unless -strict
// is set; they are reported on stderr so the operator decides whether the
// output is usable. Use -fix first when the errors are auto-fixable.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"intake/internal/config"
	"intake/internal/dataset"
	"intake/internal/export"
	"intake/internal/export/sqlite"
	"intake/internal/rules"
	"intake/internal/schema"
)

func main() {
	var (
		// flagJob is a JSON job config; bare file paths work too.
		flagJob = flag.String("job", "", "Path to a JSON job config (alternative to bare file paths)")

		// flagFormat selects the export format.
		flagFormat = flag.String("format", "csv", "Export format: csv|config|schemas|sqlite")

		// flagOut is the output directory. Empty writes JSON formats to
		// stdout; csv and sqlite require a directory.
		flagOut = flag.String("out", "", "Output directory (default: stdout for JSON formats)")

		// flagFix applies every auto-fixable finding before exporting.
		flagFix = flag.Bool("fix", false, "Apply all auto-fixable findings before exporting")

		// flagRules is a text file of business-rule phrases, one per line,
		// included in the config document.
		flagRules = flag.String("rules", "", "Path to a file of rule phrases, one per line")

		// flagStrict refuses to export while error findings remain.
		flagStrict = flag.Bool("strict", false, "Exit 1 instead of exporting when error findings remain")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	job, err := resolveJob(*flagJob, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	store := dataset.NewStore()
	store.Logger = logger

	for _, r := range job.Rules {
		store.AddRule(r)
	}
	if *flagRules != "" {
		phrases, err := readPhrases(*flagRules)
		if err != nil {
			log.Fatalf("rules: %v", err)
		}
		for _, r := range rules.FromPhrases(phrases) {
			store.AddRule(r)
		}
	}

	for _, in := range job.Inputs {
		if err := store.Load(ctx, in); err != nil {
			log.Fatalf("load %s: %v", in.Path, err)
		}
	}

	if *flagFix {
		applyFixes(store, logger)
	}

	if n := len(errorFindings(store)); n > 0 {
		if *flagStrict {
			logger.Printf("refusing to export with %d unresolved error findings", n)
			os.Exit(1)
		}
		logger.Printf("warning: exporting with %d unresolved error findings", n)
	}

	if err := run(ctx, store, *flagFormat, *flagOut); err != nil {
		log.Fatalf("export: %v", err)
	}
}

func run(ctx context.Context, store *dataset.Store, format, out string) error {
	switch format {
	case "csv":
		if out == "" {
			return fmt.Errorf("csv format requires -out")
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		for _, t := range store.Tables() {
			if err := writeFile(filepath.Join(out, t.Name+".csv"), func(f *os.File) error {
				return export.WriteCSV(f, t)
			}); err != nil {
				return err
			}
		}
		return nil

	case "config":
		if out == "" {
			return export.WriteConfig(os.Stdout, store, time.Now())
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		return writeFile(filepath.Join(out, "config.json"), func(f *os.File) error {
			return export.WriteConfig(f, store, time.Now())
		})

	case "schemas":
		if out == "" {
			return export.WriteSchemas(os.Stdout, store)
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		return writeFile(filepath.Join(out, "schemas.json"), func(f *os.File) error {
			return export.WriteSchemas(f, store)
		})

	case "sqlite":
		if out == "" {
			return fmt.Errorf("sqlite format requires -out")
		}
		if err := os.MkdirAll(out, 0o755); err != nil {
			return err
		}
		return sqlite.Write(ctx, filepath.Join(out, "intake.db"), store.Tables())

	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func errorFindings(store *dataset.Store) []string {
	var ids []string
	for _, f := range store.Findings() {
		if f.Severity == schema.SeverityError {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// resolveJob builds the job from -job or from bare paths. Exactly one of the
// two sources must be present.
func resolveJob(jobPath string, paths []string) (config.Job, error) {
	switch {
	case jobPath != "" && len(paths) > 0:
		return config.Job{}, fmt.Errorf("use either -job or bare file paths, not both")
	case jobPath != "":
		return config.LoadJob(jobPath)
	case len(paths) > 0:
		j := config.Job{}
		for _, p := range paths {
			j.Inputs = append(j.Inputs, config.Input{Path: p})
		}
		return j, nil
	default:
		return config.Job{}, fmt.Errorf("missing inputs: pass -job or file paths")
	}
}

func applyFixes(store *dataset.Store, logger *log.Logger) {
	for pass := 0; pass < 1000; pass++ {
		var next string
		for _, f := range store.Findings() {
			if f.AutoFixable {
				next = f.ID
				break
			}
		}
		if next == "" {
			return
		}
		if err := store.ApplyFix(next); err != nil {
			logger.Printf("fix: %v", err)
			return
		}
	}
}

func readPhrases(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var phrases []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		phrases = append(phrases, line)
	}
	return phrases, sc.Err()
}
