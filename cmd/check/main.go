// Command check loads data files into a workspace, validates them, and
// reports findings.
//
// Inputs come either from a JSON job config (-job) or from bare file paths
// on the command line. Validation covers schema compliance, cross-table
// reference integrity, and worker overload; business rules supplied as
// plain-language phrases (-rules) are parsed and attached to the run.
//
// Exit status: 0 on success, 1 when -strict is set and any error-severity
// finding remains, 2 on usage errors.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"intake/internal/config"
	"intake/internal/dataset"
	"intake/internal/metrics"
	"intake/internal/metrics/datadog"
	"intake/internal/rules"
	"intake/internal/schema"
	"intake/internal/validate"
)

func main() {
	var (
		// flagJob is a JSON job config describing inputs, rules, and
		// metrics. Positional file paths may be used instead.
		flagJob = flag.String("job", "", "Path to a JSON job config (alternative to bare file paths)")

		// flagRules is a text file of business-rule phrases, one per line.
		// Blank lines and lines starting with '#' are skipped.
		flagRules = flag.String("rules", "", "Path to a file of rule phrases, one per line")

		// flagFix applies every auto-fixable finding before reporting, so
		// the report shows only what remains.
		flagFix = flag.Bool("fix", false, "Apply all auto-fixable findings before reporting")

		// flagStrict turns remaining error findings into exit status 1.
		flagStrict = flag.Bool("strict", false, "Exit 1 when error-severity findings remain")

		// flagFormat selects the report encoding.
		flagFormat = flag.String("format", "text", "Report format: text|json")

		// flagMetrics overrides the job config's metrics backend.
		flagMetrics = flag.String("metrics", "", "Metrics backend: datadog|none (overrides job config)")

		// flagMetricsTags adds extra Datadog tags, comma-separated k:v pairs.
		flagMetricsTags = flag.String("metrics-tags", "", "Extra metrics tags, comma-separated (e.g. team:intake,env:ci)")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	job, err := resolveJob(*flagJob, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	if issues := config.ValidateJob(job); len(issues) > 0 {
		fatal := false
		for _, is := range issues {
			logger.Printf("job config %s: %s: %s", is.Severity, is.Path, is.Message)
			fatal = fatal || is.Severity == config.SeverityError
		}
		if fatal {
			os.Exit(2)
		}
	}

	ctx := context.Background()

	store := dataset.NewStore()
	store.Logger = logger

	backend, err := newMetricsBackend(ctx, job.Metrics, *flagMetrics, *flagMetricsTags)
	if err != nil {
		log.Fatalf("metrics: %v", err)
	}
	defer backend.Close()
	store.Metrics = backend

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

	findings := store.Findings()
	summary := validate.Summarize(findings)

	switch *flagFormat {
	case "json":
		out := struct {
			Findings []schema.Finding `json:"findings"`
			Summary  validate.Summary `json:"summary"`
		}{Findings: findings, Summary: summary}
		if out.Findings == nil {
			out.Findings = []schema.Finding{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatalf("encode report: %v", err)
		}
	case "text":
		printText(os.Stdout, findings, summary)
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *flagFormat)
		os.Exit(2)
	}

	if *flagStrict && summary.Errors() > 0 {
		os.Exit(1)
	}
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

func newMetricsBackend(ctx context.Context, cfg config.MetricsConfig, override, extraTags string) (metrics.Backend, error) {
	backend := cfg.Backend
	if override != "" {
		backend = override
	}
	switch backend {
	case "", "none":
		return metrics.Nop(), nil
	case "datadog":
		tags := append([]string(nil), cfg.Tags...)
		tags = append(tags, datadog.ParseTagsCSV(extraTags)...)
		return datadog.NewBackend(ctx, datadog.Options{
			JobName: cfg.Job,
			Tags:    tags,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", backend)
	}
}

// applyFixes drains auto-fixable findings. Each fix triggers re-validation,
// so the finding list is re-read until no fixable finding remains; the guard
// caps iterations in case a fix ever re-introduces a fixable finding.
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

func printText(w io.Writer, findings []schema.Finding, summary validate.Summary) {
	for _, f := range findings {
		fixable := ""
		if f.AutoFixable {
			fixable = " (auto-fixable)"
		}
		fmt.Fprintf(w, "%-7s %s row %d column %s: %s%s\n",
			f.Severity, f.Table, f.Row+1, f.Column, f.Message, fixable)
	}
	if summary.Total == 0 {
		fmt.Fprintln(w, "no findings")
		return
	}
	fmt.Fprintf(w, "\n%d findings (%d errors, %d warnings)\n",
		summary.Total, summary.BySeverity[schema.SeverityError], summary.BySeverity[schema.SeverityWarning])
}
