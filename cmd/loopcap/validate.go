package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/loopcap/internal/eval"
	"github.com/danielpatrickdp/loopcap/internal/store"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		corpusPath string
		labelsPath string
		dbPath     string
		noSave     bool
		jsonOut    bool
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the classifier over a labeled corpus and compare",
		Long: `validate classifies every labeled sequence and compares detected components
with the labels after canonicalization.

Sources are either fixture files (--corpus and --labels) or a database (--db).
Database runs are saved unless --no-save is given.

Exit status: 0 gate passed, 1 gate failed, 2 usage or I/O error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtureMode := corpusPath != "" || labelsPath != ""
			if fixtureMode == (dbPath != "") {
				return usageError("use either --corpus and --labels, or --db")
			}
			if fixtureMode && (corpusPath == "" || labelsPath == "") {
				return usageError("--corpus and --labels must be given together")
			}
			if workers <= 0 {
				workers = a.cfg.Workers
			}

			var (
				corpus validation.Corpus
				labels validation.LabelStore
				st     *store.Store
			)
			if fixtureMode {
				cf, err := validation.LoadCorpusFile(corpusPath)
				if err != nil {
					return ioError(err)
				}
				lf, err := validation.LoadLabelsFile(labelsPath)
				if err != nil {
					return ioError(err)
				}
				corpus, labels = cf.ToCorpus(), lf.ToLabels()
			} else {
				var err error
				st, err = store.NewStore(dbPath)
				if err != nil {
					return ioError(fmt.Errorf("open db: %w", err))
				}
				defer st.Close()
				corpus, labels = st, st
			}

			report, err := validation.Run(cmd.Context(), corpus, labels, validation.Options{
				Workers: workers,
				Logger:  a.log,
			})
			if err != nil {
				return ioError(err)
			}
			verdict := eval.NewEvalHarness(a.cfg.Gate).Run(report)

			if st != nil && !noSave {
				if err := st.SaveRun(report, &verdict); err != nil {
					return ioError(fmt.Errorf("save run: %w", err))
				}
				a.log.Info("run saved", "run_id", report.RunID)
			}

			if jsonOut {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{"report": report, "gate": verdict}); err != nil {
					return ioError(err)
				}
			} else {
				printReport(a, report, verdict)
			}

			if !verdict.Passed {
				return divergence
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&corpusPath, "corpus", "", "corpus fixture (JSON or YAML)")
	f.StringVar(&labelsPath, "labels", "", "labels fixture (JSON or YAML)")
	f.StringVar(&dbPath, "db", "", "read corpus and labels from this database")
	f.BoolVar(&noSave, "no-save", false, "do not persist a database run")
	f.BoolVar(&jsonOut, "json", false, "print the report as JSON")
	f.IntVar(&workers, "workers", 0, "concurrent sequences (default from config)")
	return cmd
}

// printReport outputs a comparison table followed by the summary and gate verdict.
func printReport(a *app, report validation.Report, verdict eval.EvalResult) {
	fmt.Fprintf(a.out, "%-16s| %-28s| %-28s| %s\n", "Sequence", "Expected", "Detected", "Match")
	fmt.Fprintf(a.out, "%-16s+%-29s+%-29s+%s\n",
		strings.Repeat("-", 16), strings.Repeat("-", 29), strings.Repeat("-", 29), "------")

	for _, d := range report.Details {
		fmt.Fprintf(a.out, "%-16s| %-28s| %-28s| %s\n",
			d.Name, componentList(d.Expected), componentList(d.Detected), matchLabel(d))
	}

	fmt.Fprintf(a.out, "\nSummary: %d total, %d match, %d mismatch, %d not found, %d errors (accuracy %.1f%%)\n",
		report.Total, report.Matches, report.Mismatches, report.NotFound, report.Errors, report.Accuracy()*100)
	fmt.Fprintf(a.out, "Gate: %s\n", verdict.Reason)
}

func componentList(c []string) string {
	if len(c) == 0 {
		return "-"
	}
	return strings.Join(c, ",")
}

func matchLabel(d validation.Detail) string {
	switch d.Status {
	case validation.StatusMatch:
		return "OK"
	case validation.StatusMismatch:
		return "DIFF"
	case validation.StatusNotFound:
		return "MISSING"
	default:
		return "ERROR " + d.Err
	}
}
