package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/loopcap/internal/store"
)

func newRunsCmd(a *app) *cobra.Command {
	var (
		dbFlag  string
		last    int
		runID   string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted validation runs, or show one run in detail",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(a.dbPath(dbFlag))
			if err != nil {
				return ioError(fmt.Errorf("open db: %w", err))
			}
			defer st.Close()

			if runID != "" {
				return a.runDetail(st, runID, jsonOut)
			}
			return a.runList(st, last, jsonOut)
		},
	}
	cmd.Flags().StringVar(&dbFlag, "db", "", "database path (default from config)")
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent runs")
	cmd.Flags().StringVar(&runID, "run", "", "show one run with its per-sequence results")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #region list-mode

func (a *app) runList(st *store.Store, last int, jsonOut bool) error {
	runs, err := st.ListRuns(last)
	if err != nil {
		return ioError(err)
	}
	if jsonOut {
		return a.printJSON(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.err, "no runs found")
		return nil
	}

	fmt.Fprintf(a.out, "%-36s  %-20s  %5s  %5s  %5s  %5s  %5s  %8s  %s\n",
		"Run", "Started", "Total", "Match", "Diff", "Miss", "Err", "Accuracy", "Gate")
	for _, r := range runs {
		fmt.Fprintf(a.out, "%-36s  %-20s  %5d  %5d  %5d  %5d  %5d  %7.1f%%  %s\n",
			r.RunID, r.StartedAt.Format("2006-01-02T15:04:05Z"),
			r.Total, r.Matches, r.Mismatches, r.NotFound, r.Errors, r.Accuracy*100, gateLabel(r))
	}
	return nil
}

func gateLabel(r store.RunRecord) string {
	switch {
	case !r.Gated:
		return "-"
	case r.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}

// #endregion list-mode

// #region detail-mode

func (a *app) runDetail(st *store.Store, runID string, jsonOut bool) error {
	run, err := st.GetRun(runID)
	if errors.Is(err, store.ErrNotFound) {
		return usageError("run %s not found", runID)
	}
	if err != nil {
		return ioError(err)
	}
	details, err := st.RunResults(runID)
	if err != nil {
		return ioError(err)
	}

	if jsonOut {
		return a.printJSON(map[string]any{"run": run, "details": details})
	}

	fmt.Fprintf(a.out, "Run:      %s\n", run.RunID)
	fmt.Fprintf(a.out, "Started:  %s\n", run.StartedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(a.out, "Accuracy: %.1f%% (%d/%d classified)\n", run.Accuracy*100, run.Matches, run.Matches+run.Mismatches)
	if run.Gated {
		fmt.Fprintf(a.out, "Gate:     %s %s\n", gateLabel(run), run.GateReason)
	}
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "%-16s| %-28s| %-28s| %s\n", "Sequence", "Expected", "Detected", "Match")
	for _, d := range details {
		fmt.Fprintf(a.out, "%-16s| %-28s| %-28s| %s\n",
			d.Name, componentList(d.Expected), componentList(d.Detected), matchLabel(d))
		if d.Result != nil && d.Result.Diagnostics.Reason != "" {
			fmt.Fprintf(a.out, "%-16s  reason: %s\n", "", d.Result.Diagnostics.Reason)
		}
	}
	return nil
}

// #endregion detail-mode

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ioError(err)
	}
	return nil
}
