package validation

// #region imports
import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/loopcap/internal/loop"
)

// #endregion

// #region run

// Run classifies every labeled sequence and compares the detected components
// with the label. Sequences are processed concurrently; Details come back in
// sorted name order regardless of completion order.
//
// A failed lookup for one sequence is recorded as ERROR and the batch carries
// on. Run itself fails only when the label names cannot be listed or ctx is
// cancelled. A panic during classification is not recovered.
func Run(ctx context.Context, corpus Corpus, labels LabelStore, opts Options) (Report, error) {
	names, err := labels.LabelNames()
	if err != nil {
		return Report{}, fmt.Errorf("list labels: %w", err)
	}
	names = slices.Clone(names)
	slices.Sort(names)
	names = slices.Compact(names)

	log := opts.logger()
	report := Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}
	log.Info("validation started", "run_id", report.RunID, "labels", len(names), "workers", opts.workers())

	details := make([]Detail, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			details[i] = evaluate(name, corpus, labels, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("validation run %s: %w", report.RunID, err)
	}

	tally(&report, details)
	log.Info("validation finished",
		"run_id", report.RunID,
		"total", report.Total,
		"matches", report.Matches,
		"mismatches", report.Mismatches,
		"not_found", report.NotFound,
		"errors", report.Errors,
	)
	return report, nil
}

// #endregion run

// #region evaluate

func evaluate(name string, corpus Corpus, labels LabelStore, opts Options) Detail {
	log := opts.logger().With("sequence", name)
	d := evaluateOne(name, corpus, labels, opts.Recorder)

	switch d.Status {
	case StatusMismatch:
		log.Debug("mismatch", "expected", d.Expected, "detected", d.Detected, "loop_type", d.LoopType)
	case StatusError:
		log.Warn("sequence failed", "error", d.Err)
	case StatusNotFound:
		log.Debug("sequence not in corpus")
	}
	if opts.Recorder != nil {
		opts.Recorder.ObserveValidation(d.Status)
	}
	return d
}

func evaluateOne(name string, corpus Corpus, labels LabelStore, rec Recorder) Detail {
	d := Detail{Name: name, Expected: []string{}, Detected: []string{}}

	label, ok, err := labels.Label(name)
	if err != nil {
		d.Status, d.Err = StatusError, fmt.Sprintf("load label: %v", err)
		return d
	}
	if !ok {
		d.Status, d.Err = StatusError, "label listed but not retrievable"
		return d
	}

	seq, ok, err := corpus.Sequence(name)
	if err != nil {
		d.Status, d.Err = StatusError, fmt.Sprintf("load sequence: %v", err)
		return d
	}
	if !ok {
		d.Status = StatusNotFound
		return d
	}

	start := time.Now()
	result := loop.Classify(seq)
	if rec != nil {
		rec.ObserveClassification(result, time.Since(start))
	}

	d.LoopType = result.LoopType
	d.Confidence = result.Confidence
	d.Detected = Canonicalize(result.ComponentNames())
	if !label.ExpectsNoLoop() {
		d.Expected = Canonicalize(label.Components)
	}

	if slices.Equal(d.Expected, d.Detected) {
		d.Status = StatusMatch
	} else {
		d.Status = StatusMismatch
		d.Result = &result
	}
	return d
}

// #endregion evaluate

// #region summarize

func tally(r *Report, details []Detail) {
	r.Total = len(details)
	r.Details = details
	for _, d := range details {
		switch d.Status {
		case StatusMatch:
			r.Matches++
		case StatusMismatch:
			r.Mismatches++
		case StatusNotFound:
			r.NotFound++
		case StatusError:
			r.Errors++
		}
	}
}

// Summarize recomputes the counters of a report from its details, for
// reports rebuilt from persisted rows.
func Summarize(runID string, startedAt time.Time, details []Detail) Report {
	r := Report{RunID: runID, StartedAt: startedAt}
	tally(&r, details)
	return r
}

// Failures returns the details whose status is not MATCH.
func (r Report) Failures() []Detail {
	var out []Detail
	for _, d := range r.Details {
		if d.Status != StatusMatch {
			out = append(out, d)
		}
	}
	return out
}

// LogValue renders the counters only, so a report can be logged as a single attr.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("run_id", r.RunID),
		slog.Int("total", r.Total),
		slog.Int("matches", r.Matches),
		slog.Int("mismatches", r.Mismatches),
		slog.Int("not_found", r.NotFound),
		slog.Int("errors", r.Errors),
	)
}

// #endregion summarize
