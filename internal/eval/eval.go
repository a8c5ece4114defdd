package eval

import (
	"fmt"

	"github.com/danielpatrickdp/loopcap/internal/validation"
)

// #region eval-harness
// EvalHarness turns a validation report into a pass/fail verdict.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run checks the report against the configured thresholds and returns every
// metric, failing or not. The reason names the first failed check.
func (h *EvalHarness) Run(report validation.Report) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	// 1. Something must have been classified
	classified := report.Matches + report.Mismatches
	classifiedPass := classified >= h.config.MinClassified
	metrics = append(metrics, EvalMetric{Name: "classified", Value: float64(classified), Pass: classifiedPass})
	if !classifiedPass {
		failReasons = append(failReasons, fmt.Sprintf("classified %d sequences, need %d", classified, h.config.MinClassified))
	}

	// 2. Accuracy over classified sequences
	accuracy := report.Accuracy()
	accuracyPass := accuracy >= h.config.MinAccuracy
	metrics = append(metrics, EvalMetric{Name: "accuracy", Value: accuracy, Pass: accuracyPass})
	if !accuracyPass {
		failReasons = append(failReasons, fmt.Sprintf("accuracy %.4f below %.4f", accuracy, h.config.MinAccuracy))
	}

	// 3. Lookup errors
	errorsPass := withinLimit(report.Errors, h.config.MaxErrors)
	metrics = append(metrics, EvalMetric{Name: "errors", Value: float64(report.Errors), Pass: errorsPass})
	if !errorsPass && h.config.MaxErrors >= 0 {
		failReasons = append(failReasons, fmt.Sprintf("%d lookup errors exceed %d", report.Errors, h.config.MaxErrors))
	}

	// 4. Labels without a sequence
	notFoundPass := withinLimit(report.NotFound, h.config.MaxNotFound)
	metrics = append(metrics, EvalMetric{Name: "not_found", Value: float64(report.NotFound), Pass: notFoundPass})
	if !notFoundPass && h.config.MaxNotFound >= 0 {
		failReasons = append(failReasons, fmt.Sprintf("%d labels without a sequence exceed %d", report.NotFound, h.config.MaxNotFound))
	}

	reason := "all checks passed"
	passed := len(failReasons) == 0
	if !passed {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}

	return EvalResult{
		Passed:  passed,
		Metrics: metrics,
		Reason:  reason,
	}
}

// #endregion eval-harness

// #region helpers
// withinLimit reports n <= limit. A negative limit makes the check
// informational: the metric shows pass=false once n > 0 but never fails the run.
func withinLimit(n, limit int) bool {
	if limit < 0 {
		return n == 0
	}
	return n <= limit
}

// #endregion helpers
