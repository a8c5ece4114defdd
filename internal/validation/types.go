package validation

// #region imports
import (
	"log/slog"
	"time"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region label

// Label is the hand-assigned ground truth for one sequence.
type Label struct {
	IsUnknown  bool     `json:"is_unknown,omitempty" yaml:"is_unknown,omitempty"`
	IsFreeform bool     `json:"is_freeform,omitempty" yaml:"is_freeform,omitempty"`
	Components []string `json:"components,omitempty" yaml:"components,omitempty"`
}

// ExpectsNoLoop reports whether the label asserts that no transform applies.
func (l Label) ExpectsNoLoop() bool {
	return l.IsUnknown || l.IsFreeform
}

// #endregion label

// #region sources

// Corpus looks up sequences by name. ok is false when the name is unknown.
type Corpus interface {
	Sequence(name string) (seq sequence.Sequence, ok bool, err error)
}

// LabelStore lists and looks up labels by sequence name.
type LabelStore interface {
	LabelNames() ([]string, error)
	Label(name string) (label Label, ok bool, err error)
}

// Recorder observes harness activity. metrics.Recorder is the production implementation.
type Recorder interface {
	ObserveClassification(r loop.Result, elapsed time.Duration)
	ObserveValidation(status Status)
}

// #endregion sources

// #region status

// Status is the outcome of validating one labeled sequence.
type Status string

const (
	StatusMatch    Status = "MATCH"
	StatusMismatch Status = "MISMATCH"
	StatusNotFound Status = "NOT_FOUND"
	StatusError    Status = "ERROR"
)

// #endregion status

// #region detail

// Detail is the per-sequence record of a validation run. Result is kept for
// mismatches only so that the pairwise diagnostics are available for debugging.
type Detail struct {
	Name       string          `json:"name"`
	Status     Status          `json:"status"`
	Expected   []string        `json:"expected"`
	Detected   []string        `json:"detected"`
	LoopType   loop.LoopType   `json:"loop_type,omitempty"`
	Confidence loop.Confidence `json:"confidence,omitempty"`
	Result     *loop.Result    `json:"result,omitempty"`
	Err        string          `json:"error,omitempty"`
}

// #endregion detail

// #region report

// Report aggregates a validation run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	Total      int       `json:"total"`
	Matches    int       `json:"matches"`
	Mismatches int       `json:"mismatches"`
	NotFound   int       `json:"not_found"`
	Errors     int       `json:"errors"`
	Details    []Detail  `json:"details"`
}

// Accuracy is matches over classified sequences (matches + mismatches).
// Returns 0 when nothing was classified.
func (r Report) Accuracy() float64 {
	evaluated := r.Matches + r.Mismatches
	if evaluated == 0 {
		return 0
	}
	return float64(r.Matches) / float64(evaluated)
}

// #endregion report

// #region options

// Options tunes a validation run. The zero value is usable.
type Options struct {
	Workers  int          // concurrent sequences; <= 0 means DefaultWorkers
	Logger   *slog.Logger // nil discards
	Recorder Recorder     // nil records nothing
}

// DefaultWorkers bounds the fan-out when Options.Workers is unset.
const DefaultWorkers = 8

func (o Options) workers() int {
	if o.Workers <= 0 {
		return DefaultWorkers
	}
	return o.Workers
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// #endregion options
