package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a run, sequence, or label does not exist.
var ErrNotFound = errors.New("not found")

// #region run-record
// RunRecord is one persisted validation run with its summary counters.
type RunRecord struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	Total      int       `json:"total"`
	Matches    int       `json:"matches"`
	Mismatches int       `json:"mismatches"`
	NotFound   int       `json:"not_found"`
	Errors     int       `json:"errors"`
	Accuracy   float64   `json:"accuracy"`
	Gated      bool      `json:"gated"`  // an eval verdict was recorded
	Passed     bool      `json:"passed"` // meaningful only when Gated
	GateReason string    `json:"gate_reason,omitempty"`
}

// #endregion run-record
