package logging

import "time"

// #region result-entry
// ResultEntry is a single row in the validation_results table.
type ResultEntry struct {
	RunID      string
	Name       string
	Status     string // "MATCH" | "MISMATCH" | "NOT_FOUND" | "ERROR"
	Expected   string // JSON array of canonical components
	Detected   string // JSON array of canonical components
	LoopType   string
	Confidence string
	ResultJSON string // full classification, mismatches only
	Error      string
	CreatedAt  time.Time
}

// #endregion result-entry
