package logging

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielpatrickdp/loopcap/internal/validation"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// #region log-result
// LogResult writes one per-sequence validation outcome to the validation_results table.
func LogResult(db Execer, entry ResultEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO validation_results (run_id, name, status, expected, detected, loop_type, confidence, result_json, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.Name,
		entry.Status,
		entry.Expected,
		entry.Detected,
		nullIfEmpty(entry.LoopType),
		nullIfEmpty(entry.Confidence),
		nullIfEmpty(entry.ResultJSON),
		nullIfEmpty(entry.Error),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log result: %w", err)
	}
	return nil
}

// #endregion log-result

// #region from-detail
// EntryFromDetail serializes a harness detail into a row.
func EntryFromDetail(runID string, d validation.Detail, at time.Time) (ResultEntry, error) {
	expected, err := json.Marshal(nonNil(d.Expected))
	if err != nil {
		return ResultEntry{}, fmt.Errorf("marshal expected: %w", err)
	}
	detected, err := json.Marshal(nonNil(d.Detected))
	if err != nil {
		return ResultEntry{}, fmt.Errorf("marshal detected: %w", err)
	}
	var resultJSON []byte
	if d.Result != nil {
		if resultJSON, err = json.Marshal(d.Result); err != nil {
			return ResultEntry{}, fmt.Errorf("marshal result: %w", err)
		}
	}
	return ResultEntry{
		RunID:      runID,
		Name:       d.Name,
		Status:     string(d.Status),
		Expected:   string(expected),
		Detected:   string(detected),
		LoopType:   string(d.LoopType),
		Confidence: string(d.Confidence),
		ResultJSON: string(resultJSON),
		Error:      d.Err,
		CreatedAt:  at,
	}, nil
}

// #endregion from-detail

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// #endregion helpers
