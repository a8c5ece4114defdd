package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/loopcap/internal/eval"
	"github.com/danielpatrickdp/loopcap/internal/logging"
	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS sequences (
	name          TEXT PRIMARY KEY,
	word          TEXT,
	entries_json  TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS labels (
	name          TEXT PRIMARY KEY,
	is_unknown    INTEGER NOT NULL DEFAULT 0,
	is_freeform   INTEGER NOT NULL DEFAULT 0,
	components    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS validation_runs (
	run_id        TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL,
	total         INTEGER NOT NULL,
	matches       INTEGER NOT NULL,
	mismatches    INTEGER NOT NULL,
	not_found     INTEGER NOT NULL,
	errors        INTEGER NOT NULL,
	accuracy      REAL NOT NULL,
	passed        INTEGER,
	gate_reason   TEXT
);

CREATE TABLE IF NOT EXISTS validation_results (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	name          TEXT NOT NULL,
	status        TEXT NOT NULL,
	expected      TEXT NOT NULL,
	detected      TEXT NOT NULL,
	loop_type     TEXT,
	confidence    TEXT,
	result_json   TEXT,
	error         TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (run_id) REFERENCES validation_runs(run_id)
);

CREATE INDEX IF NOT EXISTS idx_validation_results_run ON validation_results(run_id);
`

// #endregion schema

// #region store-struct
// Store persists the sequence corpus, labels, and validation runs in SQLite.
// It implements validation.Corpus and validation.LabelStore.
type Store struct {
	db *sql.DB
}

var (
	_ validation.Corpus     = (*Store)(nil)
	_ validation.LabelStore = (*Store)(nil)
)

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages (e.g. logging).
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region sequences
// PutSequence stores the raw entries of a sequence, replacing any previous version.
func (s *Store) PutSequence(name string, entries []sequence.RawEntry) error {
	return putSequence(s.db, name, entries, time.Now().UTC())
}

func putSequence(db logging.Execer, name string, entries []sequence.RawEntry, now time.Time) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal sequence %s: %w", name, err)
	}
	word := sequence.Extract(name, entries).Word
	_, err = db.Exec(
		`INSERT INTO sequences (name, word, entries_json, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET word = excluded.word, entries_json = excluded.entries_json, updated_at = excluded.updated_at`,
		name, word, string(data), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put sequence %s: %w", name, err)
	}
	return nil
}

// Sequence loads and extracts a stored sequence. ok is false when the name is unknown.
func (s *Store) Sequence(name string) (sequence.Sequence, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT entries_json FROM sequences WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return sequence.Sequence{}, false, nil
	}
	if err != nil {
		return sequence.Sequence{}, false, fmt.Errorf("get sequence %s: %w", name, err)
	}
	seq, err := sequence.ExtractJSON(name, []byte(data))
	if err != nil {
		return sequence.Sequence{}, false, err
	}
	return seq, true, nil
}

// RawSequence returns the entries exactly as they were stored.
func (s *Store) RawSequence(name string) ([]sequence.RawEntry, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT entries_json FROM sequences WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get sequence %s: %w", name, err)
	}
	var entries []sequence.RawEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, false, fmt.Errorf("unmarshal sequence %s: %w", name, err)
	}
	return entries, true, nil
}

// SequenceNames lists stored sequence names in order.
func (s *Store) SequenceNames() ([]string, error) {
	return s.names(`SELECT name FROM sequences ORDER BY name`)
}

// #endregion sequences

// #region labels
// PutLabel stores a label, replacing any previous version.
func (s *Store) PutLabel(name string, l validation.Label) error {
	return putLabel(s.db, name, l, time.Now().UTC())
}

func putLabel(db logging.Execer, name string, l validation.Label, now time.Time) error {
	comps := l.Components
	if comps == nil {
		comps = []string{}
	}
	data, err := json.Marshal(comps)
	if err != nil {
		return fmt.Errorf("marshal label %s: %w", name, err)
	}
	_, err = db.Exec(
		`INSERT INTO labels (name, is_unknown, is_freeform, components, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET is_unknown = excluded.is_unknown, is_freeform = excluded.is_freeform,
		   components = excluded.components, updated_at = excluded.updated_at`,
		name, l.IsUnknown, l.IsFreeform, string(data), now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("put label %s: %w", name, err)
	}
	return nil
}

// Label loads a stored label. ok is false when the name is unknown.
func (s *Store) Label(name string) (validation.Label, bool, error) {
	var l validation.Label
	var data string
	err := s.db.QueryRow(
		`SELECT is_unknown, is_freeform, components FROM labels WHERE name = ?`, name,
	).Scan(&l.IsUnknown, &l.IsFreeform, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return validation.Label{}, false, nil
	}
	if err != nil {
		return validation.Label{}, false, fmt.Errorf("get label %s: %w", name, err)
	}
	if err := json.Unmarshal([]byte(data), &l.Components); err != nil {
		return validation.Label{}, false, fmt.Errorf("unmarshal label %s: %w", name, err)
	}
	return l, true, nil
}

// LabelNames lists labeled sequence names in order.
func (s *Store) LabelNames() ([]string, error) {
	return s.names(`SELECT name FROM labels ORDER BY name`)
}

// #endregion labels

// #region import
// Import writes a corpus and its labels in a single transaction and returns
// how many of each were written.
func (s *Store) Import(corpus map[string][]sequence.RawEntry, labels map[string]validation.Label) (int, int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for name, entries := range corpus {
		if err := putSequence(tx, name, entries, now); err != nil {
			return 0, 0, err
		}
	}
	for name, l := range labels {
		if err := putLabel(tx, name, l, now); err != nil {
			return 0, 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return len(corpus), len(labels), nil
}

// #endregion import

// #region save-run
// SaveRun persists a report and every per-sequence detail atomically.
// verdict may be nil when no gate was evaluated.
func (s *Store) SaveRun(report validation.Report, verdict *eval.EvalResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var passed, reason interface{}
	if verdict != nil {
		passed = verdict.Passed
		reason = verdict.Reason
	}
	_, err = tx.Exec(
		`INSERT INTO validation_runs (run_id, started_at, total, matches, mismatches, not_found, errors, accuracy, passed, gate_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.StartedAt.UTC().Format(time.RFC3339Nano),
		report.Total, report.Matches, report.Mismatches, report.NotFound, report.Errors,
		report.Accuracy(), passed, reason,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	now := time.Now().UTC()
	for _, d := range report.Details {
		entry, err := logging.EntryFromDetail(report.RunID, d, now)
		if err != nil {
			return err
		}
		if err := logging.LogResult(tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion save-run

// #region list-runs
const runColumns = `run_id, started_at, total, matches, mismatches, not_found, errors, accuracy, passed, gate_reason`

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM validation_runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun returns one run or ErrNotFound.
func (s *Store) GetRun(runID string) (RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(`SELECT `+runColumns+` FROM validation_runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", runID, ErrNotFound)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var rec RunRecord
	var startedStr string
	var passed sql.NullBool
	var reason sql.NullString
	err := row.Scan(&rec.RunID, &startedStr, &rec.Total, &rec.Matches, &rec.Mismatches,
		&rec.NotFound, &rec.Errors, &rec.Accuracy, &passed, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, err
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339Nano, startedStr)
	rec.Gated = passed.Valid
	rec.Passed = passed.Bool
	if reason.Valid {
		rec.GateReason = reason.String
	}
	return rec, nil
}

// #endregion list-runs

// #region run-results
// RunResults returns the details of a run in sequence-name order, or
// ErrNotFound when the run does not exist.
func (s *Store) RunResults(runID string) ([]validation.Detail, error) {
	if _, err := s.GetRun(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT name, status, expected, detected, loop_type, confidence, result_json, error
		 FROM validation_results WHERE run_id = ? ORDER BY name`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("run results %s: %w", runID, err)
	}
	defer rows.Close()

	var details []validation.Detail
	for rows.Next() {
		var d validation.Detail
		var status, expected, detected string
		var loopType, confidence, resultJSON, errText sql.NullString
		if err := rows.Scan(&d.Name, &status, &expected, &detected, &loopType, &confidence, &resultJSON, &errText); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		d.Status = validation.Status(status)
		if err := json.Unmarshal([]byte(expected), &d.Expected); err != nil {
			return nil, fmt.Errorf("unmarshal expected: %w", err)
		}
		if err := json.Unmarshal([]byte(detected), &d.Detected); err != nil {
			return nil, fmt.Errorf("unmarshal detected: %w", err)
		}
		d.LoopType = loop.LoopType(loopType.String)
		d.Confidence = loop.Confidence(confidence.String)
		d.Err = errText.String
		if resultJSON.Valid {
			d.Result = new(loop.Result)
			if err := json.Unmarshal([]byte(resultJSON.String), d.Result); err != nil {
				return nil, fmt.Errorf("unmarshal result: %w", err)
			}
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// #endregion run-results

// #region helpers
func (s *Store) names(query string) ([]string, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// #endregion helpers
