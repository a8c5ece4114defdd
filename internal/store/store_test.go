package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/loopcap/internal/eval"
	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func intp(i int) *int { return &i }

func attrs(motion, start, end string) *sequence.RawAttributes {
	return &sequence.RawAttributes{MotionType: motion, StartLoc: start, EndLoc: end}
}

// rotatedEntries is a two-beat STRICT_ROTATED sequence with header and start marker.
func rotatedEntries() []sequence.RawEntry {
	return []sequence.RawEntry{
		{Word: "AA"},
		{Beat: intp(0), SequenceStartPosition: "alpha", EndPos: "alpha1"},
		{Beat: intp(1), StartPos: "alpha1", EndPos: "alpha5", Blue: attrs("pro", "n", "s"), Red: attrs("anti", "e", "w")},
		{Beat: intp(2), StartPos: "alpha5", EndPos: "alpha1", Blue: attrs("pro", "s", "n"), Red: attrs("anti", "w", "e")},
	}
}

func TestSequenceRoundTrip(t *testing.T) {
	s := tempDB(t)

	require.NoError(t, s.PutSequence("AA", rotatedEntries()))

	seq, ok, err := s.Sequence("AA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AA", seq.Word)
	assert.Equal(t, "alpha1", seq.StartEndPos)
	assert.Equal(t, 2, seq.Len())

	_, ok, err = s.Sequence("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := s.SequenceNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"AA"}, names)
}

func TestPutSequenceReplaces(t *testing.T) {
	s := tempDB(t)

	require.NoError(t, s.PutSequence("AA", rotatedEntries()))
	require.NoError(t, s.PutSequence("AA", rotatedEntries()[:3]))

	seq, _, err := s.Sequence("AA")
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Len())
}

func TestLabelRoundTrip(t *testing.T) {
	s := tempDB(t)

	require.NoError(t, s.PutLabel("AA", validation.Label{Components: []string{"rotated"}}))
	require.NoError(t, s.PutLabel("FREE", validation.Label{IsFreeform: true}))

	l, ok, err := s.Label("AA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"rotated"}, l.Components)

	l, ok, err = s.Label("FREE")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, l.IsFreeform)
	assert.Empty(t, l.Components)

	names, err := s.LabelNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"AA", "FREE"}, names)
}

func TestImport(t *testing.T) {
	s := tempDB(t)

	nSeq, nLabels, err := s.Import(
		map[string][]sequence.RawEntry{"AA": rotatedEntries(), "BB": rotatedEntries()},
		map[string]validation.Label{"AA": {Components: []string{"rotated"}}},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, nSeq)
	assert.Equal(t, 1, nLabels)

	names, err := s.SequenceNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"AA", "BB"}, names)
}

// The store serves as both corpus and label source for the harness, and the
// report survives a save/load cycle.
func TestValidationRunPersisted(t *testing.T) {
	s := tempDB(t)
	_, _, err := s.Import(
		map[string][]sequence.RawEntry{"AA": rotatedEntries(), "WRONG": rotatedEntries()},
		map[string]validation.Label{
			"AA":    {Components: []string{"rotated"}},
			"WRONG": {Components: []string{"mirrored"}},
			"GHOST": {Components: []string{"rotated"}},
		},
	)
	require.NoError(t, err)

	report, err := validation.Run(context.Background(), s, s, validation.Options{Workers: 4})
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Matches)
	assert.Equal(t, 1, report.Mismatches)
	assert.Equal(t, 1, report.NotFound)

	verdict := eval.NewEvalHarness(eval.DefaultEvalConfig()).Run(report)
	require.NoError(t, s.SaveRun(report, &verdict))

	rec, err := s.GetRun(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Total)
	assert.InDelta(t, 0.5, rec.Accuracy, 1e-9)
	assert.True(t, rec.Gated)
	assert.False(t, rec.Passed)
	assert.NotEmpty(t, rec.GateReason)

	details, err := s.RunResults(report.RunID)
	require.NoError(t, err)
	require.Len(t, details, 3)
	assert.Equal(t, "AA", details[0].Name)
	assert.Equal(t, validation.StatusMatch, details[0].Status)
	assert.Equal(t, loop.StrictRotated, details[0].LoopType)
	assert.Nil(t, details[0].Result)

	wrong := details[2]
	assert.Equal(t, "WRONG", wrong.Name)
	assert.Equal(t, validation.StatusMismatch, wrong.Status)
	assert.Equal(t, []string{"mirrored"}, wrong.Expected)
	require.NotNil(t, wrong.Result)
	assert.Equal(t, []loop.Component{loop.Rotated}, wrong.Result.Components)

	rebuilt := validation.Summarize(rec.RunID, rec.StartedAt, details)
	assert.Equal(t, report.Matches, rebuilt.Matches)
	assert.Equal(t, report.NotFound, rebuilt.NotFound)
}

func TestSaveRunWithoutVerdict(t *testing.T) {
	s := tempDB(t)
	report := validation.Report{RunID: "r1", StartedAt: time.Now()}

	require.NoError(t, s.SaveRun(report, nil))

	rec, err := s.GetRun("r1")
	require.NoError(t, err)
	assert.False(t, rec.Gated)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		r := validation.Report{RunID: id, StartedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, s.SaveRun(r, nil))
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].RunID)
	assert.Equal(t, "mid", runs[1].RunID)
}

func TestGetRunNotFound(t *testing.T) {
	s := tempDB(t)

	_, err := s.GetRun("nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.RunResults("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRawSequencePreservesEntries(t *testing.T) {
	s := tempDB(t)
	require.NoError(t, s.PutSequence("AA", rotatedEntries()))

	entries, ok, err := s.RawSequence("AA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rotatedEntries(), entries)

	_, ok, err = s.RawSequence("missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
