package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/validation"
)

// #region helpers

type result struct {
	stdout string
	stderr string
	code   int
}

func execute(t *testing.T, args ...string) result {
	t.Helper()
	for _, k := range []string{"LOOPCAP_DB", "LOOPCAP_LOG_LEVEL", "LOOPCAP_WORKERS", "LOOPCAP_GRPC_ADDR", "LOOPCAP_HTTP_ADDR"} {
		t.Setenv(k, "")
	}
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return result{stdout: out.String(), stderr: errOut.String(), code: exitCode(err)}
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 2
}

// #endregion helpers

// #region classify

func TestClassify_JSON(t *testing.T) {
	r := execute(t, "classify", "testdata/aa.json")
	require.Equal(t, 0, r.code, r.stderr)

	var out struct {
		Name   string      `json:"name"`
		Result loop.Result `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	assert.Equal(t, "aa", out.Name)
	assert.Equal(t, loop.StrictRotated, out.Result.LoopType)
	assert.Equal(t, loop.ConfidenceStrict, out.Result.Confidence)
	assert.True(t, out.Result.IsCircular)
}

func TestClassify_Brief(t *testing.T) {
	r := execute(t, "classify", "--brief", "--name", "AA", "testdata/aa.json")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "AA\tSTRICT_ROTATED\t[rotated]\tstrict\n", r.stdout)
}

func TestClassify_NotCircularExplainsWhy(t *testing.T) {
	r := execute(t, "classify", "--brief", "testdata/free.json")
	require.Equal(t, 0, r.code, r.stderr)
	assert.True(t, strings.HasPrefix(r.stdout, "free\t-\t[]\taccidental\t(not circular"), r.stdout)
}

func TestClassify_MissingFile(t *testing.T) {
	r := execute(t, "classify", "testdata/nope.json")
	assert.Equal(t, 2, r.code)
}

func TestClassify_NoArgs(t *testing.T) {
	r := execute(t, "classify")
	assert.Equal(t, 2, r.code)
}

// #endregion classify

// #region validate

func TestValidate_GateFails(t *testing.T) {
	r := execute(t, "validate", "--corpus", "testdata/corpus.json", "--labels", "testdata/labels.yaml")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stdout, "WRONG")
	assert.Contains(t, r.stdout, "DIFF")
	assert.Contains(t, r.stdout, "MISSING")
	assert.Contains(t, r.stdout, "Summary: 5 total, 3 match, 1 mismatch, 1 not found, 0 errors (accuracy 75.0%)")
	assert.Contains(t, r.stdout, "Gate: eval failed: accuracy 0.7500 below 1.0000")
}

func TestValidate_GatePasses(t *testing.T) {
	r := execute(t, "validate", "--corpus", "testdata/corpus.json", "--labels", "testdata/labels_pass.yaml", "--workers", "1")
	require.Equal(t, 0, r.code, r.stdout+r.stderr)
	assert.Contains(t, r.stdout, "Gate: all checks passed")
}

func TestValidate_JSON(t *testing.T) {
	r := execute(t, "validate", "--json", "--corpus", "testdata/corpus.json", "--labels", "testdata/labels_pass.yaml")
	require.Equal(t, 0, r.code, r.stderr)

	var out struct {
		Report validation.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	assert.Equal(t, 3, out.Report.Matches)
	assert.NotEmpty(t, out.Report.RunID)
}

func TestValidate_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no source", []string{"validate"}},
		{"corpus without labels", []string{"validate", "--corpus", "testdata/corpus.json"}},
		{"both sources", []string{"validate", "--corpus", "testdata/corpus.json", "--labels", "testdata/labels.yaml", "--db", "x.db"}},
		{"unknown flag", []string{"validate", "--bogus"}},
		{"bad log level", []string{"--log-level", "loud", "validate", "--db", "x.db"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, 2, execute(t, tt.args...).code)
		})
	}
}

// #endregion validate

// #region database

// Import fixtures, validate from the database, inspect the saved run, and
// export the fixtures back out.
func TestDatabaseWorkflow(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "loopcap.db")

	r := execute(t, "import", "--db", db, "--corpus", "testdata/corpus.json", "--labels", "testdata/labels.yaml")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "imported 4 sequences, 5 labels\n", r.stdout)

	// 1. validate from the db; the gate fails but the run is saved
	r = execute(t, "validate", "--db", db, "--json")
	require.Equal(t, 1, r.code, r.stderr)
	var out struct {
		Report validation.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &out))
	runID := out.Report.RunID

	// 2. list runs
	r = execute(t, "runs", "--db", db)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, runID)
	assert.Contains(t, r.stdout, "FAIL")

	// 3. one run in detail
	r = execute(t, "runs", "--db", db, "--run", runID)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Accuracy: 75.0% (3/4 classified)")
	assert.Contains(t, r.stdout, "WRONG")

	// 4. --no-save leaves the run count unchanged
	r = execute(t, "validate", "--db", db, "--no-save")
	require.Equal(t, 1, r.code)
	r = execute(t, "runs", "--db", db, "--json")
	require.Equal(t, 0, r.code)
	var runs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &runs))
	assert.Len(t, runs, 1)

	// 5. export and reload
	corpusOut := filepath.Join(dir, "corpus.yaml")
	labelsOut := filepath.Join(dir, "labels.json")
	r = execute(t, "export", "--db", db, "--corpus", corpusOut, "--labels", labelsOut)
	require.Equal(t, 0, r.code, r.stderr)

	cf, err := validation.LoadCorpusFile(corpusOut)
	require.NoError(t, err)
	assert.Len(t, cf.Sequences, 4)
	lf, err := validation.LoadLabelsFile(labelsOut)
	require.NoError(t, err)
	assert.Equal(t, []string{"mirrored", "swapped"}, lf.Labels["WRONG"].Components)
	assert.True(t, lf.Labels["FREE"].IsFreeform)
}

func TestRuns_UnknownRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "loopcap.db")
	r := execute(t, "runs", "--db", db, "--run", "does-not-exist")
	assert.Equal(t, 2, r.code)
}

func TestImport_NothingToDo(t *testing.T) {
	db := filepath.Join(t.TempDir(), "loopcap.db")
	assert.Equal(t, 2, execute(t, "import", "--db", db).code)
}

// #endregion database
