package validation

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/danielpatrickdp/loopcap/internal/loop"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #region helpers

func loadFixtures(t *testing.T, labelsPath string) (MapCorpus, MapLabels) {
	t.Helper()
	cf, err := LoadCorpusFile("testdata/corpus.json")
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	lf, err := LoadLabelsFile(labelsPath)
	if err != nil {
		t.Fatalf("load labels: %v", err)
	}
	return cf.ToCorpus(), lf.ToLabels()
}

func detailByName(t *testing.T, r Report, name string) Detail {
	t.Helper()
	for _, d := range r.Details {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no detail for %s", name)
	return Detail{}
}

type failingCorpus struct {
	MapCorpus
	broken string
}

func (c failingCorpus) Sequence(name string) (sequence.Sequence, bool, error) {
	if name == c.broken {
		return sequence.Sequence{}, false, errors.New("disk on fire")
	}
	return c.MapCorpus.Sequence(name)
}

type failingLabels struct{}

func (failingLabels) LabelNames() ([]string, error) { return nil, errors.New("no labels") }
func (failingLabels) Label(string) (Label, bool, error) { return Label{}, false, nil }

type countingRecorder struct {
	mu              sync.Mutex
	classifications int
	statuses        map[Status]int
}

func (r *countingRecorder) ObserveClassification(loop.Result, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classifications++
}

func (r *countingRecorder) ObserveValidation(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.statuses == nil {
		r.statuses = make(map[Status]int)
	}
	r.statuses[s]++
}

// #endregion helpers

// #region canonicalize

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"primitive", []string{"rotated"}, []string{"rotated"}},
		{"alias", []string{"Rotated180"}, []string{"rotated"}},
		{"three part from primitives", []string{"mirrored", "swapped", "inverted"}, []string{"mirrored_swapped_inverted"}},
		{"three part from compound", []string{"mirrored+swapped+inverted"}, []string{"mirrored_swapped_inverted"}},
		{"three part already canonical", []string{"mirrored_swapped_inverted"}, []string{"mirrored_swapped_inverted"}},
		{"two part", []string{"swapped", "rotated"}, []string{"rotated_swapped"}},
		{"flipped inverted", []string{"flipped+inverted"}, []string{"flipped_inverted"}},
		{"leftover primitive", []string{"flipped", "mirrored", "swapped", "inverted"}, []string{"flipped", "mirrored_swapped_inverted"}},
		{"duplicates", []string{"repeated", "repeated"}, []string{"repeated"}},
		{"independent primitives sorted", []string{"repeated", "flipped"}, []string{"flipped", "repeated"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Canonicalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Canonicalize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// Labeled primitives and a detected compound compare equal.
func TestCanonicalize_LabelMatchesDetectedCompound(t *testing.T) {
	labeled := Canonicalize([]string{"mirrored", "swapped", "inverted"})
	detected := Canonicalize([]string{string(loop.MirroredSwappedInverted)})
	if !reflect.DeepEqual(labeled, detected) {
		t.Errorf("labeled %v != detected %v", labeled, detected)
	}
}

// #endregion canonicalize

// #region run

func TestRun_Fixtures(t *testing.T) {
	corpus, labels := loadFixtures(t, "testdata/labels.yaml")

	r, err := Run(context.Background(), corpus, labels, Options{Workers: 2})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if r.RunID == "" {
		t.Error("expected RunID")
	}
	if r.Total != 5 || r.Matches != 3 || r.Mismatches != 1 || r.NotFound != 1 || r.Errors != 0 {
		t.Errorf("counts = total %d match %d mismatch %d notfound %d errors %d",
			r.Total, r.Matches, r.Mismatches, r.NotFound, r.Errors)
	}

	var names []string
	for _, d := range r.Details {
		names = append(names, d.Name)
	}
	if want := []string{"AA", "ABAB", "FREE", "GHOST", "WRONG"}; !reflect.DeepEqual(names, want) {
		t.Errorf("detail order = %v, want %v", names, want)
	}

	aa := detailByName(t, r, "AA")
	if aa.Status != StatusMatch || aa.LoopType != loop.StrictRotated {
		t.Errorf("AA = %s %s", aa.Status, aa.LoopType)
	}
	if aa.Result != nil {
		t.Error("matches should not keep the full result")
	}

	if d := detailByName(t, r, "FREE"); d.Status != StatusMatch {
		t.Errorf("freeform non-loop should match, got %s (detected %v)", d.Status, d.Detected)
	}
	if d := detailByName(t, r, "GHOST"); d.Status != StatusNotFound {
		t.Errorf("GHOST = %s, want NOT_FOUND", d.Status)
	}

	wrong := detailByName(t, r, "WRONG")
	if wrong.Status != StatusMismatch {
		t.Fatalf("WRONG = %s, want MISMATCH", wrong.Status)
	}
	if !reflect.DeepEqual(wrong.Expected, []string{"mirrored_swapped"}) {
		t.Errorf("WRONG expected = %v", wrong.Expected)
	}
	if !reflect.DeepEqual(wrong.Detected, []string{"rotated"}) {
		t.Errorf("WRONG detected = %v", wrong.Detected)
	}
	if wrong.Result == nil || len(wrong.Result.Diagnostics.Pairs) != 1 {
		t.Error("mismatch should keep pairwise diagnostics")
	}

	if got := r.Accuracy(); got != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", got)
	}
	if len(r.Failures()) != 2 {
		t.Errorf("Failures = %d, want 2", len(r.Failures()))
	}
}

func TestRun_JSONLabels(t *testing.T) {
	corpus, labels := loadFixtures(t, "testdata/labels.json")

	r, err := Run(context.Background(), corpus, labels, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Total != 2 || r.Matches != 2 {
		t.Errorf("expected 2/2 matches, got %d/%d: %+v", r.Matches, r.Total, r.Failures())
	}
}

// A lookup error is recorded and the rest of the batch still runs.
func TestRun_LookupErrorRecorded(t *testing.T) {
	corpus, labels := loadFixtures(t, "testdata/labels.yaml")

	r, err := Run(context.Background(), failingCorpus{MapCorpus: corpus, broken: "ABAB"}, labels, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.Errors != 1 || r.Matches != 2 {
		t.Errorf("errors %d matches %d, want 1 and 2", r.Errors, r.Matches)
	}
	if d := detailByName(t, r, "ABAB"); d.Status != StatusError || d.Err == "" {
		t.Errorf("ABAB = %+v", d)
	}
}

func TestRun_LabelListError(t *testing.T) {
	_, err := Run(context.Background(), MapCorpus{}, failingLabels{}, Options{})
	if err == nil {
		t.Fatal("expected error when labels cannot be listed")
	}
}

func TestRun_Cancelled(t *testing.T) {
	corpus, labels := loadFixtures(t, "testdata/labels.yaml")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, corpus, labels, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRun_Recorder(t *testing.T) {
	corpus, labels := loadFixtures(t, "testdata/labels.yaml")
	rec := &countingRecorder{}

	if _, err := Run(context.Background(), corpus, labels, Options{Recorder: rec}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rec.classifications != 4 {
		t.Errorf("classifications = %d, want 4", rec.classifications)
	}
	if rec.statuses[StatusMatch] != 3 || rec.statuses[StatusNotFound] != 1 || rec.statuses[StatusMismatch] != 1 {
		t.Errorf("statuses = %v", rec.statuses)
	}
}

// Worker count never changes the report contents.
func TestRun_WorkerCountIndependent(t *testing.T) {
	corpus, labels := loadFixtures(t, "testdata/labels.yaml")

	serial, err := Run(context.Background(), corpus, labels, Options{Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := Run(context.Background(), corpus, labels, Options{Workers: 16})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(serial.Details, parallel.Details) {
		t.Error("details differ between 1 and 16 workers")
	}
}

func TestSummarize(t *testing.T) {
	details := []Detail{
		{Name: "a", Status: StatusMatch},
		{Name: "b", Status: StatusMismatch},
		{Name: "c", Status: StatusError},
	}
	r := Summarize("run-1", time.Unix(0, 0), details)
	if r.Total != 3 || r.Matches != 1 || r.Mismatches != 1 || r.Errors != 1 {
		t.Errorf("Summarize = %+v", r)
	}
}

// #endregion run

// #region fixtures

func TestFixtureLabel_DesignationsConcatenated(t *testing.T) {
	fl := FixtureLabel{
		Components: []string{"rotated"},
		Designations: []Designation{
			{Components: []string{"swapped"}},
			{Components: []string{"inverted"}},
		},
	}
	got := fl.ToLabel().Components
	if want := []string{"rotated", "swapped", "inverted"}; !reflect.DeepEqual(got, want) {
		t.Errorf("components = %v, want %v", got, want)
	}
}

func TestLoadCorpusFile_Extracts(t *testing.T) {
	cf, err := LoadCorpusFile("testdata/corpus.json")
	if err != nil {
		t.Fatal(err)
	}
	seq := cf.ToCorpus()["ABAB"]
	if seq.Len() != 4 || seq.Word != "ABAB" || seq.StartEndPos != "alpha1" {
		t.Errorf("ABAB extracted as %+v", seq)
	}
}

func TestLoadCorpusFile_Missing(t *testing.T) {
	if _, err := LoadCorpusFile("testdata/nope.json"); err == nil {
		t.Error("expected error for missing file")
	}
}

// #endregion fixtures

func TestWriteFixtureFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	in := &LabelsFile{Labels: map[string]FixtureLabel{
		"AA":   FixtureLabelFrom(Label{Components: []string{"rotated"}}),
		"FREE": FixtureLabelFrom(Label{IsFreeform: true}),
	}}
	for _, name := range []string{"labels.json", "labels.yaml"} {
		path := dir + "/" + name
		if err := WriteFixtureFile(path, in); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		out, err := LoadLabelsFile(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if !reflect.DeepEqual(out.ToLabels(), in.ToLabels()) {
			t.Errorf("%s: got %+v", name, out.ToLabels())
		}
	}
}
