package validation

// #region imports
import (
	"maps"
	"slices"

	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// MapCorpus is an in-memory Corpus keyed by sequence name.
type MapCorpus map[string]sequence.Sequence

// Sequence implements Corpus.
func (m MapCorpus) Sequence(name string) (sequence.Sequence, bool, error) {
	seq, ok := m[name]
	return seq, ok, nil
}

// MapLabels is an in-memory LabelStore keyed by sequence name.
type MapLabels map[string]Label

// LabelNames implements LabelStore. Names are sorted.
func (m MapLabels) LabelNames() ([]string, error) {
	return slices.Sorted(maps.Keys(m)), nil
}

// Label implements LabelStore.
func (m MapLabels) Label(name string) (Label, bool, error) {
	l, ok := m[name]
	return l, ok, nil
}
