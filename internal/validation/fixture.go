package validation

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region fixture-types

// CorpusFile is the on-disk corpus: raw entries per sequence name.
type CorpusFile struct {
	Description string                         `json:"description,omitempty" yaml:"description,omitempty"`
	Sequences   map[string][]sequence.RawEntry `json:"sequences" yaml:"sequences"`
}

// LabelsFile is the on-disk ground truth keyed by sequence name.
type LabelsFile struct {
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Labels      map[string]FixtureLabel `json:"labels" yaml:"labels"`
}

// FixtureLabel is one label as written by annotators. Components from all
// designations are concatenated.
type FixtureLabel struct {
	IsUnknown    bool          `json:"is_unknown,omitempty" yaml:"is_unknown,omitempty"`
	IsFreeform   bool          `json:"is_freeform,omitempty" yaml:"is_freeform,omitempty"`
	Components   []string      `json:"components,omitempty" yaml:"components,omitempty"`
	Designations []Designation `json:"designations,omitempty" yaml:"designations,omitempty"`
}

// Designation is one annotator's component list.
type Designation struct {
	Components []string `json:"components" yaml:"components"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadCorpusFile reads a corpus file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func LoadCorpusFile(path string) (*CorpusFile, error) {
	var f CorpusFile
	if err := decodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return &f, nil
}

// LoadLabelsFile reads a labels file, JSON or YAML by extension.
func LoadLabelsFile(path string) (*LabelsFile, error) {
	var f LabelsFile
	if err := decodeFile(path, &f); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	return &f, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ToCorpus extracts every sequence of the file.
func (f *CorpusFile) ToCorpus() MapCorpus {
	out := make(MapCorpus, len(f.Sequences))
	for name, entries := range f.Sequences {
		out[name] = sequence.Extract(name, entries)
	}
	return out
}

// ToLabels converts the file into an in-memory LabelStore.
func (f *LabelsFile) ToLabels() MapLabels {
	out := make(MapLabels, len(f.Labels))
	for name, fl := range f.Labels {
		out[name] = fl.ToLabel()
	}
	return out
}

// ToLabel flattens designations into a single component list.
func (fl FixtureLabel) ToLabel() Label {
	comps := append([]string(nil), fl.Components...)
	for _, d := range fl.Designations {
		comps = append(comps, d.Components...)
	}
	return Label{
		IsUnknown:  fl.IsUnknown,
		IsFreeform: fl.IsFreeform,
		Components: comps,
	}
}

// #endregion fixture-loader

// #region fixture-writer

// WriteFixtureFile encodes v to path, YAML or indented JSON by extension.
func WriteFixtureFile(path string, v any) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(v)
	default:
		data, err = json.MarshalIndent(v, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// FixtureLabelFrom is the inverse of ToLabel for a label with no designations.
func FixtureLabelFrom(l Label) FixtureLabel {
	return FixtureLabel{
		IsUnknown:  l.IsUnknown,
		IsFreeform: l.IsFreeform,
		Components: l.Components,
	}
}

// #endregion fixture-writer
