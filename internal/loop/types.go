package loop

// #region imports
import (
	"github.com/danielpatrickdp/loopcap/internal/compass"
)

// #endregion

// #region component

// Component names one detected transform, primitive or compound.
type Component string

const (
	Rotated  Component = "rotated"
	Mirrored Component = "mirrored"
	Flipped  Component = "flipped"
	Inverted Component = "inverted"
	Repeated Component = "repeated"
	Swapped  Component = "swapped"

	RotatedSwapped          Component = "rotated+swapped"
	MirroredSwapped         Component = "mirrored+swapped"
	FlippedInverted         Component = "flipped+inverted"
	MirroredSwappedInverted Component = "mirrored+swapped+inverted"

	// Counted in Diagnostics only; never reported as components.
	RotatedInverted  Component = "rotated+inverted"
	MirroredInverted Component = "mirrored+inverted"
)

// #endregion component

// #region loop-type

// LoopType is the stable name persisted for a detected component combination.
// The empty value means no loop type was determined.
type LoopType string

const (
	LoopNone                LoopType = ""
	StrictRotated           LoopType = "STRICT_ROTATED"
	StrictMirrored          LoopType = "STRICT_MIRRORED"
	StrictFlipped           LoopType = "STRICT_FLIPPED"
	StrictInverted          LoopType = "STRICT_INVERTED"
	StrictRepeated          LoopType = "STRICT_REPEATED"
	StrictSwapped           LoopType = "STRICT_SWAPPED"
	RotatedSwappedType      LoopType = "ROTATED_SWAPPED"
	MirroredSwappedType     LoopType = "MIRRORED_SWAPPED"
	FlippedInvertedType     LoopType = "FLIPPED_INVERTED"
	SwappedInvertedType     LoopType = "SWAPPED_INVERTED"
	MirroredSwappedInvType  LoopType = "MIRRORED_SWAPPED_INVERTED"
)

// #endregion loop-type

// #region confidence

// Confidence is "strict" when at least one transform matched every compared pair.
type Confidence string

const (
	ConfidenceStrict     Confidence = "strict"
	ConfidenceAccidental Confidence = "accidental"
)

// SliceSize is the granularity at which the winning pattern was found.
type SliceSize string

const (
	SliceNone      SliceSize = ""
	SliceHalved    SliceSize = "halved"
	SliceQuartered SliceSize = "quartered"
)

// #endregion confidence

// #region diagnostics

// Quartered diagnostic tags.
const (
	TagQuartered  = "QUARTERED"
	TagMixedSlice = "MIXED-SLICE"
)

// PredicateCount records how many compared pairs satisfied one predicate.
type PredicateCount struct {
	Name    Component `json:"name"`
	Matches int       `json:"matches"`
	Total   int       `json:"total"`
}

// PairDiagnostic lists the predicates satisfied by one compared beat pair.
// First and Second are beat indices as numbered in the sequence.
type PairDiagnostic struct {
	First   int         `json:"first"`
	Second  int         `json:"second"`
	Matched []Component `json:"matched"`
}

// TransitionDiagnostic is the first-pair check of one quarter transition.
type TransitionDiagnostic struct {
	FromQuarter    int  `json:"from_quarter"`
	ToQuarter      int  `json:"to_quarter"`
	Rotated        bool `json:"rotated"`
	RotatedSwapped bool `json:"rotated_swapped"`
}

// QuarterDiagnostics describes the quarter-offset checks.
type QuarterDiagnostics struct {
	Quarter     int                    `json:"quarter"`
	Tags        []string               `json:"tags,omitempty"`
	Direction   compass.Direction      `json:"direction,omitempty"`
	PureMatches int                    `json:"pure_matches"`
	PureTotal   int                    `json:"pure_total"`
	Transitions []TransitionDiagnostic `json:"transitions,omitempty"`
}

// Diagnostics carries the evidence behind a Result. It is informational and
// its shape is not part of the LoopType contract.
type Diagnostics struct {
	Reason    string              `json:"reason,omitempty"`
	BeatCount int                 `json:"beat_count"`
	Half      int                 `json:"half,omitempty"`
	Counts    []PredicateCount    `json:"counts,omitempty"`
	Pairs     []PairDiagnostic    `json:"pairs,omitempty"`
	Quartered *QuarterDiagnostics `json:"quartered,omitempty"`
	Notes     []string            `json:"notes,omitempty"`
}

// HasTag reports whether the quartered checks emitted tag.
func (d Diagnostics) HasTag(tag string) bool {
	if d.Quartered == nil {
		return false
	}
	for _, t := range d.Quartered.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// #endregion diagnostics

// #region result

// Result is the classification of one sequence.
type Result struct {
	IsCircular  bool        `json:"is_circular"`
	LoopType    LoopType    `json:"loop_type"`
	Components  []Component `json:"components"`
	Confidence  Confidence  `json:"confidence"`
	SliceSize   SliceSize   `json:"slice_size"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

// ComponentNames returns the components as plain strings.
func (r Result) ComponentNames() []string {
	out := make([]string, len(r.Components))
	for i, c := range r.Components {
		out[i] = string(c)
	}
	return out
}

// #endregion result
