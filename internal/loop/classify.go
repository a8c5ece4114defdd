package loop

// #region imports
import (
	"fmt"

	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region circularity

// IsCircular reports whether the sequence ends where it started: at least two
// beats, and the start marker's end position equals the last beat's end
// position by exact string comparison.
func IsCircular(seq sequence.Sequence) bool {
	n := seq.Len()
	if n < 2 {
		return false
	}
	return seq.StartEndPos == seq.Beats[n-1].EndPos
}

// #endregion circularity

// #region classify

// Classify decides whether the sequence is a LOOP/CAP and which transforms
// generate it. It never mutates seq and is safe for concurrent use.
//
// Order of evaluation:
//  1. preconditions (at least 2 beats, even count, circular)
//  2. half-offset predicates, primitives then compound rules
//  3. quarter-offset checks when the count is a multiple of four; a quarter
//     detection replaces halved rotated, swapped, and rotated+swapped entries
//     and leaves other halved components in place
func Classify(seq sequence.Sequence) Result {
	n := seq.Len()
	res := Result{
		IsCircular:  IsCircular(seq),
		LoopType:    LoopNone,
		Components:  []Component{},
		Confidence:  ConfidenceAccidental,
		SliceSize:   SliceNone,
		Diagnostics: Diagnostics{BeatCount: n},
	}

	switch {
	case n < 2:
		res.Diagnostics.Reason = fmt.Sprintf("fewer than 2 beats (%d)", n)
		return res
	case n%2 != 0:
		res.Diagnostics.Reason = fmt.Sprintf("odd number of beats (%d)", n)
		return res
	case !res.IsCircular:
		res.Diagnostics.Reason = fmt.Sprintf("not circular: start position %q, final end position %q",
			seq.StartEndPos, seq.Beats[n-1].EndPos)
		return res
	}

	h := checkHalved(seq.Beats)
	res.Diagnostics.Half = h.half
	res.Diagnostics.Counts = h.counts
	res.Diagnostics.Pairs = h.pairs
	res.Diagnostics.Notes = h.notes

	set := h.components
	if len(set) > 0 {
		res.SliceSize = SliceHalved
	}

	if n%4 == 0 {
		qd, detected := checkQuartered(seq.Beats)
		res.Diagnostics.Quartered = &qd
		if detected {
			if set.has(Rotated) {
				res.Diagnostics.Notes = append(res.Diagnostics.Notes, "quartered rotated+swapped overrides halved rotated")
			}
			applyQuartered(set)
			res.SliceSize = SliceQuartered
		}
	}

	res.Components = set.sorted()
	res.LoopType = LoopTypeFor(res.Components)
	if len(res.Components) > 0 {
		res.Confidence = ConfidenceStrict
	} else {
		res.Diagnostics.Reason = fmt.Sprintf("no transform matched all %d pairs", h.half)
	}

	return res
}

// #endregion classify
