package loop

// #region imports
import (
	"github.com/danielpatrickdp/loopcap/internal/compass"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region quartered-check

// quarterDirections are the turn directions the quartered checks accept.
// Only counter-clockwise quarter turns generate a loop.
var quarterDirections = []compass.Direction{compass.CounterClockwise}

// checkQuartered looks for symmetry at quarter-sequence granularity. The
// caller guarantees len(beats) is a positive multiple of four. detected is
// true when either the pure or the mixed-slice pattern fired.
func checkQuartered(beats []sequence.Beat) (diag QuarterDiagnostics, detected bool) {
	quarter := len(beats) / 4
	diag = QuarterDiagnostics{Quarter: quarter, PureTotal: 3 * quarter}

	meaningful := swapMeaningful(beats[:quarter])
	for _, dir := range quarterDirections {
		m := pureQuarterMatches(beats, quarter, dir)
		if m > diag.PureMatches {
			diag.PureMatches = m
		}
		if m == diag.PureTotal && meaningful {
			diag.Direction = dir
			diag.Tags = append(diag.Tags, TagQuartered)
			return diag, true
		}
	}

	for _, dir := range quarterDirections {
		transitions, mixed := mixedSlice(beats, quarter, dir)
		if mixed {
			diag.Direction = dir
			diag.Transitions = transitions
			diag.Tags = append(diag.Tags, TagMixedSlice)
			return diag, true
		}
		diag.Transitions = transitions
	}

	return diag, false
}

// pureQuarterMatches counts pairs across Q1->Q2, Q2->Q3, Q3->Q4 that are a
// quarter turn plus hand exchange.
func pureQuarterMatches(beats []sequence.Beat, quarter int, dir compass.Direction) int {
	matches := 0
	for t := 0; t < 3; t++ {
		for j := 0; j < quarter; j++ {
			if IsQuarterRotatedSwapped(beats[t*quarter+j], beats[(t+1)*quarter+j], dir) {
				matches++
			}
		}
	}
	return matches
}

// mixedSlice inspects the first pair of all four quarter transitions,
// including the wrap from Q4 back to Q1. It fires when every transition is a
// quarter turn but the hand exchange appears on only some of them.
func mixedSlice(beats []sequence.Beat, quarter int, dir compass.Direction) ([]TransitionDiagnostic, bool) {
	transitions := make([]TransitionDiagnostic, 4)
	allRotate := true
	swaps := 0

	for t := 0; t < 4; t++ {
		next := (t + 1) % 4
		b1, b2 := beats[t*quarter], beats[next*quarter]
		td := TransitionDiagnostic{
			FromQuarter:    t + 1,
			ToQuarter:      next + 1,
			Rotated:        IsQuarterRotated(b1, b2, dir),
			RotatedSwapped: IsQuarterRotatedSwapped(b1, b2, dir),
		}
		transitions[t] = td

		if !td.Rotated && !td.RotatedSwapped {
			allRotate = false
		}
		if td.RotatedSwapped && !td.Rotated {
			swaps++
		}
	}

	return transitions, allRotate && swaps > 0 && swaps < 4
}

// #endregion quartered-check
