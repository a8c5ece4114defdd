package loop

// #region imports
import (
	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region predicates

type namedPredicate struct {
	name Component
	fn   func(b1, b2 sequence.Beat) bool
}

// halvedPredicates is evaluated for every half-offset pair, in this order.
// rotated+inverted and mirrored+inverted are counted for diagnostics only;
// no rule registers them as components.
var halvedPredicates = []namedPredicate{
	{Rotated, IsRotated},
	{Mirrored, IsMirrored},
	{Flipped, IsFlipped},
	{Inverted, IsInverted},
	{Repeated, IsRepeated},
	{Swapped, IsSwapped},
	{RotatedSwapped, RotatedThenSwapped},
	{MirroredSwapped, MirroredThenSwapped},
	{RotatedInverted, RotatedThenInverted},
	{MirroredInverted, MirroredThenInverted},
	{FlippedInverted, FlippedThenInverted},
	{MirroredSwappedInverted, MirroredThenSwappedInverted},
}

// #endregion predicates

// #region halved-check

// halvedOutcome is the result of comparing each first-half beat with its
// counterpart half a sequence later.
type halvedOutcome struct {
	half       int
	components componentSet
	counts     []PredicateCount
	pairs      []PairDiagnostic
	notes      []string
}

// checkHalved requires an even, non-empty beat list. A transform counts only
// when it holds for all half pairs.
func checkHalved(beats []sequence.Beat) halvedOutcome {
	half := len(beats) / 2
	matches := make([]int, len(halvedPredicates))
	pairs := make([]PairDiagnostic, 0, half)

	for i := 0; i < half; i++ {
		b1, b2 := beats[i], beats[i+half]
		pd := PairDiagnostic{First: b1.Index, Second: b2.Index, Matched: []Component{}}
		for p, pred := range halvedPredicates {
			if pred.fn(b1, b2) {
				matches[p]++
				pd.Matched = append(pd.Matched, pred.name)
			}
		}
		pairs = append(pairs, pd)
	}

	full := make(map[Component]bool, len(halvedPredicates))
	counts := make([]PredicateCount, len(halvedPredicates))
	for p, pred := range halvedPredicates {
		counts[p] = PredicateCount{Name: pred.name, Matches: matches[p], Total: half}
		full[pred.name] = matches[p] == half
	}

	set, notes := resolve(full, beats[:half])

	return halvedOutcome{
		half:       half,
		components: set,
		counts:     counts,
		pairs:      pairs,
		notes:      notes,
	}
}

// #endregion halved-check
