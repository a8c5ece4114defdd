package validation

// #region imports
import (
	"slices"
	"strings"
)

// #endregion

// #region rewrite-table

type rewrite struct {
	parts []string
	name  string
}

// rewrites is checked in order; three-part compounds come first so that
// their primitives are not claimed by a two-part rule.
var rewrites = []rewrite{
	{[]string{"mirrored", "swapped", "inverted"}, "mirrored_swapped_inverted"},
	{[]string{"flipped", "inverted"}, "flipped_inverted"},
	{[]string{"rotated", "swapped"}, "rotated_swapped"},
	{[]string{"mirrored", "swapped"}, "mirrored_swapped"},
	{[]string{"rotated", "inverted"}, "rotated_inverted"},
	{[]string{"mirrored", "inverted"}, "mirrored_inverted"},
}

var aliases = map[string]string{
	"rotated180": "rotated",
	"rotate":     "rotated",
	"mirror":     "mirrored",
	"flip":       "flipped",
	"swap":       "swapped",
	"invert":     "inverted",
	"repeat":     "repeated",
}

// #endregion rewrite-table

// #region canonicalize

// Canonicalize reduces a component list to its canonical, sorted form.
// Each entry is split on "+" and "_" into primitives, the rewrite table folds
// primitives back into named compounds, and the result is sorted without
// duplicates. Labeled and detected component lists compare equal exactly
// when their canonical forms are equal. Never returns nil.
func Canonicalize(components []string) []string {
	prims := make(map[string]bool)
	for _, c := range components {
		for _, p := range strings.FieldsFunc(strings.ToLower(c), isSeparator) {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if a, ok := aliases[p]; ok {
				p = a
			}
			prims[p] = true
		}
	}

	out := make([]string, 0, len(prims))
	for _, rw := range rewrites {
		if !hasAll(prims, rw.parts) {
			continue
		}
		for _, p := range rw.parts {
			delete(prims, p)
		}
		out = append(out, rw.name)
	}
	for p := range prims {
		out = append(out, p)
	}

	slices.Sort(out)
	return slices.Compact(out)
}

func isSeparator(r rune) bool {
	return r == '+' || r == '_' || r == ','
}

func hasAll(set map[string]bool, parts []string) bool {
	for _, p := range parts {
		if !set[p] {
			return false
		}
	}
	return true
}

// #endregion canonicalize
