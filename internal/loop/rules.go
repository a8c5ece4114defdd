package loop

// #region imports
import (
	"sort"
	"strings"

	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region component-set

// componentSet is the working set of detected components during resolution.
type componentSet map[Component]struct{}

func (s componentSet) add(c Component)      { s[c] = struct{}{} }
func (s componentSet) remove(c Component)   { delete(s, c) }
func (s componentSet) has(c Component) bool { _, ok := s[c]; return ok }

// sorted returns the members in lexical order. Never nil.
func (s componentSet) sorted() []Component {
	out := make([]Component, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// #endregion component-set

// #region compound-rules

// compoundRule registers a fully matched compound and drops what it subsumes.
// meaningful is evaluated on the first-half beats.
type compoundRule struct {
	compound   Component
	meaningful func([]sequence.Beat) bool
	subsumes   []Component
}

// compoundRules is applied in order after all primitives are registered.
// Later rules may remove compounds registered by earlier ones. Every compound
// needs a first-half beat whose hands differ in motion type.
var compoundRules = []compoundRule{
	{RotatedSwapped, swapMeaningful, []Component{Rotated, Swapped}},
	{MirroredSwapped, swapMeaningful, []Component{Mirrored, Swapped}},
	{FlippedInverted, swapMeaningful, []Component{Flipped, Inverted}},
	{MirroredSwappedInverted, swapMeaningful, []Component{
		Mirrored, Swapped, Inverted, MirroredSwapped, FlippedInverted,
	}},
}

// primitiveComponents are registered independently whenever fully matched.
var primitiveComponents = []Component{Rotated, Mirrored, Flipped, Inverted, Repeated, Swapped}

// quarteredSubsumes lists the halved components a quartered detection replaces.
var quarteredSubsumes = []Component{Rotated, Swapped, RotatedSwapped}

// resolve turns the set of fully matched predicates into surviving components.
// Notes record compounds that matched but were rejected as not meaningful.
func resolve(full map[Component]bool, firstHalf []sequence.Beat) (componentSet, []string) {
	set := componentSet{}
	var notes []string

	for _, c := range primitiveComponents {
		if full[c] {
			set.add(c)
		}
	}

	for _, r := range compoundRules {
		if !full[r.compound] {
			continue
		}
		if !r.meaningful(firstHalf) {
			notes = append(notes, string(r.compound)+" matched every pair but is not meaningful")
			continue
		}
		for _, c := range r.subsumes {
			set.remove(c)
		}
		set.add(r.compound)
	}

	return set, notes
}

// applyQuartered registers a quartered rotated+swapped detection.
func applyQuartered(set componentSet) {
	for _, c := range quarteredSubsumes {
		set.remove(c)
	}
	set.add(RotatedSwapped)
}

// #endregion compound-rules

// #region name-table

var loopTypeNames = map[string]LoopType{
	"rotated":                   StrictRotated,
	"mirrored":                  StrictMirrored,
	"flipped":                   StrictFlipped,
	"inverted":                  StrictInverted,
	"repeated":                  StrictRepeated,
	"swapped":                   StrictSwapped,
	"rotated+swapped":           RotatedSwappedType,
	"mirrored+swapped":          MirroredSwappedType,
	"flipped+inverted":          FlippedInvertedType,
	"inverted,swapped":          SwappedInvertedType,
	"mirrored+swapped+inverted": MirroredSwappedInvType,
}

var customKeyReplacer = strings.NewReplacer(",", "_", "+", "_")

// LoopTypeFor maps a sorted component list to its loop type. Unknown
// combinations synthesize CUSTOM_<KEY>; an empty list has no loop type.
func LoopTypeFor(components []Component) LoopType {
	if len(components) == 0 {
		return LoopNone
	}
	parts := make([]string, len(components))
	for i, c := range components {
		parts[i] = string(c)
	}
	key := strings.Join(parts, ",")
	if lt, ok := loopTypeNames[key]; ok {
		return lt
	}
	return LoopType("CUSTOM_" + strings.ToUpper(customKeyReplacer.Replace(key)))
}

// #endregion name-table
