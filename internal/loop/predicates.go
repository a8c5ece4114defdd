package loop

// #region imports
import (
	"github.com/danielpatrickdp/loopcap/internal/compass"
	"github.com/danielpatrickdp/loopcap/internal/sequence"
)

// #endregion

// #region pair-transform

// pairTransform describes how the second beat of a pair is generated from the
// first: a location map applied to both hands, optionally exchanging the
// hands and inverting motion types. With motion unset only locations are compared.
type pairTransform struct {
	loc    compass.LocationMap
	swap   bool
	invert bool
	motion bool
}

func (t pairTransform) holds(b1, b2 sequence.Beat) bool {
	fromBlue, fromRed := b1.Blue, b1.Red
	if t.swap {
		fromBlue, fromRed = b1.Red, b1.Blue
	}
	return t.hand(fromBlue, b2.Blue) && t.hand(fromRed, b2.Red)
}

func (t pairTransform) hand(from, to sequence.HandState) bool {
	if !from.StartLoc.Valid() || !from.EndLoc.Valid() || !to.StartLoc.Valid() || !to.EndLoc.Valid() {
		return false
	}
	if t.loc(from.StartLoc) != to.StartLoc || t.loc(from.EndLoc) != to.EndLoc {
		return false
	}
	if !t.motion {
		return true
	}
	if !from.Motion.Valid() || !to.Motion.Valid() {
		return false
	}
	m := from.Motion
	if t.invert {
		m = compass.InvertMotion(m)
	}
	return m == to.Motion
}

var (
	rotated          = pairTransform{loc: compass.Rotate180}
	mirrored         = pairTransform{loc: compass.MirrorVertical}
	flipped          = pairTransform{loc: compass.FlipHorizontal}
	inverted         = pairTransform{loc: compass.Identity, invert: true, motion: true}
	repeated         = pairTransform{loc: compass.Identity, motion: true}
	swapped          = pairTransform{loc: compass.Identity, swap: true, motion: true}
	rotatedSwapped   = pairTransform{loc: compass.Rotate180, swap: true, motion: true}
	mirroredSwapped  = pairTransform{loc: compass.MirrorVertical, swap: true, motion: true}
	rotatedInverted  = pairTransform{loc: compass.Rotate180, invert: true, motion: true}
	mirroredInverted = pairTransform{loc: compass.MirrorVertical, invert: true, motion: true}
	flippedInverted  = pairTransform{loc: compass.FlipHorizontal, invert: true, motion: true}
	mirroredSwapInv  = pairTransform{loc: compass.MirrorVertical, swap: true, invert: true, motion: true}
)

// #endregion pair-transform

// #region primitives

// IsRotated reports whether every location of b2 is the 180° rotation of the
// same hand's location in b1.
func IsRotated(b1, b2 sequence.Beat) bool { return rotated.holds(b1, b2) }

// IsMirrored is IsRotated with a vertical-axis mirror.
func IsMirrored(b1, b2 sequence.Beat) bool { return mirrored.holds(b1, b2) }

// IsFlipped is IsRotated with a horizontal-axis flip.
func IsFlipped(b1, b2 sequence.Beat) bool { return flipped.holds(b1, b2) }

// IsInverted reports unchanged locations with pro and anti exchanged on both hands.
func IsInverted(b1, b2 sequence.Beat) bool { return inverted.holds(b1, b2) }

// IsRepeated reports an exact copy of locations and motion types.
func IsRepeated(b1, b2 sequence.Beat) bool { return repeated.holds(b1, b2) }

// IsSwapped reports that the hands exchanged roles between b1 and b2. It is
// false whenever both hands of b1 share a motion type, since the exchange
// cannot be told apart from identity.
func IsSwapped(b1, b2 sequence.Beat) bool {
	if b1.Blue.Motion == b1.Red.Motion {
		return false
	}
	return swapped.holds(b1, b2)
}

// #endregion primitives

// #region compounds
// Compound predicates skip the meaningful-swap guard; the halved classifier
// checks meaningfulness once across all compared pairs.

// RotatedThenSwapped: rotate180(b1.red) == b2.blue and rotate180(b1.blue) == b2.red,
// motion types carried across.
func RotatedThenSwapped(b1, b2 sequence.Beat) bool { return rotatedSwapped.holds(b1, b2) }

// MirroredThenSwapped is RotatedThenSwapped with a vertical mirror.
func MirroredThenSwapped(b1, b2 sequence.Beat) bool { return mirroredSwapped.holds(b1, b2) }

// MirroredThenSwappedInverted mirrors, exchanges hands, and inverts motion types.
func MirroredThenSwappedInverted(b1, b2 sequence.Beat) bool { return mirroredSwapInv.holds(b1, b2) }

// FlippedThenInverted flips each hand in place and inverts its motion type.
func FlippedThenInverted(b1, b2 sequence.Beat) bool { return flippedInverted.holds(b1, b2) }

// RotatedThenInverted rotates each hand in place and inverts its motion type.
// Diagnostic only: a full match never becomes a component.
func RotatedThenInverted(b1, b2 sequence.Beat) bool { return rotatedInverted.holds(b1, b2) }

// MirroredThenInverted mirrors each hand in place and inverts its motion type.
// Diagnostic only, like RotatedThenInverted.
func MirroredThenInverted(b1, b2 sequence.Beat) bool { return mirroredInverted.holds(b1, b2) }

// #endregion compounds

// #region quarter

// IsQuarterRotated reports a quarter turn of both hands, motion types unchanged.
func IsQuarterRotated(b1, b2 sequence.Beat, dir compass.Direction) bool {
	return quarterTransform(dir, false).holds(b1, b2)
}

// IsQuarterRotatedSwapped reports a quarter turn combined with a hand exchange.
func IsQuarterRotatedSwapped(b1, b2 sequence.Beat, dir compass.Direction) bool {
	return quarterTransform(dir, true).holds(b1, b2)
}

func quarterTransform(dir compass.Direction, swap bool) pairTransform {
	return pairTransform{
		loc:    func(l compass.Location) compass.Location { return compass.Rotate90(l, dir) },
		swap:   swap,
		motion: true,
	}
}

// #endregion quarter

// #region meaningful

// swapMeaningful reports whether any beat has hands with different motion
// types, so that exchanging the hands is observable.
func swapMeaningful(beats []sequence.Beat) bool {
	for _, b := range beats {
		if b.Blue.Motion.Valid() && b.Red.Motion.Valid() && b.Blue.Motion != b.Red.Motion {
			return true
		}
	}
	return false
}

// #endregion meaningful
