package compass

// #region tables
// Every table is total over [0, locationCount) and fixes LocationUnknown.

var rotate180Table = [locationCount]Location{
	LocationUnknown: LocationUnknown,
	N:               S,
	NE:              SW,
	E:               W,
	SE:              NW,
	S:               N,
	SW:              NE,
	W:               E,
	NW:              SE,
}

var rotate90CCWTable = [locationCount]Location{
	LocationUnknown: LocationUnknown,
	N:               W,
	NE:              NW,
	E:               N,
	SE:              NE,
	S:               E,
	SW:              SE,
	W:               S,
	NW:              SW,
}

var rotate90CWTable = [locationCount]Location{
	LocationUnknown: LocationUnknown,
	N:               E,
	NE:              SE,
	E:               S,
	SE:              SW,
	S:               W,
	SW:              NW,
	W:               N,
	NW:              NE,
}

// mirrorVerticalTable reflects across the north-south axis.
var mirrorVerticalTable = [locationCount]Location{
	LocationUnknown: LocationUnknown,
	N:               N,
	NE:              NW,
	E:               W,
	SE:              SW,
	S:               S,
	SW:              SE,
	W:               E,
	NW:              NE,
}

// flipHorizontalTable reflects across the east-west axis.
var flipHorizontalTable = [locationCount]Location{
	LocationUnknown: LocationUnknown,
	N:               S,
	NE:              SE,
	E:               E,
	SE:              NE,
	S:               N,
	SW:              NW,
	W:               W,
	NW:              SW,
}

var invertMotionTable = [motionCount]MotionType{
	MotionUnknown: MotionUnknown,
	Pro:           Anti,
	Anti:          Pro,
	Float:         Float,
	Dash:          Dash,
	Static:        Static,
}

// #endregion tables

// #region transforms

// LocationMap is any of the location transforms below.
type LocationMap func(Location) Location

func lookup(table *[locationCount]Location, l Location) Location {
	if l >= locationCount {
		return LocationUnknown
	}
	return table[l]
}

// Rotate180 turns a location half way around the compass.
func Rotate180(l Location) Location { return lookup(&rotate180Table, l) }

// Rotate90CCW turns a location a quarter turn counter-clockwise (n -> w).
func Rotate90CCW(l Location) Location { return lookup(&rotate90CCWTable, l) }

// Rotate90CW turns a location a quarter turn clockwise (n -> e).
func Rotate90CW(l Location) Location { return lookup(&rotate90CWTable, l) }

// MirrorVertical swaps east and west; n and s are fixed.
func MirrorVertical(l Location) Location { return lookup(&mirrorVerticalTable, l) }

// FlipHorizontal swaps north and south; e and w are fixed.
func FlipHorizontal(l Location) Location { return lookup(&flipHorizontalTable, l) }

// Identity returns l unchanged.
func Identity(l Location) Location { return l }

// InvertMotion exchanges pro and anti. Every other motion type maps to itself.
func InvertMotion(m MotionType) MotionType {
	if m >= motionCount {
		return MotionUnknown
	}
	return invertMotionTable[m]
}

// #endregion transforms
