package compass

// #region imports
import (
	"strings"
)

// #endregion

// #region location

// Location is one of the eight compass points a hand can start or end on.
// The zero value marks a missing or unparseable location.
type Location uint8

const (
	LocationUnknown Location = iota
	N
	NE
	E
	SE
	S
	SW
	W
	NW

	locationCount
)

var locationNames = [locationCount]string{
	LocationUnknown: "",
	N:               "n",
	NE:              "ne",
	E:               "e",
	SE:              "se",
	S:               "s",
	SW:              "sw",
	W:               "w",
	NW:              "nw",
}

// Locations lists the eight valid compass points in clockwise order from north.
func Locations() []Location {
	return []Location{N, NE, E, SE, S, SW, W, NW}
}

// Valid reports whether l is one of the eight compass points.
func (l Location) Valid() bool {
	return l > LocationUnknown && l < locationCount
}

func (l Location) String() string {
	if l >= locationCount {
		return ""
	}
	return locationNames[l]
}

// ParseLocation maps a compass string ("n", " NE ", ...) to a Location.
// Anything else yields LocationUnknown.
func ParseLocation(s string) Location {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LocationUnknown
	}
	for i := N; i < locationCount; i++ {
		if locationNames[i] == s {
			return i
		}
	}
	return LocationUnknown
}

// MarshalText encodes the location as its compass string.
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText never fails: unknown strings decode to LocationUnknown.
func (l *Location) UnmarshalText(b []byte) error {
	*l = ParseLocation(string(b))
	return nil
}

// #endregion location

// #region motion-type

// MotionType is the kind of movement a hand performs during a beat.
type MotionType uint8

const (
	MotionUnknown MotionType = iota
	Pro
	Anti
	Float
	Dash
	Static

	motionCount
)

var motionNames = [motionCount]string{
	MotionUnknown: "",
	Pro:           "pro",
	Anti:          "anti",
	Float:         "float",
	Dash:          "dash",
	Static:        "static",
}

// Valid reports whether m is a known motion type.
func (m MotionType) Valid() bool {
	return m > MotionUnknown && m < motionCount
}

func (m MotionType) String() string {
	if m >= motionCount {
		return ""
	}
	return motionNames[m]
}

// ParseMotionType maps a motion string to a MotionType; unknown strings yield MotionUnknown.
func ParseMotionType(s string) MotionType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MotionUnknown
	}
	for i := Pro; i < motionCount; i++ {
		if motionNames[i] == s {
			return i
		}
	}
	return MotionUnknown
}

func (m MotionType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *MotionType) UnmarshalText(b []byte) error {
	*m = ParseMotionType(string(b))
	return nil
}

// #endregion motion-type

// #region direction

// Direction is the sense of a quarter turn.
type Direction string

const (
	CounterClockwise Direction = "ccw"
	Clockwise        Direction = "cw"
)

// Rotate90 applies a quarter turn in the given direction. An unrecognised
// direction yields LocationUnknown so that any comparison against it fails.
func Rotate90(l Location, dir Direction) Location {
	switch dir {
	case CounterClockwise:
		return Rotate90CCW(l)
	case Clockwise:
		return Rotate90CW(l)
	default:
		return LocationUnknown
	}
}

// #endregion direction
