// Package compass holds the location algebra used by the loop classifier:
// the eight compass points a hand can occupy, the motion types a hand can
// perform, and the total lookup tables for rotating, mirroring, and flipping
// locations and inverting motion types.
//
// Every table covers the full domain, including the zero "unknown" value,
// which always maps to itself. Lookups never fail.
package compass
