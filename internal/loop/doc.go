// Package loop classifies two-actor motion sequences as LOOP/CAP patterns.
//
// A sequence is a LOOP/CAP when its second half (or each of its quarters) is
// generated from the preceding slice by a geometric transform of the hand
// locations, an exchange of the two hands' roles, an inversion of motion
// types, or a consistent composition of these.
//
// # Pipeline
//
//	Classify
//	  ├─ preconditions: ≥2 beats, even count, circular
//	  ├─ halved: beats[i] vs beats[i+N/2] for every predicate
//	  │    ├─ primitives registered when every pair matches
//	  │    └─ compound rules applied in order, dropping subsumed components
//	  └─ quartered (N%4 == 0): pure quarter-turn+swap, then mixed-slice
//
// Only transforms that hold for every compared pair are reported. A partial
// match carries no weight; it shows up in Diagnostics.Counts and nowhere else.
//
// # Loop types
//
// The sorted component list maps to a stable LoopType name (STRICT_ROTATED,
// ROTATED_SWAPPED, ...). Combinations without a name become CUSTOM_<KEY>.
// Downstream consumers persist these names; do not rename them.
//
// # Concurrency
//
// Classify is a pure function of its argument. It allocates a fresh Result on
// every call and never writes to the input, so it may be called from any
// number of goroutines without locking.
package loop
