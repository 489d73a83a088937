// Package sim provides the falling-shape tower engine: a bounded-width chamber fed by a
// cyclic shape catalog and a cyclic deflection pattern, with cycle detection that lets a
// run reach astronomically large object counts by arithmetic.
//
// # Reading Guide
//
// Start with these files to understand the engine:
//   - chamber.go: occupancy, collision, settlement and the skyline profile
//   - drop.go: one object's descent (deflect, then fall, until it settles)
//   - cycle.go: fingerprints of post-settlement state and the first-seen record
//   - simulator.go: the run loop tying everything together, including the fast-forward
//   - verify.go: cross-checks accelerated heights against a direct reference run
//
// # Architecture
//
// A Simulator owns all mutable state for exactly one run; independent targets use
// independent simulators (see RunTargets). The shape catalog and the parsed deflection
// pattern are the only values shared between runs and are never mutated.
//
// Sub-packages:
//   - sim/trace/: optional per-run settlement and cycle records
//
// # Determinism
//
// There is no randomness in the engine. Identical catalog, deflection pattern, chamber
// configuration and target always produce the identical height. The only RNG use is
// GenerateDeflections (rng.go), which derives test and benchmark patterns from a seed.
//
// # Cycle confirmation
//
// The fingerprint only sees the skyline, so it can repeat while buried overhangs differ.
// With ConfirmCycles set, a repeat at N with period L is trusted only if the state at
// N+L repeats it again and every per-object height gain in (N, N+L] matches the previous
// period. The fast-forward then starts at N+L.
package sim
