package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
)

// === SimulationKey ===

// SimulationKey identifies a reproducible generated jet pattern.
// The same key and parameters MUST produce an identical pattern.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemJets draws the deflection symbols. Uses the master seed directly.
	SubsystemJets = "jets"

	// SubsystemLength draws pattern lengths when only a range is given.
	SubsystemLength = "length"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemJets: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemJets {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// === Pattern generation ===

// PatternSpec describes a random jet pattern. A pattern length is drawn uniformly
// from [MinLength, MaxLength]; RightBias is the probability of each symbol being '>'.
type PatternSpec struct {
	MinLength int
	MaxLength int
	RightBias float64
}

// Validate checks the length range and bias.
func (ps PatternSpec) Validate() error {
	if ps.MinLength < 1 || ps.MaxLength < ps.MinLength {
		return fmt.Errorf("pattern length range [%d, %d] invalid: %w", ps.MinLength, ps.MaxLength, ErrConfiguration)
	}
	if ps.RightBias < 0 || ps.RightBias > 1 {
		return fmt.Errorf("right bias %v outside [0, 1]: %w", ps.RightBias, ErrConfiguration)
	}
	return nil
}

// GenerateDeflections draws a jet pattern from rng. Length and symbols come from
// separate subsystems, so widening the length range does not reshuffle the symbols
// of a pattern that keeps its length.
func GenerateDeflections(rng *PartitionedRNG, ps PatternSpec) ([]Deflection, error) {
	if err := ps.Validate(); err != nil {
		return nil, err
	}
	n := ps.MinLength
	if ps.MaxLength > ps.MinLength {
		n += rng.ForSubsystem(SubsystemLength).Intn(ps.MaxLength - ps.MinLength + 1)
	}
	jets := rng.ForSubsystem(SubsystemJets)
	out := make([]Deflection, n)
	for i := range out {
		out[i] = DeflectLeft
		if jets.Float64() < ps.RightBias {
			out[i] = DeflectRight
		}
	}
	return out, nil
}

// FormatDeflections renders a pattern back into its '<'/'>' text form.
func FormatDeflections(pattern []Deflection) string {
	var b strings.Builder
	b.Grow(len(pattern))
	for _, d := range pattern {
		b.WriteString(d.String())
	}
	return b.String()
}
