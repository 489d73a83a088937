package sim

import (
	"encoding/binary"
	"fmt"
)

// CycleKey fingerprints the simulation state right after a settlement. Two equal keys
// mean the next shape, the next deflection and the surface shape all coincide.
// The skyline is packed into a string so the key is a comparable value for any width.
type CycleKey struct {
	ShapeIndex      int
	DeflectionIndex int
	Skyline         string
}

// NewCycleKey builds a key from the iterator cursors and a skyline profile. Indexes are
// reduced modulo their lengths by the iterators themselves.
func NewCycleKey(shapeIndex, deflectionIndex int, p Profile) CycleKey {
	buf := make([]byte, 0, len(p)*2)
	for _, d := range p {
		buf = binary.AppendVarint(buf, d)
	}
	return CycleKey{ShapeIndex: shapeIndex, DeflectionIndex: deflectionIndex, Skyline: string(buf)}
}

// Profile decodes the skyline back into per-column depths.
func (k CycleKey) Profile() Profile {
	var p Profile
	buf := []byte(k.Skyline)
	for len(buf) > 0 {
		v, n := binary.Varint(buf)
		if n <= 0 {
			break
		}
		p = append(p, v)
		buf = buf[n:]
	}
	return p
}

func (k CycleKey) String() string {
	return fmt.Sprintf("shape=%d jet=%d skyline=%v", k.ShapeIndex, k.DeflectionIndex, k.Profile())
}

// Observation is what the detector remembers about the first time a key was seen.
type Observation struct {
	Settled int64 // objects settled when the key was first recorded
	Height  int64 // chamber height at that time
}

// CycleRecord maps each fingerprint to its first observation only.
type CycleRecord map[CycleKey]Observation

// Cycle is a detected recurrence between two settlements with the same fingerprint.
type Cycle struct {
	Start       int64 // settled count at the first occurrence
	StartHeight int64 // height at the first occurrence
	Length      int64 // objects per repetition
	HeightDelta int64 // height gained per repetition
}

// CycleDetector records fingerprints and reports the first repeat.
// NOT thread-safe; owned by a single simulation run.
type CycleDetector struct {
	record CycleRecord
}

// NewCycleDetector returns a detector with an empty record.
func NewCycleDetector() *CycleDetector {
	return &CycleDetector{record: make(CycleRecord)}
}

// Observe looks key up. A miss records (settled, height) and returns false. A hit
// returns the cycle spanning the first occurrence and now; the record is left as is.
func (d *CycleDetector) Observe(key CycleKey, settled, height int64) (Cycle, bool) {
	prev, ok := d.record[key]
	if !ok {
		d.record[key] = Observation{Settled: settled, Height: height}
		return Cycle{}, false
	}
	return Cycle{
		Start:       prev.Settled,
		StartHeight: prev.Height,
		Length:      settled - prev.Settled,
		HeightDelta: height - prev.Height,
	}, true
}

// Seen returns the number of distinct fingerprints recorded.
func (d *CycleDetector) Seen() int { return len(d.record) }
