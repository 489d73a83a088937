package sim

import (
	"fmt"
	"os"
	"strings"
)

// Deflection is a single horizontal push: -1 moves left, +1 moves right.
type Deflection int8

const (
	DeflectLeft  Deflection = -1
	DeflectRight Deflection = 1
)

// String returns the input symbol for the deflection.
func (d Deflection) String() string {
	if d == DeflectLeft {
		return "<"
	}
	return ">"
}

// ParseDeflections converts a raw jet pattern into deflections. Surrounding whitespace
// (typically a trailing newline) is ignored; every other rune must be '<' or '>'.
func ParseDeflections(raw string) ([]Deflection, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("empty deflection sequence: %w", ErrMalformedInput)
	}
	out := make([]Deflection, 0, len(trimmed))
	for i, ch := range trimmed {
		switch ch {
		case '<':
			out = append(out, DeflectLeft)
		case '>':
			out = append(out, DeflectRight)
		default:
			return nil, fmt.Errorf("offset %d: unexpected symbol %q: %w", i, ch, ErrMalformedInput)
		}
	}
	return out, nil
}

// LoadDeflections reads and parses a jet pattern file.
func LoadDeflections(path string) ([]Deflection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading deflection input: %w", err)
	}
	seq, err := ParseDeflections(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return seq, nil
}

// DeflectionSequence cycles through a fixed pattern. The cursor advances exactly once
// per attempted deflection, whether or not the push was blocked.
// NOT thread-safe; owned by a single simulation run.
type DeflectionSequence struct {
	pattern  []Deflection
	cursor   int
	consumed int64
}

// NewDeflectionSequence wraps a parsed pattern. The slice is shared read-only; it must
// not be modified while any sequence over it is in use.
func NewDeflectionSequence(pattern []Deflection) (*DeflectionSequence, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("empty deflection sequence: %w", ErrMalformedInput)
	}
	for i, d := range pattern {
		if d != DeflectLeft && d != DeflectRight {
			return nil, fmt.Errorf("offset %d: invalid deflection %d: %w", i, d, ErrMalformedInput)
		}
	}
	return &DeflectionSequence{pattern: pattern}, nil
}

// Next returns the deflection under the cursor and advances it with wraparound.
func (s *DeflectionSequence) Next() Deflection {
	d := s.pattern[s.cursor]
	s.cursor++
	if s.cursor == len(s.pattern) {
		s.cursor = 0
	}
	s.consumed++
	return d
}

// CurrentIndex is the pattern offset the next call to Next will return.
func (s *DeflectionSequence) CurrentIndex() int { return s.cursor }

// Len returns the pattern length.
func (s *DeflectionSequence) Len() int { return len(s.pattern) }

// Consumed returns the total number of deflections drawn so far.
func (s *DeflectionSequence) Consumed() int64 { return s.consumed }
