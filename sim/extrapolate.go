package sim

import (
	"fmt"
	"math"
)

// Skip is the arithmetic fast-forward computed from a cycle.
type Skip struct {
	WholeCycles int64 // repetitions skipped
	Objects     int64 // objects accounted for without simulation
	Height      int64 // height those objects add
	Remainder   int64 // objects still to simulate directly afterwards
}

// Extrapolate computes how far a cycle carries the run from settledNow towards target.
// The remainder is left for direct simulation.
func Extrapolate(c Cycle, settledNow, target int64) (Skip, error) {
	if c.Length <= 0 {
		return Skip{}, fmt.Errorf("cycle length must be positive, got %d: %w", c.Length, ErrConfiguration)
	}
	remaining := target - settledNow
	if remaining <= 0 {
		return Skip{}, nil
	}
	whole := remaining / c.Length
	if c.HeightDelta > 0 && whole > math.MaxInt64/c.HeightDelta {
		return Skip{}, fmt.Errorf("%d cycles of height %d: %w", whole, c.HeightDelta, ErrArithmeticOverflow)
	}
	return Skip{
		WholeCycles: whole,
		Objects:     whole * c.Length,
		Height:      whole * c.HeightDelta,
		Remainder:   remaining % c.Length,
	}, nil
}
