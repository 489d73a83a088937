package sim

import (
	"context"
	"fmt"
	"slices"

	"github.com/inference-sim/tower-sim/sim/trace"
)

// Mismatch is a target whose accelerated height disagrees with direct simulation.
type Mismatch struct {
	Target      int64 `json:"target"`
	Direct      int64 `json:"direct"`
	Accelerated int64 `json:"accelerated"`
}

// VerifyReport summarizes a cross-check of the accelerated path against direct simulation.
type VerifyReport struct {
	Checked    int        `json:"checked"`
	Skipped    int        `json:"skipped"` // targets that were fast-forwarded
	Mismatches []Mismatch `json:"mismatches"`
}

// Verify simulates the largest target once without cycle detection, recording the
// height after every settlement, then runs each target through cfg and compares.
// Direct simulation is linear in the largest target, so keep targets modest.
func Verify(ctx context.Context, cfg SimConfig, pattern []Deflection, targets []int64, parallelism int) (VerifyReport, error) {
	if len(targets) == 0 {
		return VerifyReport{}, nil
	}
	for _, k := range targets {
		if k < 0 {
			return VerifyReport{}, fmt.Errorf("target must be >= 0, got %d: %w", k, ErrConfiguration)
		}
	}

	direct := cfg
	direct.DetectCycles = false
	direct.Trace = trace.TraceConfig{Level: trace.TraceLevelSettlements}
	ref, err := Simulate(direct, pattern, slices.Max(targets))
	if err != nil {
		return VerifyReport{}, fmt.Errorf("direct reference run: %w", err)
	}

	accel := cfg
	accel.Trace = trace.TraceConfig{}
	results, err := RunTargets(ctx, accel, pattern, targets, parallelism)
	if err != nil {
		return VerifyReport{}, err
	}

	report := VerifyReport{Checked: len(results), Mismatches: []Mismatch{}}
	for _, r := range results {
		want := int64(0)
		if r.Target > 0 {
			want = ref.Trace.Settlements[r.Target-1].Height
		}
		if r.Skip.Objects > 0 {
			report.Skipped++
		}
		if r.Height != want {
			report.Mismatches = append(report.Mismatches, Mismatch{Target: r.Target, Direct: want, Accelerated: r.Height})
		}
	}
	return report, nil
}
