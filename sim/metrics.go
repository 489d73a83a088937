// Tracks per-run counters such as objects simulated versus skipped and jet activity.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Metrics aggregates statistics about one simulation run for final reporting.
type Metrics struct {
	SimulatedObjects int64         `json:"simulated_objects"` // objects dropped step by step
	SkippedObjects   int64         `json:"skipped_objects"`   // objects accounted for by extrapolation
	JetsApplied      int64         `json:"jets_applied"`
	JetsBlocked      int64         `json:"jets_blocked"`
	FallSteps        int64         `json:"fall_steps"`
	RejectedCycles   int64         `json:"rejected_cycles"` // repeats that failed confirmation
	Fingerprints     int           `json:"fingerprints"`    // distinct cycle keys recorded
	OccupiedCells    int           `json:"occupied_cells"`
	Duration         time.Duration `json:"-"`
}

func (m *Metrics) addDrop(r DropResult) {
	m.SimulatedObjects++
	m.JetsApplied += r.JetsApplied
	m.JetsBlocked += r.JetsBlocked
	m.FallSteps += r.FallSteps
}

// Print writes the metrics as an indented JSON block under a header.
func (m *Metrics) Print(w io.Writer, target int64) error {
	out := struct {
		Target int64 `json:"target"`
		*Metrics
		DurationS float64 `json:"simulation_duration_s"`
	}{Target: target, Metrics: m, DurationS: m.Duration.Seconds()}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling metrics: %w", err)
	}
	if _, err := fmt.Fprintf(w, "=== Simulation Metrics ===\n%s\n", data); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
