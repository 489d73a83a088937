package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalSettlements  int
	ShapeDistribution map[string]int // shape name → settlements traced
	CycleFound        bool
	CycleLength       int64
	CycleHeightDelta  int64
	SkippedObjects    int64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ShapeDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalSettlements = len(st.Settlements)
	for _, s := range st.Settlements {
		summary.ShapeDistribution[s.Shape]++
	}

	if len(st.Cycles) > 0 {
		c := st.Cycles[0]
		summary.CycleFound = true
		summary.CycleLength = c.Length
		summary.CycleHeightDelta = c.HeightDelta
		for _, r := range st.Cycles {
			summary.SkippedObjects += r.WholeCycles * r.Length
		}
	}

	return summary
}
