package trace

// TraceLevel controls the verbosity of run tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelCycles captures the detected cycle and the fast-forward applied.
	TraceLevelCycles TraceLevel = "cycles"
	// TraceLevelSettlements additionally captures every directly simulated settlement.
	TraceLevelSettlements TraceLevel = "settlements"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelCycles:      true,
	TraceLevelSettlements: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether any records are collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelCycles || c.Level == TraceLevelSettlements
}

// SimulationTrace collects records during one simulation run.
type SimulationTrace struct {
	Config      TraceConfig
	Settlements []SettleRecord
	Cycles      []CycleRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Settlements: make([]SettleRecord, 0),
		Cycles:      make([]CycleRecord, 0),
	}
}

// RecordSettlement appends a settlement record when the level asks for it.
func (st *SimulationTrace) RecordSettlement(record SettleRecord) {
	if st.Config.Level != TraceLevelSettlements {
		return
	}
	st.Settlements = append(st.Settlements, record)
}

// RecordCycle appends a cycle record.
func (st *SimulationTrace) RecordCycle(record CycleRecord) {
	if !st.Config.Enabled() {
		return
	}
	st.Cycles = append(st.Cycles, record)
}
