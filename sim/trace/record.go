// Package trace provides run-trace recording for post-hoc analysis of a simulation.
// It imports nothing from sim/; records are plain values.
package trace

// SettleRecord captures one object coming to rest.
type SettleRecord struct {
	Index      int64  // 1-based settled count after this object
	Shape      string // catalog name of the shape
	ShapeIndex int    // catalog index of the shape that settled
	JetCursor  int    // deflection cursor right after settling
	X, Y       int64  // resting anchor
	Height     int64  // chamber height after settling
}

// CycleRecord captures a detected recurrence and the fast-forward derived from it.
type CycleRecord struct {
	DetectedAt  int64 // settled count when the repeat was seen
	ConfirmedAt int64 // settled count the skip was taken from; equals DetectedAt without confirmation
	Start       int64 // settled count at the first occurrence
	Length      int64 // objects per cycle
	HeightDelta int64 // height per cycle
	WholeCycles int64 // cycles skipped (0 when the target was already close)
	SkipHeight  int64 // height added arithmetically
	Remainder   int64 // objects simulated directly after the skip
}
