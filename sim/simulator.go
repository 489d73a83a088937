// sim/simulator.go
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/tower-sim/sim/trace"
)

// Result is the outcome of one run towards a target object count.
type Result struct {
	RunID   string
	Target  int64
	Height  int64  // rows from the floor to the topmost occupied row, including extrapolated rows
	Cycle   *Cycle // nil when no repeat was seen before the target was reached
	Skip    Skip   // zero when no fast-forward happened
	Metrics Metrics
	Trace   *trace.SimulationTrace // nil unless tracing is enabled
}

// Simulator owns every piece of mutable state for exactly one run: the chamber, both
// cursors and the cycle record. Only the catalog and the deflection pattern are shared,
// read-only, with other simulators.
type Simulator struct {
	cfg      SimConfig
	runID    string
	chamber  *Chamber
	shapes   *ShapeLibrary
	jets     *DeflectionSequence
	drop     *DropController
	detector *CycleDetector
	heights  []int64 // height after each settlement, indexed by settled count, while observing
	trace    *trace.SimulationTrace
	log      *logrus.Entry
	ran      bool
}

// NewSimulator validates cfg and builds fresh run state over the given pattern.
func NewSimulator(cfg SimConfig, pattern []Deflection) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	jets, err := NewDeflectionSequence(pattern)
	if err != nil {
		return nil, err
	}
	shapes, err := NewShapeLibrary(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	chamber, err := NewChamber(cfg.Chamber.Width)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	s := &Simulator{
		cfg:      cfg,
		runID:    id,
		chamber:  chamber,
		shapes:   shapes,
		jets:     jets,
		drop:     NewDropController(chamber, jets, cfg.Chamber.SpawnX, cfg.Chamber.SpawnGap),
		detector: NewCycleDetector(),
		log:      logrus.WithField("run", id),
	}
	if cfg.Trace.Enabled() {
		s.trace = trace.NewSimulationTrace(cfg.Trace)
	}
	return s, nil
}

// Chamber exposes the run's chamber for inspection after Run.
func (s *Simulator) Chamber() *Chamber { return s.chamber }

// pendingCycle is a fingerprint repeat waiting for one more period of confirmation.
type pendingCycle struct {
	key        CycleKey
	cycle      Cycle
	detectedAt int64
}

// confirmed reports whether the period after detection repeated the period before it:
// the same per-object height gains and the same fingerprint at its end. The skyline
// cannot see overhangs, so a single repeat can occasionally be spurious.
func (s *Simulator) confirmed(p pendingCycle, key CycleKey) bool {
	if key != p.key {
		return false
	}
	start, n := p.cycle.Start, p.detectedAt
	for i := int64(1); i <= p.cycle.Length; i++ {
		if s.heights[n+i]-s.heights[n+i-1] != s.heights[start+i]-s.heights[start+i-1] {
			return false
		}
	}
	return true
}

// Run drops shapes until target objects have settled and returns the final height.
// The first (confirmed) fingerprint repeat fast-forwards over as many whole cycles as
// fit; the remainder is simulated directly with no further skipping.
func (s *Simulator) Run(target int64) (Result, error) {
	if s.ran {
		return Result{}, ErrAlreadyRun
	}
	s.ran = true
	if target < 0 {
		return Result{}, fmt.Errorf("target must be >= 0, got %d: %w", target, ErrConfiguration)
	}

	start := time.Now()
	res := Result{RunID: s.runID, Target: target, Trace: s.trace}
	s.log.Debugf("starting run: target=%d width=%d shapes=%d jets=%d",
		target, s.chamber.Width(), s.shapes.Len(), s.jets.Len())

	var settled, bonus int64
	var pending *pendingCycle
	observing := s.cfg.DetectCycles
	s.heights = append(s.heights[:0], 0)
	for settled < target {
		shapeIdx := s.shapes.CurrentIndex()
		shape := s.shapes.Next()
		drop := s.drop.Drop(shape)
		settled++
		height := s.chamber.Height()
		res.Metrics.addDrop(drop)

		if s.trace != nil {
			s.trace.RecordSettlement(trace.SettleRecord{
				Index:      settled,
				Shape:      shape.Name,
				ShapeIndex: shapeIdx,
				JetCursor:  s.jets.CurrentIndex(),
				X:          drop.X,
				Y:          drop.Y,
				Height:     height,
			})
		}
		if logrus.IsLevelEnabled(logrus.TraceLevel) {
			s.log.Tracef("settled #%d %s at (%d,%d) height=%d", settled, shape.Name, drop.X, drop.Y, height)
		}

		if !observing {
			continue
		}
		s.heights = append(s.heights, height)
		key := NewCycleKey(s.shapes.CurrentIndex(), s.jets.CurrentIndex(), s.chamber.Profile())

		var cycle Cycle
		var detectedAt int64
		if pending != nil {
			if settled < pending.detectedAt+pending.cycle.Length {
				s.detector.Observe(key, settled, height)
				continue
			}
			p := *pending
			pending = nil
			if !s.confirmed(p, key) {
				res.Metrics.RejectedCycles++
				s.log.Debugf("cycle from #%d (length %d) not confirmed at #%d", p.cycle.Start, p.cycle.Length, settled)
				s.detector.Observe(key, settled, height)
				continue
			}
			cycle, detectedAt = p.cycle, p.detectedAt
		} else {
			var hit bool
			cycle, hit = s.detector.Observe(key, settled, height)
			if !hit {
				continue
			}
			detectedAt = settled
			if s.cfg.ConfirmCycles && settled < target {
				pending = &pendingCycle{key: key, cycle: cycle, detectedAt: settled}
				continue
			}
		}
		if settled >= target {
			continue
		}

		skip, err := Extrapolate(cycle, settled, target)
		if err != nil {
			return Result{}, err
		}
		observing = false
		s.log.Debugf("cycle at #%d: start=%d length=%d delta=%d; skipping %d cycles from #%d, %d left to simulate",
			detectedAt, cycle.Start, cycle.Length, cycle.HeightDelta, skip.WholeCycles, settled, skip.Remainder)
		if s.trace != nil {
			s.trace.RecordCycle(trace.CycleRecord{
				DetectedAt:  detectedAt,
				ConfirmedAt: settled,
				Start:       cycle.Start,
				Length:      cycle.Length,
				HeightDelta: cycle.HeightDelta,
				WholeCycles: skip.WholeCycles,
				SkipHeight:  skip.Height,
				Remainder:   skip.Remainder,
			})
		}
		settled += skip.Objects
		bonus += skip.Height
		res.Cycle = &cycle
		res.Skip = skip
		res.Metrics.SkippedObjects = skip.Objects
		s.heights = nil
	}

	height := s.chamber.Height()
	if bonus > math.MaxInt64-height {
		return Result{}, fmt.Errorf("height %d + %d: %w", height, bonus, ErrArithmeticOverflow)
	}
	res.Height = height + bonus
	res.Metrics.Fingerprints = s.detector.Seen()
	res.Metrics.OccupiedCells = s.chamber.Occupied()
	res.Metrics.Duration = time.Since(start)
	s.log.Debugf("run finished: target=%d height=%d simulated=%d skipped=%d",
		target, res.Height, res.Metrics.SimulatedObjects, res.Metrics.SkippedObjects)
	return res, nil
}

// Simulate builds a fresh simulator and runs it to target.
func Simulate(cfg SimConfig, pattern []Deflection, target int64) (Result, error) {
	s, err := NewSimulator(cfg, pattern)
	if err != nil {
		return Result{}, err
	}
	return s.Run(target)
}
