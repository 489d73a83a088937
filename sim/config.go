package sim

import (
	"fmt"

	"github.com/inference-sim/tower-sim/sim/trace"
)

// Chamber geometry and spawn placement used when nothing else is configured.
const (
	DefaultWidth    = 7
	DefaultSpawnX   = 2 // empty columns between the left wall and a spawned shape
	DefaultSpawnGap = 3 // empty rows between the tower top and a spawned shape
)

// ChamberConfig groups chamber geometry and spawn placement.
type ChamberConfig struct {
	Width    int // column count (must be > 0)
	SpawnX   int // anchor column for new shapes (must be >= 0)
	SpawnGap int // empty rows left above the highest occupied row (must be >= 0)
}

// NewChamberConfig creates a ChamberConfig with all fields explicitly set.
func NewChamberConfig(width, spawnX, spawnGap int) ChamberConfig {
	return ChamberConfig{Width: width, SpawnX: spawnX, SpawnGap: spawnGap}
}

// SimConfig holds everything a run needs besides the deflection sequence. It is
// immutable once a Simulator is built from it.
type SimConfig struct {
	Chamber       ChamberConfig
	Catalog       []Shape // drop order; shared read-only between runs
	DetectCycles  bool    // false forces pure direct simulation
	ConfirmCycles bool    // require a repeat to hold for one more period before skipping
	Trace         trace.TraceConfig
}

// DefaultSimConfig returns the 7-wide chamber with the standard five-shape catalog and
// confirmed cycle detection enabled.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Chamber:       NewChamberConfig(DefaultWidth, DefaultSpawnX, DefaultSpawnGap),
		Catalog:       DefaultCatalog(),
		DetectCycles:  true,
		ConfirmCycles: true,
	}
}

// Validate rejects configurations in which a spawned shape could not be placed inside
// the chamber, which would make settlement impossible.
func (c SimConfig) Validate() error {
	if c.Chamber.Width < 1 {
		return fmt.Errorf("chamber width must be >= 1, got %d: %w", c.Chamber.Width, ErrConfiguration)
	}
	if c.Chamber.SpawnX < 0 {
		return fmt.Errorf("spawn x must be >= 0, got %d: %w", c.Chamber.SpawnX, ErrConfiguration)
	}
	if c.Chamber.SpawnGap < 0 {
		return fmt.Errorf("spawn gap must be >= 0, got %d: %w", c.Chamber.SpawnGap, ErrConfiguration)
	}
	if len(c.Catalog) == 0 {
		return fmt.Errorf("empty shape catalog: %w", ErrConfiguration)
	}
	widest := catalogMaxWidth(c.Catalog)
	if widest > c.Chamber.Width {
		return fmt.Errorf("chamber width %d is smaller than widest shape (%d): %w",
			c.Chamber.Width, widest, ErrConfiguration)
	}
	if c.Chamber.SpawnX+widest > c.Chamber.Width {
		return fmt.Errorf("shape of width %d spawned at x=%d does not fit in width %d: %w",
			widest, c.Chamber.SpawnX, c.Chamber.Width, ErrConfiguration)
	}
	if !trace.IsValidTraceLevel(string(c.Trace.Level)) {
		return fmt.Errorf("unknown trace level %q: %w", c.Trace.Level, ErrConfiguration)
	}
	return nil
}
