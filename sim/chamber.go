package sim

import (
	"fmt"
	"strings"
)

// FloorRow is the row index directly below the lowest usable row. An empty chamber's
// highest occupied row is FloorRow.
const FloorRow int64 = -1

// UntouchedDepth is the skyline depth reported for a column nothing has settled in yet.
// Real depths are always >= 0, so the sentinel never aliases a touched column.
const UntouchedDepth int64 = -1

// Profile is the skyline: for every column, how far its top cell sits below the
// chamber's highest occupied row. Its length equals the chamber width regardless of
// tower height.
type Profile []int64

// Chamber stores settled cells for a fixed-width, unbounded-height shaft.
// Occupancy is hashed on a packed integer key; per-column tops are updated at settle
// time so no operation ever scans the tower.
// NOT thread-safe; owned by a single simulation run.
type Chamber struct {
	width     int64
	occupied  map[int64]struct{}
	columnTop []int64
	highest   int64
}

// NewChamber creates an empty chamber. Width must be positive.
func NewChamber(width int) (*Chamber, error) {
	if width < 1 {
		return nil, fmt.Errorf("chamber width must be >= 1, got %d: %w", width, ErrConfiguration)
	}
	tops := make([]int64, width)
	for i := range tops {
		tops[i] = FloorRow
	}
	return &Chamber{
		width:     int64(width),
		occupied:  make(map[int64]struct{}),
		columnTop: tops,
		highest:   FloorRow,
	}, nil
}

func (c *Chamber) key(x, y int64) int64 { return y*c.width + x }

// Collides reports whether shape anchored at (x, y) would overlap a wall, the floor,
// or a settled cell.
func (c *Chamber) Collides(s Shape, x, y int64) bool {
	for _, cell := range s.Cells {
		cx, cy := x+int64(cell.X), y+int64(cell.Y)
		if cx < 0 || cx >= c.width || cy <= FloorRow {
			return true
		}
		if _, ok := c.occupied[c.key(cx, cy)]; ok {
			return true
		}
	}
	return false
}

// Settle merges the shape anchored at (x, y) into the occupancy. The caller must have
// established that the position does not collide.
func (c *Chamber) Settle(s Shape, x, y int64) {
	for _, cell := range s.Cells {
		cx, cy := x+int64(cell.X), y+int64(cell.Y)
		c.occupied[c.key(cx, cy)] = struct{}{}
		if cy > c.columnTop[cx] {
			c.columnTop[cx] = cy
		}
		if cy > c.highest {
			c.highest = cy
		}
	}
}

// Highest returns the topmost occupied row, or FloorRow when empty.
func (c *Chamber) Highest() int64 { return c.highest }

// Height returns the number of rows from the floor to the topmost occupied row.
func (c *Chamber) Height() int64 { return c.highest - FloorRow }

// Width returns the column count.
func (c *Chamber) Width() int { return int(c.width) }

// Occupied returns the number of settled cells.
func (c *Chamber) Occupied() int { return len(c.occupied) }

// Profile returns the current skyline. Untouched columns report UntouchedDepth.
func (c *Chamber) Profile() Profile {
	p := make(Profile, c.width)
	for x, top := range c.columnTop {
		if top == FloorRow {
			p[x] = UntouchedDepth
			continue
		}
		p[x] = c.highest - top
	}
	return p
}

// Render draws the top rows of the chamber, highest first, with walls and (when the
// bottom row is included) the floor. An optional falling object is drawn with '@'.
func (c *Chamber) Render(rows int, falling *FallingObject) string {
	top := c.highest
	if falling != nil {
		top = max(top, falling.Y+int64(falling.Shape.Height())-1)
	}
	bottom := max(top-int64(rows)+1, 0)

	moving := make(map[int64]struct{})
	if falling != nil {
		for _, cell := range falling.Shape.Cells {
			moving[c.key(falling.X+int64(cell.X), falling.Y+int64(cell.Y))] = struct{}{}
		}
	}

	var b strings.Builder
	for y := top; y >= bottom; y-- {
		b.WriteByte('|')
		for x := int64(0); x < c.width; x++ {
			k := c.key(x, y)
			if _, ok := moving[k]; ok {
				b.WriteByte('@')
			} else if _, ok := c.occupied[k]; ok {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteString("|\n")
	}
	if bottom == 0 {
		b.WriteString("+" + strings.Repeat("-", int(c.width)) + "+\n")
	}
	return b.String()
}
