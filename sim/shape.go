package sim

import (
	"fmt"
	"strings"
)

// Cell is an (x, y) offset from a shape's bottom-left anchor. Y grows upward.
type Cell struct {
	X int
	Y int
}

// Shape is an immutable polyomino. Cells are offsets relative to the anchor, with the
// lowest row at Y=0 and the leftmost column at X=0.
type Shape struct {
	Name  string
	Cells []Cell
}

// Width returns the number of columns the shape spans.
func (s Shape) Width() int {
	w := 0
	for _, c := range s.Cells {
		w = max(w, c.X+1)
	}
	return w
}

// Height returns the number of rows the shape spans.
func (s Shape) Height() int {
	h := 0
	for _, c := range s.Cells {
		h = max(h, c.Y+1)
	}
	return h
}

// DefaultCatalog returns the five-shape catalog in drop order:
//
//	####    .#.    ..#    #    ##
//	        ###    ..#    #    ##
//	        .#.    ###    #
//	                      #
func DefaultCatalog() []Shape {
	return []Shape{
		{Name: "hbar", Cells: []Cell{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
		{Name: "plus", Cells: []Cell{{1, 0}, {0, 1}, {1, 1}, {2, 1}, {1, 2}}},
		{Name: "ell", Cells: []Cell{{0, 0}, {1, 0}, {2, 0}, {2, 1}, {2, 2}}},
		{Name: "vbar", Cells: []Cell{{0, 0}, {0, 1}, {0, 2}, {0, 3}}},
		{Name: "square", Cells: []Cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	}
}

// ParseShape builds a shape from a picture, top row first. '#' marks a filled cell and
// '.' an empty one. Empty rows and columns around the picture are trimmed so the
// anchor is always the bottom-left of the bounding box.
func ParseShape(name string, rows []string) (Shape, error) {
	if len(rows) == 0 {
		return Shape{}, fmt.Errorf("shape %q: no rows: %w", name, ErrConfiguration)
	}
	var cells []Cell
	for r, row := range rows {
		y := len(rows) - 1 - r
		for x, ch := range row {
			switch ch {
			case '#':
				cells = append(cells, Cell{X: x, Y: y})
			case '.':
			default:
				return Shape{}, fmt.Errorf("shape %q: row %d: unexpected %q (want '#' or '.'): %w",
					name, r, ch, ErrConfiguration)
			}
		}
	}
	if len(cells) == 0 {
		return Shape{}, fmt.Errorf("shape %q: no filled cells: %w", name, ErrConfiguration)
	}

	minX, minY := cells[0].X, cells[0].Y
	for _, c := range cells {
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
	}
	for i := range cells {
		cells[i].X -= minX
		cells[i].Y -= minY
	}
	return Shape{Name: name, Cells: cells}, nil
}

// String renders the shape as a picture, top row first, rows joined by '/'.
func (s Shape) String() string {
	w, h := s.Width(), s.Height()
	grid := make([][]byte, h)
	for i := range grid {
		grid[i] = []byte(strings.Repeat(".", w))
	}
	for _, c := range s.Cells {
		grid[h-1-c.Y][c.X] = '#'
	}
	rows := make([]string, h)
	for i, r := range grid {
		rows[i] = string(r)
	}
	return strings.Join(rows, "/")
}

// ShapeLibrary cycles round-robin through a fixed catalog.
// NOT thread-safe; owned by a single simulation run.
type ShapeLibrary struct {
	catalog []Shape
	next    int
}

// NewShapeLibrary wraps a catalog. An empty catalog cannot drop anything.
func NewShapeLibrary(catalog []Shape) (*ShapeLibrary, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("empty shape catalog: %w", ErrConfiguration)
	}
	for i, s := range catalog {
		if len(s.Cells) == 0 {
			return nil, fmt.Errorf("catalog entry %d (%q) has no cells: %w", i, s.Name, ErrConfiguration)
		}
	}
	return &ShapeLibrary{catalog: catalog}, nil
}

// Next returns the shape under the cursor and advances it with wraparound.
func (l *ShapeLibrary) Next() Shape {
	s := l.catalog[l.next]
	l.next = (l.next + 1) % len(l.catalog)
	return s
}

// CurrentIndex is the catalog index the next call to Next will return.
func (l *ShapeLibrary) CurrentIndex() int { return l.next }

// Len returns the catalog size.
func (l *ShapeLibrary) Len() int { return len(l.catalog) }

// MaxWidth returns the width of the widest catalog shape.
func (l *ShapeLibrary) MaxWidth() int { return catalogMaxWidth(l.catalog) }

func catalogMaxWidth(catalog []Shape) int {
	w := 0
	for _, s := range catalog {
		w = max(w, s.Width())
	}
	return w
}
