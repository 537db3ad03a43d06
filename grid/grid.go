package grid

import (
	"errors"
	"fmt"
)

var ErrInvalidSize = errors.New("grid: invalid size")

// Cell is an integer grid coordinate.
type Cell struct {
	X int
	Y int
}

func (c Cell) Add(o Cell) Cell { return Cell{X: c.X + o.X, Y: c.Y + o.Y} }
func (c Cell) Sub(o Cell) Cell { return Cell{X: c.X - o.X, Y: c.Y - o.Y} }

// DistSq is the squared euclidean distance between two cells.
func (c Cell) DistSq(o Cell) int {
	dx, dy := c.X-o.X, c.Y-o.Y
	return dx*dx + dy*dy
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Grid is a width x height traversability matrix. true means passable.
type Grid struct {
	width  int
	height int
	cells  []bool
}

// New returns a fully traversable grid.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	cells := make([]bool, width*height)
	for i := range cells {
		cells[i] = true
	}
	return &Grid{width: width, height: height, cells: cells}, nil
}

// FromSolid builds a grid and punches a hole at every cell for which solid
// returns true.
func FromSolid(width, height int, solid func(x, y int) bool) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	if solid == nil {
		return g, nil
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if solid(x, y) {
				g.SetTraversable(Cell{X: x, Y: y}, false)
			}
		}
	}
	return g, nil
}

// Parse builds a grid from rows of text where '#' marks a blocked cell.
// Row 0 is y=0. All rows must share one length.
func Parse(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidSize)
	}
	width := len(rows[0])
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSize, i, len(r), width)
		}
	}
	return FromSolid(width, len(rows), func(x, y int) bool { return rows[y][x] == '#' })
}

func (g *Grid) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

func (g *Grid) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

// InBounds reports whether c lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return g != nil && c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// IsTraversable is false for every cell outside the grid.
func (g *Grid) IsTraversable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return g.cells[c.Y*g.width+c.X]
}

// SetTraversable changes one cell. Out-of-bounds cells are ignored.
func (g *Grid) SetTraversable(c Cell, ok bool) {
	if !g.InBounds(c) {
		return
	}
	g.cells[c.Y*g.width+c.X] = ok
}

// Count returns the number of traversable cells.
func (g *Grid) Count() int {
	if g == nil {
		return 0
	}
	n := 0
	for _, ok := range g.cells {
		if ok {
			n++
		}
	}
	return n
}
