package grid

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Transform maps between world positions and cells. Cell (0,0) starts at
// Origin. With FlipY set, world Y grows upward and row 0 is the top row of a
// map that is Rows cells tall.
type Transform struct {
	CellSize float64
	Origin   cp.Vector
	FlipY    bool
	Rows     int
}

func NewTransform(cellSize float64) Transform {
	return Transform{CellSize: cellSize}
}

// WorldToGrid returns the cell containing pos.
func (t Transform) WorldToGrid(pos cp.Vector) Cell {
	size := t.size()
	x := int(math.Floor((pos.X - t.Origin.X) / size))
	y := int(math.Floor((pos.Y - t.Origin.Y) / size))
	if t.FlipY {
		y = t.Rows - 1 - y
	}
	return Cell{X: x, Y: y}
}

// GridToWorld returns the centre of c.
func (t Transform) GridToWorld(c Cell) cp.Vector {
	size := t.size()
	y := c.Y
	if t.FlipY {
		y = t.Rows - 1 - y
	}
	return cp.Vector{
		X: t.Origin.X + (float64(c.X)+0.5)*size,
		Y: t.Origin.Y + (float64(y)+0.5)*size,
	}
}

func (t Transform) size() float64 {
	if t.CellSize <= 0 {
		return 1
	}
	return t.CellSize
}
