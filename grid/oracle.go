package grid

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/levels"
)

// Oracle bundles the static grid, its transform and the per-tick occupancy.
// Until Load is called every query answers as if nothing were traversable.
type Oracle struct {
	grid      *Grid
	transform Transform
	occupancy *Occupancy
	ready     bool
}

func NewOracle() *Oracle {
	return &Oracle{occupancy: NewOccupancy()}
}

// Load installs a grid and transform and marks the oracle ready. The
// transform is fixed until the next Load.
func (o *Oracle) Load(g *Grid, t Transform) {
	if o == nil || g == nil {
		return
	}
	o.grid = g
	o.transform = t
	if o.occupancy == nil {
		o.occupancy = NewOccupancy()
	}
	o.occupancy.Reset()
	o.ready = true
}

// FromLevel builds a ready oracle from a level's physics layers.
func FromLevel(lvl *levels.Level, cellSize float64) (*Oracle, error) {
	if lvl == nil {
		return nil, fmt.Errorf("grid: nil level")
	}
	g, err := FromSolid(lvl.Width, lvl.Height, lvl.Solid)
	if err != nil {
		return nil, fmt.Errorf("grid: build from level: %w", err)
	}
	o := NewOracle()
	o.Load(g, NewTransform(cellSize))
	return o, nil
}

func (o *Oracle) Ready() bool {
	return o != nil && o.ready
}

func (o *Oracle) IsTraversable(c Cell) bool {
	if !o.Ready() {
		return false
	}
	return o.grid.IsTraversable(c)
}

// Occupied reports dynamic occupancy for the current tick.
func (o *Oracle) Occupied(c Cell) bool {
	if !o.Ready() {
		return false
	}
	return o.occupancy.Occupied(c)
}

func (o *Oracle) WorldToGrid(pos cp.Vector) Cell {
	if o == nil {
		return Cell{}
	}
	return o.transform.WorldToGrid(pos)
}

func (o *Oracle) GridToWorld(c Cell) cp.Vector {
	if o == nil {
		return cp.Vector{}
	}
	return o.transform.GridToWorld(c)
}

// RefreshOccupancy clears and repopulates the occupancy set.
func (o *Oracle) RefreshOccupancy(positions []cp.Vector) {
	if !o.Ready() {
		return
	}
	o.occupancy.Rebuild(o.transform, positions)
}

func (o *Oracle) Grid() *Grid {
	if o == nil {
		return nil
	}
	return o.grid
}

func (o *Oracle) Occupancy() *Occupancy {
	if o == nil {
		return nil
	}
	return o.occupancy
}
