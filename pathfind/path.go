package pathfind

import "github.com/milk9111/nightwalk/grid"

// Path is an ordered list of cells whose head is the cell the walker is in.
type Path []grid.Cell

// Advance drops the head once current has reached the next cell. It returns
// nil when fewer than two cells remain, which means the walker has arrived.
func (p Path) Advance(current grid.Cell) Path {
	if len(p) >= 2 && p[1] == current {
		p = p[1:]
	}
	if len(p) < 2 {
		return nil
	}
	return p
}

// Next returns the first cell after the head.
func (p Path) Next() (grid.Cell, bool) {
	if len(p) < 2 {
		return grid.Cell{}, false
	}
	return p[1], true
}

// Last returns the final cell.
func (p Path) Last() (grid.Cell, bool) {
	if len(p) == 0 {
		return grid.Cell{}, false
	}
	return p[len(p)-1], true
}
