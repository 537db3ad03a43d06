package grid

import "github.com/jakecoffman/cp"

// Occupancy counts moving bodies per cell. It is rebuilt from scratch every
// tick before any agent reads it.
type Occupancy struct {
	counts map[Cell]int
}

func NewOccupancy() *Occupancy {
	return &Occupancy{counts: make(map[Cell]int)}
}

// Reset clears the set.
func (o *Occupancy) Reset() {
	if o == nil {
		return
	}
	clear(o.counts)
}

func (o *Occupancy) Add(c Cell) {
	if o == nil {
		return
	}
	if o.counts == nil {
		o.counts = make(map[Cell]int)
	}
	o.counts[c]++
}

// Rebuild replaces the set with the cells containing positions.
func (o *Occupancy) Rebuild(t Transform, positions []cp.Vector) {
	o.Reset()
	for _, p := range positions {
		o.Add(t.WorldToGrid(p))
	}
}

func (o *Occupancy) Occupied(c Cell) bool {
	return o != nil && o.counts[c] > 0
}

func (o *Occupancy) Count(c Cell) int {
	if o == nil {
		return 0
	}
	return o.counts[c]
}

func (o *Occupancy) Len() int {
	if o == nil {
		return 0
	}
	return len(o.counts)
}
