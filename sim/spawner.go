package sim

import (
	"math/rand"

	"github.com/milk9111/nightwalk/common"
	"github.com/milk9111/nightwalk/grid"
	"github.com/milk9111/nightwalk/npc"
)

// Population caps the living agents per kind. Interval is in seconds; zero
// disables timed spawning.
type Population struct {
	MaxCivilians      int
	MaxHunters        int
	Interval          float64
	MinPlayerDistance int
}

const spawnAttempts = 32

// Spawner tops up the population one agent per interval.
type Spawner struct {
	pop   Population
	timer common.Timer
	rng   *rand.Rand
}

func NewSpawner(pop Population, seed int64) *Spawner {
	return &Spawner{
		pop:   pop,
		timer: common.NewTimer(pop.Interval, true),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

func (s *Spawner) cap(k npc.Kind) int {
	if k == npc.KindHunter {
		return s.pop.MaxHunters
	}
	return s.pop.MaxCivilians
}

// Update spawns at most one agent when the interval elapses: the kind
// furthest below its cap, on a free cell away from the player.
func (s *Spawner) Update(w *World, dt float64) {
	if s == nil || s.pop.Interval <= 0 || !s.timer.Tick(dt) {
		return
	}
	kind, ok := s.pick(w.agents)
	if !ok {
		return
	}
	c, ok := s.findCell(w)
	if !ok {
		return
	}
	w.Spawn(kind, c)
}

func (s *Spawner) pick(agents *npc.Table) (npc.Kind, bool) {
	best, bestGap := npc.Kind(0), 0
	for _, k := range npc.Kinds() {
		if gap := s.cap(k) - agents.CountAlive(k); gap > bestGap {
			best, bestGap = k, gap
		}
	}
	return best, bestGap > 0
}

func (s *Spawner) findCell(w *World) (grid.Cell, bool) {
	g := w.oracle.Grid()
	if g == nil {
		return grid.Cell{}, false
	}
	playerCell := w.oracle.WorldToGrid(w.player.Position)
	minSq := s.pop.MinPlayerDistance * s.pop.MinPlayerDistance
	for i := 0; i < spawnAttempts; i++ {
		c := grid.Cell{X: s.rng.Intn(g.Width()), Y: s.rng.Intn(g.Height())}
		if !w.oracle.IsTraversable(c) || w.oracle.Occupied(c) {
			continue
		}
		if c.DistSq(playerCell) < minSq {
			continue
		}
		return c, true
	}
	return grid.Cell{}, false
}
