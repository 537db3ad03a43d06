package sim

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
	"github.com/milk9111/nightwalk/npc"
	"github.com/milk9111/nightwalk/pathfind"
	"github.com/milk9111/nightwalk/player"
)

// Autopilot plays the player in headless runs. At night it hunts the nearest
// agent and dashes into it; by day it keeps its distance.
type Autopilot struct {
	DashRange   float64
	FleeRadius  int
	RepathEvery float64

	path   pathfind.Path
	night  bool
	repath common.Timer
}

func NewAutopilot() *Autopilot {
	return &Autopilot{DashRange: 40, FleeRadius: 6, RepathEvery: 0.5}
}

// Input decides the player input for the next tick.
func (ap *Autopilot) Input(w *World, dt float64) player.Input {
	if ap.repath.Duration != ap.RepathEvery {
		ap.repath = common.NewTimer(ap.RepathEvery, true)
	}
	p := w.Player()
	target, ok := nearestAgent(w.Agents(), p.Position)
	if !ok || !p.Stats.Alive() {
		ap.path = nil
		return player.Input{}
	}

	night := w.Night()
	if night != ap.night || ap.repath.Tick(dt) {
		ap.night = night
		ap.path = nil
	}

	if night && target.Distance(p.Position) <= ap.DashRange {
		return player.Input{Move: target.Sub(p.Position), Dash: true}
	}

	oracle := w.Oracle()
	cell := oracle.WorldToGrid(p.Position)
	if ap.path == nil {
		targetCell := oracle.WorldToGrid(target)
		if night {
			ap.path, _ = w.Finder().FindPath(cell, targetCell, pathfind.IntentLook)
		} else {
			ap.path, _ = w.Finder().FindEscape(cell, targetCell, ap.FleeRadius*ap.FleeRadius)
		}
	}
	ap.path = ap.path.Advance(cell)
	next, ok := ap.path.Next()
	if !ok {
		return player.Input{}
	}
	return player.Input{Move: oracle.GridToWorld(next).Sub(p.Position)}
}

func nearestAgent(t *npc.Table, from cp.Vector) (cp.Vector, bool) {
	best := math.Inf(1)
	var at cp.Vector
	t.Each(func(a *npc.Agent) {
		if !a.Alive() {
			return
		}
		if d := a.Position.DistanceSq(from); d < best {
			best, at = d, a.Position
		}
	})
	return at, !math.IsInf(best, 1)
}
