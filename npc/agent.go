package npc

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/grid"
	"github.com/milk9111/nightwalk/movement"
	"github.com/milk9111/nightwalk/pathfind"
)

// Agent is one civilian or hunter.
type Agent struct {
	ID    ecs.Entity
	Kind  Kind
	State State

	// Position is written by the mover each tick and only read here.
	Position cp.Vector

	Path pathfind.Path
	// Goal is the cell Path was planned toward.
	Goal grid.Cell

	Motion movement.Integrator
	Facing Facing

	LastKnownPlayer grid.Cell
	// Retreating marks an escape started by a ranged agent backing off
	// rather than by the day/night rule.
	Retreating bool

	ChillTimer  common.Timer
	AttackTimer common.Timer
	ThrowTimer  common.Timer
}

func NewAgent(id ecs.Entity, kind Kind, pos cp.Vector, kt KindTuning) Agent {
	return Agent{
		ID:          id,
		Kind:        kind,
		State:       StateChill,
		Position:    pos,
		Facing:      FacingDown,
		ChillTimer:  common.NewTimer(kt.ChillInterval, true),
		AttackTimer: common.NewTimer(kt.MeleeWindup, false),
		ThrowTimer:  common.NewTimer(kt.ThrowInterval, true),
	}
}

func (a *Agent) Alive() bool {
	return a != nil && a.State != StateDead
}

// Table holds agents keyed by entity, iterated in insertion order.
type Table struct {
	agents ecs.SparseSet[Agent]
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Insert(a Agent) {
	t.agents.Set(a.ID, a)
}

func (t *Table) Get(id ecs.Entity) (*Agent, bool) {
	return t.agents.Get(id)
}

func (t *Table) Remove(id ecs.Entity) bool {
	return t.agents.Remove(id)
}

// Kill moves an agent to the terminal Dead state.
func (t *Table) Kill(id ecs.Entity) bool {
	a, ok := t.agents.Get(id)
	if !ok || a.State == StateDead {
		return false
	}
	a.State = StateDead
	a.Path = nil
	a.Retreating = false
	a.Motion.Reset()
	return true
}

// Each visits every agent, dead ones included.
func (t *Table) Each(fn func(a *Agent)) {
	t.agents.Each(func(_ ecs.Entity, a *Agent) { fn(a) })
}

func (t *Table) Len() int {
	return t.agents.Len()
}

// CountAlive returns the number of living agents of kind k.
func (t *Table) CountAlive(k Kind) int {
	n := 0
	t.Each(func(a *Agent) {
		if a.Kind == k && a.Alive() {
			n++
		}
	})
	return n
}

// Dead returns the ids of agents in the Dead state.
func (t *Table) Dead() []ecs.Entity {
	var out []ecs.Entity
	t.Each(func(a *Agent) {
		if a.State == StateDead {
			out = append(out, a.ID)
		}
	})
	return out
}

// AppendPositions appends the positions of living agents to dst.
func (t *Table) AppendPositions(dst []cp.Vector) []cp.Vector {
	t.Each(func(a *Agent) {
		if a.Alive() {
			dst = append(dst, a.Position)
		}
	})
	return dst
}
