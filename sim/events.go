package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/daycycle"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/npc"
)

type EventKind int

const (
	EventSpawn EventKind = iota
	EventDespawn
	EventTransition
	EventSound
	EventProjectile
	EventPlayerHit
	EventKill
	EventLevelUp
	EventPhase
	EventPlayerDead
	EventDash
)

var eventNames = [...]string{
	"spawn", "despawn", "transition", "sound", "projectile",
	"player_hit", "kill", "level_up", "phase", "player_dead", "dash",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event is something a tick produced that outside consumers (the viewer, the
// CLI, audio) may react to. Only the fields relevant to Kind are set.
type Event struct {
	Tick     uint64
	Kind     EventKind
	Entity   ecs.Entity
	NPC      npc.Kind
	From, To npc.State
	Sound    npc.Sound
	Phase    daycycle.Phase
	Position cp.Vector
	Amount   float64
}
