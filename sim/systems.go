package sim

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/npc"
	"github.com/milk9111/nightwalk/perception"
	"github.com/milk9111/nightwalk/physics"
	"go.uber.org/zap"
)

// Tick phases, in scheduler order.

func updateDayCycle(w *World, dt float64) {
	if !w.cycle.Tick(dt) {
		return
	}
	phase := w.cycle.Phase()
	w.emit(Event{Kind: EventPhase, Phase: phase})
	w.log.Info("phase change", zap.Stringer("phase", phase), zap.Uint64("tick", w.tick))
}

func updateSpawner(w *World, dt float64) {
	w.spawner.Update(w, dt)
}

// updateOccupancy snapshots agent cells before spawning or planning.
func updateOccupancy(w *World, _ float64) {
	w.positions = w.agents.AppendPositions(w.positions[:0])
	w.oracle.RefreshOccupancy(w.positions)
}

func updatePlayer(w *World, dt float64) {
	p := &w.player
	p.Stats.Regen(dt)
	v, dashed := p.Controller.Update(w.input, p.Stats, dt)
	w.space.SetVelocity(p.ID, v)
	if dashed {
		w.emit(Event{Kind: EventDash, Entity: p.ID, Position: p.Position})
		w.log.Debug("dash", zap.Uint64("tick", w.tick))
	}
}

func updateAgents(w *World, dt float64) {
	p := &w.player
	snap := npc.PlayerSnapshot{
		Position: p.Position,
		Velocity: p.Controller.Velocity(),
		ID:       p.ID,
		Night:    w.cycle.IsNight(),
	}
	alive := p.Stats.Alive()
	tuning := w.brain.Tuning()

	w.agents.Each(func(a *npc.Agent) {
		if !a.Alive() {
			return
		}
		kt := tuning.For(a.Kind)
		visible := alive && perception.CanSee(w.space, a.Position, p.Position, p.ID, kt.SpotDistance)
		out := w.brain.Update(a, npc.Tick{
			DT:      dt,
			Player:  snap,
			Visible: visible,
			Combat:  combatSink{w: w, kt: kt},
		})
		w.intents[a.ID] = out
		w.space.SetVelocity(a.ID, out.Velocity)

		if out.Changed() {
			w.emit(Event{Kind: EventTransition, Entity: a.ID, NPC: a.Kind, From: out.From, To: out.To, Position: a.Position})
			w.log.Debug("transition",
				zap.Stringer("entity", a.ID),
				zap.Stringer("kind", a.Kind),
				zap.Stringer("from", out.From),
				zap.Stringer("to", out.To),
			)
		}
		for _, s := range out.Sounds {
			w.emit(Event{Kind: EventSound, Entity: a.ID, NPC: a.Kind, Sound: s, Position: a.Position})
		}
	})
}

// updatePhysics steps the space and copies body positions back.
func updatePhysics(w *World, dt float64) {
	w.space.Step(dt)
	if pos, ok := w.space.Position(w.player.ID); ok {
		w.player.Position = pos
	}
	w.agents.Each(func(a *npc.Agent) {
		if pos, ok := w.space.Position(a.ID); ok {
			a.Position = pos
		}
	})
}

// updateContacts kills the agent a dashing player runs into.
func updateContacts(w *World, _ float64) {
	p := &w.player
	if !p.Stats.Alive() || !p.Controller.Dashing() {
		return
	}
	id, ok := w.space.NearestNPC(p.Position, physics.BodyRadius)
	if !ok {
		return
	}
	a, ok := w.agents.Get(id)
	if !ok || !a.Alive() {
		return
	}
	kt := w.brain.Tuning().For(a.Kind)
	w.agents.Kill(id)
	w.space.SetVelocity(id, cp.Vector{})
	levels := p.Stats.AwardKill(kt.KillXP, kt.KillScore)
	w.emit(Event{Kind: EventKill, Entity: id, NPC: a.Kind, Position: a.Position, Amount: kt.KillScore})
	w.log.Info("kill", zap.Stringer("entity", id), zap.Stringer("kind", a.Kind), zap.Float64("score", p.Stats.Score))
	if levels > 0 {
		w.emit(Event{Kind: EventLevelUp, Entity: p.ID, Amount: float64(p.Stats.Level)})
		w.log.Info("level up", zap.Int("level", p.Stats.Level), zap.Int("upgrades", p.Stats.Upgrades))
	}
}

func updateProjectiles(w *World, dt float64) {
	var spent []ecs.Entity
	w.projectiles.Each(func(id ecs.Entity, pr *Projectile) {
		if pr.TTL.Tick(dt) {
			spent = append(spent, id)
			return
		}
		next := pr.Position.Add(pr.Velocity.Mult(dt))
		hit, at, ok := w.space.Sweep(pr.Position, next, projectileRadius)
		if !ok {
			pr.Position = next
			return
		}
		pr.Position = at
		spent = append(spent, id)
		if hit == w.player.ID {
			w.damagePlayer(hit, float64(pr.Damage))
		}
	})
	for _, id := range spent {
		w.projectiles.Remove(id)
		w.entities.DestroyEntity(id)
	}
}

// updateDespawn removes agents that died this tick.
func updateDespawn(w *World, _ float64) {
	for _, id := range w.agents.Dead() {
		a, _ := w.agents.Get(id)
		kind := a.Kind
		pos := a.Position
		w.agents.Remove(id)
		w.space.RemoveBody(id)
		w.entities.DestroyEntity(id)
		delete(w.intents, id)
		w.emit(Event{Kind: EventDespawn, Entity: id, NPC: kind, Position: pos})
		w.log.Debug("despawn", zap.Stringer("entity", id), zap.Stringer("kind", kind))
	}
}
