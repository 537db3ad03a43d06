// Package sim runs the game loop around the NPC core: it owns the entities,
// the physics space and the day/night clock, and drives every agent's brain
// once per tick in a fixed phase order.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
	"github.com/milk9111/nightwalk/daycycle"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/grid"
	"github.com/milk9111/nightwalk/levels"
	"github.com/milk9111/nightwalk/npc"
	"github.com/milk9111/nightwalk/pathfind"
	"github.com/milk9111/nightwalk/physics"
	"github.com/milk9111/nightwalk/player"
	"go.uber.org/zap"
)

// Options configures a World. Zero values fall back to defaults where one
// exists.
type Options struct {
	Level    *levels.Level
	CellSize float64

	Tuning      npc.Tuning
	Policy      npc.Policy
	PathOptions pathfind.Options

	Player player.Stats
	Dash   player.DashParams

	Population Population
	DayCycle   *daycycle.Cycle

	Seed   int64
	Logger *zap.Logger
}

// Player is the simulated player body.
type Player struct {
	ID         ecs.Entity
	Position   cp.Vector
	Stats      player.Stats
	Controller *player.Controller
}

// World is one running simulation. It is not safe for concurrent use; the
// viewer and the CLI both drive it from a single goroutine.
type World struct {
	entities *ecs.World
	oracle   *grid.Oracle
	finder   *pathfind.Finder
	brain    *npc.Brain
	agents   *npc.Table
	space    *physics.Space
	cycle    *daycycle.Cycle
	spawner  *Spawner

	player      Player
	input       player.Input
	projectiles ecs.SparseSet[Projectile]
	intents     map[ecs.Entity]npc.Intent
	positions   []cp.Vector

	scheduler *ecs.Scheduler[*World]
	events    ecs.EventQueue[Event]
	tick      uint64
	rng       *rand.Rand
	log       *zap.Logger
}

func NewWorld(opts Options) (*World, error) {
	if opts.Level == nil {
		return nil, fmt.Errorf("sim: no level")
	}
	if opts.CellSize <= 0 {
		opts.CellSize = common.TileSize
	}
	if err := opts.Tuning.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if opts.Player.MaxHP <= 0 {
		opts.Player = player.DefaultStats()
	}
	if opts.Dash.Duration <= 0 {
		opts.Dash = player.DefaultDash()
	}
	if opts.DayCycle == nil {
		opts.DayCycle = daycycle.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	oracle, err := grid.FromLevel(opts.Level, opts.CellSize)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	finder := pathfind.NewFinder(oracle, opts.PathOptions)
	rng := rand.New(rand.NewSource(opts.Seed))

	w := &World{
		entities: ecs.NewWorld(),
		oracle:   oracle,
		finder:   finder,
		brain:    npc.NewBrain(oracle, finder, opts.Tuning, opts.Policy, rng.Int63()),
		agents:   npc.NewTable(),
		space:    physics.FromLevel(opts.Level, opts.CellSize),
		cycle:    opts.DayCycle,
		spawner:  NewSpawner(opts.Population, rng.Int63()),
		intents:  make(map[ecs.Entity]npc.Intent),
		rng:      rng,
		log:      opts.Logger,
	}
	w.scheduler = ecs.NewScheduler[*World](
		ecs.SystemFunc[*World](updateDayCycle),
		ecs.SystemFunc[*World](updateOccupancy),
		ecs.SystemFunc[*World](updateSpawner),
		ecs.SystemFunc[*World](updatePlayer),
		ecs.SystemFunc[*World](updateAgents),
		ecs.SystemFunc[*World](updatePhysics),
		ecs.SystemFunc[*World](updateContacts),
		ecs.SystemFunc[*World](updateProjectiles),
		ecs.SystemFunc[*World](updateDespawn),
	)

	if err := w.placeLevelEntities(opts.Level, opts.Player, opts.Dash); err != nil {
		return nil, err
	}
	w.log.Info("world ready",
		zap.Int("width", opts.Level.Width),
		zap.Int("height", opts.Level.Height),
		zap.Int("walls", len(w.space.Walls())),
		zap.Int("agents", w.agents.Len()),
	)
	return w, nil
}

func (w *World) placeLevelEntities(lvl *levels.Level, stats player.Stats, dash player.DashParams) error {
	starts := lvl.EntitiesOfType("player")
	if len(starts) == 0 {
		return fmt.Errorf("sim: level has no player start")
	}
	start := grid.Cell{X: starts[0].X, Y: starts[0].Y}
	if !w.oracle.IsTraversable(start) {
		return fmt.Errorf("sim: player start %s is blocked", start)
	}
	w.player = Player{
		ID:         w.entities.CreateEntity(),
		Position:   w.oracle.GridToWorld(start),
		Stats:      stats,
		Controller: player.NewController(dash),
	}
	w.space.AddBody(w.player.ID, w.player.Position, physics.BodyRadius, physics.CategoryPlayer)

	for _, k := range npc.Kinds() {
		for _, e := range lvl.EntitiesOfType(k.String()) {
			c := grid.Cell{X: e.X, Y: e.Y}
			if !w.oracle.IsTraversable(c) {
				w.log.Warn("skipping blocked placement", zap.Stringer("kind", k), zap.Stringer("cell", c))
				continue
			}
			w.Spawn(k, c)
		}
	}
	return nil
}

// Spawn adds an agent of kind k at the centre of c.
func (w *World) Spawn(k npc.Kind, c grid.Cell) ecs.Entity {
	id := w.entities.CreateEntity()
	pos := w.oracle.GridToWorld(c)
	w.agents.Insert(npc.NewAgent(id, k, pos, w.brain.Tuning().For(k)))
	w.space.AddBody(id, pos, physics.BodyRadius, physics.CategoryNPC)
	w.oracle.Occupancy().Add(c)
	w.emit(Event{Kind: EventSpawn, Entity: id, NPC: k, Position: pos})
	w.log.Debug("spawn", zap.Stringer("entity", id), zap.Stringer("kind", k), zap.Stringer("cell", c))
	return id
}

// Step advances the simulation by dt seconds.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.tick++
	w.scheduler.Update(w, dt)
}

// SetInput sets the player input used from the next Step on.
func (w *World) SetInput(in player.Input) {
	w.input = in
}

// Events drains everything emitted since the last call.
func (w *World) Events() []Event {
	return w.events.Drain()
}

func (w *World) emit(e Event) {
	e.Tick = w.tick
	w.events.Push(e)
}

// ReloadTuning swaps the per-kind constants between ticks. Live agents keep
// their state; their timers pick up the new durations on the next reset.
func (w *World) ReloadTuning(t npc.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	w.brain.SetTuning(t)
	w.agents.Each(func(a *npc.Agent) {
		kt := t.For(a.Kind)
		a.ChillTimer.Duration = kt.ChillInterval
		a.AttackTimer.Duration = kt.MeleeWindup
		a.ThrowTimer.Duration = kt.ThrowInterval
	})
	w.log.Info("tuning reloaded")
	return nil
}

func (w *World) SetPolicy(p npc.Policy) {
	w.brain.SetPolicy(p)
	w.log.Info("polarity policy replaced")
}

func (w *World) Tick() uint64 { return w.tick }
func (w *World) Agents() *npc.Table { return w.agents }
func (w *World) Oracle() *grid.Oracle { return w.oracle }
func (w *World) Finder() *pathfind.Finder { return w.finder }
func (w *World) Space() *physics.Space { return w.space }
func (w *World) Cycle() *daycycle.Cycle { return w.cycle }
func (w *World) Tuning() npc.Tuning { return w.brain.Tuning() }
func (w *World) Player() *Player { return &w.player }
func (w *World) Night() bool { return w.cycle.IsNight() }

// Intent returns the intents an agent produced on the last tick.
func (w *World) Intent(id ecs.Entity) (npc.Intent, bool) {
	in, ok := w.intents[id]
	return in, ok
}

// EachProjectile visits live projectiles.
func (w *World) EachProjectile(fn func(id ecs.Entity, p *Projectile)) {
	w.projectiles.Each(fn)
}

func (w *World) ProjectileCount() int {
	return w.projectiles.Len()
}

// Summary is a snapshot of counters for logging.
type Summary struct {
	Tick        uint64
	Night       bool
	Civilians   int
	Hunters     int
	Projectiles int
	HP          float64
	Score       float64
	Level       int
	Dead        bool
}

func (w *World) Summary() Summary {
	return Summary{
		Tick:        w.tick,
		Night:       w.Night(),
		Civilians:   w.agents.CountAlive(npc.KindCivilian),
		Hunters:     w.agents.CountAlive(npc.KindHunter),
		Projectiles: w.projectiles.Len(),
		HP:          w.player.Stats.HP,
		Score:       w.player.Stats.Score,
		Level:       w.player.Stats.Level,
		Dead:        w.player.Stats.Dead,
	}
}

// combatSink receives one agent's attacks.
type combatSink struct {
	w  *World
	kt npc.KindTuning
}

func (c combatSink) SpawnProjectile(origin, direction cp.Vector, speed float64) {
	w := c.w
	id := w.entities.CreateEntity()
	w.projectiles.Set(id, Projectile{
		Position: origin,
		Velocity: direction.Mult(speed),
		Damage:   c.kt.ProjectileDamage,
		TTL:      newProjectileTTL(),
	})
	w.emit(Event{Kind: EventProjectile, Entity: id, Position: origin})
}

func (c combatSink) ApplyDamage(target ecs.Entity, amount int) {
	c.w.damagePlayer(target, float64(amount))
}

func (w *World) damagePlayer(target ecs.Entity, amount float64) {
	if target != w.player.ID || !w.player.Stats.Alive() {
		return
	}
	taken := w.player.Stats.ApplyDamage(amount)
	if taken <= 0 {
		return
	}
	w.emit(Event{Kind: EventPlayerHit, Entity: target, Amount: taken, Position: w.player.Position})
	w.log.Info("player hit", zap.Float64("damage", taken), zap.Float64("hp", w.player.Stats.HP))
	if w.player.Stats.Dead {
		w.emit(Event{Kind: EventPlayerDead, Entity: target, Position: w.player.Position})
		w.log.Info("player died", zap.Uint64("tick", w.tick), zap.Float64("score", w.player.Stats.Score))
	}
}
