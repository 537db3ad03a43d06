package npc

import (
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/common"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/grid"
	"github.com/milk9111/nightwalk/pathfind"
)

// Navigator is the grid oracle as the brain sees it.
type Navigator interface {
	WorldToGrid(pos cp.Vector) grid.Cell
	GridToWorld(c grid.Cell) cp.Vector
	IsTraversable(c grid.Cell) bool
}

// Pathfinder plans paths for the brain.
type Pathfinder interface {
	FindPath(start, goal grid.Cell, intent pathfind.Intent) (pathfind.Path, pathfind.Status)
	FindEscape(start, threat grid.Cell, safeRadiusSq int) (pathfind.Path, pathfind.Status)
}

// Combat receives attacks.
type Combat interface {
	SpawnProjectile(origin, direction cp.Vector, speed float64)
	ApplyDamage(target ecs.Entity, amount int)
}

// PlayerSnapshot is the read-only view of the player for one tick.
type PlayerSnapshot struct {
	Position cp.Vector
	Velocity cp.Vector
	ID       ecs.Entity
	Night    bool
}

// Tick carries everything that varies per update.
type Tick struct {
	DT      float64
	Player  PlayerSnapshot
	Visible bool
	Combat  Combat
}

// Brain runs the agent state machine. Agents never talk to each other; the
// only shared inputs are the navigator, the pathfinder and the tick.
type Brain struct {
	nav    Navigator
	paths  Pathfinder
	tuning Tuning
	policy Policy
	rng    *rand.Rand
}

func NewBrain(nav Navigator, paths Pathfinder, tuning Tuning, policy Policy, seed int64) *Brain {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Brain{
		nav:    nav,
		paths:  paths,
		tuning: tuning,
		policy: policy,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

func (b *Brain) Tuning() Tuning { return b.tuning }

func (b *Brain) SetTuning(t Tuning) { b.tuning = t }

func (b *Brain) SetPolicy(p Policy) {
	if p != nil {
		b.policy = p
	}
}

type update struct {
	agent      *Agent
	tick       Tick
	kt         KindTuning
	cell       grid.Cell
	playerCell grid.Cell
	dist       float64
	steer      cp.Vector
	out        *Intent
}

// Update advances one agent by one tick and returns its intents. At most one
// state transition happens per call.
func (b *Brain) Update(a *Agent, t Tick) Intent {
	if a == nil {
		return Intent{}
	}
	out := Intent{Facing: a.Facing, From: a.State, To: a.State}
	if a.State == StateDead {
		return out
	}

	u := &update{
		agent:      a,
		tick:       t,
		kt:         b.tuning.For(a.Kind),
		cell:       b.nav.WorldToGrid(a.Position),
		playerCell: b.nav.WorldToGrid(t.Player.Position),
		dist:       a.Position.Distance(t.Player.Position),
		out:        &out,
	}

	switch a.State {
	case StateChill:
		b.chill(u)
	case StateLook:
		b.look(u)
	case StateChase:
		b.chase(u)
	case StateEscape:
		b.escape(u)
	case StateAttack:
		b.attack(u)
	}

	dir := u.steer
	if a.State != StateAttack {
		dir = b.follow(a, u.cell)
	}
	out.Velocity = a.Motion.Step(dir, u.kt.Movement, t.DT)
	if a.Motion.Speed() > facingDeadZone {
		out.Locomotion = LocomotionWalk
	}
	out.Facing = a.Facing
	out.To = a.State
	return out
}

// follow consumes the path and returns the unit direction toward its next
// cell, or zero once the path is used up.
func (b *Brain) follow(a *Agent, cell grid.Cell) cp.Vector {
	a.Path = a.Path.Advance(cell)
	next, ok := a.Path.Next()
	if !ok {
		return cp.Vector{}
	}
	move := b.nav.GridToWorld(next).Sub(a.Position)
	a.Facing = facingForMove(a.Facing, move)
	return common.NormalizeOrZero(move)
}

func (b *Brain) enter(u *update, next State) {
	a := u.agent
	if a.State == next {
		return
	}
	prev := a.State
	a.State = next
	a.Path = nil
	a.Retreating = false
	switch next {
	case StateChill:
		a.ChillTimer.Reset()
	case StateAttack:
		a.AttackTimer.Reset()
		a.ThrowTimer.Reset()
	}
	if (prev == StateChill || prev == StateLook) && (next == StateChase || next == StateEscape) {
		u.out.Sounds = append(u.out.Sounds, SoundAlert)
	}
}

// react applies the day/night rule to a sighting.
func (b *Brain) react(u *update) State {
	return b.policy.OnSight(u.agent.Kind, u.tick.Player.Night)
}

func (b *Brain) loseSight(u *update) {
	u.agent.LastKnownPlayer = u.playerCell
	b.enter(u, StateLook)
}

func (b *Brain) chill(u *update) {
	a := u.agent
	if u.tick.Visible {
		b.enter(u, b.react(u))
		return
	}
	if !a.ChillTimer.Tick(u.tick.DT) {
		return
	}
	r := u.kt.ChillRadius
	if r <= 0 {
		return
	}
	offset := grid.Cell{X: b.rng.Intn(2*r+1) - r, Y: b.rng.Intn(2*r+1) - r}
	target := u.cell.Add(offset)
	if target == u.cell || !b.nav.IsTraversable(target) {
		return
	}
	if path, status := b.paths.FindPath(u.cell, target, pathfind.IntentChill); status == pathfind.StatusFound {
		a.Path = path
		a.Goal = target
	}
}

func (b *Brain) look(u *update) {
	a := u.agent
	if u.tick.Visible {
		b.enter(u, b.react(u))
		return
	}
	if a.Path != nil && a.Goal == a.LastKnownPlayer {
		return
	}
	path, status := b.paths.FindPath(u.cell, a.LastKnownPlayer, pathfind.IntentLook)
	switch status {
	case pathfind.StatusFound:
		a.Path = path
		a.Goal = a.LastKnownPlayer
	case pathfind.StatusArrived, pathfind.StatusUnreachable:
		b.enter(u, StateChill)
	}
}

func (b *Brain) chase(u *update) {
	a := u.agent
	if !u.tick.Visible {
		b.loseSight(u)
		return
	}
	if next := b.react(u); next != StateChase {
		b.enter(u, next)
		return
	}
	if u.kt.Ranged && u.dist <= u.kt.ChaseDistance {
		b.enter(u, StateAttack)
		return
	}
	if a.Path != nil && a.Goal == u.playerCell {
		return
	}
	path, status := b.paths.FindPath(u.cell, u.playerCell, pathfind.IntentChase)
	switch status {
	case pathfind.StatusFound:
		a.Path = path
		a.Goal = u.playerCell
	case pathfind.StatusArrived, pathfind.StatusUnreachable:
		b.enter(u, StateAttack)
	default:
		a.Path = nil
	}
}

func (b *Brain) escape(u *update) {
	a := u.agent
	if a.Retreating {
		if u.tick.Visible && b.react(u) == StateEscape {
			a.Retreating = false
		} else if u.dist >= u.kt.retreatEnd() {
			if u.tick.Visible {
				b.enter(u, StateAttack)
			} else {
				b.loseSight(u)
			}
			return
		}
	}
	if !a.Retreating {
		if u.tick.Visible && b.react(u) == StateChase {
			b.enter(u, StateChase)
			return
		}
		if !u.tick.Visible && u.dist >= u.kt.SafeDistance {
			b.enter(u, StateChill)
			return
		}
	}
	if a.Path != nil && a.Goal == u.playerCell {
		return
	}
	path, status := b.paths.FindEscape(u.cell, u.playerCell, u.kt.EscapeRadius*u.kt.EscapeRadius)
	if status == pathfind.StatusFound {
		a.Path = path
		a.Goal = u.playerCell
		return
	}
	a.Path = nil
}

func (b *Brain) attack(u *update) {
	a := u.agent
	if !u.tick.Visible {
		b.loseSight(u)
		return
	}
	if next := b.react(u); next != StateChase {
		b.enter(u, next)
		return
	}
	toPlayer := u.tick.Player.Position.Sub(a.Position)
	a.Facing = facingToward(toPlayer)

	if u.kt.Ranged {
		b.rangedAttack(u)
		return
	}

	// The chase path stops a cell short, which can leave a diagonal
	// approach outside melee range.
	if u.dist > u.kt.MeleeRange {
		u.steer = common.NormalizeOrZero(toPlayer)
	}
	if !a.AttackTimer.Tick(u.tick.DT) {
		return
	}
	u.out.Anim = AnimAttack
	if u.dist <= u.kt.MeleeRange && u.tick.Combat != nil {
		u.tick.Combat.ApplyDamage(u.tick.Player.ID, u.kt.MeleeDamage)
		u.out.Sounds = append(u.out.Sounds, SoundBite)
	}
	b.enter(u, StateChase)
}

func (b *Brain) rangedAttack(u *update) {
	a := u.agent
	switch {
	case u.dist < u.kt.RetreatDistance:
		b.enter(u, StateEscape)
		a.Retreating = true
		return
	case u.dist > u.kt.ChaseDistance:
		b.enter(u, StateChase)
		return
	}
	if !a.ThrowTimer.Tick(u.tick.DT) {
		return
	}
	u.out.Anim = AnimThrow
	aim, ok := Intercept(a.Position, u.tick.Player.Position, u.tick.Player.Velocity, u.kt.ProjectileSpeed)
	if !ok {
		return
	}
	dir := common.NormalizeOrZero(aim.Sub(a.Position))
	if dir == (cp.Vector{}) || u.tick.Combat == nil {
		return
	}
	u.tick.Combat.SpawnProjectile(a.Position, dir, u.kt.ProjectileSpeed)
	u.out.Sounds = append(u.out.Sounds, SoundThrow)
}
