// Package physics wraps a Chipmunk space: static walls merged from the level,
// circle bodies for the player and agents, and the segment queries used for
// sight and projectiles.
package physics

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/nightwalk/ecs"
	"github.com/milk9111/nightwalk/levels"
)

// Collision categories.
const (
	CategoryPlayer uint = 1 << iota
	CategoryNPC
	CategoryStructure
	CategoryProjectile
)

const (
	// BodyRadius is the collider radius of the player and of every agent.
	BodyRadius   = 5.0
	wallFriction = 0
)

var (
	sightFilter      = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, CategoryPlayer|CategoryStructure)
	projectileFilter = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, CategoryPlayer|CategoryStructure)
	npcFilter        = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, CategoryNPC)
)

type body struct {
	body  *cp.Body
	shape *cp.Shape
}

// Space owns the Chipmunk space and the entity to shape mapping.
type Space struct {
	space    *cp.Space
	cellSize float64
	walls    []Rect

	bodies        map[ecs.Entity]body
	shapeToEntity map[*cp.Shape]ecs.Entity
}

func NewSpace(cellSize float64) *Space {
	space := cp.NewSpace()
	space.Iterations = 10
	return &Space{
		space:         space,
		cellSize:      cellSize,
		bodies:        make(map[ecs.Entity]body),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
	}
}

// FromLevel builds a space whose walls are the level's physics layers plus a
// border around the map.
func FromLevel(lvl *levels.Level, cellSize float64) *Space {
	s := NewSpace(cellSize)
	if lvl == nil {
		return s
	}
	s.AddWalls(MergeRects(lvl.Width, lvl.Height, lvl.Solid))
	s.addBorder(lvl.Width, lvl.Height)
	return s
}

// AddWalls adds static boxes for rects given in cells.
func (s *Space) AddWalls(rects []Rect) {
	for _, r := range rects {
		bb := cp.BB{
			L: float64(r.X) * s.cellSize,
			B: float64(r.Y) * s.cellSize,
			R: float64(r.X+r.W) * s.cellSize,
			T: float64(r.Y+r.H) * s.cellSize,
		}
		shape := cp.NewBox2(s.space.StaticBody, bb, 0)
		s.addStatic(shape)
		s.walls = append(s.walls, r)
	}
}

func (s *Space) addBorder(width, height int) {
	w := float64(width) * s.cellSize
	h := float64(height) * s.cellSize
	segments := [][2]cp.Vector{
		{{X: 0, Y: 0}, {X: w, Y: 0}},
		{{X: 0, Y: h}, {X: w, Y: h}},
		{{X: 0, Y: 0}, {X: 0, Y: h}},
		{{X: w, Y: 0}, {X: w, Y: h}},
	}
	for _, seg := range segments {
		s.addStatic(cp.NewSegment(s.space.StaticBody, seg[0], seg[1], 1))
	}
}

func (s *Space) addStatic(shape *cp.Shape) {
	shape.SetFriction(wallFriction)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, CategoryStructure, cp.ALL_CATEGORIES))
	s.space.AddShape(shape)
}

// Walls returns the merged wall rectangles in cells.
func (s *Space) Walls() []Rect {
	return s.walls
}

// AddBody adds a circle body for id. Players and agents collide with walls
// only; contact between them is resolved by the simulation, not the solver.
func (s *Space) AddBody(id ecs.Entity, pos cp.Vector, radius float64, category uint) {
	if s == nil || !id.Valid() {
		return
	}
	s.RemoveBody(id)
	b := cp.NewBody(1, math.Inf(1))
	b.SetPosition(pos)
	shape := cp.NewCircle(b, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, category, CategoryStructure))
	s.space.AddBody(b)
	s.space.AddShape(shape)
	s.bodies[id] = body{body: b, shape: shape}
	s.shapeToEntity[shape] = id
}

func (s *Space) RemoveBody(id ecs.Entity) bool {
	if s == nil {
		return false
	}
	b, ok := s.bodies[id]
	if !ok {
		return false
	}
	s.space.RemoveShape(b.shape)
	s.space.RemoveBody(b.body)
	delete(s.shapeToEntity, b.shape)
	delete(s.bodies, id)
	return true
}

func (s *Space) SetVelocity(id ecs.Entity, v cp.Vector) {
	if b, ok := s.bodies[id]; ok {
		b.body.SetVelocityVector(v)
	}
}

func (s *Space) Position(id ecs.Entity) (cp.Vector, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return cp.Vector{}, false
	}
	return b.body.Position(), true
}

func (s *Space) Len() int {
	return len(s.bodies)
}

func (s *Space) Step(dt float64) {
	if s == nil || dt <= 0 {
		return
	}
	s.space.Step(dt)
}

// Raycast reports the first wall or player the ray touches. Walls come back
// as the zero entity.
func (s *Space) Raycast(origin, direction cp.Vector, maxDistance float64) (ecs.Entity, bool) {
	if s == nil || maxDistance <= 0 {
		return 0, false
	}
	end := origin.Add(direction.Mult(maxDistance))
	info := s.space.SegmentQueryFirst(origin, end, 0, sightFilter)
	if info.Shape == nil {
		return 0, false
	}
	return s.shapeToEntity[info.Shape], true
}

// Sweep moves a projectile of the given radius from a to b and reports the
// first wall or player it touches and where.
func (s *Space) Sweep(a, b cp.Vector, radius float64) (ecs.Entity, cp.Vector, bool) {
	if s == nil {
		return 0, b, false
	}
	info := s.space.SegmentQueryFirst(a, b, radius, projectileFilter)
	if info.Shape == nil {
		return 0, b, false
	}
	return s.shapeToEntity[info.Shape], info.Point, true
}

// NearestNPC returns the agent body closest to pos within maxDistance of its
// edge.
func (s *Space) NearestNPC(pos cp.Vector, maxDistance float64) (ecs.Entity, bool) {
	if s == nil {
		return 0, false
	}
	info := s.space.PointQueryNearest(pos, maxDistance, npcFilter)
	if info == nil || info.Shape == nil {
		return 0, false
	}
	id, ok := s.shapeToEntity[info.Shape]
	return id, ok
}
