package ecs

// World hands out entity ids shared by every table in a simulation so that
// the player, agents and projectiles never collide on identity.
type World struct {
	entities entityStore
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity marks an entity as dead. It returns false for stale handles.
func (w *World) DestroyEntity(e Entity) bool {
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	return w.entities.isAlive(e)
}

// Alive returns the number of live entities.
func (w *World) Alive() int {
	return w.entities.alive()
}
