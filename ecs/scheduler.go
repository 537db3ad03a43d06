package ecs

// System is one phase of a tick over state S.
type System[S any] interface {
	Update(state S, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc[S any] func(state S, dt float64)

func (f SystemFunc[S]) Update(state S, dt float64) { f(state, dt) }

// Scheduler runs systems in insertion order.
type Scheduler[S any] struct {
	systems []System[S]
}

func NewScheduler[S any](systems ...System[S]) *Scheduler[S] {
	copied := append([]System[S](nil), systems...)
	return &Scheduler[S]{systems: copied}
}

func (s *Scheduler[S]) Add(system System[S]) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

func (s *Scheduler[S]) Update(state S, dt float64) {
	for _, system := range s.systems {
		system.Update(state, dt)
	}
}

func (s *Scheduler[S]) Len() int {
	return len(s.systems)
}
