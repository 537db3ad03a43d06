package ecs

// entityStore hands out indices starting at 1 and recycles freed ones with
// a bumped epoch.
type entityStore struct {
	epochs []epoch
	free   []index
}

func (s *entityStore) create() Entity {
	if s == nil {
		return 0
	}
	if n := len(s.free); n > 0 {
		i := s.free[n-1]
		s.free = s.free[:n-1]
		return pack(i, s.epochs[i-1])
	}
	s.epochs = append(s.epochs, 0)
	return pack(index(len(s.epochs)), 0)
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	i := e.index()
	s.epochs[i-1]++
	s.free = append(s.free, i)
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || !e.Valid() || int(e.index()) > len(s.epochs) {
		return false
	}
	return s.epochs[e.index()-1] == e.epoch()
}

func (s *entityStore) alive() int {
	if s == nil {
		return 0
	}
	return len(s.epochs) - len(s.free)
}
