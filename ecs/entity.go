package ecs

import "fmt"

// Entity packs a slot index in the low half and the slot's epoch in the
// high half. Destroying an entity bumps the epoch so old handles go stale.
type Entity uint64

type (
	index uint32
	epoch uint32
)

const (
	indexBits = 32
	indexMask = 1<<indexBits - 1
)

func pack(i index, ep epoch) Entity {
	return Entity(ep)<<indexBits | Entity(i)
}

func (e Entity) index() index { return index(e & indexMask) }

func (e Entity) epoch() epoch { return epoch(e >> indexBits) }

// String renders e as index.epoch.
func (e Entity) String() string {
	if !e.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d.%d", e.index(), e.epoch())
}

// Valid is false for the zero Entity; index 0 is never handed out.
func (e Entity) Valid() bool {
	return e.index() != 0
}
