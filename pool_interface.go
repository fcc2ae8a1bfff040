package depot

import "reflect"

// PoolInterface is the per-pool facade callers use to create and mutate
// entities (spec §6 "Pool Interface"). It validates at the boundary
// (required-component completeness, required-component removal) and
// otherwise defers to whichever storage engine backs the pool.
type PoolInterface struct {
	world *World
	p     pool
}

// Create adds a new entity to this pool. provided must include every
// component in the pool's required_mask; any additional pool components
// may be supplied too. Returns RequiredComponentMissing if a required
// component was omitted.
func (pi PoolInterface) Create(provided ...Component) (Handle, error) {
	required := pi.p.requiredMask()
	have := maskFor(pi.world.reg, provided...)
	if !maskContains(have, required) {
		for _, bit := range maskBits(required) {
			if !maskHasBit(have, bit) {
				return Handle{}, RequiredComponentMissing{
					Pool:      pi.p.name(),
					Component: componentForBit(pi.world.reg, bit),
				}
			}
		}
	}

	switch tp := pi.p.(type) {
	case *ArchetypePool:
		archIdx, storageIdx, err := tp.createEntity(provided...)
		if err != nil {
			return Handle{}, err
		}
		h := pi.world.dir.allocate(tp.id(), archIdx, storageIdx)
		tp.bindEntity(archIdx, storageIdx, h)
		return h, nil
	case *sparsePool:
		storageIdx := tp.createEntity(provided...)
		va := tp.bitmap[storageIdx].maskListIndex
		h := pi.world.dir.allocate(tp.id(), va, storageIdx)
		tp.bindEntity(storageIdx, h)
		return h, nil
	default:
		return Handle{}, ComponentNotInPool{}
	}
}

// Destroy removes an entity immediately (destroy is never deferred,
// spec §4 "Migration Queue" scope: only add/remove component are queued).
func (pi PoolInterface) Destroy(h Handle) error {
	s, err := pi.world.dir.get(h)
	if err != nil {
		return err
	}
	if s.pool != pi.p.id() {
		return EntityPoolMismatch{Handle: h, Expected: pi.p.id(), Actual: s.pool}
	}

	switch tp := pi.p.(type) {
	case *ArchetypePool:
		swapped, err := tp.destroyEntity(s.maskListIndex, s.storageIndex)
		if err != nil {
			return err
		}
		if swapped != (Handle{}) {
			pi.world.dir.retarget(tp.id(), s.maskListIndex, s.storageIndex, swapped)
		}
	case *sparsePool:
		tp.destroyEntity(s.storageIndex)
	}
	return pi.world.dir.release(h)
}

// EnqueueAddComponent queues component to be added to h at the next
// flush, seeded with component's zero value.
func (pi PoolInterface) EnqueueAddComponent(h Handle, component Component) error {
	zero := reflect.Zero(component.Type()).Interface()
	return pi.EnqueueAddComponentWithValue(h, component, zero)
}

// EnqueueAddComponentWithValue queues component to be added to h at the
// next flush, seeded with value. Fails NullComponentData if value is nil,
// or AddingExistingComponent if component would already be present on h
// once every migration entry queued for h so far this tick is folded in
// (spec §4.1 failure model).
func (pi PoolInterface) EnqueueAddComponentWithValue(h Handle, component Component, value any) error {
	if value == nil {
		return NullComponentData{Handle: h, Component: component}
	}
	s, err := pi.world.dir.get(h)
	if err != nil {
		return err
	}
	bit := pi.world.reg.idFor(component)
	effective := fold(pi.p.archetypeMask(s.maskListIndex), pi.p.pendingEntries(h))
	if maskHasBit(effective, bit) {
		return AddingExistingComponent{Handle: h, Component: component}
	}
	switch tp := pi.p.(type) {
	case *ArchetypePool:
		tp.enqueueAdd(h, component, value)
	case *sparsePool:
		tp.enqueueAdd(h, component, value)
	}
	pi.world.dir.setMigrating(h)
	return nil
}

// EnqueueRemoveComponent queues component to be removed from h at the
// next flush. Fails CannotRemoveRequiredComponent if component is part of
// the pool's required_mask, or RemovingNonexistingComponent if component
// wouldn't be present on h once every migration entry already queued for
// h this tick is folded in (spec §4.1 failure model).
func (pi PoolInterface) EnqueueRemoveComponent(h Handle, component Component) error {
	bit := pi.world.reg.idFor(component)
	if maskHasBit(pi.p.requiredMask(), bit) {
		return CannotRemoveRequiredComponent{Pool: pi.p.name(), Component: component}
	}
	s, err := pi.world.dir.get(h)
	if err != nil {
		return err
	}
	effective := fold(pi.p.archetypeMask(s.maskListIndex), pi.p.pendingEntries(h))
	if !maskHasBit(effective, bit) {
		return RemovingNonexistingComponent{Handle: h, Component: component}
	}
	switch tp := pi.p.(type) {
	case *ArchetypePool:
		tp.enqueueRemove(h, component)
	case *sparsePool:
		tp.enqueueRemove(h, component)
	}
	pi.world.dir.setMigrating(h)
	return nil
}

// AddComponentImmediate performs an immediate (non-queued) add, available
// only on sparse-set pools (spec §4.2). ArchetypeStorage pools return
// StorageLocked — the column layout is a structural property of the
// archetype and can only change through a flush.
func (pi PoolInterface) AddComponentImmediate(h Handle, component Component, value any) error {
	s, err := pi.world.dir.get(h)
	if err != nil {
		return err
	}
	tp, ok := pi.p.(*sparsePool)
	if !ok {
		return StorageLocked{}
	}
	if err := tp.addComponentImmediate(s.storageIndex, component, value); err != nil {
		return err
	}
	pi.world.dir.applyMove(h, tp.bitmap[s.storageIndex].maskListIndex, s.storageIndex)
	return nil
}

// RemoveComponentImmediate is the immediate counterpart to
// AddComponentImmediate.
func (pi PoolInterface) RemoveComponentImmediate(h Handle, component Component) error {
	bit := pi.world.reg.idFor(component)
	if maskHasBit(pi.p.requiredMask(), bit) {
		return CannotRemoveRequiredComponent{Pool: pi.p.name(), Component: component}
	}
	s, err := pi.world.dir.get(h)
	if err != nil {
		return err
	}
	tp, ok := pi.p.(*sparsePool)
	if !ok {
		return StorageLocked{}
	}
	if err := tp.removeComponentImmediate(s.storageIndex, component); err != nil {
		return err
	}
	pi.world.dir.applyMove(h, tp.bitmap[s.storageIndex].maskListIndex, s.storageIndex)
	return nil
}

// Name returns the pool's declared name.
func (pi PoolInterface) Name() string { return pi.p.name() }

// ID returns the pool's identity within the World.
func (pi PoolInterface) ID() PoolID { return pi.p.id() }
