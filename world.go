package depot

import "github.com/TheBitDrifter/bark"

// System is the minimal driver a World runs each Update (spec §6 "tick
// ordering"). Systems read and write components through Views obtained
// from Queries; they never touch a pool's storage directly.
type System interface {
	Update(w *World) error
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(w *World) error

func (f SystemFunc) Update(w *World) error { return f(w) }

// World owns every declared pool, the shared component registry, the
// entity directory, and the registered systems driving a simulation
// (spec §6 "Runtime API").
type World struct {
	reg   *registry
	dir   *directory
	pools *poolManager

	systems []System
	queries *simpleCache[*Query]

	flushGen uint64
}

// NewWorld constructs an empty World. Pools and queries are declared
// against it before the first Update.
func NewWorld() *World {
	reg := newRegistry()
	dir := newDirectory()
	return &World{
		reg:     reg,
		dir:     dir,
		pools:   newPoolManager(reg, dir),
		queries: newSimpleCache[*Query](),
	}
}

// DeclareArchetypePool declares a new pool backed by the Archetype Pool
// storage engine (spec §4.1).
func (w *World) DeclareArchetypePool(name string, required []Component, optional ...Component) (PoolInterface, error) {
	id, err := w.pools.declareArchetypePool(name, required, optional)
	if err != nil {
		return PoolInterface{}, bark.AddTrace(err)
	}
	return PoolInterface{world: w, p: w.pools.poolAt(id)}, nil
}

// DeclareSparsePool declares a new pool backed by the Sparse-Set Pool
// storage engine (spec §4.2). This is the General Pool's default
// strategy unless overridden at declaration.
func (w *World) DeclareSparsePool(name string, required []Component, optional ...Component) (PoolInterface, error) {
	id, err := w.pools.declareSparsePool(name, required, optional)
	if err != nil {
		return PoolInterface{}, bark.AddTrace(err)
	}
	return PoolInterface{world: w, p: w.pools.poolAt(id)}, nil
}

// Pool resolves a previously declared pool by name.
func (w *World) Pool(name string) (PoolInterface, bool) {
	id, ok := w.pools.poolByName(name)
	if !ok {
		return PoolInterface{}, false
	}
	return PoolInterface{world: w, p: w.pools.poolAt(id)}, true
}

// RegisterSystem appends s to the World's update loop, run in
// registration order.
func (w *World) RegisterSystem(s System) {
	w.systems = append(w.systems, s)
}

// --- cross-pool entity namespace (spec §6 "a cross-pool Ent namespace
// dispatches add/remove/destroy/get by looking up the entity's pool_id and
// jumping to the correct pool interface") ---

// DestroyEntity destroys h regardless of which pool owns it.
func (w *World) DestroyEntity(h Handle) error {
	s, err := w.dir.get(h)
	if err != nil {
		return err
	}
	pi := PoolInterface{world: w, p: w.pools.poolAt(s.pool)}
	return pi.Destroy(h)
}

// EnqueueAddComponent queues a component add against whichever pool h
// belongs to.
func (w *World) EnqueueAddComponent(h Handle, component Component) error {
	s, err := w.dir.get(h)
	if err != nil {
		return err
	}
	pi := PoolInterface{world: w, p: w.pools.poolAt(s.pool)}
	return pi.EnqueueAddComponent(h, component)
}

// EnqueueRemoveComponent queues a component remove against whichever pool
// h belongs to.
func (w *World) EnqueueRemoveComponent(h Handle, component Component) error {
	s, err := w.dir.get(h)
	if err != nil {
		return err
	}
	pi := PoolInterface{world: w, p: w.pools.poolAt(s.pool)}
	return pi.EnqueueRemoveComponent(h, component)
}

// Ent is the cross-pool dispatch namespace: every call resolves h's owning
// pool through the World's directory first, so callers never need to know
// which storage engine an entity actually lives in.
type Ent struct {
	w *World
}

// Ent returns the cross-pool dispatch namespace bound to w.
func (w *World) Ent() Ent { return Ent{w: w} }

// Destroy destroys h regardless of which pool owns it.
func (e Ent) Destroy(h Handle) error { return e.w.DestroyEntity(h) }

// AddComponent queues a component add against whichever pool h belongs to,
// applied on the next flush.
func (e Ent) AddComponent(h Handle, component Component) error {
	return e.w.EnqueueAddComponent(h, component)
}

// RemoveComponent queues a component remove against whichever pool h
// belongs to, applied on the next flush.
func (e Ent) RemoveComponent(h Handle, component Component) error {
	return e.w.EnqueueRemoveComponent(h, component)
}

// GetComponent resolves component's typed value for h through whichever
// pool owns it. Go has no dynamic dispatch across a single generic
// parameter, so this is a free function rather than an Ent method — callers
// reach it via GetComponent(world.Ent(), h, position).
func GetComponent[T any](e Ent, h Handle, c AccessibleComponent[T]) (*T, error) {
	return c.GetFromHandle(e.w, h)
}

// Update runs one tick: flush every pool's pending migrations, rewriting
// the directory for anything a flush relocated; run every registered
// system in order (queries refresh lazily whenever they are used, see
// Query.ensureFresh); finally clear every pool's new_archetypes notify
// list so the next tick's announcements start from an empty list
// (spec §6 tick ordering: flush_all_pools -> systems.Update ->
// clear_notify_lists).
func (w *World) Update() error {
	w.pools.flushAllPools()
	w.flushGen++

	for _, sys := range w.systems {
		if err := sys.Update(w); err != nil {
			return bark.AddTrace(err)
		}
	}

	w.pools.clearNotifyLists()
	return nil
}
