package depot

// poolManager owns every declared pool instance: it applies each pool's
// flush results to the directory and keeps the notify lists' lifetime
// aligned with a tick (spec §4.5).
type poolManager struct {
	reg   *registry
	dir   *directory
	pools []pool
	byName *simpleCache[PoolID]
}

func newPoolManager(reg *registry, dir *directory) *poolManager {
	return &poolManager{
		reg:    reg,
		dir:    dir,
		byName: newSimpleCache[PoolID](),
	}
}

// declareArchetypePool registers a new archetype-backed pool under name.
func (m *poolManager) declareArchetypePool(name string, required, optional []Component) (PoolID, error) {
	if _, ok := m.byName.get(name); ok {
		return 0, DuplicatePoolName{Pool: name}
	}
	if len(required)+len(optional) == 0 {
		return 0, PoolMustContainAtLeastOneComponent{Pool: name}
	}
	id := PoolID(len(m.pools) + 1)
	p := newArchetypePool(id, name, m.reg, required, optional)
	m.pools = append(m.pools, p)
	m.byName.set(name, id)
	return id, nil
}

// declareSparsePool registers a new sparse-set-backed pool under name.
func (m *poolManager) declareSparsePool(name string, required, optional []Component) (PoolID, error) {
	if _, ok := m.byName.get(name); ok {
		return 0, DuplicatePoolName{Pool: name}
	}
	if len(required)+len(optional) == 0 {
		return 0, PoolMustContainAtLeastOneComponent{Pool: name}
	}
	id := PoolID(len(m.pools) + 1)
	p := newSparsePool(id, name, m.reg, required, optional)
	m.pools = append(m.pools, p)
	m.byName.set(name, id)
	return id, nil
}

// poolByName resolves a declared pool's id.
func (m *poolManager) poolByName(name string) (PoolID, bool) {
	return m.byName.get(name)
}

// poolAt returns the pool instance for id (ids are 1-based; index 0 is
// never assigned).
func (m *poolManager) poolAt(id PoolID) pool {
	return m.pools[id-1]
}

// flushAllPools drives flush_migrations across every instantiated pool and
// rewrites the directory for every entity it relocated, per the §4.3
// coherence contract: storage indices are applied first, isMigrating is
// cleared last.
func (m *poolManager) flushAllPools() {
	for _, p := range m.pools {
		results := p.flushMigrations(m.dir)
		for _, r := range results {
			// the swap-remove fallout (r.Swapped) is already retargeted by
			// the pool itself, inline with the swap, since only it knows
			// the vacated slot's pre-swap index.
			m.dir.applyMove(r.Handle, r.NewMaskListIndex, r.NewStorageIndex)
			m.dir.clearMigrating(r.Handle)
		}
	}
}

// clearNotifyLists drains new_archetypes from every pool, called once per
// tick after systems have run (spec §4.6 refresh protocol, §6 tick
// ordering).
func (m *poolManager) clearNotifyLists() {
	for _, p := range m.pools {
		p.clearNotifyLists()
	}
}
