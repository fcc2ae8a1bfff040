package depot

import "reflect"

// sparseColumn is the type-erased storage for one component type within a
// sparsePool (spec §9 Design Notes: "a vector of ComponentColumn where
// each column is a type-erased growable vector"), built on reflect the
// same way archetype.go's setComponentValue/copyComponentValue move data
// between archetype tables. A bit's column is created the first time
// either a typed accessor (AccessibleComponent[T].Get) or an untyped
// write (an immediate add or a migration payload) touches it — whichever
// comes first — so neither path can silently drop a value the other
// hasn't seen yet.
type sparseColumn struct {
	slice reflect.Value // addressable *[]T, dereferenced
}

func newSparseColumn(valueType reflect.Type, n int) *sparseColumn {
	ptr := reflect.New(reflect.SliceOf(valueType))
	ptr.Elem().Set(reflect.MakeSlice(reflect.SliceOf(valueType), n, n))
	return &sparseColumn{slice: ptr.Elem()}
}

func (c *sparseColumn) grow(n int) {
	if n <= c.slice.Len() {
		return
	}
	grown := reflect.MakeSlice(c.slice.Type(), n, n)
	reflect.Copy(grown, c.slice)
	c.slice.Set(grown)
}

func (c *sparseColumn) setAny(i int, value any) {
	c.grow(i + 1)
	c.slice.Index(i).Set(reflect.ValueOf(value))
}

// columnFor returns bit's column in p, creating it sized for valueType if
// this is the first write or read against it.
func columnFor(p *sparsePool, bit ComponentID, valueType reflect.Type) *sparseColumn {
	col, ok := p.columns[bit]
	if !ok {
		col = newSparseColumn(valueType, len(p.entities))
		p.columns[bit] = col
	}
	return col
}

func sparseColumnGet[T any](p *sparsePool, bit ComponentID, storageIdx int) *T {
	col := columnFor(p, bit, reflect.TypeOf((*T)(nil)).Elem())
	col.grow(storageIdx + 1)
	return col.slice.Index(storageIdx).Addr().Interface().(*T)
}

// virtualArchetype groups the storage indices of every entity currently
// carrying one exact mask (spec §3 "Virtual archetype"). storageIdx is
// stable; position within indexes is not — swap-remove keeps it O(1) via
// the inListIndex back-pointer on each member's bitmapEntry.
type virtualArchetype struct {
	mask    ComponentMask
	indexes []int
}

// bitmapEntry is a row's membership pointer into mask_list/virtual
// archetypes (spec §4.2 "bitmap_map").
type bitmapEntry struct {
	maskListIndex int
	inListIndex   int
	occupied      bool
}

// sparsePool is the flat Structure-of-Arrays storage engine (spec §4.2): a
// vec<Option<Handle>> of rows, a parallel bitmap_map, and one optional
// column per pool component — all sharing the same storage_index.
type sparsePool struct {
	poolID   PoolID
	poolName string
	pMask    ComponentMask
	rMask    ComponentMask
	reg      *registry

	entities []Handle // zero Handle marks a free row
	occupied []bool
	bitmap   []bitmapEntry
	columns  map[ComponentID]*sparseColumn
	freeList []int

	maskList          []ComponentMask
	virtualArchetypes []virtualArchetype
	byMask            map[ComponentMask]int

	queue    *migrationQueue
	newArchs []int
}

func newSparsePool(id PoolID, name string, reg *registry, required, optional []Component) *sparsePool {
	p := &sparsePool{
		poolID:  id,
		poolName: name,
		reg:     reg,
		columns: make(map[ComponentID]*sparseColumn),
		byMask:  make(map[ComponentMask]int),
		queue:   newMigrationQueue(),
	}
	for _, c := range required {
		p.rMask = maskAdd(p.rMask, reg.register(c))
	}
	p.pMask = p.rMask
	for _, c := range optional {
		p.pMask = maskAdd(p.pMask, reg.register(c))
	}
	return p
}

func (p *sparsePool) id() PoolID                { return p.poolID }
func (p *sparsePool) name() string              { return p.poolName }
func (p *sparsePool) strategy() StorageStrategy { return SparseStorage }
func (p *sparsePool) poolMask() ComponentMask   { return p.pMask }
func (p *sparsePool) requiredMask() ComponentMask { return p.rMask }

func (p *sparsePool) archetypeCount() int { return len(p.virtualArchetypes) }

func (p *sparsePool) archetypeMask(i int) ComponentMask { return p.virtualArchetypes[i].mask }

func (p *sparsePool) view(i int, components []Component) View {
	va := p.virtualArchetypes[i]
	entities := make([]Handle, len(va.indexes))
	for j, idx := range va.indexes {
		entities[j] = p.entities[idx]
	}
	return View{
		Entities:      entities,
		strategy:      SparseStorage,
		sparseIndices: va.indexes,
		sparse:        p,
	}
}

func (p *sparsePool) newArchetypes() []int { return p.newArchs }

func (p *sparsePool) clearNotifyLists() {
	p.newArchs = nil
}

// locateOrCreateVirtual returns the virtual archetype index for mask m,
// creating (and announcing) one if absent.
func (p *sparsePool) locateOrCreateVirtual(m ComponentMask) int {
	if idx, ok := p.byMask[m]; ok {
		return idx
	}
	idx := len(p.virtualArchetypes)
	p.virtualArchetypes = append(p.virtualArchetypes, virtualArchetype{mask: m})
	p.maskList = append(p.maskList, m)
	p.byMask[m] = idx
	p.newArchs = append(p.newArchs, idx)
	return idx
}

// joinVirtual adds storageIdx to virtual archetype vaIdx and records the
// row's back-pointer.
func (p *sparsePool) joinVirtual(storageIdx, vaIdx int) {
	va := &p.virtualArchetypes[vaIdx]
	inList := len(va.indexes)
	va.indexes = append(va.indexes, storageIdx)
	p.bitmap[storageIdx] = bitmapEntry{maskListIndex: vaIdx, inListIndex: inList, occupied: true}
}

// leaveVirtual removes storageIdx from its current virtual archetype via
// swap-remove, fixing the back-pointer of whichever row took its place
// (spec §4.2 "Virtual archetype membership").
func (p *sparsePool) leaveVirtual(storageIdx int) {
	be := p.bitmap[storageIdx]
	if !be.occupied {
		return
	}
	va := &p.virtualArchetypes[be.maskListIndex]
	last := len(va.indexes) - 1
	if be.inListIndex != last {
		movedIdx := va.indexes[last]
		va.indexes[be.inListIndex] = movedIdx
		p.bitmap[movedIdx].inListIndex = be.inListIndex
	}
	va.indexes = va.indexes[:last]
	p.bitmap[storageIdx] = bitmapEntry{}
}

// reserveRow allocates a storage_index for a new entity, reusing a freed
// one when available. The index, once assigned, never changes for the
// lifetime of the entity in this pool (spec §4.2's defining property).
func (p *sparsePool) reserveRow() int {
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.occupied[idx] = true
		return idx
	}
	idx := len(p.entities)
	p.entities = append(p.entities, Handle{})
	p.occupied = append(p.occupied, true)
	p.bitmap = append(p.bitmap, bitmapEntry{})
	for _, col := range p.columns {
		col.grow(idx + 1)
	}
	return idx
}

// createEntity implements add_entity (spec §4.2).
func (p *sparsePool) createEntity(provided ...Component) int {
	storageIdx := p.reserveRow()
	m := p.rMask
	for _, c := range provided {
		m = maskAdd(m, p.reg.idFor(c))
	}
	vaIdx := p.locateOrCreateVirtual(m)
	p.joinVirtual(storageIdx, vaIdx)
	return storageIdx
}

func (p *sparsePool) bindEntity(storageIdx int, h Handle) {
	p.entities[storageIdx] = h
}

// destroyEntity implements remove_entity (spec §4.2): columns aren't
// physically cleared (presence is derived from the mask, not a sentinel),
// the row just returns to the free list.
func (p *sparsePool) destroyEntity(storageIdx int) {
	p.leaveVirtual(storageIdx)
	p.entities[storageIdx] = Handle{}
	p.occupied[storageIdx] = false
	p.freeList = append(p.freeList, storageIdx)
}

// hasComponent reports whether the entity at storageIdx currently carries
// component, derived from its virtual archetype's mask.
func (p *sparsePool) hasComponent(storageIdx int, component Component) bool {
	bit := p.reg.idFor(component)
	m := p.virtualArchetypes[p.bitmap[storageIdx].maskListIndex].mask
	return maskHasBit(m, bit)
}

// addComponentImmediate implements the immediate add_component variant
// available on the sparse pool (spec §4.2).
func (p *sparsePool) addComponentImmediate(storageIdx int, component Component, value any) error {
	if p.hasComponent(storageIdx, component) {
		return EntityAlreadyHasComponent{Component: component}
	}
	bit := p.reg.idFor(component)
	be := p.bitmap[storageIdx]
	oldMask := p.virtualArchetypes[be.maskListIndex].mask
	newMask := maskAdd(oldMask, bit)
	p.leaveVirtual(storageIdx)
	vaIdx := p.locateOrCreateVirtual(newMask)
	p.joinVirtual(storageIdx, vaIdx)
	if value != nil {
		setSparseValue(p, bit, storageIdx, value)
	}
	return nil
}

// removeComponentImmediate implements the immediate remove_component
// variant (spec §4.2).
func (p *sparsePool) removeComponentImmediate(storageIdx int, component Component) error {
	if !p.hasComponent(storageIdx, component) {
		return EntityDoesNotHaveComponent{Component: component}
	}
	bit := p.reg.idFor(component)
	be := p.bitmap[storageIdx]
	oldMask := p.virtualArchetypes[be.maskListIndex].mask
	newMask := maskRemove(oldMask, bit)
	p.leaveVirtual(storageIdx)
	vaIdx := p.locateOrCreateVirtual(newMask)
	p.joinVirtual(storageIdx, vaIdx)
	return nil
}

func (p *sparsePool) enqueueAdd(h Handle, component Component, data any) {
	p.queue.push(h, migrationEntry{
		direction: migrateAdd,
		bit:       p.reg.idFor(component),
		component: component,
		data:      data,
	})
}

func (p *sparsePool) enqueueRemove(h Handle, component Component) {
	p.queue.push(h, migrationEntry{
		direction: migrateRemove,
		bit:       p.reg.idFor(component),
		component: component,
	})
}

// pendingEntries returns h's not-yet-flushed migration entries, in FIFO
// order (see ArchetypePool.pendingEntries).
func (p *sparsePool) pendingEntries(h Handle) []migrationEntry {
	return p.queue.entries[h]
}

// flushMigrations implements §4.2's flush_migrations: fold, then swap-move
// the entity between virtual archetypes. storage_index never changes —
// this pool's defining stability property — so no swapped handle is ever
// reported (spec §4.2).
func (p *sparsePool) flushMigrations(dir *directory) []flushResult {
	order, entries := p.queue.drain()
	results := make([]flushResult, 0, len(order))

	for _, h := range order {
		s, err := dir.get(h)
		if err != nil {
			continue
		}
		storageIdx := s.storageIndex
		be := p.bitmap[storageIdx]
		oldMask := p.virtualArchetypes[be.maskListIndex].mask
		finalMask := fold(oldMask, entries[h])

		if finalMask == oldMask {
			dir.clearMigrating(h)
			continue
		}

		for _, e := range entries[h] {
			if e.direction == migrateAdd && e.data != nil {
				setSparseValue(p, e.bit, storageIdx, e.data)
			}
		}

		p.leaveVirtual(storageIdx)
		vaIdx := p.locateOrCreateVirtual(finalMask)
		p.joinVirtual(storageIdx, vaIdx)

		results = append(results, flushResult{
			Handle:           h,
			NewMaskListIndex: vaIdx,
			NewStorageIndex:  storageIdx,
		})
	}
	return results
}

// setSparseValue writes value into the column for bit at storageIdx,
// creating the column (sized to value's concrete type) if this is its
// first write. Shares storage with whatever AccessibleComponent[T] reads
// it back through, since both resolve the same p.columns[bit] entry.
func setSparseValue(p *sparsePool, bit ComponentID, storageIdx int, value any) {
	col := columnFor(p, bit, reflect.TypeOf(value))
	col.setAny(storageIdx, value)
}
