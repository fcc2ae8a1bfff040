package depot

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
	"github.com/TheBitDrifter/table"
)

// ArchetypePool groups entities with an identical component mask into
// contiguous per-component arrays (spec §4.1).
type ArchetypePool struct {
	poolID     PoolID
	poolName   string
	pMask      ComponentMask
	rMask      ComponentMask
	reg        *registry
	entryIndex table.EntryIndex
	masks      []ComponentMask
	archetypes []*archetypeRecord
	byMask     map[ComponentMask]int
	queue      *migrationQueue
	newArchs   []int
}

func newArchetypePool(id PoolID, name string, reg *registry, required, optional []Component) *ArchetypePool {
	p := &ArchetypePool{
		poolID:     id,
		poolName:   name,
		reg:        reg,
		entryIndex: table.Factory.NewEntryIndex(),
		byMask:     make(map[ComponentMask]int),
		queue:      newMigrationQueue(),
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

func (p *ArchetypePool) id() PoolID               { return p.poolID }
func (p *ArchetypePool) name() string             { return p.poolName }
func (p *ArchetypePool) strategy() StorageStrategy { return ArchetypeStorage }
func (p *ArchetypePool) poolMask() ComponentMask  { return p.pMask }
func (p *ArchetypePool) requiredMask() ComponentMask { return p.rMask }

func (p *ArchetypePool) archetypeCount() int { return len(p.archetypes) }

func (p *ArchetypePool) archetypeMask(i int) ComponentMask { return p.masks[i] }

func (p *ArchetypePool) view(i int, components []Component) View {
	a := p.archetypes[i]
	return View{
		Entities:       a.entities,
		strategy:       ArchetypeStorage,
		archetypeTable: a.table,
	}
}

func (p *ArchetypePool) newArchetypes() []int { return p.newArchs }

func (p *ArchetypePool) clearNotifyLists() {
	p.newArchs = nil
}

// locateOrCreate returns the index of the archetype with exactly mask m,
// creating it (and announcing it via newArchs) if it doesn't exist yet
// (spec §4.1 "Locate-or-create archetype").
func (p *ArchetypePool) locateOrCreate(m ComponentMask, components ...Component) (int, error) {
	if idx, ok := p.byMask[m]; ok {
		return idx, nil
	}
	rec, err := newArchetypeRecord(p.reg.schema, p.entryIndex, m, components...)
	if err != nil {
		return 0, bark.AddTrace(err)
	}
	idx := len(p.archetypes)
	p.archetypes = append(p.archetypes, rec)
	p.masks = append(p.masks, m)
	p.byMask[m] = idx
	p.newArchs = append(p.newArchs, idx)
	return idx, nil
}

// componentsForMask returns the registry's components whose bit is set in
// m, in registration order — used to build a new archetype's column set.
func (p *ArchetypePool) componentsForMask(m ComponentMask) []Component {
	comps := make([]Component, 0, 8)
	for _, c := range p.reg.components {
		if maskContains(m, maskFor(p.reg, c)) {
			comps = append(comps, c)
		}
	}
	return comps
}

// createEntity implements add_entity (spec §4.1): required-component
// completeness is the caller's responsibility (PoolInterface.Create
// validates it before we're called); here we just fold required ∪
// supplied into a mask, locate-or-create that archetype, and append a row.
func (p *ArchetypePool) createEntity(provided ...Component) (archetypeIdx, storageIdx int, err error) {
	m := p.rMask
	for _, c := range provided {
		m = maskAdd(m, p.reg.idFor(c))
	}
	archetypeIdx, err = p.locateOrCreate(m, p.componentsForMask(m)...)
	if err != nil {
		return 0, 0, err
	}
	rec := p.archetypes[archetypeIdx]
	entries, err := rec.table.NewEntries(1)
	if err != nil {
		return 0, 0, bark.AddTrace(err)
	}
	storageIdx = len(rec.entities)
	rec.entities = append(rec.entities, Handle{})
	rec.entryIDs = append(rec.entryIDs, entries[0].ID())
	return archetypeIdx, storageIdx, nil
}

// bindEntity records the handle assigned by the directory into the
// archetype row reserved by createEntity.
func (p *ArchetypePool) bindEntity(archetypeIdx, storageIdx int, h Handle) {
	p.archetypes[archetypeIdx].entities[storageIdx] = h
}

// destroyEntity implements remove_entity (spec §4.1): swap-remove from the
// archetype's table and entity list, returning whichever handle moved so
// the caller can fix its directory entry.
func (p *ArchetypePool) destroyEntity(archetypeIdx, storageIdx int) (Handle, error) {
	rec := p.archetypes[archetypeIdx]
	return rec.swapRemove(storageIdx)
}

// getComponent implements get_component (spec §4.1).
func (p *ArchetypePool) getComponent(archetypeIdx int, component Component) (table.Table, error) {
	rec := p.archetypes[archetypeIdx]
	if !maskContains(rec.mask, maskFor(p.reg, component)) {
		return nil, ComponentNotInArchetype{Component: component}
	}
	return rec.table, nil
}

// enqueueAdd / enqueueRemove append migration entries (spec §4.1:
// add_component/remove_component are never performed immediately).
func (p *ArchetypePool) enqueueAdd(h Handle, component Component, data any) {
	p.queue.push(h, migrationEntry{
		direction: migrateAdd,
		bit:       p.reg.idFor(component),
		component: component,
		data:      data,
	})
}

func (p *ArchetypePool) enqueueRemove(h Handle, component Component) {
	p.queue.push(h, migrationEntry{
		direction: migrateRemove,
		bit:       p.reg.idFor(component),
		component: component,
	})
}

// pendingEntries returns h's not-yet-flushed migration entries, in FIFO
// order, so a caller can fold them on top of h's current mask to validate
// a new enqueue against what the entity's mask will be, not what it was
// before this tick's earlier enqueues.
func (p *ArchetypePool) pendingEntries(h Handle) []migrationEntry {
	return p.queue.entries[h]
}

// flushMigrations implements §4.1's flush_migrations: fold each entity's
// queued entries into a final mask, move it to the destination archetype
// (copying surviving components, appending new ones, leaving removed ones
// behind), and report the swap-remove fallout from the source archetype.
func (p *ArchetypePool) flushMigrations(dir *directory) []flushResult {
	order, entries := p.queue.drain()
	results := make([]flushResult, 0, len(order))

	for _, h := range order {
		s, err := dir.get(h)
		if err != nil {
			continue // destroyed before flush; nothing to migrate
		}
		srcIdx := s.maskListIndex
		src := p.archetypes[srcIdx]
		oldMask := src.mask
		finalMask := fold(oldMask, entries[h])

		if finalMask == oldMask {
			// net-zero: discard, nothing moved (spec §4.1).
			dir.clearMigrating(h)
			continue
		}

		dstIdx, err := p.locateOrCreate(finalMask, p.componentsForMask(finalMask)...)
		if err != nil {
			panic(fmt.Sprintf("depot: archetype pool invariant violated during flush: %v", err))
		}
		dst := p.archetypes[dstIdx]
		storageIdx := s.storageIndex

		newRows, err := dst.table.NewEntries(1)
		if err != nil {
			panic(fmt.Sprintf("depot: archetype pool invariant violated during flush: %v", err))
		}
		newStorageIdx := len(dst.entities)
		dst.entities = append(dst.entities, h)
		dst.entryIDs = append(dst.entryIDs, newRows[0].ID())

		// copy components present both before and after
		for _, bit := range maskBits(maskAnd(oldMask, finalMask)) {
			copyComponentValue(p.reg, src.table, storageIdx, dst.table, newStorageIdx, bit)
		}
		// apply add-direction payloads for newly-added bits
		for _, e := range entries[h] {
			if e.direction == migrateAdd && maskHasBit(finalMask, e.bit) && !maskHasBit(oldMask, e.bit) && e.data != nil {
				setComponentValue(dst.table, newStorageIdx, e.component, e.data)
			}
		}

		swapped, err := src.swapRemove(storageIdx)
		if err != nil {
			panic(fmt.Sprintf("depot: archetype pool invariant violated during flush: %v", err))
		}
		if swapped != (Handle{}) {
			dir.retarget(p.poolID, srcIdx, storageIdx, swapped)
		}

		results = append(results, flushResult{
			Handle:           h,
			NewMaskListIndex: dstIdx,
			NewStorageIndex:  newStorageIdx,
			Swapped:          swapped,
		})
	}
	return results
}
