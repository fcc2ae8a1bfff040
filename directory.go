package depot

import "fmt"

// PoolID identifies a pool instance within a World. Zero is never a valid
// pool id.
type PoolID uint32

// Handle is the opaque, stable identifier callers hold for an entity. It is
// valid iff the directory slot at Index still carries Generation.
type Handle struct {
	Index      uint32
	Generation uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("Handle(%d@%d)", h.Index, h.Generation)
}

// slot is the directory's per-handle bookkeeping (spec §3 "Entity slot").
type slot struct {
	generation     uint32
	pool           PoolID
	maskListIndex  int
	storageIndex   int
	isMigrating    bool
	alive          bool
}

// directory maps stable handles to their physical storage location. It is
// the single shared, non-owning index every pool and the query engine read
// through. PoolInterface writes it when it creates, destroys or mutates an
// entity; during a flush the archetype pool retargets swapped handles and
// the pool manager applies each relocation.
type directory struct {
	slots    []slot
	freeList []uint32
}

func newDirectory() *directory {
	return &directory{}
}

// allocate reserves a handle for a freshly created entity, reusing a freed
// slot when one is available.
func (d *directory) allocate(pool PoolID, maskListIndex, storageIndex int) Handle {
	if n := len(d.freeList); n > 0 {
		idx := d.freeList[n-1]
		d.freeList = d.freeList[:n-1]
		s := &d.slots[idx]
		s.pool = pool
		s.maskListIndex = maskListIndex
		s.storageIndex = storageIndex
		s.isMigrating = false
		s.alive = true
		return Handle{Index: idx, Generation: s.generation}
	}
	idx := uint32(len(d.slots))
	// Generations start at 1 so the zero Handle never names a live entity:
	// swap-remove results and retarget use it to mean "no handle moved".
	d.slots = append(d.slots, slot{
		generation:    1,
		pool:          pool,
		maskListIndex: maskListIndex,
		storageIndex:  storageIndex,
		alive:         true,
	})
	return Handle{Index: idx, Generation: 1}
}

// get validates a handle against its slot's generation and returns the
// slot. Returns StaleEntity if the handle no longer refers to a live
// entity.
func (d *directory) get(h Handle) (*slot, error) {
	if int(h.Index) >= len(d.slots) {
		return nil, StaleEntity{Handle: h}
	}
	s := &d.slots[h.Index]
	if !s.alive || s.generation != h.Generation {
		return nil, StaleEntity{Handle: h}
	}
	return s, nil
}

// release bumps the slot's generation and returns it to the free list.
// Subsequent lookups with the old handle fail with StaleEntity.
func (d *directory) release(h Handle) error {
	s, err := d.get(h)
	if err != nil {
		return err
	}
	s.alive = false
	s.generation++
	d.freeList = append(d.freeList, h.Index)
	return nil
}

// applyMove rewrites a slot's location after a flush relocates its entity,
// per the §4.3 coherence contract. It leaves isMigrating as it is; the
// caller clears that last, with clearMigrating.
func (d *directory) applyMove(h Handle, maskListIndex, storageIndex int) {
	s := &d.slots[h.Index]
	s.maskListIndex = maskListIndex
	s.storageIndex = storageIndex
}

// clearMigrating clears the migrating flag for a handle once its flush
// results have been fully applied.
func (d *directory) clearMigrating(h Handle) {
	d.slots[h.Index].isMigrating = false
}

// setMigrating marks a handle as having at least one unflushed migration
// entry.
func (d *directory) setMigrating(h Handle) {
	d.slots[h.Index].isMigrating = true
}

// retarget rewrites the storage_index of whatever live handle currently
// occupies storageIndex within pool/maskListIndex — used after an
// archetype swap-remove moved the last entity into a vacated slot.
func (d *directory) retarget(pool PoolID, maskListIndex, newStorageIndex int, moved Handle) {
	if moved == (Handle{}) {
		return
	}
	s := &d.slots[moved.Index]
	s.pool = pool
	s.maskListIndex = maskListIndex
	s.storageIndex = newStorageIndex
}
