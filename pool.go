package depot

import "github.com/TheBitDrifter/table"

// StorageStrategy selects which storage engine a declared pool uses.
type StorageStrategy int

const (
	// ArchetypeStorage groups entities by exact component mask into
	// contiguous per-component arrays (spec §4.1).
	ArchetypeStorage StorageStrategy = iota
	// SparseStorage keeps one flat, optional slot table per component with
	// a stable storage_index for an entity's whole lifetime (spec §4.2).
	SparseStorage
)

// flushResult is one entity's outcome from a pool's flush_migrations pass
// (spec §4.1/§4.2). Swapped is the zero Handle unless an archetype
// swap-remove moved a different entity into the vacated source slot.
type flushResult struct {
	Handle           Handle
	NewMaskListIndex int
	NewStorageIndex  int
	Swapped          Handle
}

// pool is the shared contract the Pool Manager and Query Engine drive
// every storage engine through. ArchetypePool and sparsePool both
// implement it; callers needing engine-specific behavior (Create,
// AddComponent, …) go through PoolInterface instead.
type pool interface {
	id() PoolID
	name() string
	strategy() StorageStrategy
	poolMask() ComponentMask
	requiredMask() ComponentMask

	flushMigrations(dir *directory) []flushResult
	pendingEntries(h Handle) []migrationEntry

	newArchetypes() []int
	clearNotifyLists()

	archetypeCount() int
	archetypeMask(i int) ComponentMask
	view(i int, components []Component) View
}

// View is a per-archetype (or per-virtual-archetype) bundle a query yields
// to a system: the entities it contains plus a way to reach the requested
// components for each of them (spec §3 "Query object", GLOSSARY "View").
type View struct {
	Entities []Handle

	strategy StorageStrategy

	// set when strategy == ArchetypeStorage: local index i addresses
	// table row i directly.
	archetypeTable table.Table

	// set when strategy == SparseStorage: local index i addresses
	// storage index sparseIndices[i] within the owning sparsePool.
	sparseIndices []int
	sparse        *sparsePool
}

// Len reports how many entities this View holds.
func (v *View) Len() int {
	return len(v.Entities)
}

// Entity returns the handle at local index i.
func (v *View) Entity(i int) Handle {
	return v.Entities[i]
}
