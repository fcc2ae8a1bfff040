package depot

import (
	"reflect"

	"github.com/TheBitDrifter/table"
)

// archetypeRecord is one entry in an ArchetypePool's parallel masks[]/
// archetypes[] vectors (spec §3 "Archetype"): a component mask, the
// handles that share it, and the table backing its per-component columns.
// entities and entryIDs are both index-aligned with the table's physical
// rows: entities carries pool-level identity, entryIDs carries the stable
// table.EntryID each row was created with, since table.Table.DeleteEntries
// is keyed by that id rather than by physical position (mirroring the
// teacher's entity.go, which resolves a row's current physical index from
// its EntryID on every access instead of caching one).
type archetypeRecord struct {
	mask     ComponentMask
	entities []Handle
	entryIDs []table.EntryID
	table    table.Table
}

func newArchetypeRecord(schema table.Schema, entryIndex table.EntryIndex, m ComponentMask, components ...Component) (*archetypeRecord, error) {
	elementTypes := make([]table.ElementType, len(components))
	for i, c := range components {
		elementTypes[i] = c
	}
	tbl, err := table.NewTableBuilder().
		WithSchema(schema).
		WithEntryIndex(entryIndex).
		WithElementTypes(elementTypes...).
		WithEvents(Config.tableEvents).
		Build()
	if err != nil {
		return nil, err
	}
	return &archetypeRecord{mask: m, table: tbl}, nil
}

// swapRemove removes the entity at physical row i, moving the last row
// into its place if i wasn't already last. Returns the handle that moved,
// or the zero Handle if none did.
//
// table.Table.DeleteEntries is keyed by table.EntryID, not by physical
// row position — the teacher's own storage.go passes int(entity.ID())
// to it, never a raw index. We pass entryIDs[i] for the same reason: the
// library does its own id-keyed swap-remove on the table's columns, and
// entries/entryIDs must swap in lockstep with it so row i keeps meaning
// "this pool's bookkeeping for whatever the table now holds at row i".
func (a *archetypeRecord) swapRemove(i int) (Handle, error) {
	last := len(a.entities) - 1
	id := a.entryIDs[i]
	var swapped Handle
	if i != last {
		swapped = a.entities[last]
		a.entities[i] = a.entities[last]
		a.entryIDs[i] = a.entryIDs[last]
	}
	a.entities = a.entities[:last]
	a.entryIDs = a.entryIDs[:last]
	if _, err := a.table.DeleteEntries(int(id)); err != nil {
		return Handle{}, err
	}
	return swapped, nil
}

// componentForBit finds the registered component occupying bit, used to
// locate the matching column when migrating a row between archetypes.
func componentForBit(reg *registry, bit ComponentID) Component {
	for _, c := range reg.components {
		if reg.idFor(c) == bit {
			return c
		}
	}
	return nil
}

// setComponentValue writes value into the row at index for whichever
// column in tbl holds that concrete type. Mirrors the reflection-based
// value assignment the teacher used for AddComponentWithValue.
func setComponentValue(tbl table.Table, index int, component Component, value any) {
	valueType := reflect.TypeOf(value)
	for _, row := range tbl.Rows() {
		if row.Type().Elem() == valueType {
			reflect.Value(row).Index(index).Set(reflect.ValueOf(value))
			return
		}
	}
}

// copyComponentValue copies the value of the component occupying bit from
// (srcTbl, srcIdx) to (dstTbl, dstIdx), used when a migration carries a
// surviving component across to its destination archetype.
func copyComponentValue(reg *registry, srcTbl table.Table, srcIdx int, dstTbl table.Table, dstIdx int, bit ComponentID) {
	comp := componentForBit(reg, bit)
	if comp == nil {
		return
	}
	compType := comp.Type()

	var value reflect.Value
	found := false
	for _, row := range srcTbl.Rows() {
		if row.Type().Elem() == compType {
			value = reflect.Value(row).Index(srcIdx)
			found = true
			break
		}
	}
	if !found {
		return
	}
	for _, row := range dstTbl.Rows() {
		if row.Type().Elem() == compType {
			reflect.Value(row).Index(dstIdx).Set(value)
			return
		}
	}
}
