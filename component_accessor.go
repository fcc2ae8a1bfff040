package depot

import "github.com/TheBitDrifter/table"

// AccessibleComponent extends a Component with typed, table-based access
// (spec GLOSSARY "AccessibleComponent[T]"), grounded on the teacher's own
// type of the same name. Unlike the teacher's single-storage version, Get
// works against either storage engine: it branches on the View's strategy,
// since an ArchetypePool table row and a sparsePool's flat column are
// reached differently.
type AccessibleComponent[T any] struct {
	Component
	table.Accessor[T]
	bit ComponentID
}

// newAccessibleComponent builds an AccessibleComponent[T] bound to an
// already-registered component, recording its bit so sparse-pool lookups
// can find (or lazily create) the matching typed column.
func newAccessibleComponent[T any](reg *registry) AccessibleComponent[T] {
	iden := table.FactoryNewElementType[T]()
	reg.register(iden)
	return AccessibleComponent[T]{
		Component: iden,
		Accessor:  table.FactoryNewAccessor[T](iden),
		bit:       reg.idFor(iden),
	}
}

// Get retrieves this component's value for the local index i within v,
// dispatching to whichever storage engine backs v.
func (c AccessibleComponent[T]) Get(v *View, i int) *T {
	switch v.strategy {
	case ArchetypeStorage:
		return c.Accessor.Get(i, v.archetypeTable)
	case SparseStorage:
		storageIdx := v.sparseIndices[i]
		return c.getSparse(v.sparse, storageIdx)
	default:
		return nil
	}
}

// Check reports whether this component is present in v's backing
// archetype (or, for a sparse View, is a meaningful question only at the
// entity level — every virtual archetype already carries a fixed mask, so
// Check always succeeds for a sparse View built from a query that required
// the component).
func (c AccessibleComponent[T]) Check(v *View) bool {
	switch v.strategy {
	case ArchetypeStorage:
		return c.Accessor.Check(v.archetypeTable)
	case SparseStorage:
		return true
	default:
		return false
	}
}

// getSparse finds or lazily creates this component's column in p,
// returning a pointer into it for storageIdx. Shares the same
// p.columns[bit] entry an untyped write (setSparseValue) would have
// created, so neither path can lose a value the other wrote first.
func (c AccessibleComponent[T]) getSparse(p *sparsePool, storageIdx int) *T {
	return sparseColumnGet[T](p, c.bit, storageIdx)
}

// GetFromHandle resolves h through the world's directory to its owning
// pool and View-local index, then retrieves this component's value.
func (c AccessibleComponent[T]) GetFromHandle(w *World, h Handle) (*T, error) {
	s, err := w.dir.get(h)
	if err != nil {
		return nil, err
	}
	p := w.pools.poolAt(s.pool)
	switch tp := p.(type) {
	case *ArchetypePool:
		rec := tp.archetypes[s.maskListIndex]
		if !maskContains(rec.mask, maskFor(w.reg, c.Component)) {
			return nil, ComponentNotInArchetype{Component: c.Component}
		}
		return c.Accessor.Get(s.storageIndex, rec.table), nil
	case *sparsePool:
		if !tp.hasComponent(s.storageIndex, c.Component) {
			return nil, EntityDoesNotHaveComponent{Handle: h, Component: c.Component}
		}
		return c.getSparse(tp, s.storageIndex), nil
	default:
		return nil, ComponentNotInPool{Component: c.Component}
	}
}
