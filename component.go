package depot

import (
	"github.com/TheBitDrifter/table"
)

// Component is a user-defined record type attached to entities. The closed
// set of component kinds is declared once, at build time, via
// NewComponent.
type Component interface {
	table.ElementType
}

// ComponentID is the bit position a component occupies within a
// ComponentMask, deduced from the order components were registered in.
type ComponentID = uint32

// maxComponents bounds the closed enumeration at N <= 128 per spec §3,
// rounded up to the external mask package's widest representation.
const maxComponents = 256

// registry is the closed enumeration of every component kind declared
// across the whole World, backed by the table package's own schema (which
// already assigns a stable bit index per registered component type).
// NewComponent and pool declarations add to it after NewWorld; a
// registration is never removed and a component's bit never changes.
type registry struct {
	schema     table.Schema
	components []Component
	seen       map[ComponentID]bool
}

func newRegistry() *registry {
	return &registry{
		schema: table.Factory.NewSchema(),
		seen:   make(map[ComponentID]bool),
	}
}

// register assigns (or recalls) c's bit position and records it in the
// closed component list the first time it's seen.
func (r *registry) register(c Component) ComponentID {
	r.schema.Register(c)
	id := r.schema.RowIndexFor(c)
	if !r.seen[id] {
		r.seen[id] = true
		r.components = append(r.components, c)
	}
	return id
}

// idFor returns the bit position of an already-registered component.
func (r *registry) idFor(c Component) ComponentID {
	return r.schema.RowIndexFor(c)
}
