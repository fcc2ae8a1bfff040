package depot

import "github.com/TheBitDrifter/mask"

// ComponentMask identifies a set of components. Two masks are equal iff
// they mark exactly the same component bits.
type ComponentMask = mask.Mask

// maskFor builds a ComponentMask from a set of already-registered
// components.
func maskFor(r *registry, components ...Component) ComponentMask {
	var m ComponentMask
	for _, c := range components {
		m.Mark(r.idFor(c))
	}
	return m
}

// maskAdd returns m with bit marked.
func maskAdd(m ComponentMask, bit ComponentID) ComponentMask {
	m.Mark(bit)
	return m
}

// maskRemove returns m with bit unmarked.
func maskRemove(m ComponentMask, bit ComponentID) ComponentMask {
	m.Unmark(bit)
	return m
}

// maskUnion returns the union of a and b.
func maskUnion(a, b ComponentMask) ComponentMask {
	for _, bit := range maskBits(b) {
		a.Mark(bit)
	}
	return a
}

// maskContains reports whether super contains every bit set in sub.
func maskContains(super, sub ComponentMask) bool {
	return super.ContainsAll(sub)
}

// maskAnd returns the intersection of a and b.
func maskAnd(a, b ComponentMask) ComponentMask {
	var out ComponentMask
	for _, bit := range maskBits(a) {
		var probe ComponentMask
		probe.Mark(bit)
		if b.ContainsAll(probe) {
			out.Mark(bit)
		}
	}
	return out
}

// maskHasBit reports whether bit is set in m.
func maskHasBit(m ComponentMask, bit ComponentID) bool {
	var probe ComponentMask
	probe.Mark(bit)
	return m.ContainsAll(probe)
}

// maskBits enumerates the set bits of m, low to high. Used only where we
// need to walk a mask's membership (union construction, archetype column
// setup) rather than just test it.
func maskBits(m ComponentMask) []ComponentID {
	bits := make([]ComponentID, 0, 8)
	for bit := ComponentID(0); bit < maxComponents; bit++ {
		var probe ComponentMask
		probe.Mark(bit)
		if m.ContainsAll(probe) {
			bits = append(bits, bit)
		}
	}
	return bits
}
