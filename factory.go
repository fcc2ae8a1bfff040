package depot

// NewComponent declares a new component type against w's registry and
// returns a typed accessor for it (spec GLOSSARY "AccessibleComponent[T]").
// Call once per type per World; the returned value is what Create,
// GetFromHandle, and Query calls all take as the Component argument.
func NewComponent[T any](w *World) AccessibleComponent[T] {
	return newAccessibleComponent[T](w.reg)
}
