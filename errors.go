package depot

import "fmt"

// StaleEntity is returned when a handle's generation no longer matches the
// slot it indexes — the entity it once named has since been destroyed and
// the slot possibly reused.
type StaleEntity struct {
	Handle Handle
}

func (e StaleEntity) Error() string {
	return fmt.Sprintf("depot: stale entity handle %v", e.Handle)
}

// EntityPoolMismatch is returned when a handle's owning pool differs from
// the pool the caller invoked the operation against.
type EntityPoolMismatch struct {
	Handle   Handle
	Expected PoolID
	Actual   PoolID
}

func (e EntityPoolMismatch) Error() string {
	return fmt.Sprintf("depot: entity %v belongs to pool %d, not %d", e.Handle, e.Actual, e.Expected)
}

// ComponentNotInPool is returned by PoolInterface.Create and
// AccessibleComponent.GetFromHandle when the pool is neither an
// ArchetypePool nor a sparsePool. No operation checks a component against
// the pool's declared pool_mask, so a component the pool does not declare
// can still be added to its entities.
type ComponentNotInPool struct {
	Component Component
}

func (e ComponentNotInPool) Error() string {
	return fmt.Sprintf("depot: component %T is not declared on this pool", e.Component)
}

// ComponentNotInArchetype is returned by get_component when the requested
// component bit is absent from the entity's current archetype mask.
type ComponentNotInArchetype struct {
	Component Component
}

func (e ComponentNotInArchetype) Error() string {
	return fmt.Sprintf("depot: component %T not present in entity's archetype", e.Component)
}

// EntityDoesNotHaveComponent is the sparse-pool analogue of
// ComponentNotInArchetype.
type EntityDoesNotHaveComponent struct {
	Handle    Handle
	Component Component
}

func (e EntityDoesNotHaveComponent) Error() string {
	return fmt.Sprintf("depot: entity %v does not have component %T", e.Handle, e.Component)
}

// EntityAlreadyHasComponent is returned by the immediate (non-queued)
// sparse-pool add_component path.
type EntityAlreadyHasComponent struct {
	Handle    Handle
	Component Component
}

func (e EntityAlreadyHasComponent) Error() string {
	return fmt.Sprintf("depot: entity %v already has component %T", e.Handle, e.Component)
}

// AddingExistingComponent is returned when a migration queue entry would
// add a component bit the entity's pre-flush mask already carries and no
// prior queued entry removes it first.
type AddingExistingComponent struct {
	Handle    Handle
	Component Component
}

func (e AddingExistingComponent) Error() string {
	return fmt.Sprintf("depot: cannot add component %T to entity %v: already present", e.Component, e.Handle)
}

// RemovingNonexistingComponent is returned when a migration queue entry
// would remove a component bit absent from the entity's pre-flush mask
// once every entry already queued for it is folded in.
type RemovingNonexistingComponent struct {
	Handle    Handle
	Component Component
}

func (e RemovingNonexistingComponent) Error() string {
	return fmt.Sprintf("depot: cannot remove component %T from entity %v: not present", e.Component, e.Handle)
}

// NullComponentData is returned when an add-component migration entry
// carries no payload.
type NullComponentData struct {
	Handle    Handle
	Component Component
}

func (e NullComponentData) Error() string {
	return fmt.Sprintf("depot: add_component for %T on entity %v carries no data", e.Component, e.Handle)
}

// ArchetypeDoesNotExist names a mask that has never been created in an
// archetype pool. The pool's archetype lookup (locateOrCreate) creates a
// missing archetype instead, so no operation in this package returns it.
type ArchetypeDoesNotExist struct {
	Mask ComponentMask
}

func (e ArchetypeDoesNotExist) Error() string {
	return fmt.Sprintf("depot: no archetype exists for mask %v", e.Mask)
}

// StorageLocked is returned when an immediate (non-queued) add or remove
// is attempted on an archetype pool, whose layout only a flush changes.
type StorageLocked struct{}

func (e StorageLocked) Error() string {
	return "depot: pool only changes components through a flush"
}

// --- build-time (World/pool construction) errors ---

// PoolMustContainAtLeastOneComponent is returned at pool declaration when
// neither required nor optional components were supplied.
type PoolMustContainAtLeastOneComponent struct {
	Pool string
}

func (e PoolMustContainAtLeastOneComponent) Error() string {
	return fmt.Sprintf("depot: pool %q declares no components", e.Pool)
}

// RequiredComponentMissing is returned when Create is called for a pool
// without supplying one of its required components.
type RequiredComponentMissing struct {
	Pool      string
	Component Component
}

func (e RequiredComponentMissing) Error() string {
	return fmt.Sprintf("depot: pool %q requires component %T, none supplied", e.Pool, e.Component)
}

// CannotRemoveRequiredComponent is returned when remove_component targets
// a component in the pool's required_mask.
type CannotRemoveRequiredComponent struct {
	Pool      string
	Component Component
}

func (e CannotRemoveRequiredComponent) Error() string {
	return fmt.Sprintf("depot: component %T is required by pool %q and cannot be removed", e.Component, e.Pool)
}

// DuplicatePoolName is returned when two pools are declared under the same
// name.
type DuplicatePoolName struct {
	Pool string
}

func (e DuplicatePoolName) Error() string {
	return fmt.Sprintf("depot: pool %q already declared", e.Pool)
}
