/*
Package depot provides an Entity-Component-System (ECS) runtime for games
and simulations, built around multiple independently-typed pools rather
than one global entity store.

Every entity lives in exactly one declared pool, and each pool picks its
own storage engine: an Archetype Pool groups entities into contiguous,
cache-friendly per-component arrays keyed by exact component mask, while
a Sparse-Set Pool keeps one flat, optional-slot column per component with
a storage index that never changes for the life of the entity — cheaper
to mutate component-wise, at the cost of non-contiguous iteration.

Core Concepts:

  - Handle: a generation-checked identifier naming an entity across pools.
  - Component: a typed data record an entity can carry.
  - Pool: a named collection of entities sharing a required component set
    and one storage engine.
  - Query: a component-set predicate compiled against one or more pools,
    refreshed lazily as pools gain archetypes.

Basic Usage:

	world := depot.NewWorld()

	position := depot.NewComponent[Position](world)
	velocity := depot.NewComponent[Velocity](world)

	movers, _ := world.DeclareArchetypePool("movers", []depot.Component{position, velocity})

	h, _ := movers.Create(position, velocity)
	pos, _ := position.GetFromHandle(world, h)
	pos.X, pos.Y = 10, 0

	query, _ := world.NewQuery([]string{"movers"}, position, velocity)

	world.RegisterSystem(depot.SystemFunc(func(w *depot.World) error {
		cursor := query.Cursor()
		for cursor.Next() {
			v, idx := cursor.View()
			p := position.Get(v, idx)
			vel := velocity.Get(v, idx)
			p.X += vel.X
			p.Y += vel.Y
		}
		return nil
	}))

	world.Update()
*/
package depot
