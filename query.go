package depot

import "fmt"

// queryAccess classifies how a Query reaches a pool's archetypes (spec
// §4.6 "Query Engine"): Direct when the query's component set is already
// guaranteed by the pool's required_mask (every archetype qualifies, no
// per-archetype test needed), Lookup when each archetype's current mask
// must be tested individually.
type queryAccess int

const (
	accessDirect queryAccess = iota
	accessLookup
)

// queryPlan is one (pool, access) pair of a compiled Query, with the
// archetype/virtual-archetype indices already known to match, discovered
// incrementally as the pool appends archetypes. consumedNew counts the
// pool archetypes the plan has already considered.
type queryPlan struct {
	poolID      PoolID
	access      queryAccess
	matched     []int
	consumedNew int
}

// Query is a compiled component-set predicate over one or more pools
// (spec §4.6). Declared once, refreshed lazily on first use per tick.
type Query struct {
	world      *World
	mask       ComponentMask
	components []Component
	plans      []*queryPlan
}

// NewQuery compiles a Query over poolNames for the given component set
// (spec §4.6 "compiled to a plan"). Every named pool must already be
// declared.
func (w *World) NewQuery(poolNames []string, components ...Component) (*Query, error) {
	q := &Query{
		world:      w,
		mask:       maskFor(w.reg, components...),
		components: components,
	}
	for _, name := range poolNames {
		id, ok := w.pools.poolByName(name)
		if !ok {
			return nil, fmt.Errorf("depot: query references undeclared pool %q", name)
		}
		p := w.pools.poolAt(id)
		access := accessLookup
		if maskContains(p.requiredMask(), q.mask) {
			access = accessDirect
		}
		plan := &queryPlan{poolID: id, access: access}

		// Seed matched from every archetype the pool already holds, not
		// just future ones discovered via new_archetypes: a Query built
		// after a pool already has archetypes (e.g. mid-simulation, or
		// after a tick boundary already cleared the notify list the pool
		// announced them on) would otherwise never see them.
		for i := 0; i < p.archetypeCount(); i++ {
			if access == accessDirect || maskContains(p.archetypeMask(i), q.mask) {
				plan.matched = append(plan.matched, i)
			}
		}
		plan.consumedNew = p.archetypeCount()

		q.plans = append(q.plans, plan)
	}
	return q, nil
}

// ensureFresh appends every archetype each plan's pool has created since
// the last call, if it matches (spec §4.6 "refresh protocol"). Archetype
// indices are append-only, so the plan only remembers how many it has
// already considered; an archetype created during a tick in which this
// Query was never used is still picked up after that tick's notify lists
// are cleared. Idempotent when the pool has not grown.
func (q *Query) ensureFresh() {
	for _, plan := range q.plans {
		p := q.world.pools.poolAt(plan.poolID)

		n := p.archetypeCount()
		for idx := plan.consumedNew; idx < n; idx++ {
			if plan.access == accessDirect || maskContains(p.archetypeMask(idx), q.mask) {
				plan.matched = append(plan.matched, idx)
			}
		}
		plan.consumedNew = n
	}
}

// Views returns one View per currently-matching archetype (or virtual
// archetype), in plan declaration order.
func (q *Query) Views() []View {
	q.ensureFresh()
	views := make([]View, 0, 8)
	for _, plan := range q.plans {
		p := q.world.pools.poolAt(plan.poolID)
		for _, idx := range plan.matched {
			views = append(views, p.view(idx, q.components))
		}
	}
	return views
}

// Cursor returns a fresh QueryCursor over this Query's current Views.
func (q *Query) Cursor() *QueryCursor {
	return &QueryCursor{views: q.Views(), viewIdx: -1, localIdx: -1}
}

// QueryCursor walks a Query's matched entities in declaration order: all
// entities of the first matching View, then the second, and so on.
type QueryCursor struct {
	views    []View
	viewIdx  int
	localIdx int
}

// Next advances the cursor, returning false once every View is exhausted.
func (c *QueryCursor) Next() bool {
	if c.viewIdx == -1 {
		c.viewIdx = 0
	}
	for c.viewIdx < len(c.views) {
		c.localIdx++
		if c.localIdx < c.views[c.viewIdx].Len() {
			return true
		}
		c.viewIdx++
		c.localIdx = -1
	}
	return false
}

// Handle returns the entity at the cursor's current position.
func (c *QueryCursor) Handle() Handle {
	return c.views[c.viewIdx].Entity(c.localIdx)
}

// View returns the View owning the cursor's current position, and the
// position's local index within it — the pair a component Get call needs.
func (c *QueryCursor) View() (*View, int) {
	return &c.views[c.viewIdx], c.localIdx
}
