package depot

import "testing"

func TestQueryDirectVsLookupClassification(t *testing.T) {
	w := NewWorld()
	position := NewComponent[Position](w)
	velocity := NewComponent[Velocity](w)
	health := NewComponent[Health](w)

	// "movers" requires both position and velocity: a query for just
	// position is Direct against it — every archetype already has it.
	movers, err := w.DeclareArchetypePool("movers", []Component{position, velocity})
	if err != nil {
		t.Fatalf("DeclareArchetypePool(movers): %v", err)
	}
	// "general" only requires position; health is optional, so a query
	// for position+health must be Lookup against it.
	general, err := w.DeclareSparsePool("general", []Component{position}, health)
	if err != nil {
		t.Fatalf("DeclareSparsePool(general): %v", err)
	}

	q, err := w.NewQuery([]string{"movers", "general"}, position)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	if q.plans[0].access != accessDirect {
		t.Errorf("expected movers plan to be Direct for a position-only query")
	}

	q2, err := w.NewQuery([]string{"general"}, position, health)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	if q2.plans[0].access != accessLookup {
		t.Errorf("expected general plan to be Lookup for a position+health query")
	}

	if _, err := movers.Create(position, velocity); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := general.Create(position); err != nil {
		t.Fatalf("Create: %v", err)
	}

	count := 0
	cursor := q.Cursor()
	for cursor.Next() {
		count++
	}
	if count != 2 {
		t.Errorf("expected the cross-pool position query to match 2 entities, got %d", count)
	}
}

func TestQueryBuiltAfterArchetypeAlreadyExistsMatchesIt(t *testing.T) {
	w := NewWorld()
	position := NewComponent[Position](w)
	velocity := NewComponent[Velocity](w)

	movers, err := w.DeclareArchetypePool("movers", []Component{position}, velocity)
	if err != nil {
		t.Fatalf("DeclareArchetypePool: %v", err)
	}

	// create an entity (and its archetype) before any query exists, then
	// advance a tick so the pool's new_archetypes notify list is cleared —
	// a query declared only now must still see the pre-existing archetype
	// rather than waiting for a future announcement that will never come.
	if _, err := movers.Create(position); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := w.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	q, err := w.NewQuery([]string{"movers"}, position)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	if n := len(q.Views()); n != 1 {
		t.Fatalf("expected the late-declared query to match the pre-existing archetype, got %d views", n)
	}
}

func TestQueryRefreshPicksUpArchetypeCreatedMidRun(t *testing.T) {
	w := NewWorld()
	position := NewComponent[Position](w)
	velocity := NewComponent[Velocity](w)
	health := NewComponent[Health](w)

	movers, err := w.DeclareArchetypePool("movers", []Component{position}, velocity, health)
	if err != nil {
		t.Fatalf("DeclareArchetypePool: %v", err)
	}

	q, err := w.NewQuery([]string{"movers"}, position)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}

	if _, err := movers.Create(position); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n := len(q.Views()); n != 1 {
		t.Fatalf("expected 1 view before the second archetype exists, got %d", n)
	}

	// a second, distinct archetype (position+velocity) should be picked
	// up by the already-declared query on its next refresh.
	if _, err := movers.Create(position, velocity); err != nil {
		t.Fatalf("Create: %v", err)
	}

	views := q.Views()
	total := 0
	for _, v := range views {
		total += v.Len()
	}
	if total != 2 {
		t.Errorf("expected the query to see both archetypes' entities after refresh, got %d across %d views", total, len(views))
	}
}
