package depot

import "testing"

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

type Tag struct{}

func newMoverWorld(t *testing.T) (*World, AccessibleComponent[Position], AccessibleComponent[Velocity], PoolInterface) {
	t.Helper()
	w := NewWorld()
	position := NewComponent[Position](w)
	velocity := NewComponent[Velocity](w)
	movers, err := w.DeclareArchetypePool("movers", []Component{position, velocity})
	if err != nil {
		t.Fatalf("DeclareArchetypePool: %v", err)
	}
	return w, position, velocity, movers
}

func TestWorldBasicMoveFiveTicks(t *testing.T) {
	w, position, velocity, movers := newMoverWorld(t)

	h, err := movers.Create(position, velocity)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	pos, err := position.GetFromHandle(w, h)
	if err != nil {
		t.Fatalf("GetFromHandle(position): %v", err)
	}
	pos.X, pos.Y = 0, 0
	vel, err := velocity.GetFromHandle(w, h)
	if err != nil {
		t.Fatalf("GetFromHandle(velocity): %v", err)
	}
	vel.X, vel.Y = 1, 2

	query, err := w.NewQuery([]string{"movers"}, position, velocity)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}

	w.RegisterSystem(SystemFunc(func(w *World) error {
		cursor := query.Cursor()
		for cursor.Next() {
			v, idx := cursor.View()
			p := position.Get(v, idx)
			vv := velocity.Get(v, idx)
			p.X += vv.X
			p.Y += vv.Y
		}
		return nil
	}))

	for i := 0; i < 5; i++ {
		if err := w.Update(); err != nil {
			t.Fatalf("Update() tick %d: %v", i, err)
		}
	}

	got, err := position.GetFromHandle(w, h)
	if err != nil {
		t.Fatalf("GetFromHandle after ticks: %v", err)
	}
	if got.X != 5 || got.Y != 10 {
		t.Errorf("position = (%v, %v), want (5, 10)", got.X, got.Y)
	}
}

func TestWorldStaleHandleAfterDestroy(t *testing.T) {
	w, position, velocity, movers := newMoverWorld(t)

	h, err := movers.Create(position, velocity)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := movers.Destroy(h); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	if _, err := position.GetFromHandle(w, h); err == nil {
		t.Fatalf("expected error accessing destroyed entity, got nil")
	} else if _, ok := err.(StaleEntity); !ok {
		t.Errorf("expected StaleEntity, got %T: %v", err, err)
	}
}

func TestWorldArchetypeSwapRemoveOnDestroy(t *testing.T) {
	w, position, velocity, movers := newMoverWorld(t)

	handles := make([]Handle, 3)
	for i := range handles {
		h, err := movers.Create(position, velocity)
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		p, _ := position.GetFromHandle(w, h)
		p.X = float64(i)
		handles[i] = h
	}

	// destroy the middle entity; the last one should swap into its slot
	if err := movers.Destroy(handles[1]); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	for _, h := range []Handle{handles[0], handles[2]} {
		if _, err := position.GetFromHandle(w, h); err != nil {
			t.Errorf("surviving handle %v errored after swap-remove: %v", h, err)
		}
	}
	if _, err := position.GetFromHandle(w, handles[1]); err == nil {
		t.Errorf("expected destroyed handle to be stale")
	}
}

func TestWorldRequiredComponentMissing(t *testing.T) {
	w := NewWorld()
	position := NewComponent[Position](w)
	velocity := NewComponent[Velocity](w)
	movers, err := w.DeclareArchetypePool("movers", []Component{position, velocity})
	if err != nil {
		t.Fatalf("DeclareArchetypePool: %v", err)
	}

	if _, err := movers.Create(position); err == nil {
		t.Fatalf("expected RequiredComponentMissing, got nil")
	} else if _, ok := err.(RequiredComponentMissing); !ok {
		t.Errorf("expected RequiredComponentMissing, got %T: %v", err, err)
	}
}

func TestWorldCannotRemoveRequiredComponent(t *testing.T) {
	w, position, velocity, movers := newMoverWorld(t)
	h, err := movers.Create(position, velocity)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := movers.EnqueueRemoveComponent(h, position); err == nil {
		t.Fatalf("expected CannotRemoveRequiredComponent, got nil")
	} else if _, ok := err.(CannotRemoveRequiredComponent); !ok {
		t.Errorf("expected CannotRemoveRequiredComponent, got %T: %v", err, err)
	}
}

func TestWorldMigrationFoldsToNoOp(t *testing.T) {
	w, position, velocity, movers := newMoverWorld(t)
	health := NewComponent[Health](w)

	h, err := movers.Create(position, velocity)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := movers.EnqueueAddComponentWithValue(h, health, Health{Current: 10, Max: 10}); err != nil {
		t.Fatalf("EnqueueAddComponentWithValue: %v", err)
	}
	if err := movers.EnqueueRemoveComponent(h, health); err != nil {
		t.Fatalf("EnqueueRemoveComponent: %v", err)
	}

	if err := w.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := health.GetFromHandle(w, h); err == nil {
		t.Errorf("expected entity to not carry health after add+remove folds to no-op")
	}
	// position/velocity should still resolve fine: the entity never moved
	// archetypes, since add+remove of health netted no mask change.
	if _, err := position.GetFromHandle(w, h); err != nil {
		t.Errorf("position access broke after no-op fold: %v", err)
	}
}

func TestWorldDeclareDuplicatePool(t *testing.T) {
	w := NewWorld()
	position := NewComponent[Position](w)
	if _, err := w.DeclareArchetypePool("movers", []Component{position}); err != nil {
		t.Fatalf("first declare: %v", err)
	}
	if _, err := w.DeclareArchetypePool("movers", []Component{position}); err == nil {
		t.Fatalf("expected DuplicatePoolName, got nil")
	} else if _, ok := err.(DuplicatePoolName); !ok {
		t.Errorf("expected DuplicatePoolName, got %T: %v", err, err)
	}
}

func TestWorldDeclareEmptyPoolRejected(t *testing.T) {
	w := NewWorld()
	if _, err := w.DeclareArchetypePool("empty", nil); err == nil {
		t.Fatalf("expected PoolMustContainAtLeastOneComponent, got nil")
	} else if _, ok := err.(PoolMustContainAtLeastOneComponent); !ok {
		t.Errorf("expected PoolMustContainAtLeastOneComponent, got %T: %v", err, err)
	}
}
