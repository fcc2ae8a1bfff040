package depot

import "testing"

func newSparseWorld(t *testing.T) (*World, AccessibleComponent[Position], AccessibleComponent[Health], PoolInterface) {
	t.Helper()
	w := NewWorld()
	position := NewComponent[Position](w)
	health := NewComponent[Health](w)
	general, err := w.DeclareSparsePool("general", []Component{position})
	if err != nil {
		t.Fatalf("DeclareSparsePool: %v", err)
	}
	return w, position, health, general
}

func TestSparsePoolAddComponentMidIteration(t *testing.T) {
	w, position, health, general := newSparseWorld(t)

	handles := make([]Handle, 100)
	for i := range handles {
		h, err := general.Create(position)
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		p, _ := position.GetFromHandle(w, h)
		p.X = float64(i)
		handles[i] = h
	}

	withHealth, err := w.NewQuery([]string{"general"}, position, health)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}

	enqueued := false
	w.RegisterSystem(SystemFunc(func(w *World) error {
		if enqueued {
			return nil
		}
		enqueued = true
		for i := 0; i < 90; i++ {
			if err := general.EnqueueAddComponentWithValue(handles[i], health, Health{Current: 100, Max: 100}); err != nil {
				return err
			}
		}
		return nil
	}))

	// Update flushes before it runs systems, so the adds the system queued
	// during the first tick are applied by the second tick's flush.
	if err := w.Update(); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := w.Update(); err != nil {
		t.Fatalf("second Update: %v", err)
	}

	matched := 0
	cursor := withHealth.Cursor()
	for cursor.Next() {
		matched++
	}
	if matched != 90 {
		t.Errorf("matched %d entities with health, want 90", matched)
	}

	for i := 0; i < 90; i++ {
		if _, err := health.GetFromHandle(w, handles[i]); err != nil {
			t.Errorf("handle %d should carry health: %v", i, err)
		}
	}
	for i := 90; i < 100; i++ {
		if _, err := health.GetFromHandle(w, handles[i]); err == nil {
			t.Errorf("handle %d should not carry health", i)
		}
	}
}

func TestSparsePoolStableStorageIndex(t *testing.T) {
	w, position, health, general := newSparseWorld(t)

	h, err := general.Create(position)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	s, err := w.dir.get(h)
	if err != nil {
		t.Fatalf("dir.get: %v", err)
	}
	before := s.storageIndex

	if err := general.AddComponentImmediate(h, health, Health{Current: 1, Max: 1}); err != nil {
		t.Fatalf("AddComponentImmediate: %v", err)
	}

	s, err = w.dir.get(h)
	if err != nil {
		t.Fatalf("dir.get after add: %v", err)
	}
	if s.storageIndex != before {
		t.Errorf("storage_index changed from %d to %d across an immediate add; sparse pools must keep it stable", before, s.storageIndex)
	}
}

func TestSparsePoolDestroyReusesFreedRow(t *testing.T) {
	w, position, _, general := newSparseWorld(t)

	h1, err := general.Create(position)
	if err != nil {
		t.Fatalf("Create h1: %v", err)
	}
	s1, _ := w.dir.get(h1)
	idx1 := s1.storageIndex

	if err := general.Destroy(h1); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	h2, err := general.Create(position)
	if err != nil {
		t.Fatalf("Create h2: %v", err)
	}
	s2, _ := w.dir.get(h2)
	if s2.storageIndex != idx1 {
		t.Errorf("expected freed row %d to be reused, got %d", idx1, s2.storageIndex)
	}
}
