package depot

import "testing"

func TestDirectoryAllocateAndRelease(t *testing.T) {
	d := newDirectory()

	h1 := d.allocate(1, 0, 0)
	h2 := d.allocate(1, 0, 1)

	if h1.Index == h2.Index {
		t.Fatalf("expected distinct slots, got %v and %v", h1, h2)
	}

	if err := d.release(h1); err != nil {
		t.Fatalf("release: %v", err)
	}

	if _, err := d.get(h1); err == nil {
		t.Errorf("expected StaleEntity after release")
	}

	h3 := d.allocate(1, 0, 0)
	if h3.Index != h1.Index {
		t.Errorf("expected freed slot %d to be reused, got %d", h1.Index, h3.Index)
	}
	if h3.Generation != h1.Generation+1 {
		t.Errorf("expected generation to bump from %d to %d, got %d", h1.Generation, h1.Generation+1, h3.Generation)
	}
}

func TestDirectoryStaleHandleOldGeneration(t *testing.T) {
	d := newDirectory()
	h1 := d.allocate(1, 0, 0)
	if err := d.release(h1); err != nil {
		t.Fatalf("release: %v", err)
	}
	d.allocate(1, 0, 0) // reuse the slot under a new generation

	if _, err := d.get(h1); err == nil {
		t.Errorf("expected the old-generation handle to be rejected as stale")
	}
}

func TestDirectoryApplyMoveAndRetarget(t *testing.T) {
	d := newDirectory()
	h := d.allocate(1, 0, 5)

	d.applyMove(h, 2, 9)
	s, err := d.get(h)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.maskListIndex != 2 || s.storageIndex != 9 {
		t.Errorf("applyMove didn't stick: got (%d, %d), want (2, 9)", s.maskListIndex, s.storageIndex)
	}

	d.retarget(3, 4, 7, h)
	s, _ = d.get(h)
	if s.pool != 3 || s.maskListIndex != 4 || s.storageIndex != 7 {
		t.Errorf("retarget didn't stick: got pool=%d mli=%d si=%d", s.pool, s.maskListIndex, s.storageIndex)
	}
}
