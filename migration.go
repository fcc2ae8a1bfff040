package depot

// migrationDirection distinguishes an add from a remove within a migration
// entry (spec §3 "Migration entry").
type migrationDirection int

const (
	migrateAdd migrationDirection = iota
	migrateRemove
)

// migrationEntry is one pending structural change for a single entity.
// Entries for the same entity are kept in FIFO order; folding them in
// order yields the entity's final mask (spec §4.4).
type migrationEntry struct {
	direction migrationDirection
	bit       ComponentID
	component Component
	data      any // payload for migrateAdd; unused for migrateRemove
}

// migrationQueue batches per-entity structural changes so a pool's storage
// isn't restructured mid-iteration. Drained wholesale at flush.
type migrationQueue struct {
	order   []Handle
	entries map[Handle][]migrationEntry
}

func newMigrationQueue() *migrationQueue {
	return &migrationQueue{entries: make(map[Handle][]migrationEntry)}
}

// push appends an entry for h, recording h in discovery order the first
// time it's seen this round.
func (q *migrationQueue) push(h Handle, entry migrationEntry) {
	if _, ok := q.entries[h]; !ok {
		q.order = append(q.order, h)
	}
	q.entries[h] = append(q.entries[h], entry)
}

// fold applies every queued entry for h to preMask in insertion order,
// returning the final mask (spec §4.4: `|=` for adds, `&^` for removes).
func fold(preMask ComponentMask, entries []migrationEntry) ComponentMask {
	final := preMask
	for _, e := range entries {
		switch e.direction {
		case migrateAdd:
			final = maskAdd(final, e.bit)
		case migrateRemove:
			final = maskRemove(final, e.bit)
		}
	}
	return final
}

// drain returns the handles with pending entries (in discovery order) and
// clears the queue. Called once per flush.
func (q *migrationQueue) drain() ([]Handle, map[Handle][]migrationEntry) {
	order, entries := q.order, q.entries
	q.order = nil
	q.entries = make(map[Handle][]migrationEntry)
	return order, entries
}

// isEmpty reports whether there is nothing queued.
func (q *migrationQueue) isEmpty() bool {
	return len(q.order) == 0
}
