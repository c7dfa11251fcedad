package slot

import "github.com/hupe1980/topoindex/core"

const (
	pageBits = 10
	pageSize = 1 << pageBits // 1024
	pageMask = pageSize - 1
)

// Slot is one arena cell.
type Slot[E any] struct {
	entity   E
	removals uint32
	live     bool
}

// Entity returns the payload and whether the slot is live.
func (s *Slot[E]) Entity() (E, bool) {
	return s.entity, s.live
}

// Live reports whether the slot currently holds a payload.
func (s *Slot[E]) Live() bool { return s.live }

// Generation starts at 1 and increases by one per removal.
func (s *Slot[E]) Generation() core.Generation {
	return core.Generation(s.removals + 1)
}

type page[E any] struct {
	slots [pageSize]Slot[E]
}

// Table is a growable sequence of slots addressed by index.
type Table[E any] struct {
	pages []*page[E]
	size  int // highest index ever touched + 1
	alive int
}

// New creates a table with room for at least capacity slots.
func New[E any](capacity int) *Table[E] {
	t := &Table[E]{}
	if capacity > 0 {
		t.pages = make([]*page[E], 0, (capacity+pageSize-1)>>pageBits)
	}
	return t
}

// Get returns the slot at idx, or nil if idx was never allocated.
func (t *Table[E]) Get(idx int) *Slot[E] {
	if idx < 0 || idx >= t.size {
		return nil
	}
	return &t.pages[idx>>pageBits].slots[idx&pageMask]
}

// ensure grows the table so that idx is addressable.
func (t *Table[E]) ensure(idx int) *Slot[E] {
	pageIdx := idx >> pageBits
	for len(t.pages) <= pageIdx {
		t.pages = append(t.pages, &page[E]{})
	}
	if idx >= t.size {
		t.size = idx + 1
	}
	return &t.pages[pageIdx].slots[idx&pageMask]
}

// Put stores e at idx, growing the table if needed.
// Returns the slot generation and false (without mutation) if idx is live.
func (t *Table[E]) Put(idx int, e E) (core.Generation, bool) {
	if idx < 0 {
		return 0, false
	}
	if s := t.Get(idx); s != nil && s.live {
		return s.Generation(), false
	}
	s := t.ensure(idx)
	s.entity = e
	s.live = true
	t.alive++
	return s.Generation(), true
}

// Clear tombstones the slot at idx and returns the removed payload.
// Fails if the slot is not live.
func (t *Table[E]) Clear(idx int) (E, bool) {
	var zero E
	s := t.Get(idx)
	if s == nil || !s.live {
		return zero, false
	}
	e := s.entity
	s.entity = zero
	s.live = false
	s.removals++
	t.alive--
	return e, true
}

// Len returns the number of addressable slots, tombstones included.
func (t *Table[E]) Len() int { return t.size }

// Alive returns the number of live slots.
func (t *Table[E]) Alive() int { return t.alive }

// Tombstones returns the number of addressable slots that are not live.
func (t *Table[E]) Tombstones() int { return t.size - t.alive }

// Range calls fn for every live slot in index order until fn returns false.
func (t *Table[E]) Range(fn func(idx int, e E) bool) {
	for i := 0; i < t.size; i++ {
		s := &t.pages[i>>pageBits].slots[i&pageMask]
		if !s.live {
			continue
		}
		if !fn(i, s.entity) {
			return
		}
	}
}
