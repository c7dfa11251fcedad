package entity

import (
	"iter"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/topoindex/core"
	"github.com/hupe1980/topoindex/internal/conv"
	"github.com/hupe1980/topoindex/internal/slot"
)

// ContentKeyFunc derives the opaque content key of an entity.
// Returning false means the entity has no content key and is not reachable
// through FindByShape. K must hash and compare deterministically.
type ContentKeyFunc[E core.Entity, K comparable] func(E) (K, bool)

// Index is the EntityIndex.
type Index[E core.Entity, K comparable] struct {
	mu sync.RWMutex

	tables    [core.NumEntityTypes]*slot.Table[E]
	byID      map[core.EntityID]core.EntityRef
	byContent map[K]core.Handle

	contentKey ContentKeyFunc[E, K]

	total          atomic.Int64
	perType        [core.NumEntityTypes]atomic.Int64
	staleEvictions atomic.Uint64
}

// New creates an empty Index. contentKey may be nil, in which case
// FindByShape always misses.
func New[E core.Entity, K comparable](contentKey ContentKeyFunc[E, K], optFns ...Option) *Index[E, K] {
	opts := options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	idx := &Index[E, K]{
		byID:       make(map[core.EntityID]core.EntityRef, opts.initialCapacity),
		byContent:  make(map[K]core.Handle, opts.initialCapacity),
		contentKey: contentKey,
	}
	perType := opts.initialCapacity / (core.NumEntityTypes - 1)
	for i := 1; i < core.NumEntityTypes; i++ {
		idx.tables[i] = slot.New[E](perType)
	}
	return idx
}

func (idx *Index[E, K]) slotOf(ref core.EntityRef) *slot.Slot[E] {
	if !ref.Type.Valid() {
		return nil
	}
	i, ok := conv.UIDToIndex(ref.UID)
	if !ok {
		return nil
	}
	return idx.tables[ref.Type].Get(i)
}

// AddEntity registers e under all three key spaces.
// It fails without mutation if e's key is invalid, if the (type, uid) slot is
// live, or if e's EntityID is already registered.
func (idx *Index[E, K]) AddEntity(e E) bool {
	key := e.Key()
	if !key.Valid() {
		return false
	}
	i, ok := conv.UIDToIndex(key.UID)
	if !ok {
		return false
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, dup := idx.byID[key.ID]; dup {
		return false
	}
	gen, ok := idx.tables[key.Type].Put(i, e)
	if !ok {
		return false
	}

	ref := key.Ref()
	idx.byID[key.ID] = ref
	if idx.contentKey != nil {
		if ck, ok := idx.contentKey(e); ok {
			idx.byContent[ck] = core.Handle{Ref: ref, Gen: gen}
		}
	}

	idx.total.Add(1)
	idx.perType[key.Type].Add(1)
	return true
}

// removeLocked tombstones the slot at ref. If id is valid, the live entity
// must carry that id.
func (idx *Index[E, K]) removeLocked(ref core.EntityRef, id core.EntityID) (E, bool) {
	var zero E
	s := idx.slotOf(ref)
	if s == nil {
		return zero, false
	}
	cur, live := s.Entity()
	if !live {
		return zero, false
	}
	key := cur.Key()
	if id.Valid() && key.ID != id {
		return zero, false
	}

	i, _ := conv.UIDToIndex(ref.UID)
	idx.tables[ref.Type].Clear(i)
	delete(idx.byID, key.ID)

	idx.total.Add(-1)
	idx.perType[ref.Type].Add(-1)
	return cur, true
}

// RemoveByID removes the entity registered under id.
func (idx *Index[E, K]) RemoveByID(id core.EntityID) (E, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	ref, ok := idx.byID[id]
	if !ok {
		var zero E
		return zero, false
	}
	return idx.removeLocked(ref, id)
}

// RemoveByUIDAndType removes whatever entity is live at (uid, t).
func (idx *Index[E, K]) RemoveByUIDAndType(uid core.EntityUID, t core.EntityType) (E, bool) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(core.EntityRef{UID: uid, Type: t}, core.InvalidEntityID)
}

// RemoveByKey removes the entity at key's slot only if it carries key.ID.
func (idx *Index[E, K]) RemoveByKey(key core.EntityKey) (E, bool) {
	if !key.ID.Valid() {
		var zero E
		return zero, false
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.removeLocked(key.Ref(), key.ID)
}

// RemoveEntity removes e. It fails if e is not the entity currently
// registered at its slot.
func (idx *Index[E, K]) RemoveEntity(e E) bool {
	_, ok := idx.RemoveByKey(e.Key())
	return ok
}

// FindByID returns the live entity with id.
func (idx *Index[E, K]) FindByID(id core.EntityID) (E, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var zero E
	ref, ok := idx.byID[id]
	if !ok {
		return zero, false
	}
	s := idx.slotOf(ref)
	if s == nil {
		return zero, false
	}
	e, live := s.Entity()
	if !live || e.Key().ID != id {
		return zero, false
	}
	return e, true
}

// FindByUIDAndType returns the live entity at (uid, t).
func (idx *Index[E, K]) FindByUIDAndType(uid core.EntityUID, t core.EntityType) (E, bool) {
	return idx.FindByRef(core.EntityRef{UID: uid, Type: t})
}

// FindByRef returns the live entity at ref.
func (idx *Index[E, K]) FindByRef(ref core.EntityRef) (E, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var zero E
	s := idx.slotOf(ref)
	if s == nil {
		return zero, false
	}
	e, live := s.Entity()
	if !live {
		return zero, false
	}
	return e, true
}

// FindByKey returns the live entity at key's slot if it carries key.ID.
func (idx *Index[E, K]) FindByKey(key core.EntityKey) (E, bool) {
	e, ok := idx.FindByRef(key.Ref())
	if !ok || e.Key().ID != key.ID {
		var zero E
		return zero, false
	}
	return e, true
}

// FindByShape resolves a content key. An entry whose generation no longer
// matches its slot is evicted and reported as a miss.
func (idx *Index[E, K]) FindByShape(ck K) (E, bool) {
	var zero E

	idx.mu.RLock()
	h, ok := idx.byContent[ck]
	if !ok {
		idx.mu.RUnlock()
		return zero, false
	}
	if e, ok := idx.resolveLocked(h); ok {
		idx.mu.RUnlock()
		return e, true
	}
	idx.mu.RUnlock()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Re-check: a writer may have replaced the entry in between.
	cur, ok := idx.byContent[ck]
	if !ok {
		return zero, false
	}
	if e, ok := idx.resolveLocked(cur); ok {
		return e, true
	}
	delete(idx.byContent, ck)
	idx.staleEvictions.Add(1)
	return zero, false
}

func (idx *Index[E, K]) resolveLocked(h core.Handle) (E, bool) {
	var zero E
	s := idx.slotOf(h.Ref)
	if s == nil || s.Generation() != h.Gen {
		return zero, false
	}
	e, live := s.Entity()
	if !live {
		return zero, false
	}
	return e, true
}

// HandleOf returns a generation-tagged handle for the live entity at ref.
func (idx *Index[E, K]) HandleOf(ref core.EntityRef) (core.Handle, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	s := idx.slotOf(ref)
	if s == nil || !s.Live() {
		return core.Handle{}, false
	}
	return core.Handle{Ref: ref, Gen: s.Generation()}, true
}

// Resolve returns the entity behind h, or a miss if h is stale.
func (idx *Index[E, K]) Resolve(h core.Handle) (E, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.resolveLocked(h)
}

// Generation returns the current generation of the slot at ref.
// Never-allocated slots report generation 1.
func (idx *Index[E, K]) Generation(ref core.EntityRef) core.Generation {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if s := idx.slotOf(ref); s != nil {
		return s.Generation()
	}
	return 1
}

// Contains reports whether id is registered.
func (idx *Index[E, K]) Contains(id core.EntityID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.byID[id]
	return ok
}

// TypeOf returns the type of the entity registered under id.
func (idx *Index[E, K]) TypeOf(id core.EntityID) (core.EntityType, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ref, ok := idx.byID[id]
	return ref.Type, ok
}

// EntityCount returns the number of live entities.
func (idx *Index[E, K]) EntityCount() int {
	return int(idx.total.Load())
}

// EntityCountByType returns the number of live entities of type t.
func (idx *Index[E, K]) EntityCountByType(t core.EntityType) int {
	if !t.Valid() {
		return 0
	}
	return int(idx.perType[t].Load())
}

// SnapshotEntities copies all live entities, ordered by type then uid.
func (idx *Index[E, K]) SnapshotEntities() []E {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]E, 0, idx.total.Load())
	for i := 1; i < core.NumEntityTypes; i++ {
		idx.tables[i].Range(func(_ int, e E) bool {
			out = append(out, e)
			return true
		})
	}
	return out
}

// EntitiesByType copies the live entities of type t in uid order.
func (idx *Index[E, K]) EntitiesByType(t core.EntityType) []E {
	if !t.Valid() {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]E, 0, idx.perType[t].Load())
	idx.tables[t].Range(func(_ int, e E) bool {
		out = append(out, e)
		return true
	})
	return out
}

// All iterates a snapshot of live entities. No lock is held while yielding.
func (idx *Index[E, K]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range idx.SnapshotEntities() {
			if !yield(e) {
				return
			}
		}
	}
}

// PurgeStale evicts every content-key entry whose generation no longer
// matches its slot and returns how many were dropped.
func (idx *Index[E, K]) PurgeStale() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	n := 0
	for ck, h := range idx.byContent {
		if _, ok := idx.resolveLocked(h); !ok {
			delete(idx.byContent, ck)
			n++
		}
	}
	idx.staleEvictions.Add(uint64(n))
	return n
}

// Stats is a point-in-time view of index occupancy.
type Stats struct {
	Alive          int
	AliveByType    [core.NumEntityTypes]int
	Slots          int
	Tombstones     int
	ContentKeys    int
	StaleEvictions uint64
}

// Stats returns occupancy counters.
func (idx *Index[E, K]) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	st := Stats{
		Alive:          int(idx.total.Load()),
		ContentKeys:    len(idx.byContent),
		StaleEvictions: idx.staleEvictions.Load(),
	}
	for i := 1; i < core.NumEntityTypes; i++ {
		t := idx.tables[i]
		st.AliveByType[i] = t.Alive()
		st.Slots += t.Len()
		st.Tombstones += t.Tombstones()
	}
	return st
}
