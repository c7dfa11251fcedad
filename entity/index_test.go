package entity

import (
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/topoindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shape struct {
	key  core.EntityKey
	geom string
}

func (s *shape) Key() core.EntityKey { return s.key }

func geomKey(s *shape) (string, bool) { return s.geom, s.geom != "" }

func newIndex(opts ...Option) *Index[*shape, string] {
	return New[*shape, string](geomKey, opts...)
}

func mk(id core.EntityID, uid core.EntityUID, t core.EntityType, geom string) *shape {
	return &shape{key: core.EntityKey{ID: id, UID: uid, Type: t}, geom: geom}
}

func TestIndex_AddFind(t *testing.T) {
	idx := newIndex()
	f := mk(1, 1, core.TypeFace, "plane")
	e := mk(2, 1, core.TypeEdge, "line")

	require.True(t, idx.AddEntity(f))
	require.True(t, idx.AddEntity(e))

	got, ok := idx.FindByID(1)
	require.True(t, ok)
	assert.Same(t, f, got)

	got, ok = idx.FindByUIDAndType(1, core.TypeEdge)
	require.True(t, ok)
	assert.Same(t, e, got)

	got, ok = idx.FindByShape("plane")
	require.True(t, ok)
	assert.Same(t, f, got)

	got, ok = idx.FindByKey(f.key)
	require.True(t, ok)
	assert.Same(t, f, got)

	_, ok = idx.FindByKey(core.EntityKey{ID: 99, UID: 1, Type: core.TypeFace})
	assert.False(t, ok, "id mismatch at a live slot is a miss")

	assert.Equal(t, 2, idx.EntityCount())
	assert.Equal(t, 1, idx.EntityCountByType(core.TypeFace))
	assert.Equal(t, 0, idx.EntityCountByType(core.TypeSolid))

	typ, ok := idx.TypeOf(2)
	require.True(t, ok)
	assert.Equal(t, core.TypeEdge, typ)
	assert.True(t, idx.Contains(1))
}

func TestIndex_Misses(t *testing.T) {
	idx := newIndex()

	_, ok := idx.FindByID(7)
	assert.False(t, ok)
	_, ok = idx.FindByUIDAndType(0, core.TypeFace)
	assert.False(t, ok)
	_, ok = idx.FindByUIDAndType(1, core.TypeUnknown)
	assert.False(t, ok)
	_, ok = idx.FindByUIDAndType(1000, core.TypeFace)
	assert.False(t, ok)
	_, ok = idx.FindByShape("nothing")
	assert.False(t, ok)
	_, ok = idx.TypeOf(7)
	assert.False(t, ok)
	assert.Equal(t, 0, idx.EntityCountByType(core.EntityType(200)))
}

func TestIndex_DuplicateInsertion(t *testing.T) {
	idx := newIndex()
	require.True(t, idx.AddEntity(mk(1, 1, core.TypeFace, "a")))

	t.Run("same slot", func(t *testing.T) {
		assert.False(t, idx.AddEntity(mk(2, 1, core.TypeFace, "b")))
		_, ok := idx.FindByID(2)
		assert.False(t, ok)
		_, ok = idx.FindByShape("b")
		assert.False(t, ok)
	})

	t.Run("same id", func(t *testing.T) {
		assert.False(t, idx.AddEntity(mk(1, 5, core.TypeFace, "c")))
		_, ok := idx.FindByUIDAndType(5, core.TypeFace)
		assert.False(t, ok)
	})

	t.Run("invalid key", func(t *testing.T) {
		assert.False(t, idx.AddEntity(mk(0, 2, core.TypeFace, "")))
		assert.False(t, idx.AddEntity(mk(3, 0, core.TypeFace, "")))
		assert.False(t, idx.AddEntity(mk(3, 2, core.TypeUnknown, "")))
	})

	assert.Equal(t, 1, idx.EntityCount())
	assert.Equal(t, 1, idx.EntityCountByType(core.TypeFace))
}

func TestIndex_Remove(t *testing.T) {
	idx := newIndex()
	f := mk(1, 1, core.TypeFace, "plane")
	require.True(t, idx.AddEntity(f))
	require.True(t, idx.AddEntity(mk(2, 2, core.TypeFace, "cyl")))

	before := idx.EntityCount()
	removed, ok := idx.RemoveByID(1)
	require.True(t, ok)
	assert.Same(t, f, removed)

	_, ok = idx.FindByID(1)
	assert.False(t, ok)
	_, ok = idx.FindByUIDAndType(1, core.TypeFace)
	assert.False(t, ok)
	assert.Equal(t, before-1, idx.EntityCount())
	assert.Equal(t, 1, idx.EntityCountByType(core.TypeFace))

	_, ok = idx.FindByShape("plane")
	assert.False(t, ok)

	_, ok = idx.RemoveByID(1)
	assert.False(t, ok, "second remove is NotFound")

	// The bucket is not compacted: uid 2 still resolves at its slot.
	_, ok = idx.FindByUIDAndType(2, core.TypeFace)
	assert.True(t, ok)
	assert.Equal(t, 1, idx.Stats().Tombstones)
}

func TestIndex_RemoveVariants(t *testing.T) {
	idx := newIndex()
	a := mk(1, 1, core.TypeEdge, "")
	b := mk(2, 2, core.TypeEdge, "")
	c := mk(3, 3, core.TypeEdge, "")
	for _, s := range []*shape{a, b, c} {
		require.True(t, idx.AddEntity(s))
	}

	_, ok := idx.RemoveByUIDAndType(2, core.TypeEdge)
	assert.True(t, ok)

	impostor := mk(42, 3, core.TypeEdge, "")
	assert.False(t, idx.RemoveEntity(impostor), "must not remove a different entity at the same slot")
	assert.True(t, idx.RemoveEntity(c))
	assert.False(t, idx.RemoveEntity(c))

	_, ok = idx.RemoveByKey(core.EntityKey{UID: 1, Type: core.TypeEdge})
	assert.False(t, ok, "key without id is rejected")
	_, ok = idx.RemoveByKey(a.key)
	assert.True(t, ok)

	assert.Equal(t, 0, idx.EntityCount())
}

func TestIndex_StaleContentKeyEviction(t *testing.T) {
	idx := newIndex()
	old := mk(1, 1, core.TypeFace, "plane")
	require.True(t, idx.AddEntity(old))
	require.True(t, idx.RemoveEntity(old))

	// Entry is still cached until someone looks it up.
	assert.Equal(t, 1, idx.Stats().ContentKeys)

	_, ok := idx.FindByShape("plane")
	assert.False(t, ok)
	st := idx.Stats()
	assert.Equal(t, 0, st.ContentKeys, "stale entry must be evicted on lookup")
	assert.Equal(t, uint64(1), st.StaleEvictions)

	// A new entity reusing the slot and the key gets a fresh generation.
	fresh := mk(2, 1, core.TypeFace, "plane")
	require.True(t, idx.AddEntity(fresh))
	got, ok := idx.FindByShape("plane")
	require.True(t, ok)
	assert.Same(t, fresh, got)
}

func TestIndex_StaleEntryAfterSlotReuse(t *testing.T) {
	idx := newIndex()
	old := mk(1, 1, core.TypeFace, "plane")
	require.True(t, idx.AddEntity(old))
	require.True(t, idx.RemoveEntity(old))

	// Reuse the slot with a different content key: the old key must not
	// resolve to the new occupant.
	require.True(t, idx.AddEntity(mk(2, 1, core.TypeFace, "sphere")))
	_, ok := idx.FindByShape("plane")
	assert.False(t, ok)

	got, ok := idx.FindByShape("sphere")
	require.True(t, ok)
	assert.Equal(t, core.EntityID(2), got.key.ID)
}

func TestIndex_Handles(t *testing.T) {
	idx := newIndex()
	s := mk(1, 1, core.TypeVertex, "")
	require.True(t, idx.AddEntity(s))

	ref := s.key.Ref()
	h, ok := idx.HandleOf(ref)
	require.True(t, ok)
	assert.Equal(t, core.Generation(1), h.Gen)

	got, ok := idx.Resolve(h)
	require.True(t, ok)
	assert.Same(t, s, got)

	require.True(t, idx.RemoveEntity(s))
	assert.Equal(t, core.Generation(2), idx.Generation(ref))

	_, ok = idx.Resolve(h)
	assert.False(t, ok, "stale handle is a miss")
	_, ok = idx.HandleOf(ref)
	assert.False(t, ok)

	require.True(t, idx.AddEntity(mk(5, 1, core.TypeVertex, "")))
	_, ok = idx.Resolve(h)
	assert.False(t, ok, "stale handle stays stale after slot reuse")

	assert.Equal(t, core.Generation(1), idx.Generation(core.EntityRef{UID: 77, Type: core.TypeVertex}))
}

func TestIndex_PurgeStale(t *testing.T) {
	idx := newIndex()
	for i := 1; i <= 10; i++ {
		require.True(t, idx.AddEntity(mk(core.EntityID(i), core.EntityUID(i), core.TypeShell, fmt.Sprintf("s%d", i))))
	}
	for i := 1; i <= 10; i += 3 {
		_, ok := idx.RemoveByID(core.EntityID(i))
		require.True(t, ok)
	}

	assert.Equal(t, 4, idx.PurgeStale())
	assert.Equal(t, 0, idx.PurgeStale())
	assert.Equal(t, 6, idx.Stats().ContentKeys)
}

func TestIndex_NilContentKey(t *testing.T) {
	idx := New[*shape, string](nil)
	require.True(t, idx.AddEntity(mk(1, 1, core.TypeFace, "plane")))
	_, ok := idx.FindByShape("plane")
	assert.False(t, ok)
}

func TestIndex_ThousandFacesRemoveEven(t *testing.T) {
	idx := newIndex(WithInitialCapacity(1000))
	for uid := 1; uid <= 1000; uid++ {
		require.True(t, idx.AddEntity(mk(core.EntityID(uid), core.EntityUID(uid), core.TypeFace, "")))
	}
	for uid := 2; uid <= 1000; uid += 2 {
		_, ok := idx.RemoveByUIDAndType(core.EntityUID(uid), core.TypeFace)
		require.True(t, ok)
	}

	assert.Equal(t, 500, idx.EntityCountByType(core.TypeFace))
	for uid := 1; uid <= 1000; uid++ {
		_, ok := idx.FindByUIDAndType(core.EntityUID(uid), core.TypeFace)
		if uid%2 == 0 {
			assert.False(t, ok, "uid %d should be removed", uid)
		} else {
			assert.True(t, ok, "uid %d should survive", uid)
		}
	}
	assert.Len(t, idx.EntitiesByType(core.TypeFace), 500)
}

func TestIndex_CountByTypeMatchesSnapshot(t *testing.T) {
	idx := newIndex()
	alloc := core.NewIDAllocator()
	types := core.EntityTypes()

	var keys []core.EntityKey
	for i := 0; i < 300; i++ {
		k := alloc.Next(types[i%len(types)])
		keys = append(keys, k)
		require.True(t, idx.AddEntity(&shape{key: k}))
	}
	for i, k := range keys {
		if i%7 == 0 {
			_, ok := idx.RemoveByKey(k)
			require.True(t, ok)
		}
	}

	counted := make(map[core.EntityType]int)
	for e := range idx.All() {
		counted[e.key.Type]++
	}
	total := 0
	for _, typ := range types {
		assert.Equal(t, counted[typ], idx.EntityCountByType(typ), typ.String())
		assert.Len(t, idx.EntitiesByType(typ), counted[typ])
		total += counted[typ]
	}
	assert.Equal(t, total, idx.EntityCount())
	assert.Len(t, idx.SnapshotEntities(), total)
	assert.Nil(t, idx.EntitiesByType(core.TypeUnknown))
}

func TestIndex_ConcurrentReaders(t *testing.T) {
	idx := newIndex()
	for i := 1; i <= 200; i++ {
		require.True(t, idx.AddEntity(mk(core.EntityID(i), core.EntityUID(i), core.TypeEdge, fmt.Sprintf("e%d", i))))
	}

	var wg sync.WaitGroup
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 200; i++ {
				idx.FindByID(core.EntityID(i))
				idx.FindByShape(fmt.Sprintf("e%d", i))
				_ = idx.SnapshotEntities()
			}
		}()
	}

	// Single writer removing odd ids.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 200; i += 2 {
			idx.RemoveByID(core.EntityID(i))
		}
	}()
	wg.Wait()

	assert.Equal(t, 100, idx.EntityCount())
	for i := 2; i <= 200; i += 2 {
		_, ok := idx.FindByShape(fmt.Sprintf("e%d", i))
		assert.True(t, ok)
	}
}
