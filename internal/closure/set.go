package closure

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/hupe1980/topoindex/core"
)

// Set is a compressed set of EntityIDs.
type Set struct {
	rb *roaring64.Bitmap
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{rb: roaring64.New()}
}

// SetOf creates a set holding ids.
func SetOf(ids ...core.EntityID) *Set {
	s := NewSet()
	for _, id := range ids {
		s.rb.Add(uint64(id))
	}
	return s
}

// Add inserts id.
func (s *Set) Add(id core.EntityID) { s.rb.Add(uint64(id)) }

// Remove deletes id.
func (s *Set) Remove(id core.EntityID) { s.rb.Remove(uint64(id)) }

// Contains reports membership. A nil set is empty.
func (s *Set) Contains(id core.EntityID) bool {
	return s != nil && s.rb.Contains(uint64(id))
}

// Len returns the cardinality.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return int(s.rb.GetCardinality())
}

// IsEmpty reports whether the set has no members.
func (s *Set) IsEmpty() bool { return s == nil || s.rb.IsEmpty() }

// Clone returns a deep copy.
func (s *Set) Clone() *Set {
	if s == nil {
		return NewSet()
	}
	return &Set{rb: s.rb.Clone()}
}

// Union adds every member of other to s.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	s.rb.Or(other.rb)
}

// Intersect returns a new set with members present in both.
func Intersect(a, b *Set) *Set {
	if a == nil || b == nil {
		return NewSet()
	}
	return &Set{rb: roaring64.And(a.rb, b.rb)}
}

// IntersectCount returns |a ∩ b| without materializing it.
func IntersectCount(a, b *Set) int {
	if a == nil || b == nil {
		return 0
	}
	return int(a.rb.AndCardinality(b.rb))
}

// IDs returns the members in ascending order.
func (s *Set) IDs() []core.EntityID {
	if s == nil {
		return nil
	}
	out := make([]core.EntityID, 0, s.rb.GetCardinality())
	it := s.rb.Iterator()
	for it.HasNext() {
		out = append(out, core.EntityID(it.Next()))
	}
	return out
}

// All iterates members in ascending order.
func (s *Set) All() iter.Seq[core.EntityID] {
	return func(yield func(core.EntityID) bool) {
		if s == nil {
			return
		}
		it := s.rb.Iterator()
		for it.HasNext() {
			if !yield(core.EntityID(it.Next())) {
				return
			}
		}
	}
}
