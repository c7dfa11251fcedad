package core

import "sync/atomic"

// IDAllocator issues fresh identities for the construction layer.
// EntityIDs are global and monotonic; UIDs are sequential per type from 1.
// Safe for concurrent use.
type IDAllocator struct {
	nextID  atomic.Uint64
	nextUID [NumEntityTypes]atomic.Uint32
}

// NewIDAllocator creates an allocator whose first id is 1.
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{}
}

// Next returns a fresh key of type t. Returns the zero key for invalid t.
func (a *IDAllocator) Next(t EntityType) EntityKey {
	if !t.Valid() {
		return EntityKey{}
	}
	return EntityKey{
		ID:   EntityID(a.nextID.Add(1)),
		UID:  EntityUID(a.nextUID[t].Add(1)),
		Type: t,
	}
}

// LastID returns the most recently issued EntityID (0 if none).
func (a *IDAllocator) LastID() EntityID {
	return EntityID(a.nextID.Load())
}

// LastUID returns the most recently issued uid for t (0 if none).
func (a *IDAllocator) LastUID(t EntityType) EntityUID {
	if !t.Valid() {
		return InvalidEntityUID
	}
	return EntityUID(a.nextUID[t].Load())
}
