package core

import "fmt"

// EntityID is a stable, globally unique identifier assigned at creation.
// Invariant: Never reused, including after removal.
type EntityID uint64

// InvalidEntityID is the zero id. No live entity carries it.
const InvalidEntityID EntityID = 0

// Valid reports whether id is non-zero.
func (id EntityID) Valid() bool { return id != InvalidEntityID }

// EntityUID identifies an entity within its EntityType.
// UIDs start at 1; slot index = uid - 1.
type EntityUID uint32

// InvalidEntityUID is the zero uid.
const InvalidEntityUID EntityUID = 0

// Valid reports whether uid is non-zero.
func (uid EntityUID) Valid() bool { return uid != InvalidEntityUID }

// Generation counts removals from a slot. It starts at 1.
type Generation uint32

// EntityRef is the lightweight identity (uid, type) without the global id.
type EntityRef struct {
	UID  EntityUID
	Type EntityType
}

// Valid reports whether both components are set.
func (r EntityRef) Valid() bool { return r.UID.Valid() && r.Type.Valid() }

func (r EntityRef) String() string {
	return fmt.Sprintf("%s#%d", r.Type, r.UID)
}

// EntityKey is the full identity of an entity.
type EntityKey struct {
	ID   EntityID
	UID  EntityUID
	Type EntityType
}

// Ref drops the global id.
func (k EntityKey) Ref() EntityRef {
	return EntityRef{UID: k.UID, Type: k.Type}
}

// Valid reports whether all three components are set.
func (k EntityKey) Valid() bool { return k.ID.Valid() && k.Ref().Valid() }

func (k EntityKey) String() string {
	return fmt.Sprintf("%s#%d(id=%d)", k.Type, k.UID, k.ID)
}

// Handle is an external reference to a slot, tagged with the generation
// observed when it was issued. A handle whose generation is older than the
// slot's current generation is stale.
type Handle struct {
	Ref EntityRef
	Gen Generation
}

// Entity is anything the index can store. Key must be stable for the
// lifetime of the entity.
type Entity interface {
	Key() EntityKey
}
