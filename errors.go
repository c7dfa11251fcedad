package topoindex

import (
	"errors"
	"fmt"

	"github.com/hupe1980/topoindex/core"
)

var (
	// ErrDuplicate is returned when an entity's (type, uid) slot or id is
	// already live, or an edge already exists.
	ErrDuplicate = errors.New("duplicate insertion")

	// ErrNotFound is returned when an id, (type, uid) pair, content key or
	// edge is not registered.
	ErrNotFound = errors.New("not found")

	// ErrInvalidReference is returned for self-edges, edges naming an
	// unregistered node, and malformed keys.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrStaleHandle is returned when a handle's generation is older than
	// its slot's. errors.Is(ErrStaleHandle, ErrNotFound) holds.
	ErrStaleHandle = fmt.Errorf("stale handle: %w", ErrNotFound)

	// ErrInvalidType is returned for an EntityType outside the closed set.
	ErrInvalidType = errors.New("invalid entity type")
)

// EntityError reports a failed operation on a single entity.
//
// The failure kind can be inspected via errors.Is.
type EntityError struct {
	Op    string
	Key   core.EntityKey
	cause error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.cause)
}

func (e *EntityError) Unwrap() error { return e.cause }

// EdgeError reports a failed operation on a parent->child edge.
type EdgeError struct {
	Op     string
	Parent core.EntityID
	Child  core.EntityID
	cause  error
}

func (e *EdgeError) Error() string {
	return fmt.Sprintf("%s edge %d->%d: %v", e.Op, e.Parent, e.Child, e.cause)
}

func (e *EdgeError) Unwrap() error { return e.cause }
