// Package topoindex provides the identity and relationship index for
// topological CAD entities: vertices, edges, wires, faces, shells, solids,
// compounds and parts, arranged in a parent/child DAG where children may be
// shared between parents.
//
// An Index bundles two cooperating structures:
//
//   - entity.Index resolves every identity form (global id, per-type uid,
//     opaque content key) to the entity payload in O(1), using a
//     generational slot arena so stale handles are detected rather than
//     misresolved.
//   - relation.Index stores the containment edges and answers transitive
//     "all entities of type T related to X" queries from a lazily rebuilt
//     closure cache.
//
// # Quick Start
//
//	alloc := core.NewIDAllocator()
//	idx := topoindex.New[*Shape, string](func(s *Shape) (string, bool) {
//	    return s.Hash, s.Hash != ""
//	})
//
//	part := &Shape{key: alloc.Next(core.TypePart)}
//	face := &Shape{key: alloc.Next(core.TypeFace), Hash: "plane-1"}
//	_ = idx.Register(part)
//	_ = idx.Register(face)
//	_ = idx.Link(part.Key().ID, face.Key().ID)
//
//	faces := idx.RelatedEntities(part.Key().ID, core.TypeFace)
//
// # Error Model
//
// The underlying indices report failure with booleans and zero values and
// never panic. Index wraps them with sentinel errors (ErrDuplicate,
// ErrNotFound, ErrInvalidReference, ErrStaleHandle) for callers that prefer
// error returns. Retrying a failed call with the same arguments is safe but
// yields the same result.
//
// # Concurrency
//
// All operations are synchronous. Both indices are safe for concurrent use;
// closure rebuilds run under the relation index's exclusive lock.
package topoindex
