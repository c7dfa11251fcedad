package topoindex

import (
	"time"

	"github.com/hupe1980/topoindex/core"
	"github.com/hupe1980/topoindex/entity"
	"github.com/hupe1980/topoindex/relation"
)

// Index couples an entity.Index with a relation.Index that classifies nodes
// through it.
type Index[E core.Entity, K comparable] struct {
	entities  *entity.Index[E, K]
	relations *relation.Index
	logger    *Logger
	metrics   MetricsCollector
}

// New creates an Index. contentKey derives the reverse-lookup key of an
// entity and may be nil.
func New[E core.Entity, K comparable](contentKey entity.ContentKeyFunc[E, K], optFns ...Option) *Index[E, K] {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	idx := &Index[E, K]{
		entities: entity.New(contentKey, entity.WithInitialCapacity(opts.initialCapacity)),
		logger:   opts.logger,
		metrics:  opts.metricsCollector,
	}
	idx.relations = relation.New(idx.entities,
		relation.WithParallelism(opts.parallelism),
		relation.WithIncremental(opts.incremental),
		relation.WithRebuildHook(func(s relation.RebuildStats) {
			idx.logger.LogRebuild(s.Nodes, s.Edges, s.Duration)
			idx.metrics.RecordRebuild(s.Nodes, s.Edges, s.Duration)
		}),
	)
	return idx
}

// Entities exposes the entity index for direct reads.
func (idx *Index[E, K]) Entities() *entity.Index[E, K] { return idx.entities }

// Relations exposes the relationship index for direct reads.
func (idx *Index[E, K]) Relations() *relation.Index { return idx.relations }

// Register adds e to both indices.
func (idx *Index[E, K]) Register(e E) (err error) {
	start := time.Now()
	key := e.Key()
	defer func() {
		idx.logger.LogRegister(key, err)
		idx.metrics.RecordRegister(time.Since(start), err)
	}()

	if !key.Type.Valid() {
		return &EntityError{Op: "register", Key: key, cause: ErrInvalidType}
	}
	if !key.Valid() {
		return &EntityError{Op: "register", Key: key, cause: ErrInvalidReference}
	}
	// A node already in the relationship index must be rejected before the
	// entity index is touched; a rollback would bump the slot generation.
	if idx.relations.HasNode(key.ID) {
		return &EntityError{Op: "register", Key: key, cause: ErrDuplicate}
	}
	if !idx.entities.AddEntity(e) {
		return &EntityError{Op: "register", Key: key, cause: ErrDuplicate}
	}
	if !idx.relations.AddEntity(key.ID, key.Type) {
		idx.entities.RemoveEntity(e)
		return &EntityError{Op: "register", Key: key, cause: ErrDuplicate}
	}
	return nil
}

// Remove tombstones the entity, bumps its slot generation and severs all
// its edges.
func (idx *Index[E, K]) Remove(id core.EntityID) (e E, err error) {
	start := time.Now()
	severed := 0
	defer func() {
		idx.logger.LogRemove(id, severed, err)
		idx.metrics.RecordRemove(time.Since(start), err)
	}()

	e, ok := idx.entities.RemoveByID(id)
	if !ok {
		return e, &EntityError{Op: "remove", Key: core.EntityKey{ID: id}, cause: ErrNotFound}
	}
	severed, _ = idx.relations.RemoveEntity(id)
	return e, nil
}

// Detach severs every edge of id but keeps the entity registered.
// It returns the number of edges removed.
func (idx *Index[E, K]) Detach(id core.EntityID) (int, error) {
	if !idx.relations.HasNode(id) {
		return 0, &EntityError{Op: "detach", Key: core.EntityKey{ID: id}, cause: ErrNotFound}
	}
	return idx.relations.DetachAllRelations(id), nil
}

// Link adds the containment edge parent->child.
func (idx *Index[E, K]) Link(parent, child core.EntityID) (err error) {
	start := time.Now()
	defer func() {
		idx.logger.LogEdge("link", parent, child, err)
		idx.metrics.RecordLink("link", time.Since(start), err)
	}()

	if idx.relations.AddEdge(parent, child) {
		return nil
	}
	if parent == child || !idx.relations.HasNode(parent) || !idx.relations.HasNode(child) {
		return &EdgeError{Op: "link", Parent: parent, Child: child, cause: ErrInvalidReference}
	}
	return &EdgeError{Op: "link", Parent: parent, Child: child, cause: ErrDuplicate}
}

// Unlink removes the containment edge parent->child.
func (idx *Index[E, K]) Unlink(parent, child core.EntityID) (err error) {
	start := time.Now()
	defer func() {
		idx.logger.LogEdge("unlink", parent, child, err)
		idx.metrics.RecordLink("unlink", time.Since(start), err)
	}()

	if !idx.relations.RemoveEdge(parent, child) {
		return &EdgeError{Op: "unlink", Parent: parent, Child: child, cause: ErrNotFound}
	}
	return nil
}

// Lookup resolves a global id.
func (idx *Index[E, K]) Lookup(id core.EntityID) (E, error) {
	e, ok := idx.entities.FindByID(id)
	idx.metrics.RecordLookup(LookupByID, ok)
	if !ok {
		return e, &EntityError{Op: "lookup", Key: core.EntityKey{ID: id}, cause: ErrNotFound}
	}
	return e, nil
}

// LookupRef resolves a (uid, type) pair.
func (idx *Index[E, K]) LookupRef(ref core.EntityRef) (E, error) {
	e, ok := idx.entities.FindByRef(ref)
	idx.metrics.RecordLookup(LookupByRef, ok)
	if !ok {
		return e, &EntityError{Op: "lookup", Key: core.EntityKey{UID: ref.UID, Type: ref.Type}, cause: ErrNotFound}
	}
	return e, nil
}

// LookupShape resolves a content key, evicting it if stale.
func (idx *Index[E, K]) LookupShape(ck K) (E, error) {
	e, ok := idx.entities.FindByShape(ck)
	idx.metrics.RecordLookup(LookupByShape, ok)
	if !ok {
		return e, ErrNotFound
	}
	return e, nil
}

// Handle returns a generation-tagged handle for the entity with id.
func (idx *Index[E, K]) Handle(id core.EntityID) (core.Handle, error) {
	e, ok := idx.entities.FindByID(id)
	if !ok {
		return core.Handle{}, &EntityError{Op: "handle", Key: core.EntityKey{ID: id}, cause: ErrNotFound}
	}
	h, ok := idx.entities.HandleOf(e.Key().Ref())
	if !ok {
		return core.Handle{}, &EntityError{Op: "handle", Key: e.Key(), cause: ErrNotFound}
	}
	return h, nil
}

// Resolve returns the entity behind h. A handle outlived by a removal
// yields ErrStaleHandle.
func (idx *Index[E, K]) Resolve(h core.Handle) (E, error) {
	e, ok := idx.entities.Resolve(h)
	idx.metrics.RecordLookup(LookupByHandle, ok)
	if ok {
		return e, nil
	}
	key := core.EntityKey{UID: h.Ref.UID, Type: h.Ref.Type}
	if idx.entities.Generation(h.Ref) != h.Gen {
		return e, &EntityError{Op: "resolve", Key: key, cause: ErrStaleHandle}
	}
	return e, &EntityError{Op: "resolve", Key: key, cause: ErrNotFound}
}

// RelatedEntities returns every live entity of type t that is an ancestor
// or descendant of id, in ascending id order.
func (idx *Index[E, K]) RelatedEntities(id core.EntityID, t core.EntityType) []E {
	ids := idx.relations.FindRelated(id, t)
	out := make([]E, 0, len(ids))
	for _, rid := range ids {
		if e, ok := idx.entities.FindByID(rid); ok {
			out = append(out, e)
		}
	}
	idx.metrics.RecordLookup(LookupByRelated, len(out) > 0)
	return out
}

// PartMembers returns every descendant of part grouped by type.
func (idx *Index[E, K]) PartMembers(part core.EntityID) relation.PartMembers {
	return idx.relations.GetPartMembers(part)
}

// Owners returns the direct parents of id that have type t, the usual
// pick-resolution query (owning face of an edge, owning part of a solid).
func (idx *Index[E, K]) Owners(id core.EntityID, t core.EntityType) []E {
	var out []E
	for _, pid := range idx.relations.ParentIDs(id) {
		e, ok := idx.entities.FindByID(pid)
		if ok && e.Key().Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Stats summarizes both indices.
type Stats struct {
	Entities entity.Stats
	Nodes    int
	Edges    int
	Closure  relation.State
	Rebuilds uint64
}

// Stats returns a snapshot of index occupancy.
func (idx *Index[E, K]) Stats() Stats {
	return Stats{
		Entities: idx.entities.Stats(),
		Nodes:    idx.relations.NodeCount(),
		Edges:    idx.relations.EdgeCount(),
		Closure:  idx.relations.State(),
		Rebuilds: idx.relations.Rebuilds(),
	}
}
