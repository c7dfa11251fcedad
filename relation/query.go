package relation

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/topoindex/core"
	"github.com/hupe1980/topoindex/internal/closure"
)

// withClosure runs fn with a Valid cache. Fast path under the shared lock;
// otherwise the exclusive lock is taken and the cache rebuilt first.
func (ri *Index) withClosure(fn func()) {
	ri.mu.RLock()
	if ri.state == Valid {
		fn()
		ri.mu.RUnlock()
		return
	}
	ri.mu.RUnlock()

	ri.mu.Lock()
	defer ri.mu.Unlock()
	if ri.state != Valid {
		ri.rebuildLocked()
	}
	fn()
}

// Rebuild forces a full closure rebuild regardless of state.
func (ri *Index) Rebuild() RebuildStats {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	return ri.rebuildLocked()
}

type nodeClosure struct {
	anc  *closure.Set
	desc *closure.Set
}

func (ri *Index) rebuildLocked() RebuildStats {
	start := time.Now()

	// Walkers mark nodes by dense position, never by raw id, so sparse or
	// huge EntityIDs cost nothing extra.
	ids := make([]core.EntityID, 0, len(ri.nodes))
	index := make(map[core.EntityID]int, len(ri.nodes))
	for id := range ri.nodes {
		index[id] = len(ids)
		ids = append(ids, id)
	}

	results := make([]nodeClosure, len(ids))

	workers := min(ri.opts.parallelism, len(ids))
	if workers <= 1 {
		ri.walkRange(ids, results, closure.NewWalker(index))
	} else {
		// Workers only read the adjacency maps and write disjoint result
		// ranges; the exclusive lock keeps writers out.
		chunk := (len(ids) + workers - 1) / workers
		var g errgroup.Group
		g.SetLimit(workers)
		for lo := 0; lo < len(ids); lo += chunk {
			hi := min(lo+chunk, len(ids))
			g.Go(func() error {
				ri.walkRange(ids[lo:hi], results[lo:hi], closure.NewWalker(index))
				return nil
			})
		}
		_ = g.Wait()
	}

	ancestors := make(map[core.EntityID]*closure.Set, len(ids))
	descendants := make(map[core.EntityID]*closure.Set, len(ids))
	var byType [core.NumEntityTypes]*closure.Set
	for i := range byType {
		byType[i] = closure.NewSet()
	}

	for i, id := range ids {
		if r := results[i]; !r.anc.IsEmpty() {
			ancestors[id] = r.anc
		}
		if r := results[i]; !r.desc.IsEmpty() {
			descendants[id] = r.desc
		}
		if t, ok := ri.classify(id); ok {
			byType[t].Add(id)
		}
	}

	ri.ancestors = ancestors
	ri.descendants = descendants
	ri.byType = byType
	ri.state = Valid
	ri.rebuilds.Add(1)

	stats := RebuildStats{Nodes: len(ids), Edges: ri.edges, Duration: time.Since(start)}
	ri.opts.logger.Debug("closure rebuilt",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"duration", stats.Duration,
	)
	if ri.opts.onRebuild != nil {
		ri.opts.onRebuild(stats)
	}
	return stats
}

func (ri *Index) walkRange(ids []core.EntityID, out []nodeClosure, w *closure.Walker) {
	for i, id := range ids {
		out[i] = nodeClosure{
			anc:  w.Reach(ri.parents, id),
			desc: w.Reach(ri.children, id),
		}
	}
}

// FindRelated returns every ancestor or descendant of source whose type is
// t, in ascending id order. Unknown sources yield an empty slice.
func (ri *Index) FindRelated(source core.EntityID, t core.EntityType) []core.EntityID {
	var out []core.EntityID
	ri.withClosure(func() {
		if !t.Valid() {
			return
		}
		related := ri.ancestors[source].Clone()
		related.Union(ri.descendants[source])
		out = closure.Intersect(related, ri.byType[t]).IDs()
	})
	if out == nil {
		out = []core.EntityID{}
	}
	return out
}

// FindAncestors returns every ancestor of id with type t.
func (ri *Index) FindAncestors(id core.EntityID, t core.EntityType) []core.EntityID {
	return ri.typed(func() *closure.Set { return ri.ancestors[id] }, t)
}

// FindDescendants returns every descendant of id with type t.
func (ri *Index) FindDescendants(id core.EntityID, t core.EntityType) []core.EntityID {
	return ri.typed(func() *closure.Set { return ri.descendants[id] }, t)
}

// CountDescendants returns how many descendants of id have type t.
func (ri *Index) CountDescendants(id core.EntityID, t core.EntityType) int {
	n := 0
	ri.withClosure(func() {
		if t.Valid() {
			n = closure.IntersectCount(ri.descendants[id], ri.byType[t])
		}
	})
	return n
}

// IsAncestor reports whether a reaches d through one or more edges.
func (ri *Index) IsAncestor(a, d core.EntityID) bool {
	found := false
	ri.withClosure(func() {
		found = ri.descendants[a].Contains(d)
	})
	return found
}

func (ri *Index) typed(set func() *closure.Set, t core.EntityType) []core.EntityID {
	var out []core.EntityID
	ri.withClosure(func() {
		if t.Valid() {
			out = closure.Intersect(set(), ri.byType[t]).IDs()
		}
	})
	if out == nil {
		out = []core.EntityID{}
	}
	return out
}

// GetPartMembers returns every descendant of part, grouped by type.
func (ri *Index) GetPartMembers(part core.EntityID) PartMembers {
	var m PartMembers
	ri.withClosure(func() {
		desc := ri.descendants[part]
		m = PartMembers{
			Vertices: closure.Intersect(desc, ri.byType[core.TypeVertex]).IDs(),
			Edges:    closure.Intersect(desc, ri.byType[core.TypeEdge]).IDs(),
			Wires:    closure.Intersect(desc, ri.byType[core.TypeWire]).IDs(),
			Faces:    closure.Intersect(desc, ri.byType[core.TypeFace]).IDs(),
			Shells:   closure.Intersect(desc, ri.byType[core.TypeShell]).IDs(),
			Solids:   closure.Intersect(desc, ri.byType[core.TypeSolid]).IDs(),
		}
	})
	return m
}
