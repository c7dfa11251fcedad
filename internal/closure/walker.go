package closure

import (
	"github.com/hupe1980/topoindex/core"
	"github.com/hupe1980/topoindex/internal/queue"
	"github.com/hupe1980/topoindex/internal/visited"
)

// Graph is a direct adjacency map: node -> neighbors.
type Graph map[core.EntityID]map[core.EntityID]struct{}

// Link adds from->to and reports whether it was new.
func (g Graph) Link(from, to core.EntityID) bool {
	nbrs, ok := g[from]
	if !ok {
		nbrs = make(map[core.EntityID]struct{})
		g[from] = nbrs
	}
	if _, dup := nbrs[to]; dup {
		return false
	}
	nbrs[to] = struct{}{}
	return true
}

// Unlink removes from->to and reports whether it existed.
// Empty neighbor maps are dropped.
func (g Graph) Unlink(from, to core.EntityID) bool {
	nbrs, ok := g[from]
	if !ok {
		return false
	}
	if _, ok := nbrs[to]; !ok {
		return false
	}
	delete(nbrs, to)
	if len(nbrs) == 0 {
		delete(g, from)
	}
	return true
}

// Has reports whether from->to exists.
func (g Graph) Has(from, to core.EntityID) bool {
	_, ok := g[from][to]
	return ok
}

// Degree returns the number of neighbors of id.
func (g Graph) Degree(id core.EntityID) int {
	return len(g[id])
}

// Walker runs breadth-first reachability queries. Its visited set and
// frontier are reused between calls, so one Walker should serve many
// sources. A Walker is not safe for concurrent use.
type Walker struct {
	index map[core.EntityID]int
	seen  *visited.Set
	front queue.FIFO
}

// NewWalker creates a walker over the nodes in index, which must map each
// node to a distinct position in [0, len(index)). The index is only read,
// so walkers running in parallel may share it. Nodes missing from index
// are never traversed.
func NewWalker(index map[core.EntityID]int) *Walker {
	return &Walker{index: index, seen: visited.New(len(index))}
}

func (w *Walker) visit(id core.EntityID) bool {
	i, ok := w.index[id]
	if !ok {
		return false
	}
	return w.seen.Visit(i)
}

// Reach returns every node reachable from src by one or more hops in g.
// src itself is never part of the result, even on a cycle.
func (w *Walker) Reach(g Graph, src core.EntityID) *Set {
	out := NewSet()

	w.seen.Reset()
	w.front.Reset()

	if !w.visit(src) {
		return out
	}
	w.front.Push(src)

	for {
		id, ok := w.front.Pop()
		if !ok {
			break
		}
		for next := range g[id] {
			if !w.visit(next) {
				continue
			}
			out.Add(next)
			w.front.Push(next)
		}
	}
	return out
}
