package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/topoindex/core"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Type returns a uniformly chosen valid EntityType.
func (r *RNG) Type() core.EntityType {
	types := core.EntityTypes()
	return types[r.Intn(len(types))]
}

// Edge is a parent->child pair.
type Edge struct {
	Parent core.EntityID
	Child  core.EntityID
}

// Topology is a generated DAG over ids 1..len(Types).
type Topology struct {
	Types []core.EntityType // Types[i] is the type of id i+1
	Edges []Edge
}

// TypeOf implements the relation TypeResolver contract.
func (t *Topology) TypeOf(id core.EntityID) (core.EntityType, bool) {
	if id == 0 || int(id) > len(t.Types) {
		return core.TypeUnknown, false
	}
	return t.Types[id-1], true
}

// RandomDAG generates n nodes with random types and m distinct edges.
// Edges always point from a lower to a higher id, so the graph is acyclic.
// m is capped at n*(n-1)/2.
func RandomDAG(r *RNG, n, m int) *Topology {
	topo := &Topology{Types: make([]core.EntityType, n)}
	for i := range topo.Types {
		topo.Types[i] = r.Type()
	}
	m = min(m, n*(n-1)/2)

	seen := make(map[Edge]struct{}, m)
	for len(topo.Edges) < m {
		a := core.EntityID(r.Intn(n) + 1)
		b := core.EntityID(r.Intn(n) + 1)
		if a == b {
			continue
		}
		if a > b {
			a, b = b, a
		}
		e := Edge{Parent: a, Child: b}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		topo.Edges = append(topo.Edges, e)
	}
	return topo
}

// Layered builds a CAD-like hierarchy: parts -> solids -> shells -> faces ->
// wires -> edges -> vertices, with fanout children per node and every
// share-th child also attached to its left sibling's parent.
func Layered(parts, fanout, share int) *Topology {
	layers := []core.EntityType{
		core.TypePart, core.TypeSolid, core.TypeShell, core.TypeFace,
		core.TypeWire, core.TypeEdge, core.TypeVertex,
	}
	topo := &Topology{}
	prev := make([]core.EntityID, 0, parts)
	for i := 0; i < parts; i++ {
		topo.Types = append(topo.Types, layers[0])
		prev = append(prev, core.EntityID(len(topo.Types)))
	}
	for _, t := range layers[1:] {
		next := make([]core.EntityID, 0, len(prev)*fanout)
		for pi, p := range prev {
			for j := 0; j < fanout; j++ {
				topo.Types = append(topo.Types, t)
				c := core.EntityID(len(topo.Types))
				next = append(next, c)
				topo.Edges = append(topo.Edges, Edge{Parent: p, Child: c})
				if share > 0 && pi > 0 && j%share == 0 {
					topo.Edges = append(topo.Edges, Edge{Parent: prev[pi-1], Child: c})
				}
			}
		}
		prev = next
	}
	return topo
}

// Reachable returns every id reachable from src by one or more edges.
func (t *Topology) Reachable(src core.EntityID) map[core.EntityID]bool {
	adj := make(map[core.EntityID][]core.EntityID)
	for _, e := range t.Edges {
		adj[e.Parent] = append(adj[e.Parent], e.Child)
	}
	seen := make(map[core.EntityID]bool)
	stack := []core.EntityID{src}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range adj[id] {
			if !seen[c] {
				seen[c] = true
				stack = append(stack, c)
			}
		}
	}
	delete(seen, src)
	return seen
}
