package relation

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/topoindex/core"
	"github.com/hupe1980/topoindex/internal/closure"
)

// TypeResolver classifies a node by id. entity.Index implements it.
type TypeResolver interface {
	TypeOf(id core.EntityID) (core.EntityType, bool)
}

// State is the closure cache validity flag.
type State uint8

const (
	// Valid means every cached closure reflects the current edge set.
	Valid State = iota
	// Dirty means the next closure query must rebuild first.
	Dirty
)

func (s State) String() string {
	if s == Valid {
		return "valid"
	}
	return "dirty"
}

// PartMembers groups every descendant of a part by type.
type PartMembers struct {
	Vertices []core.EntityID
	Edges    []core.EntityID
	Wires    []core.EntityID
	Faces    []core.EntityID
	Shells   []core.EntityID
	Solids   []core.EntityID
}

// Len returns the total number of members.
func (m PartMembers) Len() int {
	return len(m.Vertices) + len(m.Edges) + len(m.Wires) + len(m.Faces) + len(m.Shells) + len(m.Solids)
}

// Index is the RelationshipIndex.
type Index struct {
	mu sync.RWMutex

	nodes    map[core.EntityID]core.EntityType
	children closure.Graph // parent -> children
	parents  closure.Graph // child -> parents
	edges    int

	state       State
	ancestors   map[core.EntityID]*closure.Set
	descendants map[core.EntityID]*closure.Set
	byType      [core.NumEntityTypes]*closure.Set

	resolver TypeResolver
	opts     options

	rebuilds atomic.Uint64
}

// New creates an empty Index. resolver may be nil; if set it must outlive
// the Index.
func New(resolver TypeResolver, optFns ...Option) *Index {
	opts := options{
		logger:      slog.New(slog.DiscardHandler),
		parallelism: 1,
		incremental: true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ri := &Index{
		nodes:       make(map[core.EntityID]core.EntityType),
		children:    closure.Graph{},
		parents:     closure.Graph{},
		state:       Valid,
		ancestors:   make(map[core.EntityID]*closure.Set),
		descendants: make(map[core.EntityID]*closure.Set),
		resolver:    resolver,
		opts:        opts,
	}
	for i := range ri.byType {
		ri.byType[i] = closure.NewSet()
	}
	return ri
}

// classify maps a node onto the closed type set. Unregistered nodes and
// out-of-range types are excluded.
func (ri *Index) classify(id core.EntityID) (core.EntityType, bool) {
	t, ok := ri.nodes[id]
	if !ok {
		return core.TypeUnknown, false
	}
	if ri.resolver != nil {
		if rt, ok := ri.resolver.TypeOf(id); ok {
			t = rt
		}
	}
	switch t {
	case core.TypeVertex, core.TypeEdge, core.TypeWire, core.TypeFace, core.TypeShell,
		core.TypeSolid, core.TypeCompositeSolid, core.TypeCompound, core.TypePart:
		return t, true
	default:
		return core.TypeUnknown, false
	}
}

func (ri *Index) markDirty() {
	ri.state = Dirty
}

// AddEntity registers a node. It fails for the zero id, an invalid type,
// or an id that is already registered.
func (ri *Index) AddEntity(id core.EntityID, t core.EntityType) bool {
	if !id.Valid() || !t.Valid() {
		return false
	}

	ri.mu.Lock()
	defer ri.mu.Unlock()

	if _, dup := ri.nodes[id]; dup {
		return false
	}
	ri.nodes[id] = t

	// An isolated node changes no closure; only the type sets need it.
	if ri.state == Valid {
		if ct, ok := ri.classify(id); ok {
			ri.byType[ct].Add(id)
		}
	}
	return true
}

// RemoveEntity unregisters a node and severs all its edges. It returns the
// number of severed edges and false if id was not registered.
func (ri *Index) RemoveEntity(id core.EntityID) (int, bool) {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	if _, ok := ri.nodes[id]; !ok {
		return 0, false
	}
	n := ri.detachLocked(id)
	delete(ri.nodes, id)
	ri.markDirty()
	return n, true
}

func (ri *Index) detachLocked(id core.EntityID) int {
	n := 0
	for child := range ri.children[id] {
		ri.parents.Unlink(child, id)
		n++
	}
	delete(ri.children, id)

	for parent := range ri.parents[id] {
		ri.children.Unlink(parent, id)
		n++
	}
	delete(ri.parents, id)

	ri.edges -= n
	return n
}

// DetachAllRelations removes every edge touching id in either direction and
// returns how many were removed. The node stays registered.
func (ri *Index) DetachAllRelations(id core.EntityID) int {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	n := ri.detachLocked(id)
	if n > 0 {
		ri.markDirty()
	}
	return n
}

// AddEdge inserts parent->child. It fails on self-edges, unregistered
// endpoints, and duplicates.
func (ri *Index) AddEdge(parent, child core.EntityID) bool {
	if parent == child {
		return false
	}

	ri.mu.Lock()
	defer ri.mu.Unlock()

	if _, ok := ri.nodes[parent]; !ok {
		return false
	}
	if _, ok := ri.nodes[child]; !ok {
		return false
	}
	if !ri.children.Link(parent, child) {
		return false
	}
	ri.parents.Link(child, parent)
	ri.edges++

	if !ri.opts.incremental || ri.state != Valid || ri.descendants[child].Contains(parent) {
		// Dirty caches are never patched, and an edge closing a cycle
		// needs the visited-set rebuild.
		ri.markDirty()
		return true
	}
	ri.extendLocked(parent, child)
	return true
}

// extendLocked adds the pairs introduced by parent->child to a Valid cache:
// every ancestor-or-self of parent gains every descendant-or-self of child.
func (ri *Index) extendLocked(parent, child core.EntityID) {
	up := ri.ancestors[parent].Clone()
	up.Add(parent)
	down := ri.descendants[child].Clone()
	down.Add(child)

	for a := range up.All() {
		ri.setFor(ri.descendants, a).Union(down)
	}
	for d := range down.All() {
		ri.setFor(ri.ancestors, d).Union(up)
	}
}

func (ri *Index) setFor(m map[core.EntityID]*closure.Set, id core.EntityID) *closure.Set {
	s, ok := m[id]
	if !ok {
		s = closure.NewSet()
		m[id] = s
	}
	return s
}

// RemoveEdge deletes parent->child if present.
func (ri *Index) RemoveEdge(parent, child core.EntityID) bool {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	if !ri.children.Unlink(parent, child) {
		return false
	}
	ri.parents.Unlink(child, parent)
	ri.edges--
	ri.markDirty()
	return true
}

// ChildIDs returns the direct children of id in ascending order.
func (ri *Index) ChildIDs(id core.EntityID) []core.EntityID {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return sortedKeys(ri.children[id])
}

// ParentIDs returns the direct parents of id in ascending order.
func (ri *Index) ParentIDs(id core.EntityID) []core.EntityID {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return sortedKeys(ri.parents[id])
}

// HasChild reports whether parent->child exists.
func (ri *Index) HasChild(parent, child core.EntityID) bool {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return ri.children.Has(parent, child)
}

// HasParent reports whether parent->child exists, seen from the child.
func (ri *Index) HasParent(child, parent core.EntityID) bool {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return ri.parents.Has(child, parent)
}

// ChildCount returns the number of direct children of id.
func (ri *Index) ChildCount(id core.EntityID) int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return ri.children.Degree(id)
}

// ParentCount returns the number of direct parents of id.
func (ri *Index) ParentCount(id core.EntityID) int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return ri.parents.Degree(id)
}

// HasNode reports whether id is registered.
func (ri *Index) HasNode(id core.EntityID) bool {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	_, ok := ri.nodes[id]
	return ok
}

// NodeCount returns the number of registered nodes.
func (ri *Index) NodeCount() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return len(ri.nodes)
}

// EdgeCount returns the number of edges.
func (ri *Index) EdgeCount() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return ri.edges
}

// Roots returns registered nodes without parents in ascending order.
func (ri *Index) Roots() []core.EntityID {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	out := make([]core.EntityID, 0)
	for id := range ri.nodes {
		if ri.parents.Degree(id) == 0 {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// State returns the current cache state.
func (ri *Index) State() State {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return ri.state
}

// Rebuilds returns how many full rebuilds have run.
func (ri *Index) Rebuilds() uint64 {
	return ri.rebuilds.Load()
}

func sortedKeys(m map[core.EntityID]struct{}) []core.EntityID {
	out := make([]core.EntityID, 0, len(m))
	for id := range m {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
