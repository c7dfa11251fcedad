package testutil

import (
	"testing"

	"github.com/hupe1980/topoindex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRNG_Deterministic(t *testing.T) {
	a := NewRNG(42)
	b := NewRNG(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(1000), b.Intn(1000))
	}
	first := a.Intn(1000)
	a.Reset()
	for i := 0; i < 10; i++ {
		a.Intn(1000)
	}
	assert.Equal(t, first, a.Intn(1000))
	assert.Equal(t, int64(42), a.Seed())
}

func TestRandomDAG(t *testing.T) {
	topo := RandomDAG(NewRNG(1), 20, 50)
	require.Len(t, topo.Types, 20)
	require.Len(t, topo.Edges, 50)

	seen := map[Edge]bool{}
	for _, e := range topo.Edges {
		assert.Less(t, e.Parent, e.Child, "edges point forward")
		assert.False(t, seen[e], "edges are distinct")
		seen[e] = true
	}

	assert.Len(t, RandomDAG(NewRNG(1), 4, 100).Edges, 6, "capped at complete DAG")

	typ, ok := topo.TypeOf(1)
	require.True(t, ok)
	assert.True(t, typ.Valid())
	_, ok = topo.TypeOf(21)
	assert.False(t, ok)
}

func TestLayered(t *testing.T) {
	topo := Layered(1, 2, 0)
	// 1 + 2 + 4 + 8 + 16 + 32 + 64 nodes, each non-root with one parent.
	assert.Len(t, topo.Types, 127)
	assert.Len(t, topo.Edges, 126)
	assert.Equal(t, core.TypePart, topo.Types[0])
	assert.Equal(t, core.TypeVertex, topo.Types[126])
	assert.Len(t, topo.Reachable(1), 126)

	shared := Layered(2, 2, 1)
	assert.Greater(t, len(shared.Edges), len(shared.Types)-2, "sharing adds extra parents")
}

func TestReachable(t *testing.T) {
	topo := &Topology{
		Types: []core.EntityType{core.TypeFace, core.TypeEdge, core.TypeVertex},
		Edges: []Edge{{1, 2}, {2, 3}},
	}
	assert.Equal(t, map[core.EntityID]bool{2: true, 3: true}, topo.Reachable(1))
	assert.Empty(t, topo.Reachable(3))
}
