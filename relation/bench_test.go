package relation

import (
	"testing"

	"github.com/hupe1980/topoindex/core"
	"github.com/hupe1980/topoindex/testutil"
)

func benchIndex(b *testing.B, opts ...Option) *Index {
	b.Helper()
	topo := testutil.Layered(4, 3, 2)
	ri := New(topo, opts...)
	for i, typ := range topo.Types {
		ri.AddEntity(core.EntityID(i+1), typ)
	}
	for _, e := range topo.Edges {
		ri.AddEdge(e.Parent, e.Child)
	}
	return ri
}

func BenchmarkRebuild(b *testing.B) {
	for _, p := range []int{1, 4} {
		ri := benchIndex(b, WithIncremental(false), WithParallelism(p))
		b.Run(map[int]string{1: "serial", 4: "parallel4"}[p], func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				ri.Rebuild()
			}
		})
	}
}

func BenchmarkFindRelated(b *testing.B) {
	ri := benchIndex(b)
	ri.Rebuild()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ri.FindRelated(1, core.TypeVertex)
	}
}

func BenchmarkAddEdgeIncremental(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		ri := New(nil)
		for id := core.EntityID(1); id <= 64; id++ {
			ri.AddEntity(id, core.TypeFace)
		}
		b.StartTimer()
		for id := core.EntityID(1); id < 64; id++ {
			ri.AddEdge(id, id+1)
		}
	}
}
