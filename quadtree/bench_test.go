package quadtree

import (
	"math"
	"testing"
)

// benchmarkWalk moves a viewer along a spiral and looks up the leaf and a
// coarser level under it, the way a terrain renderer would each frame.
func benchmarkWalk(b *testing.B, preload bool) {
	tr := New[int](Options[int]{
		LeafSize:         64,
		Capacity:         1_024,
		PreloadChildData: preload,
		Loader:           func(n *Node[int]) (int, bool) { return n.Level(), true },
	})
	b.Cleanup(tr.Destroy)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		a := float64(i) * 0.01
		x := math.Cos(a) * a * 64
		y := math.Sin(a) * a * 64
		tr.Lookup(x, y, 0)
		tr.Lookup(x, y, 1)
	}
}

func BenchmarkTree_Walk(b *testing.B)        { benchmarkWalk(b, false) }
func BenchmarkTree_WalkPreload(b *testing.B) { benchmarkWalk(b, true) }
