package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/IvanBrykalov/lodcache/quadtree"
)

// The adapter receives every hook of a real tree.
func TestAdapter_TracksTree(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "lod", "test", prometheus.Labels{"layer": "height"})

	tr := quadtree.New[int](quadtree.Options[int]{
		LeafSize: 1,
		Capacity: 2,
		Metrics:  m,
		Loader: func(n *quadtree.Node[int]) (int, bool) {
			return 1, n.X() != 2 // no data in column 2
		},
	})

	tr.Lookup(0, 0, 0) // miss, load ok
	tr.Lookup(0, 0, 0) // hit
	tr.Lookup(1, 0, 0) // miss, load ok (weight 2)
	tr.Lookup(2, 0, 0) // prune 1, miss, empty load

	require.Equal(t, 1.0, testutil.ToFloat64(m.hits))
	require.Equal(t, 3.0, testutil.ToFloat64(m.misses))
	require.Equal(t, 2.0, testutil.ToFloat64(m.loads.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("empty")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.evicts.WithLabelValues("prune")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.weight))
	require.Equal(t, float64(tr.Root().Level()), testutil.ToFloat64(m.rootLevel))

	tr.Destroy()
	require.Equal(t, 1.0, testutil.ToFloat64(m.evicts.WithLabelValues("destroy")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.weight))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Greater(t, n, 0)
}

func TestReasonLabels(t *testing.T) {
	t.Parallel()

	require.Equal(t, "prune", reason(quadtree.EvictPrune))
	require.Equal(t, "destroy", reason(quadtree.EvictDestroy))
}
