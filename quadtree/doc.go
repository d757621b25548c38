// Package quadtree provides a bounded-capacity, spatially indexed cache for
// data tied to squares of an unbounded 2D plane at multiple levels of detail
// (LOD), e.g. terrain height tiles or textures.
//
// Design
//
//   - Geometry: a node covers a square of LeafSize * 2^level pixels. Its
//     lower-left corner is stored in leaf units. Children are addressed by
//     quadrant: bit0 = +x half, bit1 = +y half.
//
//   - Growth: the tree starts as a single leaf at the origin. Looking up a
//     point outside the root wraps the root as one quadrant of a new root one
//     level higher, repeated until the point is covered. Sibling placeholders
//     carry no payload; deeper placeholders are instantiated when a descent
//     first reaches them.
//
//   - Loading: payloads are produced by Options.Loader on first access. With
//     PreloadChildData the four children of an internal node are loaded first
//     so a loader can downsample them into the parent.
//
//   - Eviction: every node tracks a weight (number of payloads in its subtree)
//     and a last access stamp. When the root weight reaches Capacity, Prune
//     descends into the child with the oldest stamp that still holds payloads
//     and frees payloads until floor(Capacity*PruneFactor) remain. This is an
//     approximation of global LRU that needs no index of loaded nodes.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Load/Evict/Size signals.
//     By default NoopMetrics is used; plug the metrics/prom adapter to export
//     them.
//
// Basic usage
//
//	t := quadtree.New[[]float32](quadtree.Options[[]float32]{
//	    LeafSize: 512,
//	    Capacity: 256,
//	    Loader: func(n *quadtree.Node[[]float32]) ([]float32, bool) {
//	        return generateHeights(n.X(), n.Y(), n.Level()), true
//	    },
//	})
//	defer t.Destroy()
//	heights, ok := t.Lookup(1200, -300, 2)
//
// Thread-safety
//
// A Tree is not safe for concurrent use. Lookups may block for as long as the
// loader does; serialize access from a single goroutine or an external mutex.
package quadtree
