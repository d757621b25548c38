package quadtree

import "fmt"

// Lookup returns the payload covering the pixel (x, y) at level.
//
// It grows the tree when the point is not covered yet, prunes when the
// tree is over capacity and then descends to the node, stamping access
// times on the way and loading the node if it holds no payload.
// The boolean is false when the loader had no data for the node.
func (t *Tree[V]) Lookup(x, y float64, level int) (V, bool) {
	t.mustLive()
	px, py := t.point(x, y)
	t.expand(px, py)
	t.checkLevel(level)
	t.Prune()

	n := t.descend(t.root, px, py, level, true)
	t.opt.Metrics.Size(t.root.weight, t.root.level)
	return n.data, n.loaded
}

// LookupNode returns the node covering the pixel (x, y) at level without
// forcing its payload to load. It grows the tree like Lookup does.
func (t *Tree[V]) LookupNode(x, y float64, level int) *Node[V] {
	t.mustLive()
	px, py := t.point(x, y)
	t.expand(px, py)
	t.checkLevel(level)
	return t.descend(t.root, px, py, level, false)
}

// LookupWorld is Lookup for world coordinates, where one unit is one leaf.
func (t *Tree[V]) LookupWorld(x, y float64, level int) (V, bool) {
	return t.Lookup(t.toPixels(x), t.toPixels(y), level)
}

// LookupNodeWorld is LookupNode for world coordinates.
func (t *Tree[V]) LookupNodeWorld(x, y float64, level int) *Node[V] {
	return t.LookupNode(t.toPixels(x), t.toPixels(y), level)
}

func (t *Tree[V]) checkLevel(level int) {
	if level < 0 || level > t.root.level {
		panic(fmt.Sprintf("quadtree: level %d not available (root level %d)", level, t.root.level))
	}
}

// descend walks from n toward the pixel (px, py) until it reaches level, and
// refreshes the weights of the visited path on the way back up.
func (t *Tree[V]) descend(n *Node[V], px, py int64, level int, load bool) *Node[V] {
	n.time = t.now()
	if n.level == level {
		if load {
			t.load(n, t.opt.PreloadChildData)
		}
		return n
	}
	child := t.fill(n, t.childIndex(n, px, py))
	found := t.descend(child, px, py, level, load)
	n.recompute()
	return found
}
