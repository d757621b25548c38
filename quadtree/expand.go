package quadtree

import "fmt"

// Expand grows the tree until its root covers the pixel (x, y).
// Each step wraps the current root as one quadrant of a root one level
// higher, so coverage only ever increases.
func (t *Tree[V]) Expand(x, y float64) {
	t.mustLive()
	t.expand(t.point(x, y))
}

func (t *Tree[V]) expand(px, py int64) {
	for !t.NodeAABB(t.root).containsPixel(px, py) {
		t.grow(px, py)
	}
}

// ExpandWorld is Expand for world coordinates, where one unit is one leaf.
func (t *Tree[V]) ExpandWorld(x, y float64) {
	t.Expand(t.toPixels(x), t.toPixels(y))
}

// grow performs one doubling step toward the pixel (px, py). The old root
// lands in the quadrant opposite the growth direction on each axis.
func (t *Tree[V]) grow(px, py int64) {
	old := t.root
	if old.level >= t.maxLevel {
		panic(fmt.Sprintf("quadtree: cannot grow beyond level %d to cover (%d,%d)", t.maxLevel, px, py))
	}
	box := t.NodeAABB(old)
	scale := t.Scale(old)

	nx, ny, idx := old.x, old.y, 0
	if px < box.MinX {
		nx -= scale
		idx |= 1
	}
	if py < box.MinY {
		ny -= scale
		idx |= 2
	}

	root := &Node[V]{x: nx, y: ny, level: old.level + 1, time: old.time}
	root.children[idx] = old
	old.parent, old.index = root, uint8(idx)
	for i := range root.children {
		t.fill(root, i)
	}
	root.recompute()
	t.root = root

	t.log.Debug().
		Int("level", root.level).
		Stringer("box", t.NodeAABB(root)).
		Int("weight", root.weight).
		Msg("tree grown")
	t.opt.Metrics.Size(root.weight, root.level)
}

func (t *Tree[V]) toPixels(v float64) float64 { return v * float64(t.leafSize) }
