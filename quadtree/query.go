package quadtree

// Query returns the instantiated nodes on level whose boxes intersect the
// circle around the pixel (cx, cy) with radius r. Nothing is loaded and no
// access times change; pass the result to Load to materialize nodes.
func (t *Tree[V]) Query(cx, cy, r float64, level int) []*Node[V] {
	t.mustLive()
	var out []*Node[V]
	t.Walk(func(n *Node[V], _ int) bool {
		if n.level < level || !t.NodeAABB(n).IntersectsCircle(cx, cy, r) {
			return false
		}
		if n.level == level {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}
