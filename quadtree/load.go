package quadtree

// Load materializes n, a node previously returned by LookupNode, Query or
// Parent, and returns its payload. With preload the four children are
// loaded first regardless of PreloadChildData. Like Lookup it prunes first
// and refreshes access times and weights on the path to the root.
//
// A Loader may call Load, typically on n.Parent(). Nested calls never prune,
// and a node whose own load is still running is returned as is.
func (t *Tree[V]) Load(n *Node[V], preload bool) (V, bool) {
	t.mustLive()
	if rootOf(n) != t.root {
		panic("quadtree: node does not belong to this tree")
	}
	t.Prune()

	now := t.now()
	for p := n; p != nil; p = p.parent {
		p.time = now
	}
	t.load(n, preload)
	for p := n.parent; p != nil; p = p.parent {
		p.recompute()
	}
	if t.loading == 0 {
		t.opt.Metrics.Size(t.root.weight, t.root.level)
	}
	return n.data, n.loaded
}

// load ensures n holds a payload. With preload the four children are
// materialized first so the loader can derive n from them.
// Only the weight of n itself is refreshed; callers fix the ancestors.
func (t *Tree[V]) load(n *Node[V], preload bool) {
	if n.loaded {
		t.opt.Metrics.Hit()
		return
	}
	if n.busy {
		return
	}
	t.opt.Metrics.Miss()

	n.busy = true
	t.loading++
	defer func() {
		n.busy = false
		t.loading--
	}()

	if preload && !n.IsLeaf() {
		for i := range n.children {
			t.load(t.fill(n, i), preload)
		}
	}

	v, ok := t.opt.Loader(n)
	t.opt.Metrics.Load(ok)
	if ok {
		n.data, n.loaded = v, true
	} else {
		t.log.Debug().
			Int("level", n.level).
			Int64("x", n.x).
			Int64("y", n.y).
			Msg("loader returned no data")
	}
	n.recompute()
}
