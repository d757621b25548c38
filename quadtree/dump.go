package quadtree

import (
	"fmt"
	"strings"
)

// Dump renders every instantiated node in pre-order, one line per node,
// indented by depth.
func (t *Tree[V]) Dump() string {
	t.mustLive()
	var b strings.Builder
	t.dump(&b, t.root, 0)
	return b.String()
}

func (t *Tree[V]) dump(b *strings.Builder, n *Node[V], depth int) {
	fmt.Fprintf(b, "%s%s level=%d weight=%d time=%d loaded=%t\n",
		strings.Repeat("  ", depth), t.NodeAABB(n), n.level, n.weight, n.time, n.loaded)
	for _, c := range n.children {
		if c != nil {
			t.dump(b, c, depth+1)
		}
	}
}

// Walk visits every instantiated node in pre-order. Returning false from fn
// skips the node's children.
func (t *Tree[V]) Walk(fn func(n *Node[V], depth int) bool) {
	t.mustLive()
	walk(t.root, 0, fn)
}

func walk[V any](n *Node[V], depth int, fn func(*Node[V], int) bool) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		if c != nil {
			walk(c, depth+1, fn)
		}
	}
}

// CheckWeights verifies that every node's weight equals the sum of its
// children's weights plus its own payload.
func (t *Tree[V]) CheckWeights() error {
	t.mustLive()
	_, err := checkWeights(t.root)
	return err
}

func checkWeights[V any](n *Node[V]) (int, error) {
	w := 0
	for _, c := range n.children {
		if c == nil {
			continue
		}
		cw, err := checkWeights(c)
		if err != nil {
			return 0, err
		}
		w += cw
	}
	if n.loaded {
		w++
	}
	if w != n.weight {
		return 0, fmt.Errorf("quadtree: node (%d,%d) level %d: weight %d, want %d", n.x, n.y, n.level, n.weight, w)
	}
	return w, nil
}

// Destroy frees every materialized payload and drops all nodes. The tree
// must not be used afterwards; calling Destroy again is a no-op.
func (t *Tree[V]) Destroy() {
	if t.destroyed {
		return
	}
	freed := t.destroy(t.root)
	t.root = nil
	t.destroyed = true
	t.log.Debug().Int("freed", freed).Msg("tree destroyed")
	t.opt.Metrics.Size(0, 0)
}

func (t *Tree[V]) destroy(n *Node[V]) int {
	freed := 0
	for i, c := range n.children {
		if c != nil {
			freed += t.destroy(c)
			c.parent = nil
			n.children[i] = nil
		}
	}
	if n.loaded {
		t.evict(n, EvictDestroy)
		freed++
	}
	n.weight = 0
	return freed
}
