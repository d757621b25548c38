package quadtree

// Node is one square of the tree. It is owned by its parent (the root by the
// Tree) and exposes read-only accessors; all mutation goes through the Tree.
type Node[V any] struct {
	// Lower-left corner in leaf units (the level-0 grid), not in pixels.
	x, y  int64
	level int

	// Number of materialized payloads in this subtree, including this node.
	weight int

	// Last access stamp from the tree's Clock; drives prune ordering.
	time int64

	data   V
	loaded bool

	// Quadrants: bit0 = +x half, bit1 = +y half. A nil slot is a placeholder
	// that has not been instantiated yet.
	children [4]*Node[V]

	// Non-owning back link; index is the slot of n in parent.children.
	parent *Node[V]
	index  uint8

	busy bool // a load of this node is running
}

// X returns the x coordinate of the lower-left corner in leaf units.
func (n *Node[V]) X() int64 { return n.x }

// Y returns the y coordinate of the lower-left corner in leaf units.
func (n *Node[V]) Y() int64 { return n.y }

// Level returns the node level; 0 is a leaf.
func (n *Node[V]) Level() int { return n.level }

// Weight returns the number of materialized payloads in the subtree.
func (n *Node[V]) Weight() int { return n.weight }

// Time returns the last access stamp.
func (n *Node[V]) Time() int64 { return n.time }

// Data returns the payload and whether it is materialized.
func (n *Node[V]) Data() (V, bool) { return n.data, n.loaded }

// Loaded reports whether the node holds a payload.
func (n *Node[V]) Loaded() bool { return n.loaded }

// IsLeaf reports whether the node is on level 0.
func (n *Node[V]) IsLeaf() bool { return n.level == 0 }

// Child returns the i-th quadrant or nil if it was never instantiated.
func (n *Node[V]) Child(i int) *Node[V] { return n.children[i] }

// Parent returns the enclosing node, or nil for the root.
func (n *Node[V]) Parent() *Node[V] { return n.parent }

// ParentIndex returns the quadrant n occupies in its parent (bit0 = +x,
// bit1 = +y), or -1 for the root.
func (n *Node[V]) ParentIndex() int {
	if n.parent == nil {
		return -1
	}
	return int(n.index)
}

func rootOf[V any](n *Node[V]) *Node[V] {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// recompute derives the weight from the children and the own payload.
func (n *Node[V]) recompute() {
	w := 0
	for _, c := range n.children {
		if c != nil {
			w += c.weight
		}
	}
	if n.loaded {
		w++
	}
	n.weight = w
}
