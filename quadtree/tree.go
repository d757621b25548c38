package quadtree

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/IvanBrykalov/lodcache/internal/util"
)

// ErrDestroyed is the panic value raised when a destroyed Tree is used.
var ErrDestroyed = errors.New("quadtree: tree destroyed")

// Tree is a spatial LOD cache over an unbounded plane.
// It is NOT safe for concurrent use; callers serialize access.
type Tree[V any] struct {
	root *Node[V]
	opt  Options[V]

	leafSize int64
	maxLevel int // highest root level before spans overflow

	log       zerolog.Logger
	destroyed bool

	loading int // loads in progress; nested Load calls run while > 0
}

// New constructs a tree whose root is the single leaf at the origin.
// Defaults:
//   - PruneFactor == 0 -> DefaultPruneFactor
//   - nil Free        -> no-op
//   - nil Metrics     -> NoopMetrics
//   - nil Clock       -> time.Now()
//   - nil Logger      -> zerolog.Nop()
//
// Invalid options are programming errors and panic.
func New[V any](opt Options[V]) *Tree[V] {
	if opt.LeafSize <= 0 {
		panic("quadtree: LeafSize must be > 0")
	}
	if opt.Capacity < 1 {
		panic("quadtree: Capacity must be >= 1")
	}
	if opt.PruneFactor == 0 {
		opt.PruneFactor = DefaultPruneFactor
	}
	if !(opt.PruneFactor > 0 && opt.PruneFactor < 1) {
		panic("quadtree: PruneFactor must be in (0,1)")
	}
	if opt.Loader == nil {
		panic("quadtree: Loader must not be nil")
	}
	if opt.Free == nil {
		opt.Free = func(V) {}
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	log := zerolog.Nop()
	if opt.Logger != nil {
		log = opt.Logger.With().Str("component", "quadtree").Logger()
	}

	leaf := int64(opt.LeafSize)
	return &Tree[V]{
		root:     &Node[V]{},
		opt:      opt,
		leafSize: leaf,
		maxLevel: util.MaxLevel(leaf),
		log:      log,
	}
}

// Root returns the current root node.
func (t *Tree[V]) Root() *Node[V] {
	t.mustLive()
	return t.root
}

// Weight returns the number of materialized payloads in the whole tree.
func (t *Tree[V]) Weight() int {
	t.mustLive()
	return t.root.weight
}

// LeafSize returns the side length of a leaf in pixels.
func (t *Tree[V]) LeafSize() int { return t.opt.LeafSize }

// Capacity returns the configured capacity.
func (t *Tree[V]) Capacity() int { return t.opt.Capacity }

// PruneFactor returns the effective prune factor.
func (t *Tree[V]) PruneFactor() float64 { return t.opt.PruneFactor }

// ---- helpers ----

func (t *Tree[V]) mustLive() {
	if t.destroyed {
		panic(ErrDestroyed)
	}
}

func (t *Tree[V]) now() int64 {
	if t.opt.Clock != nil {
		return t.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// fill returns the i-th child of n, instantiating an empty placeholder
// when the slot has never been reached before.
func (t *Tree[V]) fill(n *Node[V], i int) *Node[V] {
	if c := n.children[i]; c != nil {
		return c
	}
	if n.level == 0 {
		panic("quadtree: leaves have no children")
	}
	half := int64(1) << uint(n.level-1)
	c := &Node[V]{
		x:      n.x + int64(i&1)*half,
		y:      n.y + int64(i>>1)*half,
		level:  n.level - 1,
		parent: n,
		index:  uint8(i),
	}
	n.children[i] = c
	return c
}

// evict releases the payload of n. The caller recomputes weights.
func (t *Tree[V]) evict(n *Node[V], reason EvictReason) {
	v := n.data
	var zero V
	n.data, n.loaded = zero, false
	t.opt.Free(v)
	t.opt.Metrics.Evict(reason)
}
