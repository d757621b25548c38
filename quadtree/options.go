package quadtree

import "github.com/rs/zerolog"

// DefaultPruneFactor is the share of Capacity kept after a prune pass.
const DefaultPruneFactor = 0.75

// EvictReason explains why a payload was released.
type EvictReason int

const (
	// EvictPrune: released by a prune pass because the tree exceeded Capacity.
	EvictPrune EvictReason = iota
	// EvictDestroy: released while tearing down the whole tree.
	EvictDestroy
)

// LoadFunc materializes the payload of a node. Returning false means "no data
// for this node"; the node stays unmaterialized and is retried on the next
// lookup that reaches it.
//
// The node is passed read-only: with PreloadChildData its four children are
// already materialized (when their own loads succeeded) and can be read
// through Child(i).Data().
type LoadFunc[V any] func(n *Node[V]) (V, bool)

// FreeFunc releases a payload previously returned by a LoadFunc.
// It is called at most once per payload.
type FreeFunc[V any] func(v V)

// Metrics exposes tree-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Hit is reported when a requested node already holds its payload.
	Hit()
	// Miss is reported before the loader is invoked.
	Miss()
	// Load reports the loader result: ok=false for an empty load.
	Load(ok bool)
	Evict(reason EvictReason)
	// Size reports the root weight and root level after a mutation.
	Size(weight int, level int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures a Tree. Zero values are safe for the optional fields;
// defaults are applied in New():
//   - PruneFactor == 0 => DefaultPruneFactor
//   - nil Free         => no-op
//   - nil Metrics      => NoopMetrics
//   - nil Clock        => time.Now()
//   - nil Logger       => zerolog.Nop()
type Options[V any] struct {
	// LeafSize is the side length of a level-0 node in pixels (> 0).
	LeafSize int

	// Capacity is the target maximum number of materialized payloads (>= 1).
	Capacity int

	// PruneFactor in (0,1) is the share of Capacity retained by a prune pass.
	PruneFactor float64

	// PreloadChildData makes the tree materialize all four children of an
	// internal node before calling Loader on the node itself.
	PreloadChildData bool

	// Loader produces node payloads. Required.
	Loader LoadFunc[V]
	// Free releases evicted payloads.
	Free FreeFunc[V]

	// Observability
	Metrics Metrics
	Logger  *zerolog.Logger

	// Clock allows overriding the time source used for access stamps (tests).
	Clock Clock
}
