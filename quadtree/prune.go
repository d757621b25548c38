package quadtree

import (
	"fmt"
	"math"
)

// Prune releases payloads once the tree holds more than Capacity-1 of them,
// keeping floor(Capacity*PruneFactor). It returns the number released.
// While a Loader runs Prune does nothing, since the loader may be reading
// payloads of other nodes.
//
// Victims are found by descending into the child with the oldest access
// stamp among children that still hold payloads. This approximates global
// LRU without an index over all loaded nodes: it is exact only when recency
// is partitioned by subtree.
func (t *Tree[V]) Prune() int {
	t.mustLive()
	capacity := t.opt.Capacity
	if t.loading > 0 || t.root.weight <= capacity-1 {
		return 0
	}

	keep := int(math.Floor(float64(capacity) * t.opt.PruneFactor))
	before := t.root.weight
	target := before - keep
	t.prune(t.root, &target)

	if t.root.weight > capacity {
		panic(fmt.Sprintf("quadtree: weight %d above capacity %d after prune", t.root.weight, capacity))
	}
	evicted := before - t.root.weight
	t.log.Debug().
		Int("before", before).
		Int("after", t.root.weight).
		Int("evicted", evicted).
		Msg("tree pruned")
	t.opt.Metrics.Size(t.root.weight, t.root.level)
	return evicted
}

func (t *Tree[V]) prune(n *Node[V], target *int) {
	for *target > 0 {
		var oldest *Node[V]
		for _, c := range n.children {
			if c == nil || c.weight == 0 {
				continue
			}
			if oldest == nil || c.time < oldest.time {
				oldest = c
			}
		}
		if oldest == nil {
			break
		}
		t.prune(oldest, target)
	}

	if n.loaded && *target > 0 {
		t.evict(n, EvictPrune)
		*target--
	}
	n.recompute()
}
