package quadtree

import "fmt"

// tickClock advances by one on every read, so every stamped node gets a
// distinct, strictly increasing time.
type tickClock struct{ t int64 }

func (c *tickClock) NowUnixNano() int64 { c.t++; return c.t }

// recorder is a loader/free pair that stores node ids as payloads and
// remembers the order of calls.
type recorder struct {
	loads []string
	freed []string
	calls map[string]int
	empty func(n *Node[string]) bool
}

func newRecorder() *recorder { return &recorder{calls: map[string]int{}} }

func nodeID[V any](n *Node[V]) string {
	return fmt.Sprintf("%d:%d:%d", n.Level(), n.X(), n.Y())
}

func (r *recorder) load(n *Node[string]) (string, bool) {
	id := nodeID(n)
	r.calls[id]++
	if r.empty != nil && r.empty(n) {
		return "", false
	}
	r.loads = append(r.loads, id)
	return id, true
}

func (r *recorder) free(v string) { r.freed = append(r.freed, v) }

func (r *recorder) options(leafSize, capacity int) Options[string] {
	return Options[string]{
		LeafSize: leafSize,
		Capacity: capacity,
		Loader:   r.load,
		Free:     r.free,
		Clock:    &tickClock{},
	}
}

// countingMetrics records every hook call.
type countingMetrics struct {
	hits, misses, loads, emptyLoads int
	evicts                          map[EvictReason]int
	lastWeight, lastLevel           int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{evicts: map[EvictReason]int{}}
}

func (m *countingMetrics) Hit()  { m.hits++ }
func (m *countingMetrics) Miss() { m.misses++ }
func (m *countingMetrics) Load(ok bool) {
	if ok {
		m.loads++
	} else {
		m.emptyLoads++
	}
}
func (m *countingMetrics) Evict(r EvictReason) { m.evicts[r]++ }
func (m *countingMetrics) Size(weight, level int) {
	m.lastWeight, m.lastLevel = weight, level
}
