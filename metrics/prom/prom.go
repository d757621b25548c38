package prom

import (
	"github.com/IvanBrykalov/lodcache/quadtree"
	"github.com/prometheus/client_golang/prometheus"
)

// Adapter implements quadtree.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	loads     *prometheus.CounterVec
	evicts    *prometheus.CounterVec
	weight    prometheus.Gauge
	rootLevel prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Lookups served by an already materialized node",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Nodes that had to be loaded",
			ConstLabels: constLabels,
		}),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "loads_total",
				Help:        "Loader invocations by result",
				ConstLabels: constLabels,
			},
			[]string{"result"},
		),
		evicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "evictions_total",
				Help:        "Released payloads by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		weight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "weight",
			Help:        "Number of materialized payloads",
			ConstLabels: constLabels,
		}),
		rootLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "root_level",
			Help:        "Level of the root node",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.loads, a.evicts, a.weight, a.rootLevel)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter.
func (a *Adapter) Miss() { a.misses.Inc() }

// Load counts a loader call, labelled "ok" or "empty".
func (a *Adapter) Load(ok bool) {
	result := "empty"
	if ok {
		result = "ok"
	}
	a.loads.WithLabelValues(result).Inc()
}

// Evict increments the eviction counter with a reason label.
func (a *Adapter) Evict(r quadtree.EvictReason) {
	a.evicts.WithLabelValues(reason(r)).Inc()
}

// Size updates the weight and root level gauges.
func (a *Adapter) Size(weight, level int) {
	a.weight.Set(float64(weight))
	a.rootLevel.Set(float64(level))
}

// reason maps EvictReason to a stable label value.
func reason(r quadtree.EvictReason) string {
	switch r {
	case quadtree.EvictDestroy:
		return "destroy"
	default:
		return "prune"
	}
}

// Compile-time check: ensure Adapter implements quadtree.Metrics.
var _ quadtree.Metrics = (*Adapter)(nil)
