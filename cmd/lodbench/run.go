package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/IvanBrykalov/lodcache/internal/tiles"
	pmet "github.com/IvanBrykalov/lodcache/metrics/prom"
	"github.com/IvanBrykalov/lodcache/quadtree"
)

// Result summarizes one viewer's run.
type Result struct {
	Tree        int
	Lookups     int
	Sampled     int
	Downsampled int
	Morphed     int
	Freed       int
	Weight      int
	RootLevel   int
}

// runViewers runs cfg.Trees viewers in parallel. Each goroutine owns its
// tree and tile source, so no tree is ever shared. It returns the results in
// tree order and the dump of tree 0 when cfg.Dump is set.
func runViewers(ctx context.Context, cfg Config, reg prometheus.Registerer, log zerolog.Logger) ([]Result, string, error) {
	results := make([]Result, cfg.Trees)
	var dump string

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.Trees; i++ {
		i := i
		g.Go(func() error {
			r, d, err := runViewer(ctx, i, cfg, reg, log.With().Int("tree", i).Logger())
			if err != nil {
				return fmt.Errorf("tree %d: %w", i, err)
			}
			results[i] = r
			if i == 0 {
				dump = d
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}
	return results, dump, nil
}

func runViewer(ctx context.Context, id int, cfg Config, reg prometheus.Registerer, log zerolog.Logger) (Result, string, error) {
	src, err := tiles.NewSource(cfg.LeafSize, cfg.Seed)
	if err != nil {
		return Result{}, "", err
	}
	tr := quadtree.New[*tiles.Tile](quadtree.Options[*tiles.Tile]{
		LeafSize:         cfg.LeafSize,
		Capacity:         cfg.Capacity,
		PruneFactor:      cfg.PruneFactor,
		PreloadChildData: cfg.Preload,
		Loader:           src.Load,
		Free:             src.Free,
		Metrics:          pmet.New(reg, "lodcache", "bench", prometheus.Labels{"tree": strconv.Itoa(id)}),
		Logger:           &log,
	})
	defer tr.Destroy()
	if cfg.Morph {
		src.Morph(tr)
	}

	limit := rate.Inf
	if cfg.FPS > 0 {
		limit = rate.Limit(cfg.FPS)
	}
	frames := rate.NewLimiter(limit, 1)

	w := newWalker(cfg.Seed+uint64(id)*9973, cfg.Speed)
	res := Result{Tree: id}
	for step := 0; step < cfg.Steps; step++ {
		if err := frames.Wait(ctx); err != nil {
			return Result{}, "", err
		}

		x, y := w.next()
		tr.Expand(x, y)
		top := min(cfg.Levels-1, tr.Root().Level())
		for level := top; level >= 0; level-- {
			tr.Lookup(x, y, level)
			res.Lookups++
		}
	}

	// settle the last frame's loads
	tr.Prune()
	if err := tr.CheckWeights(); err != nil {
		return Result{}, "", err
	}
	st := src.Stats()
	res.Sampled, res.Downsampled, res.Morphed, res.Freed = st.Sampled, st.Downsampled, st.Morphed, st.Freed
	res.Weight, res.RootLevel = tr.Weight(), tr.Root().Level()
	log.Info().
		Int("lookups", res.Lookups).
		Int("weight", res.Weight).
		Int("root_level", res.RootLevel).
		Msg("viewer finished")

	var dump string
	if cfg.Dump && id == 0 {
		dump = tr.Dump()
	}
	return res, dump, nil
}

// walker is a viewer drifting with a slowly turning heading.
type walker struct {
	r       *rand.Rand
	x, y    float64
	heading float64
	speed   float64
}

func newWalker(seed uint64, speed float64) *walker {
	r := rand.New(rand.NewSource(int64(seed)))
	return &walker{r: r, heading: r.Float64() * 2 * math.Pi, speed: speed}
}

func (w *walker) next() (float64, float64) {
	w.heading += (w.r.Float64() - 0.5) * 0.2
	w.x += math.Cos(w.heading) * w.speed
	w.y += math.Sin(w.heading) * w.speed
	return w.x, w.y
}
