package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	var configPath string

	cmd := &cobra.Command{
		Use:          "lodbench",
		Short:        "Walk synthetic viewers over procedural terrain through LOD caches",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if configPath != "" {
				if err := applyConfigFile(cmd.Flags(), configPath, &cfg); err != nil {
					return err
				}
			}
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "TOML config file; flags override its values")
	f.IntVar(&cfg.LeafSize, "leaf", cfg.LeafSize, "leaf size in pixels (power of two)")
	f.IntVar(&cfg.Capacity, "cap", cfg.Capacity, "materialized tiles per tree")
	f.Float64Var(&cfg.PruneFactor, "prune", cfg.PruneFactor, "share of capacity kept by a prune pass")
	f.BoolVar(&cfg.Preload, "preload", cfg.Preload, "build parent tiles from their children")
	f.BoolVar(&cfg.Morph, "morph", cfg.Morph, "load each tile's parent too, for morphing between levels")
	f.IntVar(&cfg.Trees, "trees", cfg.Trees, "number of independent viewers/trees")
	f.IntVar(&cfg.Steps, "steps", cfg.Steps, "walk steps per viewer")
	f.IntVar(&cfg.Levels, "levels", cfg.Levels, "LOD levels looked up per step")
	f.Float64Var(&cfg.Speed, "speed", cfg.Speed, "viewer speed in pixels per step")
	f.Float64Var(&cfg.FPS, "fps", cfg.FPS, "steps per second per viewer (0 = unlimited)")
	f.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "terrain and walk seed")
	f.StringVar(&cfg.MetricsAddr, "http", cfg.MetricsAddr, "serve Prometheus metrics at addr (empty = disabled)")
	f.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug | info | warn | error")
	f.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write JSON logs to this rotating file")
	f.BoolVar(&cfg.Dump, "dump", cfg.Dump, "print the first tree after the run")
	return cmd
}

// applyConfigFile loads path into cfg and re-applies flags that were given
// explicitly, so the command line wins over the file.
func applyConfigFile(flags *pflag.FlagSet, path string, cfg *Config) error {
	explicit := map[string]string{}
	flags.Visit(func(f *pflag.Flag) { explicit[f.Name] = f.Value.String() })

	if err := loadConfig(path, cfg); err != nil {
		return err
	}
	for name, v := range explicit {
		if err := flags.Set(name, v); err != nil {
			return fmt.Errorf("flag --%s: %w", name, err)
		}
	}
	return nil
}

// newRouter serves the run's registry at /metrics and a liveness probe.
func newRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r
}

func run(cmd *cobra.Command, cfg Config) error {
	log, closer, err := newLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: newRouter(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			log.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	start := time.Now()
	results, dump, err := runViewers(ctx, cfg, reg, log)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trees=%d steps=%d levels=%d leaf=%d cap=%d prune=%.2f preload=%t morph=%t dur=%v\n",
		cfg.Trees, cfg.Steps, cfg.Levels, cfg.LeafSize, cfg.Capacity, cfg.PruneFactor, cfg.Preload, cfg.Morph, elapsed)
	for _, r := range results {
		fmt.Fprintf(out, "tree=%d lookups=%d sampled=%d downsampled=%d morphed=%d freed=%d weight=%d root_level=%d\n",
			r.Tree, r.Lookups, r.Sampled, r.Downsampled, r.Morphed, r.Freed, r.Weight, r.RootLevel)
	}
	if cfg.Dump {
		fmt.Fprint(out, dump)
	}
	return nil
}
