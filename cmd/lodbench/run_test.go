package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	cfg := defaultConfig()
	cfg.LeafSize = 16
	cfg.Capacity = 32
	cfg.Trees = 3
	cfg.Steps = 200
	cfg.Levels = 3
	cfg.Speed = 6
	return cfg
}

func TestRunViewers(t *testing.T) {
	t.Parallel()

	for _, mode := range [][2]bool{{false, false}, {true, false}, {false, true}} {
		preload, morph := mode[0], mode[1]
		cfg := smallConfig()
		cfg.Preload, cfg.Morph = preload, morph
		cfg.Dump = true
		reg := prometheus.NewRegistry()

		results, dump, err := runViewers(context.Background(), cfg, reg, zerolog.Nop())
		require.NoError(t, err)
		require.Len(t, results, cfg.Trees)
		for i, r := range results {
			assert.Equal(t, i, r.Tree)
			assert.Positive(t, r.Lookups)
			assert.Positive(t, r.Sampled)
			assert.LessOrEqual(t, r.Weight, cfg.Capacity)
			if preload {
				assert.Positive(t, r.Downsampled, "tree %d", i)
			} else if !morph {
				assert.Zero(t, r.Downsampled, "tree %d", i)
			}
			if morph {
				assert.Positive(t, r.Morphed, "tree %d", i)
			} else {
				assert.Zero(t, r.Morphed, "tree %d", i)
			}
		}
		require.NotEmpty(t, dump)

		n, err := testutil.GatherAndCount(reg, "lodcache_bench_misses_total")
		require.NoError(t, err)
		require.Equal(t, cfg.Trees, n)
	}
}

func TestRunViewers_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := runViewers(ctx, smallConfig(), prometheus.NewRegistry(), zerolog.Nop())
	require.ErrorIs(t, err, context.Canceled)
}

func TestRootCmd(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "leaf_size = 16\ncapacity = 32\ntrees = 2\nsteps = 50\nlevels = 2\nlog_level = \"error\"\n")
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", path, "--trees", "1"})
	require.NoError(t, cmd.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "trees=1")
	require.Contains(t, lines[0], "cap=32")
	require.True(t, strings.HasPrefix(lines[1], "tree=0 "))
}

func TestRootCmd_InvalidFlags(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--leaf", "12"})
	require.ErrorContains(t, cmd.Execute(), "power of two")
}

func TestRouter(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, _, err := runViewers(context.Background(), Config{
		LeafSize: 16, Capacity: 8, PruneFactor: 0.5, Trees: 1, Steps: 20, Levels: 2, Speed: 4, FPS: 1000,
	}, reg, zerolog.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(newRouter(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	require.Contains(t, string(body), `lodcache_bench_misses_total{tree="0"}`)
}
