package types

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/treasure-qlearn/policies"
	"golang.org/x/exp/rand"
)

func TestComparisonRunsEveryExperiment(t *testing.T) {
	cfg := testConfig()
	cfg.MaxEpisodes = 30
	c := NewComparison(cfg, 3, log.NewNopLogger())
	c.AddExperiment(NewExperiment("Q-Learning", EpsilonGreedyFactory()))
	c.AddExperiment(NewExperiment("Random", RandomFactory()))
	c.AddExperiment(NewExperiment("Route", func(rand.Source, *Config) policies.Policy { return &routePolicy{} }))

	results, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.Len(t, r.Statuses, 3)
		require.Len(t, r.Curves, 3)
		for i, s := range r.Statuses {
			require.True(t, s.Terminal())
			require.Equal(t, float64(r.Curves[i].Len()), r.Episodes[i])
		}
	}
	route := results[2]
	require.Equal(t, 3, route.Converged)
	require.Equal(t, 5.0, route.MeanEpisodes())
	require.Contains(t, route.String(), "Route: converged 3/3")

	path := filepath.Join(t.TempDir(), "comparison.png")
	require.NoError(t, PlotComparison(path, results))
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestComparisonSharesSeedsAcrossExperiments(t *testing.T) {
	cfg := testConfig()
	cfg.MaxEpisodes = 10
	c := NewComparison(cfg, 2, log.NewNopLogger())
	c.AddExperiment(NewExperiment("A", EpsilonGreedyFactory()))
	c.AddExperiment(NewExperiment("B", EpsilonGreedyFactory()))
	results, err := c.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, results[0].Curves, results[1].Curves)
}

func TestComparisonStopsOnCancel(t *testing.T) {
	c := NewComparison(testConfig(), 2, log.NewNopLogger())
	c.AddExperiment(NewExperiment("A", RandomFactory()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
