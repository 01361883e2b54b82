package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/treasure-qlearn/grid"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 20, cfg.MaxSteps)
	require.Equal(t, 100, cfg.MaxEpisodes)
	require.Equal(t, 5, cfg.SuccessThreshold)
	require.Equal(t, 0.1, cfg.LearningRate)
	require.Equal(t, 0.1, cfg.ExplorationRate)
	require.Equal(t, time.Second, cfg.EpisodeInterval)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		err    error
	}{
		{"zero size", func(c *Config) { c.GridSize = 0 }, ErrNonPositive},
		{"zero steps", func(c *Config) { c.MaxSteps = 0 }, ErrNonPositive},
		{"negative episodes", func(c *Config) { c.MaxEpisodes = -1 }, ErrNonPositive},
		{"zero threshold", func(c *Config) { c.SuccessThreshold = 0 }, ErrNonPositive},
		{"zero episode interval", func(c *Config) { c.EpisodeInterval = 0 }, ErrNonPositive},
		{"negative replay interval", func(c *Config) { c.ReplayInterval = -time.Second }, ErrNonPositive},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }, ErrRate},
		{"learning rate above one", func(c *Config) { c.LearningRate = 1.5 }, ErrRate},
		{"negative exploration", func(c *Config) { c.ExplorationRate = -0.1 }, ErrRate},
		{"goal outside", func(c *Config) { c.Goal = grid.Pos(3, 0) }, ErrOutOfBounds},
		{"start outside", func(c *Config) { c.Start = grid.Pos(0, -1) }, ErrOutOfBounds},
		{"obstacle outside", func(c *Config) { c.Obstacles = append(c.Obstacles, grid.Pos(5, 5)) }, ErrOutOfBounds},
		{"obstacle on goal", func(c *Config) { c.Obstacles = append(c.Obstacles, c.Goal) }, ErrConflict},
		{"obstacle on start", func(c *Config) { c.Obstacles = append(c.Obstacles, c.Start) }, ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tc.err)
			_, err := NewSession(cfg)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hunt.yaml")
	content := `
size: 4
goal: [3, 3]
obstacles:
  - [1, 1]
  - [2, 3]
max_episodes: 50
exploration_rate: 0.2
episode_interval: 250ms
seed: 9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 4, cfg.GridSize)
	require.Equal(t, grid.Pos(3, 3), cfg.Goal)
	require.Equal(t, []grid.Position{grid.Pos(1, 1), grid.Pos(2, 3)}, cfg.Obstacles)
	require.Equal(t, 50, cfg.MaxEpisodes)
	require.Equal(t, 0.2, cfg.ExplorationRate)
	require.Equal(t, 250*time.Millisecond, cfg.EpisodeInterval)
	require.Equal(t, uint64(9), cfg.Seed)
	// untouched fields keep their defaults
	require.Equal(t, grid.Pos(0, 0), cfg.Start)
	require.Equal(t, 20, cfg.MaxSteps)
	require.Equal(t, time.Second, cfg.ReplayInterval)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("goal: [1, 2, 3]\n"), 0644))
	_, err = LoadConfig(path)
	require.Error(t, err)
}
