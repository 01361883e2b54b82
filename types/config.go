package types

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/zeu5/treasure-qlearn/grid"
	"gopkg.in/yaml.v2"
)

var (
	ErrNonPositive = errors.New("must be positive")
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrConflict    = errors.New("conflicting placement")
	ErrRate        = errors.New("rate out of range")
)

// Config of a training session
type Config struct {
	GridSize  int             `yaml:"size" json:"size"`
	Start     grid.Position   `yaml:"start" json:"start"`
	Goal      grid.Position   `yaml:"goal" json:"goal"`
	Obstacles []grid.Position `yaml:"obstacles" json:"obstacles"`

	// MaxSteps caps the transitions of a single episode
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
	// MaxEpisodes caps the episodes of the session
	MaxEpisodes int `yaml:"max_episodes" json:"max_episodes"`
	// SuccessThreshold consecutive goal episodes declare convergence
	SuccessThreshold int `yaml:"success_threshold" json:"success_threshold"`

	LearningRate    float64 `yaml:"learning_rate" json:"learning_rate"`
	ExplorationRate float64 `yaml:"exploration_rate" json:"exploration_rate"`

	EpisodeInterval time.Duration `yaml:"episode_interval" json:"episode_interval"`
	ReplayInterval  time.Duration `yaml:"replay_interval" json:"replay_interval"`

	// Seed of the exploration source, 0 seeds from the clock
	Seed uint64 `yaml:"seed" json:"seed"`
}

// DefaultConfig is the 3x3 treasure hunt
func DefaultConfig() *Config {
	return &Config{
		GridSize:         3,
		Start:            grid.Pos(0, 0),
		Goal:             grid.Pos(2, 2),
		Obstacles:        []grid.Position{grid.Pos(1, 0), grid.Pos(1, 2)},
		MaxSteps:         20,
		MaxEpisodes:      100,
		SuccessThreshold: 5,
		LearningRate:     0.1,
		ExplorationRate:  0.1,
		EpisodeInterval:  time.Second,
		ReplayInterval:   time.Second,
		Seed:             0,
	}
}

// LoadConfig reads a yaml file over the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// World builds the grid described by the config
func (c *Config) World() *grid.World {
	return grid.NewWorld(c.GridSize, c.Goal, c.Obstacles...)
}

// Validate checks the config once, before any episode runs
func (c *Config) Validate() error {
	if c.GridSize <= 0 {
		return errors.Wrapf(ErrNonPositive, "grid size %d", c.GridSize)
	}
	if c.MaxSteps <= 0 {
		return errors.Wrapf(ErrNonPositive, "max steps %d", c.MaxSteps)
	}
	if c.MaxEpisodes <= 0 {
		return errors.Wrapf(ErrNonPositive, "max episodes %d", c.MaxEpisodes)
	}
	if c.SuccessThreshold <= 0 {
		return errors.Wrapf(ErrNonPositive, "success threshold %d", c.SuccessThreshold)
	}
	if c.EpisodeInterval <= 0 {
		return errors.Wrapf(ErrNonPositive, "episode interval %s", c.EpisodeInterval)
	}
	if c.ReplayInterval <= 0 {
		return errors.Wrapf(ErrNonPositive, "replay interval %s", c.ReplayInterval)
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		return errors.Wrapf(ErrRate, "learning rate %v", c.LearningRate)
	}
	if c.ExplorationRate < 0 || c.ExplorationRate > 1 {
		return errors.Wrapf(ErrRate, "exploration rate %v", c.ExplorationRate)
	}

	w := c.World()
	if !w.InBounds(c.Goal) {
		return errors.Wrapf(ErrOutOfBounds, "goal %s", c.Goal)
	}
	if !w.InBounds(c.Start) {
		return errors.Wrapf(ErrOutOfBounds, "start %s", c.Start)
	}
	for _, o := range c.Obstacles {
		if !w.InBounds(o) {
			return errors.Wrapf(ErrOutOfBounds, "obstacle %s", o)
		}
		if o == c.Goal {
			return errors.Wrapf(ErrConflict, "obstacle %s on the goal", o)
		}
		if o == c.Start {
			return errors.Wrapf(ErrConflict, "obstacle %s on the start", o)
		}
	}
	return nil
}
