package types

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/log"
	"github.com/zeu5/treasure-qlearn/policies"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PolicyFactory builds a fresh policy for each run
type PolicyFactory func(rand.Source, *Config) policies.Policy

func EpsilonGreedyFactory() PolicyFactory {
	return func(src rand.Source, cfg *Config) policies.Policy {
		return policies.NewEpsilonGreedy(cfg.ExplorationRate, src)
	}
}

func RandomFactory() PolicyFactory {
	return func(src rand.Source, _ *Config) policies.Policy {
		return policies.NewRandom(src)
	}
}

// Experiment names a policy to train with
type Experiment struct {
	Name   string
	policy PolicyFactory
}

func NewExperiment(name string, policy PolicyFactory) *Experiment {
	return &Experiment{
		Name:   name,
		policy: policy,
	}
}

// ExperimentResult collects the runs of one experiment
type ExperimentResult struct {
	Name      string
	Statuses  []Status
	Episodes  []float64
	Curves    []*LearningCurve
	Converged int
}

func (r *ExperimentResult) MeanEpisodes() float64 {
	if len(r.Episodes) == 0 {
		return 0
	}
	return stat.Mean(r.Episodes, nil)
}

func (r *ExperimentResult) String() string {
	return fmt.Sprintf("%s: converged %d/%d, mean episodes %.1f", r.Name, r.Converged, len(r.Statuses), r.MeanEpisodes())
}

// Comparison trains every experiment the same number of runs on the same
// config. Run i of every experiment shares its seed.
type Comparison struct {
	config      *Config
	runs        int
	Experiments []*Experiment
	logger      log.Logger
}

func NewComparison(config *Config, runs int, logger log.Logger) *Comparison {
	return &Comparison{
		config:      config,
		runs:        runs,
		Experiments: make([]*Experiment, 0),
		logger:      logger,
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) Run(ctx context.Context) ([]*ExperimentResult, error) {
	base := c.config.Seed
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}
	results := make([]*ExperimentResult, len(c.Experiments))
	for i, e := range c.Experiments {
		result := &ExperimentResult{
			Name:     e.Name,
			Statuses: make([]Status, 0, c.runs),
			Episodes: make([]float64, 0, c.runs),
			Curves:   make([]*LearningCurve, 0, c.runs),
		}
		for run := 0; run < c.runs; run++ {
			select {
			case <-ctx.Done():
				return results, ctx.Err()
			default:
			}
			fmt.Printf("\rExperiment: %s, Run: %d/%d", e.Name, run+1, c.runs)
			src := rand.NewSource(base + uint64(run))
			s, err := NewSession(c.config, WithPolicy(e.policy(src, c.config)), WithLogger(c.logger))
			if err != nil {
				return results, err
			}
			status := s.Train(ctx, nil)
			result.Statuses = append(result.Statuses, status)
			result.Episodes = append(result.Episodes, float64(s.Iteration()))
			result.Curves = append(result.Curves, s.Curve())
			if status == StatusConverged {
				result.Converged += 1
			}
		}
		fmt.Println("")
		results[i] = result
	}
	return results, nil
}

// PlotComparison saves a png with the episodes each run took per experiment
func PlotComparison(filePath string, results []*ExperimentResult) error {
	p := plot.New()
	p.Title.Text = "Comparison"
	p.X.Label.Text = "Run"
	p.Y.Label.Text = "Episodes until stop"
	for i, r := range results {
		points := make(plotter.XYs, len(r.Episodes))
		for j, v := range r.Episodes {
			points[j] = plotter.XY{
				X: float64(j + 1),
				Y: v,
			}
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			continue
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(r.Name, line)
	}
	return p.Save(8*vg.Inch, 8*vg.Inch, filePath)
}
