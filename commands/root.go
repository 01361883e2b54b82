package commands

import (
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
	"github.com/zeu5/treasure-qlearn/types"
)

var (
	configPath string
	saveFile   string
	redisAddr  string
	size       int
	episodes   int
	maxSteps   int
	threshold  int
	alpha      float64
	epsilon    float64
	seed       uint64
	verbose    bool
	noColor    bool
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "treasure",
		Short:         "Tabular Q-learning on a small treasure hunt grid",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file, flags override its values")
	rootCommand.PersistentFlags().StringVarP(&saveFile, "save", "s", "results", "Save the result data in the specified folder")
	rootCommand.PersistentFlags().StringVar(&redisAddr, "redis", "", "Publish episodes to the redis server at this address")
	rootCommand.PersistentFlags().IntVar(&size, "size", 3, "Width and height of the grid")
	rootCommand.PersistentFlags().IntVarP(&episodes, "episodes", "e", 100, "Maximum number of episodes")
	rootCommand.PersistentFlags().IntVar(&maxSteps, "max-steps", 20, "Maximum steps of each episode")
	rootCommand.PersistentFlags().IntVar(&threshold, "threshold", 5, "Consecutive goal episodes to declare convergence")
	rootCommand.PersistentFlags().Float64Var(&alpha, "alpha", 0.1, "Learning rate")
	rootCommand.PersistentFlags().Float64Var(&epsilon, "epsilon", 0.1, "Exploration rate")
	rootCommand.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed of the exploration source, 0 uses the clock")
	rootCommand.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every episode")
	rootCommand.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	// adding the subcommands here
	rootCommand.AddCommand(TrainCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(WalkCommand())
	rootCommand.AddCommand(CompareCommand())
	return rootCommand
}

// loadConfig reads --config (or the defaults) and applies the flags the
// user set explicitly
func loadConfig(cmd *cobra.Command) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = types.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.GridSize = size
	}
	if flags.Changed("episodes") {
		cfg.MaxEpisodes = episodes
	}
	if flags.Changed("max-steps") {
		cfg.MaxSteps = maxSteps
	}
	if flags.Changed("threshold") {
		cfg.SuccessThreshold = threshold
	}
	if flags.Changed("alpha") {
		cfg.LearningRate = alpha
	}
	if flags.Changed("epsilon") {
		cfg.ExplorationRate = epsilon
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	return cfg, cfg.Validate()
}

func newLogger() log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)
	if verbose {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}
