package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/zeu5/treasure-qlearn/types"
	"github.com/zeu5/treasure-qlearn/util"
)

// Compare trains the Q-learner and a random baseline on the same seeds
func Compare(ctx context.Context, cfg *types.Config, runs int) ([]*types.ExperimentResult, error) {
	c := types.NewComparison(cfg, runs, newLogger())
	c.AddExperiment(types.NewExperiment("Q-Learning", types.EpsilonGreedyFactory()))
	c.AddExperiment(types.NewExperiment("Random", types.RandomFactory()))

	results, err := c.Run(ctx)
	if err != nil {
		return results, err
	}
	if err := util.EnsureDir(saveFile); err != nil {
		return results, err
	}
	for _, r := range results {
		fmt.Println(r.String())
	}
	return results, types.PlotComparison(path.Join(saveFile, "comparison.png"), results)
}

func CompareCommand() *cobra.Command {
	var runs int
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the Q-learner against a random policy over several runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			_, err = Compare(ctx, cfg, runs)
			return err
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 10, "Number of runs per experiment")
	return cmd
}
