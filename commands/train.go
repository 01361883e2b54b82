package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/go-kit/log/level"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/treasure-qlearn/types"
	"github.com/zeu5/treasure-qlearn/util"
)

// Train runs the session to convergence or to the episode cap without
// timers, then stores the table, the visits and the learning curve
func Train(ctx context.Context, cfg *types.Config) (types.Status, error) {
	logger := newLogger()
	sinks, cleanup, err := episodeSinks(ctx, logger)
	defer cleanup()
	if err != nil {
		return types.StatusIdle, err
	}

	s, err := types.NewSession(cfg, types.WithLogger(logger), types.WithSinks(sinks...))
	if err != nil {
		return types.StatusIdle, err
	}
	au := aurora.NewAurora(!noColor)

	EPPadding := len(fmt.Sprintf("%d", cfg.MaxEpisodes))
	status := s.Train(ctx, func(e *types.Episode, p types.Progress) {
		fmt.Printf("\rEpisode: %*d/%d, Outcome: %20s, Steps: %2d, Reward: %6.1f, Streak: %d",
			EPPadding, p.Iteration, cfg.MaxEpisodes, e.Outcome, e.Steps, e.Reward, p.Streak)
	})
	fmt.Println("")

	switch status {
	case types.StatusConverged:
		fmt.Println(au.Green(fmt.Sprintf("Converged after %d episodes", s.Iteration())))
	case types.StatusExhausted:
		fmt.Println(au.Yellow(fmt.Sprintf("Gave up after %d episodes without converging", s.Iteration())))
	default:
		fmt.Println(au.Red("Interrupted"))
	}

	curve := s.Curve()
	stats := curve.Stats()
	fmt.Println(stats.String())
	if last := s.LastEpisode(); last != nil {
		fmt.Printf("Last episode path: %s\n", renderPath(last))
	}
	fmt.Print(renderPolicy(au, s.World(), s.Values))

	if err := s.RecordQTable(path.Join(saveFile, "qtable.json")); err != nil {
		level.Warn(logger).Log("msg", "failed to record qtable", "err", err)
	}
	if err := s.RecordVisits(path.Join(saveFile, "visits.json")); err != nil {
		level.Warn(logger).Log("msg", "failed to record visits", "err", err)
	}
	if curve.Len() > 0 {
		if err := types.PlotCurve(path.Join(saveFile, "curve.png"), curve); err != nil {
			level.Warn(logger).Log("msg", "failed to plot curve", "err", err)
		}
		if err := types.ChartCurve(path.Join(saveFile, "curve.html"), curve); err != nil {
			level.Warn(logger).Log("msg", "failed to chart curve", "err", err)
		}
	}
	util.WriteToFile(path.Join(saveFile, "summary.txt"),
		"session: "+s.ID,
		"status: "+string(status),
		stats.String(),
	)
	return status, nil
}

func TrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Run episodes back to back until convergence or the episode cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			_, err = Train(ctx, cfg)
			return err
		},
	}
}
