package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log/level"
	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/treasure-qlearn/server"
	"github.com/zeu5/treasure-qlearn/types"
)

func ServeCommand() *cobra.Command {
	var addr string
	var autostart bool
	var manual bool
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Train on timers and serve the session over http",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			logger := newLogger()
			sinks, cleanup, err := episodeSinks(ctx, logger)
			defer cleanup()
			if err != nil {
				return err
			}
			s, err := types.NewSession(cfg, types.WithLogger(logger), types.WithSinks(sinks...))
			if err != nil {
				return err
			}

			srv := server.NewServer(ctx, addr, s, !manual, logger)
			srv.Start()
			if autostart && !manual {
				s.Run(ctx)
			}

			if watch {
				au := aurora.NewAurora(!noColor)
				printer := types.NewDriver()
				printer.Start(ctx, cfg.ReplayInterval, func() {
					sum := s.Summary()
					fmt.Printf("\033[H\033[2JIteration: %d, Reward: %.1f, Streak: %d, Status: %s\n%s",
						sum.Iteration, sum.TotalReward, sum.Streak, sum.Status, renderBoard(au, s.Board()))
				})
				defer printer.Stop()
			}

			<-ctx.Done()
			level.Info(logger).Log("msg", "shutting down", "status", s.Status(), "episodes", s.Iteration())
			s.StopDrivers()
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to serve on")
	cmd.Flags().BoolVar(&autostart, "autostart", false, "Start training right away instead of waiting for POST /start")
	cmd.Flags().BoolVar(&manual, "manual", false, "Do not run timers, only advance on POST /tick/episode and /tick/replay")
	cmd.Flags().BoolVar(&watch, "watch", false, "Redraw the grid in the terminal on every replay tick")
	return cmd
}
