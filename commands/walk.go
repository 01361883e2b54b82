package commands

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/zeu5/treasure-qlearn/grid"
	"github.com/zeu5/treasure-qlearn/policies"
	"github.com/zeu5/treasure-qlearn/types"
)

func parseActions(list []string) ([]grid.Action, error) {
	actions := make([]grid.Action, 0, len(list))
	for _, s := range list {
		a, err := grid.ParseAction(strings.ToUpper(strings.TrimSpace(s)))
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Walk runs a single episode along a fixed list of actions and describes it
func Walk(cfg *types.Config, actions []grid.Action, au aurora.Aurora) (string, error) {
	s, err := types.Start(cfg, types.WithPolicy(policies.NewScripted(actions...)))
	if err != nil {
		return "", err
	}
	e, _ := s.TickEpisode()

	var b strings.Builder
	fmt.Fprintf(&b, "Outcome: %s, Steps: %d, Reward: %.1f\n", e.Outcome, e.Steps, e.Reward)
	fmt.Fprintf(&b, "Path: %s\n", renderPath(e))
	for range e.Path {
		s.TickReplay()
		b.WriteString(renderBoard(au, s.Board()))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func WalkCommand() *cobra.Command {
	var actions []string
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Play one episode along the given actions and draw every step",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			parsed, err := parseActions(actions)
			if err != nil {
				return err
			}
			out, err := Walk(cfg, parsed, aurora.NewAurora(!noColor))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&actions, "actions", "a", []string{"RIGHT", "DOWN", "DOWN", "RIGHT"}, "Comma separated actions: UP, DOWN, LEFT, RIGHT")
	return cmd
}
