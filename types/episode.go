package types

import (
	"github.com/zeu5/treasure-qlearn/grid"
)

// Outcome is how an episode ended
type Outcome string

const (
	Running      Outcome = "running"
	GoalReached  Outcome = "goal_reached"
	ObstacleHit  Outcome = "obstacle_hit"
	StepLimitHit Outcome = "step_limit_exhausted"
)

// Episode records one trial from the start cell to a terminal condition.
// Path starts with the start cell and holds every visited cell, so
// len(Path) == Steps+1 and len(Actions) == Steps.
type Episode struct {
	Number  int             `json:"number"`
	Path    []grid.Position `json:"path"`
	Actions []grid.Action   `json:"actions"`
	Reward  float64         `json:"reward"`
	Steps   int             `json:"steps"`
	Outcome Outcome         `json:"outcome"`
}

func NewEpisode(start grid.Position) *Episode {
	return &Episode{
		Path:    []grid.Position{start},
		Actions: make([]grid.Action, 0),
		Outcome: Running,
	}
}

func (e *Episode) append(action grid.Action, next grid.Position, reward float64) {
	e.Actions = append(e.Actions, action)
	e.Path = append(e.Path, next)
	e.Reward += reward
	e.Steps += 1
}

func (e *Episode) Last() grid.Position {
	return e.Path[len(e.Path)-1]
}

func (e *Episode) Succeeded() bool {
	return e.Outcome == GoalReached
}

// Pairs renders the path as [row, col] pairs
func (e *Episode) Pairs() [][2]int {
	out := make([][2]int, len(e.Path))
	for i, p := range e.Path {
		out[i] = [2]int{p.Row, p.Col}
	}
	return out
}

// Copy returns a deep copy, safe to hand out of the session lock
func (e *Episode) Copy() *Episode {
	c := &Episode{
		Number:  e.Number,
		Path:    make([]grid.Position, len(e.Path)),
		Actions: make([]grid.Action, len(e.Actions)),
		Reward:  e.Reward,
		Steps:   e.Steps,
		Outcome: e.Outcome,
	}
	copy(c.Path, e.Path)
	copy(c.Actions, e.Actions)
	return c
}
