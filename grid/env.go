package grid

import (
	"fmt"
)

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Position is a cell of the grid, compared by value
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func Pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

func (p Position) Hash() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

func (p Position) String() string {
	return p.Hash()
}

// MarshalYAML/UnmarshalYAML let configs write positions as [row, col]
func (p Position) MarshalYAML() (interface{}, error) {
	return []int{p.Row, p.Col}, nil
}

func (p *Position) UnmarshalYAML(unmarshal func(interface{}) error) error {
	pair := make([]int, 0, 2)
	if err := unmarshal(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("position needs exactly two coordinates, got %d", len(pair))
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// Action is one of the four moves. The order of AllActions is significant:
// the greedy policy scans actions in this order.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
)

var AllActions = []Action{Up, Down, Left, Right}

// NumActions is the size of AllActions
const NumActions = 4

func (a Action) Hash() string {
	switch a {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a Action) String() string {
	return a.Hash()
}

func (a Action) Valid() bool {
	return a >= Up && a <= Right
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.Hash()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAction is the inverse of Action.Hash
func ParseAction(s string) (Action, error) {
	for _, a := range AllActions {
		if a.Hash() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

const (
	GoalReward     = 10.0
	ObstacleReward = -5.0
	StepReward     = -1.0
)

// World holds the static geometry of the treasure hunt: a square grid,
// the goal cell and the obstacle cells. All methods are pure.
type World struct {
	Size      int
	Goal      Position
	Obstacles []Position

	obstacles map[Position]bool
}

func NewWorld(size int, goal Position, obstacles ...Position) *World {
	w := &World{
		Size:      size,
		Goal:      goal,
		Obstacles: make([]Position, len(obstacles)),
		obstacles: make(map[Position]bool, len(obstacles)),
	}
	copy(w.Obstacles, obstacles)
	for _, o := range obstacles {
		w.obstacles[o] = true
	}
	return w
}

func (w *World) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < w.Size && p.Col >= 0 && p.Col < w.Size
}

func (w *World) IsObstacle(p Position) bool {
	return w.obstacles[p]
}

func (w *World) IsGoal(p Position) bool {
	return p == w.Goal
}

// Reward of landing on p. The goal check wins over the obstacle check.
func (w *World) Reward(p Position) float64 {
	if w.IsGoal(p) {
		return GoalReward
	}
	if w.IsObstacle(p) {
		return ObstacleReward
	}
	return StepReward
}

// Step applies the action and clamps each axis to the grid.
// Moving into a wall leaves that axis unchanged.
func (w *World) Step(p Position, a Action) Position {
	next := Position{Row: p.Row, Col: p.Col}
	switch a {
	case Up:
		next.Row = max(0, p.Row-1)
	case Down:
		next.Row = min(w.Size-1, p.Row+1)
	case Left:
		next.Col = max(0, p.Col-1)
	case Right:
		next.Col = min(w.Size-1, p.Col+1)
	}
	return next
}

// Positions lists every cell in row-major order
func (w *World) Positions() []Position {
	out := make([]Position, 0, w.Size*w.Size)
	for i := 0; i < w.Size; i++ {
		for j := 0; j < w.Size; j++ {
			out = append(out, Position{Row: i, Col: j})
		}
	}
	return out
}
