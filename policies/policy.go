package policies

import (
	"github.com/zeu5/treasure-qlearn/grid"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Policy picks the next action for a state given the current table
type Policy interface {
	NextAction(state grid.Position, q *QTable) grid.Action
}

// EpsilonGreedy explores uniformly with probability Epsilon and otherwise
// takes the greedy action. Greedy ties go to the later action in
// grid.AllActions order.
type EpsilonGreedy struct {
	Epsilon float64
	rand    *rand.Rand
	src     rand.Source
}

var _ Policy = &EpsilonGreedy{}

func NewEpsilonGreedy(epsilon float64, src rand.Source) *EpsilonGreedy {
	return &EpsilonGreedy{
		Epsilon: epsilon,
		rand:    rand.New(src),
		src:     src,
	}
}

func (e *EpsilonGreedy) NextAction(state grid.Position, q *QTable) grid.Action {
	if e.rand.Float64() < e.Epsilon {
		return e.randomAction()
	}
	return Greedy(state, q)
}

func (e *EpsilonGreedy) randomAction() grid.Action {
	weights := make([]float64, grid.NumActions)
	for i := range weights {
		weights[i] = 1
	}
	i, ok := sampleuv.NewWeighted(weights, e.src).Take()
	if !ok {
		return grid.AllActions[e.rand.Intn(grid.NumActions)]
	}
	return grid.AllActions[i]
}

// Greedy is the greedy action of state in q
func Greedy(state grid.Position, q *QTable) grid.Action {
	return GreedyOf(q.Values(state))
}

// GreedyOf scans values in grid.AllActions order starting with Up as the
// running best; a later action replaces the best unless the best is
// strictly greater.
func GreedyOf(values []float64) grid.Action {
	best := grid.AllActions[0]
	for _, a := range grid.AllActions[1:] {
		if values[best] > values[a] {
			continue
		}
		best = a
	}
	return best
}

// Scripted replays a fixed list of actions, then repeats the last one
type Scripted struct {
	Actions []grid.Action
	next    int
}

var _ Policy = &Scripted{}

func NewScripted(actions ...grid.Action) *Scripted {
	return &Scripted{Actions: actions}
}

func (s *Scripted) NextAction(_ grid.Position, _ *QTable) grid.Action {
	if len(s.Actions) == 0 {
		return grid.Up
	}
	i := s.next
	if i >= len(s.Actions) {
		i = len(s.Actions) - 1
	} else {
		s.next++
	}
	return s.Actions[i]
}
