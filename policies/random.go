package policies

import (
	"github.com/zeu5/treasure-qlearn/grid"
	"golang.org/x/exp/rand"
)

// Random ignores the table and picks uniformly, a baseline for comparisons
type Random struct {
	rand *rand.Rand
}

var _ Policy = &Random{}

func NewRandom(src rand.Source) *Random {
	return &Random{
		rand: rand.New(src),
	}
}

func (r *Random) NextAction(_ grid.Position, _ *QTable) grid.Action {
	return grid.AllActions[r.rand.Intn(grid.NumActions)]
}
