package policies

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/zeu5/treasure-qlearn/grid"
	"gonum.org/v1/gonum/floats"
)

// QTable maps every cell of a square grid to one value per action.
// All entries exist from construction; asking for a state outside the
// grid is a programming error and panics.
type QTable struct {
	size  int
	table map[grid.Position][]float64
}

func NewQTable(size int) *QTable {
	q := &QTable{
		size:  size,
		table: make(map[grid.Position][]float64, size*size),
	}
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			q.table[grid.Pos(i, j)] = make([]float64, grid.NumActions)
		}
	}
	return q
}

func (q *QTable) row(state grid.Position) []float64 {
	vals, ok := q.table[state]
	if !ok {
		panic(fmt.Sprintf("qtable: state %s not in %dx%d table", state, q.size, q.size))
	}
	return vals
}

func (q *QTable) Get(state grid.Position, action grid.Action) float64 {
	if !action.Valid() {
		panic(fmt.Sprintf("qtable: unknown action %d", int(action)))
	}
	return q.row(state)[action]
}

// Values returns a copy of the action values of state, in grid.AllActions order
func (q *QTable) Values(state grid.Position) []float64 {
	vals := q.row(state)
	out := make([]float64, len(vals))
	copy(out, vals)
	return out
}

// Max is the largest action value of state
func (q *QTable) Max(state grid.Position) float64 {
	return floats.Max(q.row(state))
}

// Update applies Q(s,a) += alpha * (reward + max Q(s',.) - Q(s,a)).
// Future value is not discounted.
func (q *QTable) Update(state grid.Position, action grid.Action, reward float64, nextState grid.Position, alpha float64) float64 {
	cur := q.Get(state, action)
	next := q.Max(nextState)
	newVal := cur + alpha*(reward+next-cur)
	q.row(state)[action] = newVal
	return newVal
}

// NumStates is the number of states held, always size*size
func (q *QTable) NumStates() int {
	return len(q.table)
}

func (q *QTable) Size() int {
	return q.size
}

// Snapshot copies the table into a map keyed by the state and action hashes
func (q *QTable) Snapshot() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(q.table))
	for state, vals := range q.table {
		actions := make(map[string]float64, len(vals))
		for _, a := range grid.AllActions {
			actions[a.Hash()] = vals[a]
		}
		out[state.Hash()] = actions
	}
	return out
}

func (q *QTable) Record(filePath string) error {
	bs, err := json.Marshal(q.Snapshot())
	if err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if _, err := writer.Write(bs); err != nil {
		return err
	}
	return writer.Flush()
}
