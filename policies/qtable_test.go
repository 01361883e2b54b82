package policies

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeu5/treasure-qlearn/grid"
)

func TestNewQTableIsComplete(t *testing.T) {
	for size := 1; size <= 5; size++ {
		q := NewQTable(size)
		require.Equal(t, size*size, q.NumStates())
		for i := 0; i < size; i++ {
			for j := 0; j < size; j++ {
				vals := q.Values(grid.Pos(i, j))
				require.Equal(t, []float64{0, 0, 0, 0}, vals)
			}
		}
	}
}

func TestUpdateSingleStep(t *testing.T) {
	q := NewQTable(3)
	v := q.Update(grid.Pos(0, 0), grid.Right, -1, grid.Pos(0, 1), 0.1)
	require.InDelta(t, -0.1, v, 1e-12)
	require.InDelta(t, -0.1, q.Get(grid.Pos(0, 0), grid.Right), 1e-12)
	require.Equal(t, 0.0, q.Get(grid.Pos(0, 0), grid.Up))
}

func TestUpdateUsesUndiscountedNextMax(t *testing.T) {
	q := NewQTable(3)
	q.Update(grid.Pos(0, 1), grid.Down, 10, grid.Pos(1, 1), 1.0)
	require.Equal(t, 10.0, q.Max(grid.Pos(0, 1)))

	// 0 + 0.5 * (-1 + 10 - 0)
	v := q.Update(grid.Pos(0, 0), grid.Right, -1, grid.Pos(0, 1), 0.5)
	require.InDelta(t, 4.5, v, 1e-12)
}

func TestUpdatesAreOnline(t *testing.T) {
	q := NewQTable(2)
	q.Update(grid.Pos(0, 0), grid.Right, -1, grid.Pos(0, 0), 0.5)
	// the second update sees the first one, both in Q(s,a) and in max Q(s',.)
	v := q.Update(grid.Pos(0, 0), grid.Right, -1, grid.Pos(0, 0), 0.5)
	// max over (0,0) is 0 from the untouched actions
	require.InDelta(t, -0.75, v, 1e-12)
}

func TestUnknownStatePanics(t *testing.T) {
	q := NewQTable(3)
	require.Panics(t, func() { q.Get(grid.Pos(3, 0), grid.Up) })
	require.Panics(t, func() { q.Values(grid.Pos(-1, 0)) })
	require.Panics(t, func() { q.Get(grid.Pos(0, 0), grid.Action(7)) })
	require.Panics(t, func() { q.Update(grid.Pos(0, 0), grid.Up, 0, grid.Pos(0, 9), 0.1) })
	require.Equal(t, 9, q.NumStates())
}

func TestSnapshotAndRecord(t *testing.T) {
	q := NewQTable(2)
	q.Update(grid.Pos(1, 1), grid.Left, -5, grid.Pos(1, 0), 0.1)

	snap := q.Snapshot()
	require.Len(t, snap, 4)
	require.InDelta(t, -0.5, snap["(1, 1)"]["LEFT"], 1e-12)

	snap["(1, 1)"]["LEFT"] = 100
	require.InDelta(t, -0.5, q.Get(grid.Pos(1, 1), grid.Left), 1e-12)

	path := filepath.Join(t.TempDir(), "q.json")
	require.NoError(t, q.Record(path))
	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	read := make(map[string]map[string]float64)
	require.NoError(t, json.Unmarshal(bs, &read))
	require.InDelta(t, -0.5, read["(1, 1)"]["LEFT"], 1e-12)
}
