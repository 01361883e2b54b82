package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/treasure-qlearn/grid"
	"github.com/zeu5/treasure-qlearn/policies"
	"github.com/zeu5/treasure-qlearn/types"
)

func newTestServer(t *testing.T) (*Server, *types.Session) {
	cfg := types.DefaultConfig()
	cfg.Seed = 3
	route := policies.NewScripted(grid.Right, grid.Down, grid.Down, grid.Right)
	session, err := types.NewSession(cfg, types.WithPolicy(route))
	require.NoError(t, err)
	return NewServer(context.Background(), "127.0.0.1:0", session, false, log.NewNopLogger()), session
}

func do(t *testing.T, s *Server, method, path string, out interface{}) int {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
	}
	return rec.Code
}

func TestTicksBeforeStart(t *testing.T) {
	s, session := newTestServer(t)

	var tick struct {
		Ran bool `json:"ran"`
	}
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/tick/episode", &tick))
	require.False(t, tick.Ran)
	require.Equal(t, 0, session.Iteration())

	require.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/episode", nil))

	var state types.Summary
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/state", &state))
	require.False(t, state.Started)
	require.Equal(t, types.StatusIdle, state.Status)
}

func TestStartTickAndQuery(t *testing.T) {
	s, session := newTestServer(t)

	var state types.Summary
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/start", &state))
	require.True(t, state.Started)
	require.False(t, session.DriversRunning())

	var tick struct {
		Ran     bool           `json:"ran"`
		Episode *types.Episode `json:"episode"`
		Status  types.Status   `json:"status"`
	}
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/tick/episode", &tick))
	require.True(t, tick.Ran)
	require.Equal(t, types.GoalReached, tick.Episode.Outcome)
	require.Equal(t, types.StatusTraining, tick.Status)

	var replay struct {
		Moved bool          `json:"moved"`
		Agent grid.Position `json:"agent"`
	}
	do(t, s, http.MethodPost, "/tick/replay", &replay)
	do(t, s, http.MethodPost, "/tick/replay", &replay)
	require.True(t, replay.Moved)
	require.Equal(t, grid.Pos(0, 1), replay.Agent)

	var board [][]types.BoardCell
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/grid", &board))
	require.True(t, board[0][1].Agent)
	require.Equal(t, grid.Treasure, board[2][2].Cell)

	var q map[string]map[string]float64
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/qtable", &q))
	require.Len(t, q, 9)
	require.InDelta(t, -0.1, q["(0, 0)"]["RIGHT"], 1e-12)

	var episode types.Episode
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/episode", &episode))
	require.Equal(t, 1, episode.Number)
	require.Equal(t, grid.Pos(2, 2), episode.Last())

	var visits map[string]int
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/visits", &visits))
	require.Equal(t, 1, visits["(0, 0)"])

	var cfg types.Config
	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/config", &cfg))
	require.Equal(t, 3, cfg.GridSize)
	require.Len(t, cfg.Obstacles, 2)

	require.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/state", &state))
	require.Equal(t, 1, state.Iteration)
	require.Equal(t, 7.0, state.TotalReward)
}

func TestStartWithDrivers(t *testing.T) {
	cfg := types.DefaultConfig()
	session, err := types.NewSession(cfg)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewServer(ctx, "127.0.0.1:0", session, true, log.NewNopLogger())

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/start", nil))
	require.True(t, session.DriversRunning())
	// starting again replaces the running drivers
	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/start", nil))
	require.True(t, session.DriversRunning())

	require.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/stop", nil))
	require.False(t, session.DriversRunning())
}
