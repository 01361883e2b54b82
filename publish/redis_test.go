package publish

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/treasure-qlearn/grid"
	"github.com/zeu5/treasure-qlearn/types"
)

func unreachable() *redis.Options {
	return &redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	}
}

func TestRedisSinkNames(t *testing.T) {
	r := NewRedisSink(context.Background(), unreachable(), "treasure")
	defer r.Close()
	require.Equal(t, "treasure:episodes", r.Channel())
	require.Equal(t, "treasure:abc:last", r.Key("abc"))
}

func TestRedisSinkReportsUnreachableServer(t *testing.T) {
	r := NewRedisSink(context.Background(), unreachable(), "treasure")
	defer r.Close()

	require.Error(t, r.Ping())

	e := types.NewEpisode(grid.Pos(0, 0))
	e.Number = 3
	err := r.OnEpisode(e, types.Progress{SessionID: "abc", Iteration: 3})
	require.Error(t, err)
	require.Contains(t, err.Error(), "publishing episode 3")
}
