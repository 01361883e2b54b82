package commands

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/redis/go-redis/v9"
	"github.com/zeu5/treasure-qlearn/publish"
	"github.com/zeu5/treasure-qlearn/types"
)

// episodeSinks builds the recorder under --save and, with --redis, the
// publisher. The returned func releases them.
func episodeSinks(ctx context.Context, logger log.Logger) ([]types.EpisodeSink, func(), error) {
	sinks := make([]types.EpisodeSink, 0)
	closers := make([]func() error, 0)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	recorder, err := types.NewRecordingSink(saveFile)
	if err != nil {
		return nil, cleanup, err
	}
	sinks = append(sinks, recorder)

	if redisAddr != "" {
		pub := publish.NewRedisSink(ctx, &redis.Options{Addr: redisAddr}, "treasure")
		if err := pub.Ping(); err != nil {
			level.Warn(logger).Log("msg", "redis not reachable, episodes will not be published", "addr", redisAddr, "err", err)
			pub.Close()
		} else {
			level.Info(logger).Log("msg", "publishing episodes", "addr", redisAddr, "channel", pub.Channel())
			sinks = append(sinks, pub)
			closers = append(closers, pub.Close)
		}
	}
	return sinks, cleanup, nil
}
