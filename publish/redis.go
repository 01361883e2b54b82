package publish

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/zeu5/treasure-qlearn/types"
)

// RedisSink publishes every completed episode on a channel and keeps the
// latest one under a per-session key, for renderers living in other
// processes
type RedisSink struct {
	client  *redis.Client
	ctx     context.Context
	prefix  string
	timeout time.Duration
}

var _ types.EpisodeSink = &RedisSink{}

func NewRedisSink(ctx context.Context, options *redis.Options, prefix string) *RedisSink {
	return &RedisSink{
		client:  redis.NewClient(options),
		ctx:     ctx,
		prefix:  prefix,
		timeout: 2 * time.Second,
	}
}

func (r *RedisSink) Channel() string {
	return r.prefix + ":episodes"
}

func (r *RedisSink) Key(sessionID string) string {
	return r.prefix + ":" + sessionID + ":last"
}

func (r *RedisSink) Ping() error {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *RedisSink) OnEpisode(e *types.Episode, p types.Progress) error {
	bs, err := types.EncodeEpisode(e, p)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.Key(p.SessionID), bs, 0)
	pipe.Publish(ctx, r.Channel(), bs)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "publishing episode %d", e.Number)
	}
	return nil
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
