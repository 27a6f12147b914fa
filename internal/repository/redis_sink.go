package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/domain/repository"

	"github.com/redis/go-redis/v9"
)

// RedisSink keeps the signal log as a capped Redis list: LPUSH newest
// first, LTRIM to the cap. Eviction of the oldest entries comes for free.
type RedisSink struct {
	client *redis.Client
	key    string
	cap    int64
}

func NewRedisSink(client *redis.Client, key string, cap int) *RedisSink {
	if key == "" {
		key = "signalgate:log"
	}
	if cap <= 0 {
		cap = 500
	}
	return &RedisSink{client: client, key: key, cap: int64(cap)}
}

func (r *RedisSink) Append(ctx context.Context, s *models.Signal) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal signal: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, b)
	pipe.LTrim(ctx, r.key, 0, r.cap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append: %w", err)
	}
	return nil
}

func (r *RedisSink) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}

var _ repository.LogSink = (*RedisSink)(nil)
