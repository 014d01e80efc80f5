// Package idempotency deduplicates retried write requests that carry an
// Idempotency-Key header.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	keyPrefix    = "idem:"
	statePending = "pending"

	MaxKeyLength = 128
)

var (
	// ErrInFlight 同一个 key 的请求仍在处理中
	ErrInFlight = errors.New("request with this idempotency key is still in progress")
	ErrBadKey   = errors.New("invalid idempotency key")
)

// Guard 基于 Redis 的幂等键存储，key 先以 pending 占位，完成后记录结果 ID
type Guard struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGuard(rdb *redis.Client, ttl time.Duration) *Guard {
	return &Guard{rdb: rdb, ttl: ttl}
}

func redisKey(scope, key string) string {
	return keyPrefix + scope + ":" + key
}

// Begin 占用 key。返回空字符串表示首次请求，调用方继续处理；
// 返回非空结果 ID 表示该请求已完成过，应直接返回原结果。
func (g *Guard) Begin(ctx context.Context, scope, key string) (string, error) {
	if key == "" || len(key) > MaxKeyLength {
		return "", ErrBadKey
	}

	k := redisKey(scope, key)
	ok, err := g.rdb.SetNX(ctx, k, statePending, g.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to reserve idempotency key: %w", err)
	}
	if ok {
		return "", nil
	}

	val, err := g.rdb.Get(ctx, k).Result()
	if err == redis.Nil {
		// 在 SETNX 与 GET 之间过期，再占一次
		return g.Begin(ctx, scope, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read idempotency key: %w", err)
	}
	if val == statePending {
		return "", ErrInFlight
	}
	return val, nil
}

// Complete 记录处理结果，只有仍处于 pending 的 key 才会被写入
func (g *Guard) Complete(ctx context.Context, scope, key, resultID string) error {
	k := redisKey(scope, key)

	return g.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, k).Result()
		if err != nil && err != redis.Nil {
			return fmt.Errorf("failed to read idempotency key: %w", err)
		}
		if err == nil && val != statePending {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, resultID, g.ttl)
			return nil
		})
		return err
	}, k)
}

// Release 处理失败时释放 pending 占位，允许客户端重试
func (g *Guard) Release(ctx context.Context, scope, key string) error {
	k := redisKey(scope, key)

	return g.rdb.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, k).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read idempotency key: %w", err)
		}
		if val != statePending {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, k)
			return nil
		})
		return err
	}, k)
}
