package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists carts in Redis so they survive console restarts.
// Each terminal's cart lives under its own key with a sliding TTL; a cart
// untouched for the whole TTL is presumed abandoned and expires.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func cartKey(terminalID uuid.UUID) string {
	return "cart:terminal:" + terminalID.String()
}

func (r *RedisStore) Get(ctx context.Context, terminalID uuid.UUID) (State, error) {
	data, err := r.rdb.Get(ctx, cartKey(terminalID)).Bytes()
	if err == redis.Nil {
		return State{}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("get cart: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decode cart: %w", err)
	}
	return st, nil
}

func (r *RedisStore) Mutate(ctx context.Context, terminalID uuid.UUID, fn func(*State)) (State, error) {
	st, err := r.Get(ctx, terminalID)
	if err != nil {
		return State{}, err
	}
	fn(&st)

	data, err := json.Marshal(&st)
	if err != nil {
		return State{}, fmt.Errorf("encode cart: %w", err)
	}
	if err := r.rdb.Set(ctx, cartKey(terminalID), data, r.ttl).Err(); err != nil {
		return State{}, fmt.Errorf("save cart: %w", err)
	}
	return st, nil
}

func (r *RedisStore) Clear(ctx context.Context, terminalID uuid.UUID) error {
	if err := r.rdb.Del(ctx, cartKey(terminalID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
