package draft

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payrun/internal/period"

	"github.com/redis/go-redis/v9"
)

const DraftKeyPrefix = "payroll-runs:draft:"

func RedisDraftKey(key period.Key) string {
	return DraftKeyPrefix + key.String()
}

func RedisActiveKey(operatorID string) string {
	return DraftKeyPrefix + "active:" + operatorID
}

type redisRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRepository stores each draft as JSON under its period key. Entries
// expire after ttl of inactivity; a zero ttl never expires them.
func NewRedisRepository(rdb *redis.Client, ttl time.Duration) Repository {
	return &redisRepository{rdb: rdb, ttl: ttl}
}

func (r *redisRepository) Get(ctx context.Context, key period.Key) (Draft, error) {
	raw, err := r.rdb.Get(ctx, RedisDraftKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return Draft{}, err
	}
	return d, nil
}

func (r *redisRepository) Put(ctx context.Context, d Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, RedisDraftKey(d.Key), payload, r.ttl).Err()
}

func (r *redisRepository) Delete(ctx context.Context, key period.Key) error {
	return r.rdb.Del(ctx, RedisDraftKey(key)).Err()
}

func (r *redisRepository) Active(ctx context.Context, operatorID string) (*period.Key, error) {
	raw, err := r.rdb.Get(ctx, RedisActiveKey(operatorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var key period.Key
	if err := json.Unmarshal(raw, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *redisRepository) SetActive(ctx context.Context, operatorID string, key period.Key) error {
	payload, err := json.Marshal(key)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, RedisActiveKey(operatorID), payload, r.ttl).Err()
}

func (r *redisRepository) ClearActive(ctx context.Context, operatorID string) error {
	return r.rdb.Del(ctx, RedisActiveKey(operatorID)).Err()
}
