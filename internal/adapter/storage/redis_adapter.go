package storage

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idempotencyKeyPrefix = "idempotency:product:"
	idempotencyKeyTTL    = 24 * time.Hour
)

// Returns -1 when the key was claimed, otherwise the stored product id
// (0 while the owner has not completed).
var claimScript = redis.NewScript(`
local key = KEYS[1]
local ttl = tonumber(ARGV[1])

if redis.call('SET', key, '0', 'NX', 'PX', ttl) then
	return -1
end

local current = redis.call('GET', key)
if not current then
	return 0
end

return tonumber(current)
`)

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client, ttl: idempotencyKeyTTL}
}

func (r *RedisAdapter) Claim(ctx context.Context, key string) (bool, int64, error) {
	result, err := claimScript.Run(ctx, r.client, []string{idempotencyKeyPrefix + key}, r.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, 0, err
	}

	if result == -1 {
		return true, 0, nil
	}
	return false, result, nil
}

func (r *RedisAdapter) Complete(ctx context.Context, key string, productID int64) error {
	return r.client.Set(ctx, idempotencyKeyPrefix+key, productID, r.ttl).Err()
}

func (r *RedisAdapter) Release(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
