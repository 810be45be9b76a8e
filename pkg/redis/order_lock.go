package redis

import (
	"context"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// luaReleaseLockIfMatch deletes the lock only while it still holds our token,
// so a slow request cannot drop a lock a newer request acquired.
const luaReleaseLockIfMatch = `
local lockKey = KEYS[1]
local token = ARGV[1]
if redis.call('GET', lockKey) == token then
  return redis.call('DEL', lockKey)
end
return 0
`

// PlacementLocker serializes concurrent placements of the same gateway order.
// The TTL bounds how long a crashed request can keep the order id locked.
type PlacementLocker struct {
	rdb *rd.Client
	ttl time.Duration
}

func NewPlacementLocker(rdb *rd.Client, ttl time.Duration) *PlacementLocker {
	return &PlacementLocker{rdb: rdb, ttl: ttl}
}

// Acquire takes the lock for the gateway order; false means another placement
// for the same order is currently in flight.
func (l *PlacementLocker) Acquire(ctx context.Context, razorpayOrderID, token string) (bool, error) {
	return l.rdb.SetNX(ctx, PlacementLockKey(razorpayOrderID), token, l.ttl).Result()
}

// Release frees the lock if it still belongs to token.
func (l *PlacementLocker) Release(ctx context.Context, razorpayOrderID, token string) error {
	key := PlacementLockKey(razorpayOrderID)
	_, err := l.rdb.Eval(ctx, luaReleaseLockIfMatch, []string{key}, token).Int()
	return err
}
