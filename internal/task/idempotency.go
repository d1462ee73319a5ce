package task

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type memoryLock struct {
	token   string
	expires time.Time
}

// MemoryGuard is a single-process IdempotencyGuard.
type MemoryGuard struct {
	mu    sync.Mutex
	locks map[string]memoryLock
	now   func() time.Time
}

func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{locks: make(map[string]memoryLock), now: time.Now}
}

func (g *MemoryGuard) Acquire(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()
	if held, ok := g.locks[key]; ok && now.Before(held.expires) {
		return "", false, nil
	}
	token := uuid.NewString()
	g.locks[key] = memoryLock{token: token, expires: now.Add(ttl)}
	return token, true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key, token string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if held, ok := g.locks[key]; ok && held.token == token {
		delete(g.locks, key)
	}
	return nil
}

const idempotencyKeyPrefix = "dealchecker:task:idem:"

// releaseScript deletes the lock only if the caller's token still owns it, so
// an expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisGuard shares idempotency locks across instances using SET NX PX. Each
// holder gets its own random token as the lock value.
type RedisGuard struct {
	client redis.UniversalClient
}

func NewRedisGuard(client redis.UniversalClient) *RedisGuard {
	return &RedisGuard{client: client}
}

func (g *RedisGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, idempotencyKeyPrefix+key, token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

func (g *RedisGuard) Release(ctx context.Context, key, token string) error {
	if token == "" {
		return nil
	}
	err := releaseScript.Run(ctx, g.client, []string{idempotencyKeyPrefix + key}, token).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
