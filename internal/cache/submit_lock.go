package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Locker guards a key against concurrent holders.
// TryAcquire never blocks; ok is false when the key is already held.
type Locker interface {
	TryAcquire(ctx context.Context, key string, ttl time.Duration) (release func(), ok bool, err error)
}

// SubmitLockKey is the lock key for an in-flight submission of one session
func SubmitLockKey(sessionID string) string {
	return "submit:" + sessionID
}

// releaseScript deletes the key only if we still own it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) Locker {
	return &redisLocker{client: client}
}

func (l *redisLocker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			// detached: the request context may already be cancelled
			releaseScript.Run(context.Background(), l.client, []string{key}, token)
		})
	}
	return release, true, nil
}

type memoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time // key -> expiry, zero means none
}

func NewMemoryLocker() Locker {
	return &memoryLocker{held: make(map[string]time.Time)}
}

func (l *memoryLocker) TryAcquire(_ context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if exp, ok := l.held[key]; ok && (exp.IsZero() || now.Before(exp)) {
		return nil, false, nil
	}

	var exp time.Time
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	l.held[key] = exp

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// a later holder may own the key after expiry
			if cur, ok := l.held[key]; ok && cur.Equal(exp) {
				delete(l.held, key)
			}
		})
	}
	return release, true, nil
}
