package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"surveyengine/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionCache mirrors live form session metadata so other instances
// and operators can see it. Form state itself never leaves the process.
type SessionCache interface {
	Set(ctx context.Context, info *model.SessionInfo, ttl time.Duration) error
	Get(ctx context.Context, id string) (*model.SessionInfo, error)
	Delete(ctx context.Context, id string) error
}

func sessionKey(id string) string {
	return "formsession:" + id
}

type sessionCache struct {
	client *redis.Client
}

func NewSessionCache(client *redis.Client) SessionCache {
	return &sessionCache{
		client: client,
	}
}

func (c *sessionCache) Set(ctx context.Context, info *model.SessionInfo, ttl time.Duration) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, sessionKey(info.ID), data, ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.SessionInfo, error) {
	data, err := c.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var info model.SessionInfo
	if err := json.Unmarshal([]byte(data), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, sessionKey(id)).Err()
}

type memorySessionCache struct {
	mu       sync.RWMutex
	sessions map[string]model.SessionInfo
}

func NewMemorySessionCache() SessionCache {
	return &memorySessionCache{sessions: make(map[string]model.SessionInfo)}
}

// Set ignores ttl; the form service sweeps idle sessions itself.
func (c *memorySessionCache) Set(_ context.Context, info *model.SessionInfo, _ time.Duration) error {
	c.mu.Lock()
	c.sessions[info.ID] = *info
	c.mu.Unlock()
	return nil
}

func (c *memorySessionCache) Get(_ context.Context, id string) (*model.SessionInfo, error) {
	c.mu.RLock()
	info, ok := c.sessions[id]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &info, nil
}

func (c *memorySessionCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	delete(c.sessions, id)
	c.mu.Unlock()
	return nil
}
