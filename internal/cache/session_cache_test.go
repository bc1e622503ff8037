package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/model"
)

func testSessionCache(t *testing.T, c SessionCache) {
	ctx := context.Background()
	info := &model.SessionInfo{
		ID:        "abc",
		Locale:    "es",
		Status:    model.SessionActive,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}

	require.NoError(t, c.Set(ctx, info, time.Minute))

	got, err := c.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "es", got.Locale)
	assert.Equal(t, model.SessionActive, got.Status)
	assert.True(t, info.StartedAt.Equal(got.StartedAt))

	require.NoError(t, c.Delete(ctx, "abc"))
	_, err = c.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisSessionCache(t *testing.T) {
	mr, client := newRedis(t)
	testSessionCache(t, NewSessionCache(client))

	require.NoError(t, NewSessionCache(client).Set(context.Background(), &model.SessionInfo{ID: "x"}, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL("formsession:x"))
}

func TestMemorySessionCache(t *testing.T) {
	testSessionCache(t, NewMemorySessionCache())
}
