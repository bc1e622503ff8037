package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/config"
	"surveyengine/internal/model"
	"surveyengine/internal/schema"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		SchemaPath:  filepath.Join("..", "..", "surveys", "consumer_survey.json"),
		StoreDriver: driver,
		SQLitePath:  ":memory:",
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewWithLocalBackends(t *testing.T) {
	for _, driver := range []string{config.StoreMemory, config.StoreSQLite} {
		t.Run(driver, func(t *testing.T) {
			a, err := New(context.Background(), testConfig(driver), discard())
			require.NoError(t, err)
			defer a.Close()

			assert.NotEmpty(t, a.Schema.Blocks())
			require.NotNil(t, a.Locker)
			require.NotNil(t, a.Metrics)

			ctx := context.Background()
			require.NoError(t, a.Responses.Create(ctx, &model.Response{
				ID: "r1", SubmittedAt: time.Now(), Data: map[string]any{"a": "b"},
			}))
			list, err := a.Responses.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)
		})
	}
}

func TestNewWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.StoreMemory)
	cfg.RedisAddr = mr.Addr()

	a, err := New(context.Background(), cfg, discard())
	require.NoError(t, err)
	defer a.Close()

	release, ok, err := a.Locker.TryAcquire(context.Background(), "submit:x", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, mr.Exists("submit:x"))
	release()
}

func TestNewFailures(t *testing.T) {
	_, err := New(context.Background(), testConfig("cassandra"), discard())
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")

	cfg := testConfig(config.StoreMemory)
	cfg.SchemaPath = "does-not-exist.json"
	_, err = New(context.Background(), cfg, discard())
	var loadErr *schema.SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
