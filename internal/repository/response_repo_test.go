package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyengine/internal/model"
)

func testResponseRepository(t *testing.T, repo ResponseRepository) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.NotNil(t, empty)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &model.Response{
			ID:          id,
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
			Data:        map[string]any{"q_pref": "yes", "q_multi_red": []any{"red"}},
		}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[2].ID)
	assert.True(t, base.Equal(list[2].SubmittedAt))
	assert.Equal(t, "yes", list[0].Data["q_pref"])
	assert.Equal(t, []any{"red"}, list[0].Data["q_multi_red"])

	assert.ErrorIs(t, repo.Create(ctx, &model.Response{ID: "d"}), ErrInvalidResponse)
}

func TestMemoryResponseRepository(t *testing.T) {
	testResponseRepository(t, NewMemoryResponseRepository())
}

func TestSQLiteResponseRepository(t *testing.T) {
	repo, err := NewSQLiteResponseRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	testResponseRepository(t, repo)
}

func TestSQLiteResponseRepositoryDuplicateID(t *testing.T) {
	repo, err := NewSQLiteResponseRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	resp := &model.Response{ID: "a", SubmittedAt: time.Now(), Data: map[string]any{}}
	require.NoError(t, repo.Create(context.Background(), resp))
	assert.Error(t, repo.Create(context.Background(), resp))
}
