package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestProfileCacheRepository(t *testing.T) {
	rdb, teardown := setupRedisContainer(t)
	defer teardown()

	ctx := context.Background()
	repo := NewProfileCacheRepository(rdb, 2*time.Second)

	user := &models.User{
		ID:        uuid.New(),
		Username:  "alice",
		Email:     "alice@example.com",
		Avatar:    models.DefaultAvatarURL,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	t.Run("Set and Get profile", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, user))

		got, err := repo.Get(ctx, "alice")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
		assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("Get missing key returns ErrCacheMiss", func(t *testing.T) {
		_, err := repo.Get(ctx, "nobody")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Delete evicts", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, user))
		require.NoError(t, repo.Delete(ctx, "alice", "unknown"))

		_, err := repo.Get(ctx, "alice")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Cached value expires", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, user))

		time.Sleep(3 * time.Second)

		_, err := repo.Get(ctx, "alice")
		assert.ErrorIs(t, err, ErrCacheMiss)
	})

	t.Run("Calls are logged with string keys", func(t *testing.T) {
		core, logs := observer.New(zap.DebugLevel)
		prev := logger.Log
		logger.Log = zap.New(core).Sugar()
		defer func() { logger.Log = prev }()

		require.NoError(t, repo.Set(ctx, user))
		_, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, "alice"))

		var messages []string
		for _, entry := range logs.All() {
			messages = append(messages, entry.Message)
			assert.Equal(t, zap.InfoLevel, entry.Level)
			assert.NotEmpty(t, entry.ContextMap())
		}
		assert.Equal(t, []string{"profile cache set", "profile cache get", "profile cache delete"}, messages)
		assert.Equal(t, "profile:alice", logs.FilterMessage("profile cache get").All()[0].ContextMap()["key"])
	})
}
