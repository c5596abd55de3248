package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// ErrCacheMiss is returned when a profile is not cached.
var ErrCacheMiss = errors.New("profile not found in cache")

// ProfileCacheRepository caches public user profiles in Redis, keyed by username.
type ProfileCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached profiles
}

// NewProfileCacheRepository creates a new repository instance
func NewProfileCacheRepository(client *redis.Client, expiration time.Duration) *ProfileCacheRepository {
	return &ProfileCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func profileKey(username string) string {
	return fmt.Sprintf("profile:%s", username)
}

// Get returns the cached profile for username.
func (r *ProfileCacheRepository) Get(ctx context.Context, username string) (*models.User, error) {
	key := profileKey(username)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		logger.Log.Infow("profile cache get",
			"key", key,
			"result", nil,
			"error", err,
		)
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(val, &user); err != nil {
		logger.Log.Infow("profile cache decode",
			"key", key,
			"value", string(val),
			"result", nil,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("profile cache get",
		"key", key,
		"result", user.ID,
		"error", nil,
	)
	return &user, nil
}

// Set caches the profile with the repository expiration.
func (r *ProfileCacheRepository) Set(ctx context.Context, user *models.User) error {
	key := profileKey(user.Username)

	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("profile cache set",
		"key", key,
		"result", "ok",
		"error", err,
	)
	return err
}

// Delete evicts the cached profiles of the given usernames.
func (r *ProfileCacheRepository) Delete(ctx context.Context, usernames ...string) error {
	if len(usernames) == 0 {
		return nil
	}
	keys := make([]string, 0, len(usernames))
	for _, u := range usernames {
		keys = append(keys, profileKey(u))
	}

	n, err := r.client.Del(ctx, keys...).Result()

	logger.Log.Infow("profile cache delete",
		"keys", keys,
		"result", n,
		"error", err,
	)
	return err
}
