package services

//go:generate mockgen -source=user.go -destination=user_mock.go -package=services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// ProfileCache caches public profiles by username.
type ProfileCache interface {
	Get(ctx context.Context, username string) (*models.User, error)
	Set(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, usernames ...string) error
}

// UserFields carries the editable user fields of a profile update. Nil fields are kept.
type UserFields struct {
	Username *string
	Email    *string
	Password *string
	Avatar   *string
}

// UserService handles profile reads and updates.
type UserService struct {
	reader UserReader
	writer UserWriter
	media  MediaUploader
	cache  ProfileCache
}

// NewUserService creates a new UserService. cache may be nil.
func NewUserService(reader UserReader, writer UserWriter, media MediaUploader, cache ProfileCache) *UserService {
	return &UserService{
		reader: reader,
		writer: writer,
		media:  media,
		cache:  cache,
	}
}

// List returns public user profiles.
func (s *UserService) List(ctx context.Context, page models.Page) ([]models.User, error) {
	users, err := s.reader.List(ctx, page)
	if err != nil {
		logger.Log.Errorw("failed to list users", "error", err)
		return nil, err
	}
	return users, nil
}

// GetByUsername returns the public profile for username, served from the
// cache when possible.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.cache != nil {
		user, err := s.cache.Get(ctx, username)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, repositories.ErrCacheMiss) {
			logger.Log.Errorw("failed to read cached profile", "username", username, "error", err)
		}
	}

	row, err := s.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "username", username, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrUserNotFound
	}

	user := row.Public()
	if s.cache != nil {
		if err := s.cache.Set(ctx, user); err != nil {
			logger.Log.Errorw("failed to cache profile", "username", username, "error", err)
		}
	}
	return user, nil
}

// Update changes the allowed profile fields of user id. The avatar file, when
// given, replaces any avatar URL in fields.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, fields UserFields, avatar *models.Upload) (*models.User, error) {
	upd := models.UserUpdate{Avatar: fields.Avatar}
	if fields.Username != nil {
		username := strings.TrimSpace(*fields.Username)
		if username == "" {
			return nil, fmt.Errorf("%w: username cannot be empty", ErrValidation)
		}
		upd.Username = &username
	}
	if fields.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*fields.Email))
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
		upd.Email = &email
	}
	if fields.Password != nil && *fields.Password == "" {
		return nil, fmt.Errorf("%w: password cannot be empty", ErrValidation)
	}
	if err := checkLengths(upd.Username, upd.Email, fields.Password); err != nil {
		return nil, err
	}
	if fields.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*fields.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Log.Errorw("failed to hash password", "err", err)
			return nil, err
		}
		hash := string(hashed)
		upd.Password = &hash
	}

	existing, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get user", "user_id", id, "error", err)
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	if avatar != nil {
		media, err := s.media.Upload(ctx, avatar)
		if err != nil {
			return nil, err
		}
		upd.Avatar = &media.URL
	}

	if upd.IsEmpty() {
		return existing.Public(), nil
	}

	row, err := s.writer.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to update user", "user_id", id, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, ErrUserNotFound
	}

	s.evict(ctx, existing.Username, row.Username)
	return row.Public(), nil
}

// Delete removes user id together with their posts and likes.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.writer.Delete(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "user_id", id, "error", err)
		return err
	}
	if row == nil {
		return ErrUserNotFound
	}

	s.evict(ctx, row.Username)
	return nil
}

func (s *UserService) evict(ctx context.Context, usernames ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, usernames...); err != nil {
		logger.Log.Errorw("failed to evict cached profile", "usernames", usernames, "error", err)
	}
}
