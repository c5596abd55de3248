package services

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsernameOrEmail(ctx context.Context, username *string, email *string) (*models.UserDB, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
	List(ctx context.Context, page models.Page) ([]models.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) error
	Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.UserDB, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.UserDB, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, username string) (string, error)
}

// MediaUploader hosts a client upload.
type MediaUploader interface {
	Upload(ctx context.Context, file *models.Upload) (*models.Media, error)
}

// AuthService handles signup and login.
type AuthService struct {
	reader UserReader
	writer UserWriter
	jwt    JWTGenerator
	media  MediaUploader
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, jwt JWTGenerator, media MediaUploader) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		media:  media,
	}
}

// Column limits of the users table and the bcrypt input limit.
const (
	maxUsernameLength = 64
	maxEmailLength    = 255
	maxPasswordBytes  = 72
)

// checkLengths rejects values the users table or bcrypt cannot hold. Nil
// values are skipped. Username and email are counted in characters, the
// password in bytes.
func checkLengths(username, email, password *string) error {
	if username != nil && utf8.RuneCountInString(*username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be at most %d characters", ErrValidation, maxUsernameLength)
	}
	if email != nil && utf8.RuneCountInString(*email) > maxEmailLength {
		return fmt.Errorf("%w: email must be at most %d characters", ErrValidation, maxEmailLength)
	}
	if password != nil && len(*password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, maxPasswordBytes)
	}
	return nil
}

// Signup registers a new user and returns a token for it. The avatar is optional.
func (svc *AuthService) Signup(ctx context.Context, username, email, password string, avatar *models.Upload) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if err := checkLengths(&username, &email, &password); err != nil {
		return "", nil, err
	}

	existing, err := svc.reader.GetByUsernameOrEmail(ctx, &username, &email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return "", nil, err
	}
	if existing != nil {
		logger.Log.Infow("user already exists", "username", username, "email", email)
		return "", nil, ErrUserAlreadyExists
	}

	avatarURL := models.DefaultAvatarURL
	if avatar != nil {
		media, err := svc.media.Upload(ctx, avatar)
		if err != nil {
			return "", nil, err
		}
		avatarURL = media.URL
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return "", nil, err
	}

	user := &models.UserDB{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  string(hashedPassword),
		Avatar:    avatarURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := svc.writer.Save(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return "", nil, ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return "", nil, err
	}

	token, err := svc.jwt.Generate(ctx, user.ID, user.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", nil, err
	}

	logger.Log.Infow("user created", "id", user.ID, "username", user.Username)
	return token, user.Public(), nil
}

// Login authenticates a user and returns a JWT token.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", nil, err
	}
	if user == nil {
		logger.Log.Infow("user does not exist", "username", username)
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "username", username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.ID, user.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", nil, err
	}

	return token, user.Public(), nil
}
