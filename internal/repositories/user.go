package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/memeshare/internal/models"
)

const redacted = "[REDACTED]"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsernameOrEmail returns the first user matching either the username or
// the email. Nil arguments are ignored. Returns nil when nothing matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email *string) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password, avatar, created_at
		FROM users
		WHERE ($1::VARCHAR IS NOT NULL AND username = $1)
		   OR ($2::VARCHAR IS NOT NULL AND email = $2)
		LIMIT 1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email)
	logQuery(query, []any{username, email}, user.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user with the given id or nil.
func (r *UserReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password, avatar, created_at
		FROM users
		WHERE id = $1
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)
	logQuery(query, []any{id}, user.Username, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns public user records ordered by creation time.
func (r *UserReadRepository) List(ctx context.Context, page models.Page) ([]models.User, error) {
	const query = `
		SELECT id, username, email, avatar, created_at
		FROM users
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`

	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, query, page.LimitArg(), page.OffsetArg())
	logQuery(query, []any{page.LimitArg(), page.OffsetArg()}, len(users), err)

	if err != nil {
		return nil, err
	}
	return users, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user. Duplicate usernames or emails yield ErrConflict.
func (r *UserWriteRepository) Save(ctx context.Context, user *models.UserDB) error {
	const query = `
		INSERT INTO users (id, username, email, password, avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	res, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.Password, user.Avatar, user.CreatedAt)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{user.ID, user.Username, user.Email, redacted, user.Avatar, user.CreatedAt}, rowsAffected, err)

	return mapPgError(err)
}

// Update applies the non-nil fields of upd and returns the updated user, or
// nil when the user does not exist.
func (r *UserWriteRepository) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (*models.UserDB, error) {
	const query = `
		UPDATE users
		SET username = COALESCE($2, username),
		    email = COALESCE($3, email),
		    password = COALESCE($4, password),
		    avatar = COALESCE($5, avatar)
		WHERE id = $1
		RETURNING id, username, email, password, avatar, created_at
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id, upd.Username, upd.Email, upd.Password, upd.Avatar)
	password := any(nil)
	if upd.Password != nil {
		password = redacted
	}
	logQuery(query, []any{id, upd.Username, upd.Email, password, upd.Avatar}, user.Username, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapPgError(err)
	}
	return &user, nil
}

// Delete removes the user and returns the deleted record, or nil when the
// user does not exist. Posts and likes of the user go with it.
func (r *UserWriteRepository) Delete(ctx context.Context, id uuid.UUID) (*models.UserDB, error) {
	const query = `
		DELETE FROM users
		WHERE id = $1
		RETURNING id, username, email, password, avatar, created_at
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id)
	logQuery(query, []any{id}, user.Username, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
