package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// postSelect joins a post with its author and its like set.
const postSelect = `
	SELECT p.id, p.title, p.content, p.media_url, p.media_type, p.author_id,
	       p.created_at, p.updated_at,
	       u.id AS "author.id", u.username AS "author.username", u.email AS "author.email",
	       u.avatar AS "author.avatar", u.created_at AS "author.created_at",
	       COALESCE((SELECT string_agg(l.user_id::TEXT, ',' ORDER BY l.created_at)
	                 FROM post_likes l WHERE l.post_id = p.id), '') AS likes
	FROM posts p
	JOIN users u ON u.id = p.author_id
`

// PostReadRepository handles post read operations
type PostReadRepository struct {
	db *sqlx.DB
}

func NewPostReadRepository(db *sqlx.DB) *PostReadRepository {
	return &PostReadRepository{db: db}
}

// List returns posts in creation order.
func (r *PostReadRepository) List(ctx context.Context, page models.Page) ([]models.PostDB, error) {
	query := postSelect + `
		ORDER BY p.created_at, p.id
		LIMIT $1 OFFSET $2
	`

	posts := []models.PostDB{}
	err := r.db.SelectContext(ctx, &posts, query, page.LimitArg(), page.OffsetArg())
	logQuery(query, []any{page.LimitArg(), page.OffsetArg()}, len(posts), err)

	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns the post or nil when it does not exist.
func (r *PostReadRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PostDB, error) {
	query := postSelect + `
		WHERE p.id = $1
	`

	var post models.PostDB
	err := r.db.GetContext(ctx, &post, query, id)
	logQuery(query, []any{id}, post.Title, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// PostWriteRepository handles post write operations
type PostWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewPostWriteRepository(db *sqlx.DB, txGetter TxGetter) *PostWriteRepository {
	return &PostWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a new post.
func (r *PostWriteRepository) Save(ctx context.Context, post *models.PostDB) error {
	const query = `
		INSERT INTO posts (id, title, content, media_url, media_type, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	args := []any{post.ID, post.Title, post.Content, post.MediaURL, post.MediaType,
		post.AuthorID, post.CreatedAt, post.UpdatedAt}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, args, rowsAffected, err)

	return mapPgError(err)
}

// Update applies upd to the post only when it belongs to authorID.
// It reports whether a row matched.
func (r *PostWriteRepository) Update(ctx context.Context, id, authorID uuid.UUID, upd models.PostUpdate) (bool, error) {
	const query = `
		UPDATE posts
		SET title = COALESCE($3, title),
		    content = COALESCE($4, content),
		    media_url = COALESCE($5, media_url),
		    media_type = COALESCE($6, media_type),
		    updated_at = NOW()
		WHERE id = $1 AND author_id = $2
	`

	var mediaURL, mediaType *string
	if upd.Media != nil {
		mediaURL, mediaType = &upd.Media.URL, &upd.Media.Type
	}
	args := []any{id, authorID, upd.Title, upd.Content, mediaURL, mediaType}

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, args, rowsAffected, err)

	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// Delete removes the post only when it belongs to authorID.
// It reports whether a row matched.
func (r *PostWriteRepository) Delete(ctx context.Context, id, authorID uuid.UUID) (bool, error) {
	const query = `
		DELETE FROM posts
		WHERE id = $1 AND author_id = $2
	`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, id, authorID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{id, authorID}, rowsAffected, err)

	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

// ToggleLike removes userID from the post's likes when present, otherwise
// adds it. The post row is locked for the duration of the toggle. When the
// request carries no transaction a local one is used. Returns nil when the
// post does not exist.
func (r *PostWriteRepository) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.LikeResult, error) {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return toggleLike(ctx, tx, postID, userID)
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := toggleLike(ctx, tx, postID, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func toggleLike(ctx context.Context, q sqlx.ExtContext, postID, userID uuid.UUID) (*models.LikeResult, error) {
	const lockQuery = `SELECT id FROM posts WHERE id = $1 FOR UPDATE`
	const unlikeQuery = `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`
	const likeQuery = `INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, NOW())`
	const countQuery = `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`

	var id uuid.UUID
	err := sqlx.GetContext(ctx, q, &id, lockQuery, postID)
	logQuery(lockQuery, []any{postID}, id, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	res, err := q.ExecContext(ctx, unlikeQuery, postID, userID)
	var removed int64
	if res != nil {
		removed, _ = res.RowsAffected()
	}
	logQuery(unlikeQuery, []any{postID, userID}, removed, err)
	if err != nil {
		return nil, err
	}

	result := &models.LikeResult{Liked: removed == 0}
	if result.Liked {
		_, err = q.ExecContext(ctx, likeQuery, postID, userID)
		logQuery(likeQuery, []any{postID, userID}, "ok", err)
		if err != nil {
			return nil, mapPgError(err)
		}
	}

	err = sqlx.GetContext(ctx, q, &result.LikesCount, countQuery, postID)
	logQuery(countQuery, []any{postID}, result.LikesCount, err)
	if err != nil {
		return nil, err
	}
	return result, nil
}
