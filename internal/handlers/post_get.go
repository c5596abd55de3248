package handlers

//go:generate mockgen -source=post_get.go -destination=post_get_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// PostGetter fetches a single post.
type PostGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Post, error)
}

// NewPostGetHandler returns an HTTP handler for a single post.
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /posts/{id} [get]
func NewPostGetHandler(svc PostGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}

		post, err := svc.Get(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}
