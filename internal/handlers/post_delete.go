package handlers

//go:generate mockgen -source=post_delete.go -destination=post_delete_mock.go -package=handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/services"
)

// PostDeleter deletes posts owned by the caller.
type PostDeleter interface {
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}

// NewPostDeleteHandler returns an HTTP handler deleting a post of the caller.
// @Summary Delete post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 204 "Post deleted"
// @Failure 404 {object} handlers.ErrorResponse "Post not found or unauthorized"
// @Router /posts/del/{id} [delete]
func NewPostDeleteHandler(svc PostDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "Post not found or unauthorized")
			return
		}

		err := svc.Delete(r.Context(), id, claims.UserID)
		if errors.Is(err, services.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "Post not found or unauthorized")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
