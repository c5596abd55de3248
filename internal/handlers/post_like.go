package handlers

//go:generate mockgen -source=post_like.go -destination=post_like_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// PostLiker toggles the caller's like on a post.
type PostLiker interface {
	ToggleLike(ctx context.Context, id, userID uuid.UUID) (int, error)
}

// LikeResponse carries the like count after a toggle
// swagger:model LikeResponse
type LikeResponse struct {
	// Number of likes
	// default: 1
	LikesCount int `json:"likesCount"`
}

// NewPostLikeHandler returns an HTTP handler toggling the caller's like.
// @Summary Like or unlike a post
// @Description Likes the post, or removes the like when the caller already liked it.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} handlers.LikeResponse
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /posts/like/{id} [post]
func NewPostLikeHandler(svc PostLiker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}

		count, err := svc.ToggleLike(r.Context(), id, claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, LikeResponse{LikesCount: count})
	}
}
