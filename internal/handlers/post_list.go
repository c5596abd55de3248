package handlers

//go:generate mockgen -source=post_list.go -destination=post_list_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/memeshare/internal/models"
)

// PostLister lists posts.
type PostLister interface {
	List(ctx context.Context, page models.Page) ([]*models.Post, error)
}

// NewPostListHandler returns an HTTP handler listing posts in creation order.
// @Summary List posts
// @Description Returns posts oldest first with their author and likes. Without limit every post is returned.
// @Tags posts
// @Produce json
// @Param limit query int false "Maximum number of posts" minimum(1)
// @Param offset query int false "Number of posts to skip"
// @Success 200 {array} models.Post
// @Failure 400 {object} handlers.ErrorResponse "Invalid pagination"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /posts [get]
func NewPostListHandler(svc PostLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid pagination parameters")
			return
		}

		posts, err := svc.List(r.Context(), page)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, posts)
	}
}
