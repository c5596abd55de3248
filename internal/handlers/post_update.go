package handlers

//go:generate mockgen -source=post_update.go -destination=post_update_mock.go -package=handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/services"
)

// PostUpdater updates posts owned by the caller.
type PostUpdater interface {
	Update(ctx context.Context, id, authorID uuid.UUID, fields services.PostFields, file *models.Upload) (*models.Post, error)
}

// NewPostUpdateHandler returns an HTTP handler updating a post of the caller.
// @Summary Update post
// @Description Changes title, content or media of a post. Only the author may update it.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param title formData string false "Title"
// @Param content formData string false "Content"
// @Param media formData file false "Image or video"
// @Success 200 {object} models.Post
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 404 {object} handlers.ErrorResponse "Post not found or unauthorized"
// @Failure 413 {object} handlers.ErrorResponse "File too large"
// @Router /posts/upd/{id} [put]
func NewPostUpdateHandler(svc PostUpdater) http.HandlerFunc {
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

		form, err := readForm(w, r, "media")
		if err != nil {
			writeRequestError(w, err)
			return
		}
		defer form.close()

		fields := services.PostFields{
			Title:   form.optional("title"),
			Content: form.optional("content"),
		}

		post, err := svc.Update(r.Context(), id, claims.UserID, fields, form.file)
		if errors.Is(err, services.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "Post not found or unauthorized")
			return
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, post)
	}
}
