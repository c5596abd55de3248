package handlers

//go:generate mockgen -source=post_create.go -destination=post_create_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// PostCreator creates posts.
type PostCreator interface {
	Create(ctx context.Context, authorID uuid.UUID, title, content string, file *models.Upload) (*models.Post, error)
}

// NewPostCreateHandler returns an HTTP handler creating a post for the caller.
// @Summary Create post
// @Description Creates a post authored by the caller with an optional image or video.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param content formData string true "Content"
// @Param media formData file false "Image or video"
// @Success 201 {object} models.Post
// @Failure 400 {object} handlers.ErrorResponse "Title and content are required / invalid file type"
// @Failure 401 {object} handlers.ErrorResponse "Authentication required"
// @Failure 403 {object} handlers.ErrorResponse "Invalid token"
// @Failure 413 {object} handlers.ErrorResponse "File too large"
// @Failure 500 {object} handlers.ErrorResponse "Error uploading file"
// @Router /posts/new [post]
func NewPostCreateHandler(svc PostCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		form, err := readForm(w, r, "media")
		if err != nil {
			writeRequestError(w, err)
			return
		}
		defer form.close()

		post, err := svc.Create(r.Context(), claims.UserID, form.value("title"), form.value("content"), form.file)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}
