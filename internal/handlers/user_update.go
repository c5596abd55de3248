package handlers

//go:generate mockgen -source=user_update.go -destination=user_update_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/services"
)

// UserUpdater updates profiles.
type UserUpdater interface {
	Update(ctx context.Context, id uuid.UUID, fields services.UserFields, avatar *models.Upload) (*models.User, error)
}

// NewUserUpdateHandler returns an HTTP handler updating a profile.
// @Summary Update user
// @Description Changes username, email, password or avatar. The avatar is either an uploaded image or a URL.
// @Tags users
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param username formData string false "Username"
// @Param email formData string false "Email"
// @Param password formData string false "Password"
// @Param avatar formData file false "Avatar image"
// @Success 200 {object} models.User
// @Failure 400 {object} handlers.ErrorResponse "Username or email already exists / invalid request"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 413 {object} handlers.ErrorResponse "File too large"
// @Router /users/upd/{id} [put]
func NewUserUpdateHandler(svc UserUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}

		form, err := readForm(w, r, "avatar")
		if err != nil {
			writeRequestError(w, err)
			return
		}
		defer form.close()

		fields := services.UserFields{
			Username: form.optional("username"),
			Email:    form.optional("email"),
			Password: form.optional("password"),
			Avatar:   form.optional("avatar"),
		}

		user, err := svc.Update(r.Context(), id, fields, form.file)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
