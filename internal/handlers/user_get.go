package handlers

//go:generate mockgen -source=user_get.go -destination=user_get_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/memeshare/internal/models"
)

// UserGetter fetches a public profile by username.
type UserGetter interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// NewUserGetHandler returns an HTTP handler for a public profile.
// @Summary Get user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.User
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/{username} [get]
func NewUserGetHandler(svc UserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.GetByUsername(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}
