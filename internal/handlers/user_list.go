package handlers

//go:generate mockgen -source=user_list.go -destination=user_list_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/memeshare/internal/models"
)

// UserLister lists public profiles.
type UserLister interface {
	List(ctx context.Context, page models.Page) ([]models.User, error)
}

// NewUserListHandler returns an HTTP handler listing users.
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Maximum number of users" minimum(1)
// @Param offset query int false "Number of users to skip"
// @Success 200 {array} models.User
// @Failure 400 {object} handlers.ErrorResponse "Invalid pagination"
// @Router /users [get]
func NewUserListHandler(svc UserLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := pageFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid pagination parameters")
			return
		}

		users, err := svc.List(r.Context(), page)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if users == nil {
			users = []models.User{}
		}

		writeJSON(w, http.StatusOK, users)
	}
}
