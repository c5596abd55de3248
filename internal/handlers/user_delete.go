package handlers

//go:generate mockgen -source=user_delete.go -destination=user_delete_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// UserDeleter deletes users.
type UserDeleter interface {
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewUserDeleteHandler returns an HTTP handler deleting a user with their posts and likes.
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "User deleted"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /users/del/{id} [delete]
func NewUserDeleteHandler(svc UserDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r)
		if !ok {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
