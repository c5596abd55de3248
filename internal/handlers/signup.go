package handlers

//go:generate mockgen -source=signup.go -destination=signup_mock.go -package=handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/memeshare/internal/models"
)

// Signuper defines the interface that the signup service must implement.
type Signuper interface {
	Signup(ctx context.Context, username, email, password string, avatar *models.Upload) (string, *models.User, error)
}

// SignupRequest represents the body for user signup. Sent as multipart form
// when an avatar file is attached.
// swagger:model SignupRequest
type SignupRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username"`

	// Email
	// required: true
	// default: john@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password"`
}

// NewSignupHandler returns an HTTP handler for user signup.
// @Summary Sign up
// @Description Creates a new user account with an optional avatar image and returns a JWT token.
// @Tags auth
// @Accept json,mpfd
// @Produce json
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param avatar formData file false "Avatar image"
// @Success 201 {object} handlers.AuthResponse "User created"
// @Failure 400 {object} handlers.ErrorResponse "Username or email already exists / invalid request"
// @Failure 413 {object} handlers.ErrorResponse "File too large"
// @Failure 500 {object} handlers.ErrorResponse "Error uploading file"
// @Router /auth/signup [post]
func NewSignupHandler(svc Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readForm(w, r, "avatar")
		if err != nil {
			writeRequestError(w, err)
			return
		}
		defer form.close()

		token, user, err := svc.Signup(r.Context(),
			form.value("username"), form.value("email"), form.value("password"), form.file)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
	}
}
