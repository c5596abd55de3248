package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.User{ID: uuid.New(), Username: "john", Email: "john@example.com", Avatar: models.DefaultAvatarURL}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockSignuper)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			body: `{"username":"john","email":"john@example.com","password":"secret"}`,
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "john", "john@example.com", "secret", gomock.Nil()).
					Return("token123", user, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "user already exists",
			body: `{"username":"alice","email":"alice@example.com","password":"pass"}`,
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "alice", "alice@example.com", "pass", gomock.Nil()).
					Return("", nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Username or email already exists",
		},
		{
			name: "missing fields",
			body: `{"username":"alice"}`,
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "alice", "", "", gomock.Nil()).
					Return("", nil, fmt.Errorf("%w: username, email and password are required", services.ErrValidation))
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Username, email and password are required",
		},
		{
			name: "internal server error",
			body: `{"username":"bob","email":"bob@example.com","password":"pass"}`,
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "bob", "bob@example.com", "pass", gomock.Nil()).
					Return("", nil, errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
		{
			name:         "invalid json",
			body:         "{invalid json}",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSignuper(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewSignupHandler(mockSvc)
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedErr != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
				return
			}

			var resp AuthResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "token123", resp.Token)
			assert.Equal(t, user.ID, resp.User.ID)
		})
	}
}

func TestSignupHandler_Avatar(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockSignuper(ctrl)
	mockSvc.EXPECT().
		Signup(gomock.Any(), "john", "john@example.com", "secret", gomock.Not(gomock.Nil())).
		DoAndReturn(func(_ any, _, _, _ string, avatar *models.Upload) (string, *models.User, error) {
			assert.Equal(t, "me.jpg", avatar.Filename)
			assert.Equal(t, "image/jpeg", avatar.ContentType)
			data, err := io.ReadAll(avatar.Content)
			require.NoError(t, err)
			assert.Equal(t, "jpeg bytes", string(data))
			return "token", &models.User{Username: "john", Avatar: "https://cdn/me.jpg"}, nil
		})

	req := multipartRequest(t, http.MethodPost, "/auth/signup",
		map[string]string{"username": "john", "email": "john@example.com", "password": "secret"},
		&testFile{field: "avatar", filename: "me.jpg", contentType: "image/jpeg", content: []byte("jpeg bytes")})
	rr := httptest.NewRecorder()

	NewSignupHandler(mockSvc)(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "https://cdn/me.jpg"))
}

func TestSignupHandler_UploadErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedErr  string
	}{
		{"unsupported type", services.ErrUnsupportedMedia, http.StatusBadRequest, "Invalid file type, only images and videos are allowed"},
		{"host failure", services.ErrUploadFailed, http.StatusInternalServerError, "Error uploading file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSvc := NewMockSignuper(ctrl)
			mockSvc.EXPECT().
				Signup(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
				Return("", nil, tt.err)

			req := multipartRequest(t, http.MethodPost, "/auth/signup",
				map[string]string{"username": "john", "email": "john@example.com", "password": "secret"},
				&testFile{field: "avatar", filename: "x.pdf", contentType: "application/pdf", content: []byte("%PDF")})
			rr := httptest.NewRecorder()

			NewSignupHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, `{"error":"`+tt.expectedErr+`"}`, rr.Body.String())
		})
	}
}
