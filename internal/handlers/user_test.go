package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestUserListHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockUserLister(ctrl)
	mockSvc.EXPECT().List(gomock.Any(), models.Page{Limit: 2}).Return(nil, nil)

	rr := httptest.NewRecorder()
	NewUserListHandler(mockSvc)(rr, httptest.NewRequest(http.MethodGet, "/users?limit=2", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestUserGetHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("found", func(t *testing.T) {
		mockSvc := NewMockUserGetter(ctrl)
		mockSvc.EXPECT().GetByUsername(gomock.Any(), "alice").Return(&models.User{Username: "alice"}, nil)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/users/alice", nil), "username", "alice")
		rr := httptest.NewRecorder()

		NewUserGetHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"username":"alice"`)
		assert.NotContains(t, rr.Body.String(), "password")
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := NewMockUserGetter(ctrl)
		mockSvc.EXPECT().GetByUsername(gomock.Any(), "ghost").Return(nil, services.ErrUserNotFound)

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/users/ghost", nil), "username", "ghost")
		rr := httptest.NewRecorder()

		NewUserGetHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"error":"User not found"}`, rr.Body.String())
	})
}

func TestUserUpdateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	t.Run("avatar url and email", func(t *testing.T) {
		avatar, email := "https://cdn/new.png", "NEW@example.com"
		mockSvc := NewMockUserUpdater(ctrl)
		mockSvc.EXPECT().
			Update(gomock.Any(), id, services.UserFields{Email: &email, Avatar: &avatar}, gomock.Nil()).
			Return(&models.User{ID: id, Email: "new@example.com", Avatar: avatar}, nil)

		req := httptest.NewRequest(http.MethodPut, "/users/upd/"+id.String(),
			strings.NewReader(`{"email":"NEW@example.com","avatar":"https://cdn/new.png"}`))
		req = withUser(withURLParam(req, "id", id.String()), uuid.New())
		rr := httptest.NewRecorder()

		NewUserUpdateHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("avatar file", func(t *testing.T) {
		mockSvc := NewMockUserUpdater(ctrl)
		mockSvc.EXPECT().
			Update(gomock.Any(), id, services.UserFields{}, gomock.Not(gomock.Nil())).
			Return(&models.User{ID: id}, nil)

		req := multipartRequest(t, http.MethodPut, "/users/upd/"+id.String(), nil,
			&testFile{field: "avatar", filename: "a.png", contentType: "image/png", content: []byte("png")})
		req = withUser(withURLParam(req, "id", id.String()), id)
		rr := httptest.NewRecorder()

		NewUserUpdateHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("taken username", func(t *testing.T) {
		mockSvc := NewMockUserUpdater(ctrl)
		mockSvc.EXPECT().
			Update(gomock.Any(), id, gomock.Any(), gomock.Nil()).
			Return(nil, services.ErrUserAlreadyExists)

		req := httptest.NewRequest(http.MethodPut, "/users/upd/"+id.String(), strings.NewReader(`{"username":"bob"}`))
		req = withUser(withURLParam(req, "id", id.String()), id)
		rr := httptest.NewRecorder()

		NewUserUpdateHandler(mockSvc)(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"error":"Username or email already exists"}`, rr.Body.String())
	})

	t.Run("malformed id", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/users/upd/x", strings.NewReader(`{}`)), "id", "x")
		rr := httptest.NewRecorder()

		NewUserUpdateHandler(NewMockUserUpdater(ctrl))(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestUserDeleteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()

	tests := []struct {
		name         string
		svcErr       error
		expectedCode int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"unknown user", services.ErrUserNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserDeleter(ctrl)
			mockSvc.EXPECT().Delete(gomock.Any(), id).Return(tt.svcErr)

			req := withURLParam(httptest.NewRequest(http.MethodDelete, "/users/del/"+id.String(), nil), "id", id.String())
			rr := httptest.NewRecorder()

			NewUserDeleteHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
