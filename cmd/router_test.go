package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/jwt"
	"github.com/sbilibin2017/memeshare/internal/middlewares"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stub(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Handler", name)
		w.WriteHeader(http.StatusOK)
	}
}

func testRoutes(tokens *jwt.JWT, txUsed *bool) routes {
	return routes{
		signup:     stub("signup"),
		login:      stub("login"),
		listPosts:  stub("listPosts"),
		getPost:    stub("getPost"),
		createPost: stub("createPost"),
		updatePost: stub("updatePost"),
		deletePost: stub("deletePost"),
		likePost:   stub("likePost"),
		listUsers:  stub("listUsers"),
		getUser:    stub("getUser"),
		updateUser: stub("updateUser"),
		deleteUser: stub("deleteUser"),
		auth:       middlewares.AuthMiddleware(tokens),
		tx: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*txUsed = true
				next.ServeHTTP(w, r)
			})
		},
		swaggerURL: "http://localhost:8080/swagger/doc.json",
	}
}

func TestRouter(t *testing.T) {
	tokens := jwt.New(jwt.WithSecretKey("secret"))
	token, err := tokens.Generate(context.Background(), uuid.New(), "alice")
	require.NoError(t, err)

	var txUsed bool
	router := newRouter(testRoutes(tokens, &txUsed))
	id := uuid.NewString()

	tests := []struct {
		method  string
		path    string
		auth    bool
		status  int
		handler string
	}{
		{http.MethodPost, "/auth/signup", false, http.StatusOK, "signup"},
		{http.MethodPost, "/auth/login", false, http.StatusOK, "login"},
		{http.MethodGet, "/posts", false, http.StatusOK, "listPosts"},
		{http.MethodGet, "/posts/" + id, false, http.StatusOK, "getPost"},
		{http.MethodGet, "/users", false, http.StatusOK, "listUsers"},
		{http.MethodGet, "/users/alice", false, http.StatusOK, "getUser"},
		{http.MethodPost, "/posts/new", true, http.StatusOK, "createPost"},
		{http.MethodPut, "/posts/upd/" + id, true, http.StatusOK, "updatePost"},
		{http.MethodDelete, "/posts/del/" + id, true, http.StatusOK, "deletePost"},
		{http.MethodPost, "/posts/like/" + id, true, http.StatusOK, "likePost"},
		{http.MethodPut, "/users/upd/" + id, true, http.StatusOK, "updateUser"},
		{http.MethodDelete, "/users/del/" + id, true, http.StatusOK, "deleteUser"},
		{http.MethodPost, "/posts/new", false, http.StatusUnauthorized, ""},
		{http.MethodPost, "/posts/like/" + id, false, http.StatusUnauthorized, ""},
		{http.MethodDelete, "/users/del/" + id, false, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.handler, rr.Header().Get("X-Handler"))
			assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})
	}

	assert.True(t, txUsed)
}

func TestRouter_InvalidToken(t *testing.T) {
	var txUsed bool
	router := newRouter(testRoutes(jwt.New(jwt.WithSecretKey("secret")), &txUsed))

	req := httptest.NewRequest(http.MethodPost, "/posts/like/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer forged")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, rr.Body.String())
	assert.False(t, txUsed)
}

func TestRouter_Swagger(t *testing.T) {
	var txUsed bool
	router := newRouter(testRoutes(jwt.New(), &txUsed))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/posts/like/{id}")
}

func TestRouter_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, "index.html", "<html>app</html>"))

	var txUsed bool
	rt := testRoutes(jwt.New(), &txUsed)
	rt.staticDir = dir
	router := newRouter(rt)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/profile/alice", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "<html>app</html>", rr.Body.String())
}
