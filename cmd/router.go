package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/memeshare/internal/handlers"
	"github.com/sbilibin2017/memeshare/internal/middlewares"
)

// routes collects the handlers and middlewares mounted by newRouter.
type routes struct {
	signup http.HandlerFunc
	login  http.HandlerFunc

	listPosts  http.HandlerFunc
	getPost    http.HandlerFunc
	createPost http.HandlerFunc
	updatePost http.HandlerFunc
	deletePost http.HandlerFunc
	likePost   http.HandlerFunc

	listUsers  http.HandlerFunc
	getUser    http.HandlerFunc
	updateUser http.HandlerFunc
	deleteUser http.HandlerFunc

	auth func(http.Handler) http.Handler
	tx   func(http.Handler) http.Handler

	swaggerURL string
	staticDir  string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Public routes
	r.Post("/auth/signup", rt.signup)
	r.Post("/auth/login", rt.login)
	r.Get("/posts", rt.listPosts)
	r.Get("/posts/{id}", rt.getPost)
	r.Get("/users", rt.listUsers)
	r.Get("/users/{username}", rt.getUser)

	// Protected routes with JWT middleware
	r.Group(func(r chi.Router) {
		r.Use(rt.auth)
		r.Post("/posts/new", rt.createPost)
		r.Put("/posts/upd/{id}", rt.updatePost)
		r.Delete("/posts/del/{id}", rt.deletePost)
		r.With(rt.tx).Post("/posts/like/{id}", rt.likePost)
		r.Put("/users/upd/{id}", rt.updateUser)
		r.Delete("/users/del/{id}", rt.deleteUser)
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL(rt.swaggerURL)))

	if rt.staticDir != "" {
		r.NotFound(handlers.NewStaticHandler(rt.staticDir))
	}

	return r
}
