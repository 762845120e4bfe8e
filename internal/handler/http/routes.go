package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/signup", h.signup)
		r.Post("/api/auth/signin", h.signin)
		r.Post("/api/auth/refresh", h.refresh)
		r.Post("/api/auth/check-availability", h.checkAvailability)

		r.Get("/api/auth/google", h.googleRedirect)
		r.Get("/api/auth/google/callback", h.googleCallback)
	})

	// routes that require a valid access token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/auth/signout", h.signout)
		r.Get("/api/auth/user", h.currentUser)
		r.Put("/api/auth/user", h.updateProfile)

		r.Post("/api/auth/upload", h.upload)
		r.Get("/api/auth/shared-files", h.listFiles)
		r.Put("/api/auth/shared-files/{url}", h.renameFile)
		r.Delete("/api/auth/shared-files/{url}", h.removeFile)
	})

	return router
}
