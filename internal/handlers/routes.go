package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/warwickbarbell/blackboards/internal/roles"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)

	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Sign-in
	r.Get("/auth/login", h.handleLogin)
	r.Get("/auth/authorised", h.handleAuthorised)
	r.Post("/auth/logout", h.handleLogout)
	r.Get("/api/me", h.handleMe)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/api/elections/positions", h.handleListPositions)

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireRole(roles.Member))
			r.Get("/api/elections/{positionID}/ballot", h.handleGetBallot)
			r.Post("/api/elections/{positionID}/ballot", h.handleSubmitBallot)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.Auth.RequireRole(roles.ElectionAdmin))
			r.Get("/api/elections/results", h.handlePreviewResults)
			r.Post("/api/elections/results", h.handleComputeResults)
			r.Post("/api/elections/{positionID}/toggle", h.handleTogglePosition)
			r.Get("/api/elections/{positionID}/qr", h.handleBallotQR)
		})
	})

	return r
}
