package handlers

import (
	"net/http"

	"github.com/warwickbarbell/blackboards/internal/auth"
	"github.com/warwickbarbell/blackboards/internal/roles"
)

// handleLogin sends the user to websignon
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.Auth.GetSessionFromRequest(r); ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if h.SSO == nil {
		respondError(w, NewAPIError(http.StatusServiceUnavailable, ErrCodeUnavailable, "Sign-in is not configured"))
		return
	}

	authURL, err := h.SSO.Begin()
	if err != nil {
		h.Log.Error("Failed to start sign-in", "error", err)
		respondError(w, NewAPIError(http.StatusBadGateway, ErrCodeUnavailable, "Sign-in provider unavailable"))
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleAuthorised completes sign-in and starts a session
func (h *Handlers) handleAuthorised(w http.ResponseWriter, r *http.Request) {
	if h.SSO == nil {
		respondError(w, NewAPIError(http.StatusServiceUnavailable, ErrCodeUnavailable, "Sign-in is not configured"))
		return
	}

	user, err := h.SSO.Complete(r.Context(), r)
	if err != nil {
		h.Log.Warn("Sign-in failed", "error", err)
		respondError(w, Unauthorized("Sign-in failed"))
		return
	}

	p := roles.Resolve(h.Roles, user.WarwickID, user.Name)
	auth.SetSessionCookie(w, h.Auth.Login(p))
	h.Log.Info("User signed in", "warwick_id", p.ID, "roles", p.RoleNames())
	http.Redirect(w, r, "/", http.StatusFound)
}

// handleLogout clears the session
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Signed out")
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Auth.GetSessionFromRequest(r)
	if !ok {
		respondError(w, Unauthorized("Not signed in"))
		return
	}
	respondOK(w, MeResponse{ID: p.ID, Name: p.Name, Roles: p.RoleNames()})
}
