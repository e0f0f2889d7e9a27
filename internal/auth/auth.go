package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warwickbarbell/blackboards/internal/roles"
)

const (
	CookieName    = "blackboards_session"
	SessionExpiry = 24 * time.Hour
)

type contextKey struct{}

type session struct {
	principal roles.Principal
	expires   time.Time
}

// Auth keeps the sessions of signed-in users
type Auth struct {
	sessions map[string]session
	mu       sync.RWMutex
	now      func() time.Time
}

// New creates an empty session store
func New() *Auth {
	return &Auth{
		sessions: make(map[string]session),
		now:      time.Now,
	}
}

// Login starts a session for p and returns its token
func (a *Auth) Login(p roles.Principal) string {
	token := uuid.NewString()
	a.mu.Lock()
	a.sessions[token] = session{principal: p, expires: a.now().Add(SessionExpiry)}
	a.mu.Unlock()
	return token
}

// Logout invalidates a session token
func (a *Auth) Logout(token string) {
	a.mu.Lock()
	delete(a.sessions, token)
	a.mu.Unlock()
}

// ValidateSession returns the principal for a live session token
func (a *Auth) ValidateSession(token string) (roles.Principal, bool) {
	a.mu.RLock()
	s, exists := a.sessions[token]
	a.mu.RUnlock()

	if !exists {
		return roles.Principal{}, false
	}

	if a.now().After(s.expires) {
		a.mu.Lock()
		delete(a.sessions, token)
		a.mu.Unlock()
		return roles.Principal{}, false
	}

	return s.principal, true
}

// GetSessionFromRequest extracts and validates the session from a request
func (a *Auth) GetSessionFromRequest(r *http.Request) (roles.Principal, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return roles.Principal{}, false
	}
	return a.ValidateSession(cookie.Value)
}

// RequireRole middleware for API endpoints. Requests without a session get
// 401; signed-in users without role get 403. The principal is available to
// the handler through PrincipalFromContext.
func (a *Auth) RequireRole(role roles.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := a.GetSessionFromRequest(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized - please log in")
				return
			}
			if !p.Has(role) {
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden - requires role "+string(role))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// WithPrincipal returns a context carrying p
func WithPrincipal(ctx context.Context, p roles.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// PrincipalFromContext returns the principal stored by RequireRole
func PrincipalFromContext(ctx context.Context) (roles.Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(roles.Principal)
	return p, ok
}

// SetSessionCookie sets the session cookie on the response
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionExpiry.Seconds()),
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"code":"` + code + `","error":"` + msg + `"}`))
}
