package handlers

import (
	"context"
	"net/http"

	"github.com/warwickbarbell/blackboards/internal/auth"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/roles"
	"github.com/warwickbarbell/blackboards/internal/services"
	"github.com/warwickbarbell/blackboards/internal/sso"
	"github.com/warwickbarbell/blackboards/internal/websocket"
)

// SSOProvider runs the external sign-in flow
type SSOProvider interface {
	Begin() (string, error)
	Complete(ctx context.Context, r *http.Request) (sso.User, error)
}

var _ SSOProvider = (*sso.Client)(nil)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Ballots   services.BallotServicer
	Positions services.PositionServicer
	Results   services.ResultsServicer
	Auth      *auth.Auth
	Roles     roles.Checker
	// SSO is nil when websignon credentials are not configured
	SSO SSOProvider
	Hub *websocket.Hub
	Log logger.Logger

	// TieBreakVoterID is used when a results request does not name one
	TieBreakVoterID int
}

// Config bundles the dependencies for New
type Config struct {
	Ballots         services.BallotServicer
	Positions       services.PositionServicer
	Results         services.ResultsServicer
	Auth            *auth.Auth
	Roles           roles.Checker
	SSO             SSOProvider
	Hub             *websocket.Hub
	Log             logger.Logger
	TieBreakVoterID int
}

// New creates a new Handlers instance with all dependencies
func New(cfg Config) *Handlers {
	return &Handlers{
		Ballots:         cfg.Ballots,
		Positions:       cfg.Positions,
		Results:         cfg.Results,
		Auth:            cfg.Auth,
		Roles:           cfg.Roles,
		SSO:             cfg.SSO,
		Hub:             cfg.Hub,
		Log:             cfg.Log,
		TieBreakVoterID: cfg.TieBreakVoterID,
	}
}

// NewForTesting creates Handlers with a fresh session store, a silent logger
// and no SSO or websocket hub
func NewForTesting(
	ballots services.BallotServicer,
	positions services.PositionServicer,
	results services.ResultsServicer,
	checker roles.Checker,
) *Handlers {
	return &Handlers{
		Ballots:   ballots,
		Positions: positions,
		Results:   results,
		Auth:      auth.New(),
		Roles:     checker,
		Log:       logger.Discard(),
	}
}

// fail writes err to the client, logging anything that is not a client error
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if asAPIError(err).Status >= http.StatusInternalServerError {
		h.Log.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondError(w, err)
}
