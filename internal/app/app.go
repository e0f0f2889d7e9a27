package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warwickbarbell/blackboards/internal/auth"
	"github.com/warwickbarbell/blackboards/internal/config"
	"github.com/warwickbarbell/blackboards/internal/handlers"
	"github.com/warwickbarbell/blackboards/internal/logger"
	"github.com/warwickbarbell/blackboards/internal/notify"
	"github.com/warwickbarbell/blackboards/internal/repository"
	"github.com/warwickbarbell/blackboards/internal/services"
	"github.com/warwickbarbell/blackboards/internal/sso"
	"github.com/warwickbarbell/blackboards/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      *config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	hub      *websocket.Hub
	baseURL  string

	positions *services.PositionService
	results   *services.ResultsService
}

// New opens the database and wires every service of the application
func New(log logger.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	baseURL := publicBaseURL(cfg, realNetworkProvider{})

	ballotService := services.NewBallotService(log, repo)
	positionService := services.NewPositionService(log, repo)
	positionService.SetBaseURL(baseURL)
	resultsService := services.NewResultsService(log, repo, notify.FromConfig(log.With("component", "notify"), cfg))

	hub := websocket.New(log.With("component", "websocket"), positionService)
	hub.Start()
	positionService.SetBroadcaster(hub)
	resultsService.SetBroadcaster(hub)

	var provider handlers.SSOProvider
	if cfg.SSOEnabled() {
		provider = sso.New(cfg.ConsumerKey, cfg.ConsumerSecret, baseURL+"/auth/authorised", sso.Websignon)
	} else {
		log.Warn("CONSUMER_KEY/CONSUMER_SECRET not set, sign-in is disabled")
	}

	h := handlers.New(handlers.Config{
		Ballots:         ballotService,
		Positions:       positionService,
		Results:         resultsService,
		Auth:            auth.New(),
		Roles:           cfg.Roles(),
		SSO:             provider,
		Hub:             hub,
		Log:             log,
		TieBreakVoterID: cfg.TieBreakVoterID,
	})

	return &App{
		log:      log,
		cfg:      cfg,
		handlers: h,
		repo:     repo,
		hub:      hub,
		baseURL:  baseURL,

		positions: positionService,
		results:   resultsService,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// BaseURL is the public address used in links and the SSO callback
func (a *App) BaseURL() string {
	return a.baseURL
}

// Positions returns the position service, for command-line administration
func (a *App) Positions() services.PositionServicer {
	return a.positions
}

// Results returns the results service
func (a *App) Results() services.ResultsServicer {
	return a.results
}

// Close stops the websocket hub and releases the database
func (a *App) Close() error {
	a.hub.Stop()
	return a.repo.Close()
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully
func (a *App) Run(ctx context.Context) error {
	if err := a.repo.Ping(ctx); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.Addr(),
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", "url", a.baseURL, "database", a.cfg.DatabaseType)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists the host's interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// publicBaseURL is the address printed on ballot QR codes and used as the SSO
// callback. BASE_URL wins; without it members on the club wifi reach the
// service through this host's LAN address.
func publicBaseURL(cfg *config.Config, provider networkProvider) string {
	if cfg.BaseURL != "" {
		return strings.TrimSuffix(cfg.BaseURL, "/")
	}
	return fmt.Sprintf("http://%s%s", lanHost(provider), cfg.Addr())
}

// lanHost picks the first private IPv4 address of an up, non-loopback
// interface, then any routable IPv4 address, then localhost.
func lanHost(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var fallback net.IP
	for _, iface := range ifaces {
		if iface.Flags()&net.FlagUp == 0 || iface.Flags()&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ip := ipv4(addr)
			switch {
			case ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast():
			case ip.IsPrivate():
				return ip.String()
			case fallback == nil:
				fallback = ip
			}
		}
	}
	if fallback != nil {
		return fallback.String()
	}
	return "localhost"
}

func ipv4(addr net.Addr) net.IP {
	var ip net.IP
	switch v := addr.(type) {
	case *net.IPNet:
		ip = v.IP
	case *net.IPAddr:
		ip = v.IP
	}
	return ip.To4()
}
