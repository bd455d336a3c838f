package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"acadcollab.org/internal/auth"
	"acadcollab.org/internal/collab"
	"acadcollab.org/internal/identity"
	"acadcollab.org/internal/notify"
	"acadcollab.org/internal/obs"
)

// Prober reports whether the persistence backend is reachable.
type Prober interface {
	Ping(ctx context.Context) error
}

// Options wires the API's collaborators.
type Options struct {
	Identity  *identity.Service
	Collab    *collab.Service
	Authority *auth.Authority
	Notifier  notify.Notifier
	Prober    Prober
	Version   string

	MaxBodyBytes       int64
	RateLimitBurst     int
	RateLimitPerSecond int
	AllowedOrigins     []string
}

// API is the HTTP layer.
type API struct {
	mux       *http.ServeMux
	identity  *identity.Service
	collab    *collab.Service
	authority *auth.Authority
	notifier  notify.Notifier
	prober    Prober
	version   string
	opts      Options
}

func New(opts Options) (*API, error) {
	if opts.Identity == nil || opts.Collab == nil || opts.Authority == nil {
		return nil, errors.New("identity, collab, and authority are required")
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.LogNotifier{}
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	a := &API{
		mux:       http.NewServeMux(),
		identity:  opts.Identity,
		collab:    opts.Collab,
		authority: opts.Authority,
		notifier:  opts.Notifier,
		prober:    opts.Prober,
		version:   opts.Version,
		opts:      opts,
	}

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReady)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/auth/register", a.handleRegister)
	a.mux.HandleFunc("/auth/login", a.handleLogin)
	a.mux.HandleFunc("/auth/forgot-password", a.handleForgotPassword)
	a.mux.HandleFunc("/auth/reset-password", a.handleResetPassword)

	adminOnly := RequireRole(auth.RoleAdmin)
	a.mux.Handle("/users", adminOnly(http.HandlerFunc(a.handleUsersCollection)))
	a.mux.Handle("/users/", adminOnly(http.HandlerFunc(a.handleUserResource)))

	a.mux.HandleFunc("/projects", a.handleProjectsCollection)
	a.mux.HandleFunc("/projects/", a.handleProjectResource)
	a.mux.HandleFunc("/documents", a.handleDocuments)
	a.mux.HandleFunc("/messages", a.handleMessages)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})

	return a, nil
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := http.Handler(a.mux)
	h = a.withAuth(h)
	h = RateLimit(h, a.opts.RateLimitBurst, a.opts.RateLimitPerSecond)
	h = MaxBodyBytes(h, a.opts.MaxBodyBytes)
	h = CORS(h, a.opts.AllowedOrigins)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "acadcollab-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if a.prober != nil {
		if err := a.prober.Ping(r.Context()); err != nil {
			obs.LogError("readiness probe failed", err, nil)
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
