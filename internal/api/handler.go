package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jesus-guti/tqr-rpe/internal/auth"
	"github.com/jesus-guti/tqr-rpe/internal/config"
	"github.com/jesus-guti/tqr-rpe/internal/repository"
	"github.com/jesus-guti/tqr-rpe/internal/sheets"
)

// TokenInvalidator drops cached token resolutions when a player goes away
type TokenInvalidator interface {
	InvalidateToken(ctx context.Context, token string)
}

// Handler carries the dependencies of all HTTP endpoints
type Handler struct {
	cfg      *config.Config
	db       *repository.Database
	resolver *auth.Resolver
	sync     *sheets.SyncService
	admin    sheets.Admin     // nil when sheets credentials are absent
	cache    TokenInvalidator // nil when Redis is disabled
}

// NewHandler creates the API handler. sync, admin and cache may be nil.
func NewHandler(cfg *config.Config, db *repository.Database, resolver *auth.Resolver, sync *sheets.SyncService, admin sheets.Admin, cache TokenInvalidator) *Handler {
	return &Handler{
		cfg:      cfg,
		db:       db,
		resolver: resolver,
		sync:     sync,
		admin:    admin,
		cache:    cache,
	}
}

// NewRouter wires all routes. Admin routes sit behind the shared-token
// middleware; the submission endpoint authenticates per-player via the body
// token instead.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if h.cfg.EnableMetrics {
		r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	public := r.PathPrefix("/api").Subrouter()
	public.HandleFunc("/entries", h.SubmitEntry).Methods(http.MethodPost)

	admin := r.PathPrefix("/api").Subrouter()
	admin.Use(AdminOnly(h.cfg.AdminToken))
	admin.HandleFunc("/players", h.ListPlayers).Methods(http.MethodGet)
	admin.HandleFunc("/players", h.CreatePlayer).Methods(http.MethodPost)
	admin.HandleFunc("/players/{id}", h.GetPlayer).Methods(http.MethodGet)
	admin.HandleFunc("/players/{id}", h.UpdatePlayer).Methods(http.MethodPut)
	admin.HandleFunc("/players/{id}", h.DeletePlayer).Methods(http.MethodDelete)
	admin.HandleFunc("/players/{id}/entries", h.ListPlayerEntries).Methods(http.MethodGet)
	admin.HandleFunc("/sheets/sync", h.SyncSheets).Methods(http.MethodPost)
	admin.HandleFunc("/sheets/create", h.CreateSpreadsheet).Methods(http.MethodPost)

	return r
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Health(r.Context()); err != nil {
		JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
