package main

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-erp/auth"
	"github.com/diewo77/go-erp/gate"
	"github.com/diewo77/go-erp/httpx"
	"github.com/diewo77/go-erp/internal/policy"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *policy.RouterConfig
	metrics   http.Handler
	log       *slog.Logger
}

// NewApp creates the application. A nil metricsHandler leaves /metrics
// unmounted.
func NewApp(db *gorm.DB, routerCfg *policy.RouterConfig, metricsHandler http.Handler, log *slog.Logger) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
		metrics:   metricsHandler,
		log:       log,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	auth.Middleware(a.mux).ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Ops
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.HandleFunc("GET /health", a.health)
	if a.metrics != nil {
		a.mux.Handle("GET /metrics", a.metrics)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// Quotes
	// ─────────────────────────────────────────────────────────────────────────
	qh := a.routerCfg.QuoteHandler

	a.mux.Handle("GET /api/quotes",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionList)(http.HandlerFunc(qh.List))))
	a.mux.Handle("POST /api/quotes",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionCreate)(http.HandlerFunc(qh.Create))))
	a.mux.Handle("GET /api/quotes/export",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionExport)(http.HandlerFunc(qh.Export))))
	a.mux.Handle("GET /api/quotes/{id}",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionView)(http.HandlerFunc(qh.Get))))
	a.mux.Handle("GET /api/quotes/{id}/audit",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionApprove)(http.HandlerFunc(qh.Audit))))
	a.mux.Handle("PUT /api/quotes/{id}",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionUpdate)(http.HandlerFunc(qh.Update))))
	// Owners may delete their drafts without quote:delete; the service decides.
	a.mux.Handle("DELETE /api/quotes/{id}",
		a.requireAuth(http.HandlerFunc(qh.Delete)))

	a.mux.Handle("POST /api/quotes/{id}/submit",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionSubmit)(http.HandlerFunc(qh.Submit))))
	a.mux.Handle("POST /api/quotes/{id}/withdraw",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionWithdraw)(http.HandlerFunc(qh.Withdraw))))
	a.mux.Handle("POST /api/quotes/{id}/approve",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionApprove)(http.HandlerFunc(qh.Approve))))
	a.mux.Handle("POST /api/quotes/{id}/reject",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionReject)(http.HandlerFunc(qh.Reject))))
	a.mux.Handle("POST /api/quotes/{id}/outcome",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionApprove)(http.HandlerFunc(qh.Outcome))))
	a.mux.Handle("POST /api/quotes/{id}/archive",
		a.requireAuth(a.requirePermission(policy.QuoteResource, gate.ActionArchive)(http.HandlerFunc(qh.Archive))))

	// ─────────────────────────────────────────────────────────────────────────
	// Routes
	// ─────────────────────────────────────────────────────────────────────────
	rh := a.routerCfg.RouteHandler

	a.mux.Handle("GET /api/routes/{id}/tolls",
		a.requireAuth(a.requirePermission(policy.RouteResource, gate.ActionView)(http.HandlerFunc(rh.Tolls))))
	a.mux.Handle("POST /api/routes/{id}/transport",
		a.requireAuth(a.requirePermission(policy.RouteResource, gate.ActionView)(http.HandlerFunc(rh.Transport))))

	// ─────────────────────────────────────────────────────────────────────────
	// Admin
	// ─────────────────────────────────────────────────────────────────────────
	auph := a.routerCfg.AdminUserProfileHandler

	a.mux.Handle("GET /api/admin/users",
		a.requireAuth(a.requireAdmin(http.HandlerFunc(auph.List))))
	a.mux.Handle("PUT /api/admin/users/{id}/profile",
		a.requireAuth(a.requireAdmin(http.HandlerFunc(auph.AssignProfile))))
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth answers 401 unless a verified user is attached to the request.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

func (a *App) requireAdmin(next http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequireAdmin()(next)
}

func (a *App) requirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return a.routerCfg.AuthGate.RequirePermission(resourceType, action)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		a.log.Error("health check failed", "err", err)
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
