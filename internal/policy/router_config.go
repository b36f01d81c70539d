package policy

import (
	"log/slog"
	"time"

	"github.com/diewo77/go-erp/internal/handlers"
	"github.com/diewo77/go-erp/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds the configured gate, services and handlers the router
// mounts.
type RouterConfig struct {
	AuthGate *AuthGate

	QuoteService *services.QuoteService
	RouteService *services.RouteService

	QuoteHandler            *handlers.QuoteHandler
	RouteHandler            *handlers.RouteHandler
	AdminUserProfileHandler *handlers.AdminUserProfileHandler
}

// NewRouterConfig wires the gate and handlers around an already configured
// quote service.
func NewRouterConfig(db *gorm.DB, quotes *services.QuoteService, cacheTTL time.Duration, log *slog.Logger) *RouterConfig {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	authGate := NewAuthGate(db, cacheTTL)
	routes := services.NewRouteService(db)

	return &RouterConfig{
		AuthGate:                authGate,
		QuoteService:            quotes,
		RouteService:            routes,
		QuoteHandler:            handlers.NewQuoteHandler(quotes, authGate, log),
		RouteHandler:            handlers.NewRouteHandler(routes, log),
		AdminUserProfileHandler: handlers.NewAdminUserProfileHandler(db, authGate, log),
	}
}
