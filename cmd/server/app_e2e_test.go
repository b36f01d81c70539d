package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-erp/auth"
	"github.com/diewo77/go-erp/internal/db"
	"github.com/diewo77/go-erp/internal/metrics"
	"github.com/diewo77/go-erp/internal/models"
	"github.com/diewo77/go-erp/internal/policy"
	"github.com/diewo77/go-erp/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type e2e struct {
	app      *App
	db       *gorm.DB
	users    map[string]uint
	createIn services.CreateQuoteInput
}

func setupE2E(t *testing.T) *e2e {
	t.Helper()
	dbi, err := gorm.Open(sqlite.Open("file:e2e_"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := dbi.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := db.Migrate(dbi); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Seed(dbi); err != nil {
		t.Fatalf("seed: %v", err)
	}

	users := map[string]uint{}
	for _, profile := range []string{"sales", "sales_manager", "viewer", "admin"} {
		var p models.Profile
		if err := dbi.Where("name = ?", profile).First(&p).Error; err != nil {
			t.Fatalf("profile %s: %v", profile, err)
		}
		u := models.User{Email: profile + "@example.com", Active: true, ProfileID: &p.ID}
		if err := dbi.Create(&u).Error; err != nil {
			t.Fatalf("user: %v", err)
		}
		users[profile] = u.ID
	}

	company := models.Company{Name: "Acme Quarries", City: "Harare"}
	project := models.Project{Name: "North pit"}
	customer := models.Customer{Name: "BuildCo"}
	for _, v := range []any{&company, &customer} {
		if err := dbi.Create(v).Error; err != nil {
			t.Fatalf("create %T: %v", v, err)
		}
	}
	project.CompanyID = company.ID
	stone := models.StockItem{Name: "Crushed stone", UOM: "TON", UnitPrice: decimal.NewFromInt(50), IsActive: true}
	route := models.Route{
		FromCity:   "Harare",
		ToCity:     "Bulawayo",
		DistanceKm: decimal.NewFromInt(100),
		CostPerKm:  decimal.NewNullDecimal(decimal.NewFromInt(2)),
		Tolls:      []models.RouteToll{{Name: "Norton plaza", Amount: decimal.NewFromInt(30)}},
	}
	if err := dbi.Create(&project).Error; err != nil {
		t.Fatalf("project: %v", err)
	}
	stone.ProjectID = project.ID
	for _, v := range []any{&stone, &route} {
		if err := dbi.Create(v).Error; err != nil {
			t.Fatalf("create %T: %v", v, err)
		}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	quotes := services.NewQuoteService(dbi, services.WithMetrics(metrics.New(reg)), services.WithLogger(log))
	routerCfg := policy.NewRouterConfig(dbi, quotes, time.Minute, log)
	app := NewApp(dbi, routerCfg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), log)

	return &e2e{
		app:   app,
		db:    dbi,
		users: users,
		createIn: services.CreateQuoteInput{
			CompanyID:      company.ID,
			ProjectID:      project.ID,
			CustomerID:     customer.ID,
			DeliveryMethod: models.DeliveryMethodDelivered,
			DeliveryCity:   "Bulawayo",
			Items: []services.QuoteItemInput{
				{StockItemID: stone.ID, Qty: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(50)},
			},
		},
	}
}

// do sends a request as the user holding profile; an empty profile is anonymous.
func (e *e2e) do(t *testing.T, profile, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if profile != "" {
		req.Header.Set("Authorization", "Bearer "+auth.Token(e.users[profile]))
	}
	rec := httptest.NewRecorder()
	withLogging(slog.New(slog.NewTextHandler(io.Discard, nil)), e.app).ServeHTTP(rec, req)
	return rec
}

func TestHealthE2E(t *testing.T) {
	e := setupE2E(t)
	rec := e.do(t, "", http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", rec.Code, rec.Body)
	}
}

func TestQuoteApprovalE2E(t *testing.T) {
	e := setupE2E(t)

	if rec := e.do(t, "", http.MethodPost, "/api/quotes", e.createIn); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status %d, want 401", rec.Code)
	}
	if rec := e.do(t, "viewer", http.MethodPost, "/api/quotes", e.createIn); rec.Code != http.StatusForbidden {
		t.Fatalf("viewer create: status %d, want 403", rec.Code)
	}

	rec := e.do(t, "sales", http.MethodPost, "/api/quotes", e.createIn)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", rec.Code, rec.Body)
	}
	var q models.Quote
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatal(err)
	}
	if !q.GrandTotal.Equal(decimal.NewFromInt(2530)) || q.RouteID == nil {
		t.Fatalf("grand total %s route %v", q.GrandTotal, q.RouteID)
	}
	base := fmt.Sprintf("/api/quotes/%d", q.ID)

	if rec := e.do(t, "viewer", http.MethodGet, base, nil); rec.Code != http.StatusForbidden {
		t.Errorf("viewer reading another's quote: status %d, want 403", rec.Code)
	}
	if rec := e.do(t, "sales", http.MethodPost, base+"/submit", nil); rec.Code != http.StatusOK {
		t.Fatalf("submit: status %d body %s", rec.Code, rec.Body)
	}
	if rec := e.do(t, "sales", http.MethodPost, base+"/approve", nil); rec.Code != http.StatusForbidden {
		t.Errorf("sales approve: status %d, want 403", rec.Code)
	}
	if rec := e.do(t, "sales_manager", http.MethodPost, base+"/approve", map[string]string{"notes": "ok"}); rec.Code != http.StatusOK {
		t.Fatalf("approve: status %d body %s", rec.Code, rec.Body)
	}

	var n int64
	e.db.Model(&models.Notification{}).Where("user_id = ?", e.users["sales"]).Count(&n)
	if n != 1 {
		t.Errorf("owner notifications = %d, want 1", n)
	}

	metricsBody := e.do(t, "", http.MethodGet, "/metrics", nil).Body.String()
	for _, want := range []string{`erp_quote_transitions_total{action="SUBMIT"} 1`, `erp_quote_transitions_total{action="APPROVE"} 1`} {
		if !strings.Contains(metricsBody, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestAdminAssignProfileE2E(t *testing.T) {
	e := setupE2E(t)
	var mgr models.Profile
	if err := e.db.Where("name = ?", "sales_manager").First(&mgr).Error; err != nil {
		t.Fatal(err)
	}
	path := fmt.Sprintf("/api/admin/users/%d/profile", e.users["sales"])
	body := map[string]uint{"profile_id": mgr.ID}

	if rec := e.do(t, "sales_manager", http.MethodPut, path, body); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin assign: status %d, want 403", rec.Code)
	}
	// Warm the permission cache before the promotion.
	if rec := e.do(t, "sales", http.MethodGet, "/api/quotes/export", nil); rec.Code != http.StatusForbidden {
		t.Fatalf("sales export: status %d, want 403", rec.Code)
	}
	if rec := e.do(t, "admin", http.MethodPut, path, body); rec.Code != http.StatusOK {
		t.Fatalf("assign: status %d body %s", rec.Code, rec.Body)
	}
	if rec := e.do(t, "sales", http.MethodGet, "/api/quotes/export", nil); rec.Code != http.StatusOK {
		t.Errorf("promoted export: status %d, want 200", rec.Code)
	}
}
