package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-erp/gate"
	"github.com/diewo77/go-erp/internal/db"
	"github.com/diewo77/go-erp/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

var (
	salesRep = Actor{UserID: 1, Permissions: gate.ParseGrants("quote:create", "quote:update", "quote:submit")}
	manager  = Actor{UserID: 2, Permissions: gate.ParseGrants("quote:*")}
	admin    = Actor{UserID: 3, Permissions: gate.ParseGrants("*:*")}
	stranger = Actor{UserID: 4}
)

// fixture is the reference data most tests quote against: a company in Harare
// selling crushed stone, and a priced route Harare -> Bulawayo.
type fixture struct {
	company  models.Company
	project  models.Project
	customer models.Customer
	stone    models.StockItem
	route    models.Route
}

func seedFixture(t *testing.T, conn *gorm.DB) fixture {
	t.Helper()
	var f fixture
	f.company = models.Company{Name: "Acme Quarries", City: "Harare"}
	mustCreate(t, conn, &f.company)
	f.project = models.Project{CompanyID: f.company.ID, Name: "North pit"}
	mustCreate(t, conn, &f.project)
	f.customer = models.Customer{Name: "BuildCo"}
	mustCreate(t, conn, &f.customer)
	f.stone = models.StockItem{
		ProjectID: f.project.ID,
		Name:      "Crushed stone 19mm",
		UOM:       "TON",
		UnitPrice: dec("50"),
		IsActive:  true,
	}
	mustCreate(t, conn, &f.stone)
	f.route = models.Route{
		FromCity:   "Harare",
		ToCity:     "Bulawayo",
		DistanceKm: dec("100"),
		CostPerKm:  decimal.NewNullDecimal(dec("2")),
		Tolls:      []models.RouteToll{{Name: "Norton plaza", Amount: dec("30")}},
	}
	mustCreate(t, conn, &f.route)
	return f
}

func mustCreate(t *testing.T, conn *gorm.DB, v any) {
	t.Helper()
	if err := conn.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// deliveredInput is a quote for 10 t of stone delivered to Bulawayo.
func (f fixture) deliveredInput() CreateQuoteInput {
	return CreateQuoteInput{
		CompanyID:       f.company.ID,
		ProjectID:       f.project.ID,
		CustomerID:      f.customer.ID,
		DeliveryMethod:  models.DeliveryMethodDelivered,
		DeliveryAddress: "12 Main Street, Bulawayo, Zimbabwe",
		Items: []QuoteItemInput{
			{StockItemID: f.stone.ID, Qty: dec("10"), UnitPrice: dec("50")},
		},
	}
}

func newTestService(conn *gorm.DB, clock *fakeClock, opts ...Option) *QuoteService {
	return NewQuoteService(conn, append([]Option{WithClock(clock.Now)}, opts...)...)
}

func reload(t *testing.T, conn *gorm.DB, id uint) models.Quote {
	t.Helper()
	var q models.Quote
	if err := conn.Preload("Items").First(&q, id).Error; err != nil {
		t.Fatalf("reload quote %d: %v", id, err)
	}
	return q
}
