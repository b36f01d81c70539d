package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_HOST", "DB_PORT", "APP_ENV", "MIGRATIONS", "ARCHIVE_SCHEDULE", "ARCHIVE_ENABLED", "PERMISSION_CACHE_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 || cfg.Database.DBName != "erp" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if !cfg.App.Dev() || !cfg.App.Migrations {
		t.Errorf("App = %+v", cfg.App)
	}
	if cfg.App.PermissionCacheTTL != 5*time.Minute {
		t.Errorf("PermissionCacheTTL = %v", cfg.App.PermissionCacheTTL)
	}
	if !cfg.Archive.Enabled || cfg.Archive.Schedule != "0 2 * * *" {
		t.Errorf("Archive = %+v", cfg.Archive)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ARCHIVE_ENABLED", "no")
	t.Setenv("ARCHIVE_SCHEDULE", "30 1 * * *")
	t.Setenv("METRICS_ENABLED", "yes")
	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("invalid DB_PORT should fall back to default, got %d", cfg.Database.Port)
	}
	if cfg.App.Dev() {
		t.Error("production must not be dev")
	}
	if !cfg.App.MetricsEnabled {
		t.Error("METRICS_ENABLED=yes should enable metrics")
	}
	if cfg.Archive.Enabled || cfg.Archive.Schedule != "30 1 * * *" {
		t.Errorf("Archive = %+v", cfg.Archive)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "erp", SSLMode: "require"}
	if got, want := d.DSN(), "host=db port=5433 user=u password=p dbname=erp sslmode=require"; got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
	if got, want := d.URL(), "postgres://u:p@db:5433/erp?sslmode=require"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}
