package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dailyyoga/menuhub/db"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sqliteYAML = `
logger:
  level: debug
db:
  driver: sqlite
  path: menuhub.db
redis:
  addr: cache:6379
cache:
  ttl: 30m
http:
  addr: ":8080"
  allowed_origins: ["https://example.com"]
sync:
  enabled: true
  path: data/Menu.xlsx
  spec: "*/15 * * * * *"
`

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "menuhub.yaml", sqliteYAML)
	t.Setenv("MENUHUB_HTTP_ADDR", ":9000")
	t.Setenv("MENUHUB_SYNC_INTERVAL", "20s")
	t.Setenv("MENUHUB_REDIS_ENABLED", "false")
	t.Setenv("MENUHUB_SYNC_TIMEOUT", "2m")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Logger.Level != "debug" || cfg.Logger.Encoding != "json" {
		t.Errorf("unexpected logger config: %+v", cfg.Logger)
	}
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.Path != "menuhub.db" {
		t.Errorf("unexpected db config: %+v", cfg.DB)
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("expected ttl 30m, got %v", cfg.Cache.TTL)
	}
	if cfg.HTTP.Addr != ":9000" {
		t.Errorf("expected env to override http addr, got %q", cfg.HTTP.Addr)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 || cfg.HTTP.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("unexpected origins: %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.HTTP.ReadTimeout != 10*time.Second {
		t.Errorf("expected default read timeout, got %v", cfg.HTTP.ReadTimeout)
	}
	if !cfg.Sync.Enabled || cfg.Sync.Path != "data/Menu.xlsx" || cfg.Sync.Interval != 20*time.Second {
		t.Errorf("unexpected sync config: %+v", cfg.Sync)
	}
	if cfg.Sync.Timeout != 2*time.Minute {
		t.Errorf("expected sync timeout 2m, got %v", cfg.Sync.Timeout)
	}
	if cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "MENUHUB_DB_DRIVER=sqlite\nMENUHUB_DB_PATH=from-dotenv.db\n")
	t.Chdir(dir)
	t.Cleanup(func() {
		os.Unsetenv("MENUHUB_DB_DRIVER")
		os.Unsetenv("MENUHUB_DB_PATH")
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != db.DriverSQLite || cfg.DB.Path != "from-dotenv.db" {
		t.Errorf("expected .env values, got %+v", cfg.DB)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("expected default ttl, got %v", cfg.Cache.TTL)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	broken := writeFile(t, dir, "broken.yaml", "db: [")
	if _, err := Load(broken); err == nil {
		t.Error("expected an error for malformed yaml")
	}

	// mysql without connection details
	if _, err := Load(""); err == nil {
		t.Error("expected the default mysql config to be rejected")
	}

	valid := writeFile(t, dir, "valid.yaml", sqliteYAML)
	t.Setenv("MENUHUB_CACHE_TTL", "soon")
	if _, err := Load(valid); err == nil {
		t.Error("expected an error for an unparsable duration")
	}

	t.Setenv("MENUHUB_CACHE_TTL", "10ms")
	if _, err := Load(valid); err == nil {
		t.Error("expected a ttl below one second to be rejected")
	}
}
