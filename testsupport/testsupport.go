// Package testsupport builds the stores used by package tests: an in-memory
// SQLite catalog schema and a miniredis backed cache client.
package testsupport

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dailyyoga/menuhub/cache"
	"github.com/dailyyoga/menuhub/db"
	"github.com/dailyyoga/menuhub/logger"
	"github.com/dailyyoga/menuhub/model"
	"gorm.io/gorm"
)

// NewDB returns a migrated, isolated in-memory catalog database
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	database, err := db.New(logger.NewNop(), &db.Config{
		Driver:   db.DriverSQLite,
		Path:     ":memory:",
		LogLevel: "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	gdb, err := database.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	if err := model.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// NewRedis returns a client connected to a fresh miniredis server. The
// server is returned so tests can inspect keys or fast-forward TTLs.
func NewRedis(t testing.TB) (cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := cache.NewRedis(logger.NewNop(), &cache.RedisConfig{
		Addr:        mr.Addr(),
		DialTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("connect miniredis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}
