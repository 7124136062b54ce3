package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"lifestory/internal/infrastructure/persistence/sqlite/model"
)

func setupSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "cache.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(&model.CacheEntry{}); err != nil {
		t.Fatalf("auto migrate cache_entries: %v", err)
	}
	return NewSQLiteCache(db)
}

func TestSQLiteCacheSetGetDelete(t *testing.T) {
	cache := setupSQLiteCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "riskcheck:abc", `{"correctedContent":"a","log":[]}`, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	value, found, err := cache.Get(ctx, "riskcheck:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != `{"correctedContent":"a","log":[]}` {
		t.Fatalf("Get() = %q, %v", value, found)
	}

	if err := cache.Set(ctx, "riskcheck:abc", "second", 0); err != nil {
		t.Fatalf("Set(update) error = %v", err)
	}
	value, _, _ = cache.Get(ctx, "riskcheck:abc")
	if value != "second" {
		t.Fatalf("Get() after update = %q", value)
	}

	if err := cache.Delete(ctx, "riskcheck:abc"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, found, err := cache.Get(ctx, "riskcheck:abc"); err != nil || found {
		t.Fatalf("Get() after delete found=%v err=%v", found, err)
	}
}

func TestSQLiteCacheExpiry(t *testing.T) {
	cache := setupSQLiteCache(t)
	ctx := context.Background()

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	if err := cache.Set(ctx, "k", "v", time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	now = now.Add(59 * time.Minute)
	if _, found, _ := cache.Get(ctx, "k"); !found {
		t.Fatal("entry expired early")
	}
	now = now.Add(time.Minute)
	if _, found, err := cache.Get(ctx, "k"); err != nil || found {
		t.Fatalf("Get() after ttl found=%v err=%v", found, err)
	}
	if err := cache.Set(ctx, "k", "v", -time.Second); err == nil {
		t.Fatal("Set() with negative ttl error = nil")
	}
}

func TestSQLiteCacheRejectsEmptyKey(t *testing.T) {
	cache := setupSQLiteCache(t)
	if _, _, err := cache.Get(context.Background(), "  "); err == nil {
		t.Fatal("Get() empty key error = nil")
	}
}
