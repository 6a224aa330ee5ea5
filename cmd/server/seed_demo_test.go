package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:seed-demo-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func TestSeedDemoBackfillsWeekAndStreak(t *testing.T) {
	gdb := setupSeedTestDB(t)
	if _, err := db.EnsureUser(gdb, "Demo", "demo@example.com", "pw"); err != nil {
		t.Fatalf("ensure user failed: %v", err)
	}
	var user db.User
	if err := gdb.Where("email = ?", "demo@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}

	records := store.NewRecordStore(gdb)
	engagement := store.NewEngagementStore(gdb)
	now := time.Date(2024, 8, 10, 20, 0, 0, 0, time.UTC)

	count, err := seedDemo(context.Background(), records, engagement, user.ID, now, 7)
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if count != 7*len(demoDay) {
		t.Fatalf("expected %d records, got %d", 7*len(demoDay), count)
	}

	state, err := engagement.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("get engagement failed: %v", err)
	}
	if state.StreakCount != 7 {
		t.Fatalf("expected streak 7 after a week, got %d", state.StreakCount)
	}
	if footprint.ResolveBadge(state.StreakCount).Tier != footprint.TierBronze {
		t.Fatalf("expected bronze badge after a week")
	}

	latest, err := records.Query(context.Background(), store.RecordQuery{OwnerID: user.ID, Latest: 1})
	if err != nil || len(latest) != 1 {
		t.Fatalf("query latest failed: %v %v", latest, err)
	}
	if latest[0].Category != footprint.Lifestyle {
		t.Fatalf("expected last inserted record to be lifestyle, got %s", latest[0].Category)
	}

	if _, err := seedDemo(context.Background(), records, engagement, user.ID, now, 0); err == nil {
		t.Fatal("expected error for non-positive days")
	}
}
