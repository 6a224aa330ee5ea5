package db

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/logger"
)

func TestOpenCreatesSQLiteFileAndTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "carbonlog.db")

	gdb, err := Open("sqlite", path, logger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("access sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file to exist: %v", err)
	}
	if !gdb.Migrator().HasTable(&User{}) || !gdb.Migrator().HasTable(&Footprint{}) {
		t.Fatal("expected users and footprints tables")
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 1 {
		t.Fatalf("expected a single sqlite connection, got %d", stats.MaxOpenConnections)
	}
}

func TestOpenRequiresPostgresDSN(t *testing.T) {
	if _, err := Open("postgres", "  ", logger.Silent); err == nil {
		t.Fatal("expected error for empty postgres dsn")
	}
}

func TestEnsureUserIsIdempotent(t *testing.T) {
	gdb, err := Open("sqlite", filepath.Join(t.TempDir(), "users.db"), logger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	sqlDB, _ := gdb.DB()
	t.Cleanup(func() { sqlDB.Close() })

	created, err := EnsureUser(gdb, "", " Root@Example.com ", "secret")
	if err != nil || !created {
		t.Fatalf("expected user to be created, got %v %v", created, err)
	}

	created, err = EnsureUser(gdb, "Root", "root@example.com", "other")
	if err != nil || created {
		t.Fatalf("expected existing user to be kept, got %v %v", created, err)
	}

	var user User
	if err := gdb.Where("email = ?", "root@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user failed: %v", err)
	}
	if user.Name != "root@example.com" {
		t.Fatalf("expected email as fallback name, got %q", user.Name)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")); err != nil {
		t.Fatalf("expected original password hash, got %v", err)
	}

	created, err = EnsureUser(gdb, "x", "", "pw")
	if err != nil || created {
		t.Fatalf("blank email should be a no-op, got %v %v", created, err)
	}
}

func TestFindUserByEmailNormalizes(t *testing.T) {
	gdb, err := Open("sqlite", filepath.Join(t.TempDir(), "lookup.db"), logger.Silent)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	sqlDB, _ := gdb.DB()
	t.Cleanup(func() { sqlDB.Close() })

	if _, err := EnsureUser(gdb, "Demo", "Demo@X.com", "pw"); err != nil {
		t.Fatalf("ensure user failed: %v", err)
	}

	user, err := FindUserByEmail(gdb, " Demo@X.com ")
	if err != nil {
		t.Fatalf("expected mixed-case lookup to succeed, got %v", err)
	}
	if user.Email != "demo@x.com" {
		t.Fatalf("expected stored lowercase email, got %q", user.Email)
	}
}
