package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rblog/rblog/internal/config"
	"github.com/rblog/rblog/internal/database"
	"github.com/rblog/rblog/internal/models"
	"github.com/rblog/rblog/pkg/logger"
)

// TestDatabase holds test database connection (in-memory SQLite)
type TestDatabase struct {
	DB *gorm.DB
}

// TestRedis holds test Redis mock (miniredis)
type TestRedis struct {
	Server *miniredis.Miniredis
	URL    string
}

// SetupTestDatabase creates an in-memory SQLite database with the real
// models migrated and the three roles seeded. The production models work on
// SQLite directly because user IDs are assigned in Go, never by the
// database.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedRoles(db); err != nil {
		t.Fatalf("Failed to seed roles: %v", err)
	}

	return &TestDatabase{DB: db}
}

// Teardown closes the test database connection.
func (td *TestDatabase) Teardown(t *testing.T) {
	sqlDB, err := td.DB.DB()
	if err != nil {
		t.Logf("Warning: Failed to get underlying DB: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Logf("Warning: Failed to close database: %v", err)
	}
}

// CleanDatabase deletes all content rows for test isolation. Roles stay
// seeded.
func CleanDatabase(t *testing.T, db *gorm.DB) {
	t.Helper()
	tables := []string{"comments", "posts", "follows", "users"}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("Warning: Failed to clean table %s: %v", table, err)
		}
	}
}

// SetupTestRedis starts an in-memory Redis mock for rate limiter tests.
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()
	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	return &TestRedis{
		Server: server,
		URL:    fmt.Sprintf("redis://%s", server.Addr()),
	}
}

func (tr *TestRedis) Teardown(t *testing.T) {
	tr.Server.Close()
}

// TestConfig returns a config suitable for wiring services in tests, with
// short TTLs and no external endpoints.
func TestConfig() *config.Config {
	return &config.Config{
		Environment:         "development",
		SecretKey:           "test-secret-key",
		JWTSecret:           "test-jwt-secret",
		JWTExpiry:           1 * time.Hour,
		ConfirmTokenTTL:     1 * time.Hour,
		ResetTokenTTL:       30 * time.Minute,
		ChangeEmailTokenTTL: 30 * time.Minute,
		PostsPerPage:        20,
		CommentsPerPage:     30,
		FollowsPerPage:      50,
		UsersPerPage:        50,
	}
}

// InitTestLogger initializes the global logger quietly; handlers and
// services log unconditionally.
func InitTestLogger(t *testing.T) {
	t.Helper()
	if logger.Log == nil {
		if err := logger.Init(false); err != nil {
			t.Fatalf("Failed to initialize logger: %v", err)
		}
	}
}
