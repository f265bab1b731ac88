// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"teamup/internal/db"
	"teamup/internal/models"
	"teamup/internal/wordfilter"
)

// TestDB creates a test database connection and returns a cleanup function.
// The test is skipped unless TEST_DATABASE_URL is set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database.Pool)

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	// Delete in order to respect foreign keys
	pool.Exec(ctx, "DELETE FROM events")
	pool.Exec(ctx, "DELETE FROM users")
	pool.Exec(ctx, "DELETE FROM event_types")
	pool.Exec(ctx, "DELETE FROM interests")
}

// CreateTestUser creates a password user with the given role.
func CreateTestUser(t *testing.T, database *db.DB, email, role string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Name:         "Test User " + email,
		PasswordHash: "test-hash",
		Role:         role,
	}
	if err := database.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// NewUser returns an in-memory user with a fresh ID, for tests that do not
// touch the database.
func NewUser(role string) *models.User {
	id := uuid.New()
	return &models.User{
		ID:    id,
		Email: id.String() + "@example.com",
		Name:  "User " + id.String()[:8],
		Role:  role,
	}
}

// NewFilter builds a content filter with a small fixed vocabulary.
// "casino" and "drugs" are forbidden; "advert" and "promo" need review.
func NewFilter() *wordfilter.Filter {
	return wordfilter.New(
		[]string{"casino", "drugs"},
		[]string{"advert", "promo"},
	)
}
