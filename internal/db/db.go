package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"teamup/migrations"
)

// Postgres error codes the repository maps to sentinels.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// Ping checks the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// SeedDevData inserts a few event types and interests for development.
// Existing rows are left alone.
func (d *DB) SeedDevData(ctx context.Context) error {
	for _, name := range []string{"Conference", "Meetup", "Hike", "Board games", "Concert"} {
		if _, err := d.Pool.Exec(ctx,
			`INSERT INTO event_types (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("failed to seed event type %s: %w", name, err)
		}
	}

	interests := []struct {
		title       string
		description string
	}{
		{"Programming", "Talks, hackathons and code reviews"},
		{"Sport", "Running, cycling, football"},
		{"Music", "Concerts and jam sessions"},
		{"Travel", "Trips and hikes"},
	}
	for _, i := range interests {
		if _, err := d.Pool.Exec(ctx,
			`INSERT INTO interests (title, short_description) VALUES ($1, $2) ON CONFLICT (title) DO NOTHING`,
			i.title, i.description); err != nil {
			return fmt.Errorf("failed to seed interest %s: %w", i.title, err)
		}
	}

	return nil
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
