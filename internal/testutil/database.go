package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TestDatabase is a live PostgreSQL connection for integration tests
type TestDatabase struct {
	URL  string
	Pool *pgxpool.Pool
}

// NewTestDatabase connects to the database named by TEST_DATABASE_URL, or
// built from the POSTGRES_* variables. The test is skipped when neither is
// configured.
func NewTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	databaseURL, ok := buildDatabaseURL()
	if !ok {
		t.Skip("TEST_DATABASE_URL or POSTGRES_HOST not set, skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("Failed to ping database: %v", err)
	}

	t.Cleanup(pool.Close)

	return &TestDatabase{URL: databaseURL, Pool: pool}
}

func buildDatabaseURL() (string, bool) {
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url, true
	}

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return "", false
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv("POSTGRES_USER", "postgres"),
		getenv("POSTGRES_PASSWORD", "postgres"),
		host,
		getenv("POSTGRES_PORT", "5432"),
		getenv("POSTGRES_DB", "helm_test"),
	), true
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
