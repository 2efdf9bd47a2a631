package testing

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/2beens/gymplanner/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// GetDBPool connects to POSTGRES_HOST:5432 (localhost by default), database
// gymplanner, and applies the repo migrations. The pool is closed when the test ends.
func GetDBPool(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	t.Cleanup(cancel)

	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		host = "localhost"
	}
	t.Logf("using postgres host: %s", host)

	params := db.NewDBPoolParams{
		DBHost:     host,
		DBPort:     "5432",
		DBName:     "gymplanner",
		DBPassword: os.Getenv("POSTGRES_PASSWORD"),
	}
	require.NoError(t, db.RunMigrations(db.ConnString(params), MigrationsPath()))

	dbPool, err := db.NewDBPool(ctx, params)
	require.NoError(t, err)
	t.Cleanup(dbPool.Close)

	require.NoError(t, dbPool.Ping(ctx))
	return ctx, dbPool
}

// MigrationsPath is the absolute path of the migrations dir in the repo root.
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
