package db

import (
	"context"
	"fmt"
	"net/url"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBPassword     string
	TracingEnabled bool
}

// ConnString builds the postgres DSN used by both the pool and the migrator.
func ConnString(params NewDBPoolParams) string {
	user := url.User("postgres")
	if params.DBPassword != "" {
		user = url.UserPassword("postgres", params.DBPassword)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     user,
		Host:     params.DBHost + ":" + params.DBPort,
		Path:     "/" + params.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnString(params))
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}
