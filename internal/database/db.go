package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/justsurfingit/jobly/internal/config"
)

// DB owns the connection pool. Gorm opens and tunes the pool; the sqlx view
// over the same *sql.DB runs the hand-written queries.
type DB struct {
	*sqlx.DB

	log zerolog.Logger
}

// Connect opens the pool and verifies it with a ping bounded by
// cfg.ConnectTimeout. The caller must Close the returned DB.
func Connect(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get connection pool: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	db := Wrap(sqlDB, log)
	if err := db.Ping(ctx, cfg.ConnectTimeout); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Info().Int("max_open_conns", cfg.MaxOpenConns).Msg("Database connection established")
	return db, nil
}

// Wrap builds a DB around an already opened pool. The pgx stdlib driver
// registered by gorm's postgres dialector uses $n bind variables.
func Wrap(sqlDB *sql.DB, log zerolog.Logger) *DB {
	return &DB{
		DB:  sqlx.NewDb(sqlDB, "pgx"),
		log: log,
	}
}

// Ping checks connectivity within timeout (no limit when timeout is zero).
func (db *DB) Ping(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close releases the pool.
func (db *DB) Close() error {
	db.log.Info().Msg("Closing database connection")
	return db.DB.Close()
}

// Postgres error codes the services translate into application errors.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// ErrorCode returns the SQLSTATE of a Postgres error in err's chain, or "".
func ErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsNoRows reports whether err means a single-row query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
