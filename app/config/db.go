package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// OpenDB opens the configured database. The connection is not pinged; use
// WaitPing to confirm the database is reachable.
func OpenDB(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite" {
		// Single writer prevents SQLITE_BUSY under concurrent requests.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// WaitPing pings the database until it answers, retrying once per second up
// to attempts times. The database container may still be starting when the
// server comes up.
func WaitPing(ctx context.Context, db *sql.DB, attempts int) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database not reachable after %d attempts: %w", attempts, err)
}
