package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/eslsoft/lexdrill/internal/infrastructure/config"
)

// NewConnection opens the progress database. The driver is either sqlite3
// (DSN is a file path) or postgres (DSN is a connection string).
func NewConnection(cfg *config.Config) (*sql.DB, func(), error) {
	driver := cfg.Database.Driver
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if driver == "postgres" {
		db.SetMaxOpenConns(10)
	} else {
		// sqlite3 serializes writers; more connections only add lock churn.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, func() { db.Close() }, fmt.Errorf("ping db: %w", err)
	}

	cleanup := func() { db.Close() }
	return db, cleanup, nil
}
