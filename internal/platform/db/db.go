package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Open connects to the shared Postgres routing cache. The pool is kept small:
// cache reads happen at most twice per planned trip, so a handful of
// connections covers a whole fleet of servers.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}
