// Package migrations registers the schema migrations with goose.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

// Dir is the directory goose reports for the Go migrations registered here.
const Dir = "."

// Up applies every pending migration over a short-lived lib/pq connection.
func Up(ctx context.Context, dsn string) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return goose.UpContext(ctx, db, Dir)
}

// Run executes a goose command such as "up", "down", "status" or "reset".
func Run(ctx context.Context, dsn, command string, args ...string) error {
	db, err := open(dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	return goose.RunContext(ctx, command, db, Dir, args...)
}

func open(dsn string) (*sql.DB, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}
