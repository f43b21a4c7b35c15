// Package sql implements a SQL database.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/jacobpatterson1549/grab/db"
)

type (
	// Database is a SQL database with shared configuration.
	Database struct {
		DB *sql.DB
		db.Config
	}

	// Query is a message that is sent to the database.
	Query interface {
		// Cmd is the injection-safe message to send to the database.
		Cmd() string
		// Args are the user-provided properties of the message which should be escaped.
		Args() []interface{}
	}
)

// ErrNoRows is returned by Query when there are no rows to scan.
var ErrNoRows = sql.ErrNoRows

// NewDatabase creates a Database from an open connection.
func NewDatabase(cfg db.Config, sqlDB *sql.DB) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating sql database: validation: %w", err)
	}
	if sqlDB == nil {
		return nil, fmt.Errorf("creating sql database: connection required")
	}
	d := Database{
		DB:     sqlDB,
		Config: cfg,
	}
	return &d, nil
}

// Setup initializes the database by reading the files and executing their contents as raw queries.
func (d Database) Setup(ctx context.Context, files []io.Reader) error {
	queries := make([]Query, len(files))
	for i, f := range files {
		b, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("reading sql setup query %v: %w", i, err)
		}
		queries[i] = RawQuery(b)
	}
	if err := d.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("running setup queries: %w", err)
	}
	return nil
}

// Query queries a single row, scanning into the destination arguments.
func (d Database) Query(ctx context.Context, q Query, dest ...interface{}) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	row := d.DB.QueryRowContext(ctx, q.Cmd(), q.Args()...)
	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("querying into destination arguments: %w", err)
	}
	return nil
}

// Exec evaluates multiple queries in a transaction, ensuring each ExecFunction only updates one row.
func (d Database) Exec(ctx context.Context, queries ...Query) error {
	ctx, cancelFunc := context.WithTimeout(ctx, d.QueryPeriod)
	defer cancelFunc()
	tx, err := d.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for i, q := range queries {
		result, err := tx.ExecContext(ctx, q.Cmd(), q.Args()...)
		if f, ok := q.(ExecFunction); err == nil && ok {
			var n int64
			n, err = result.RowsAffected()
			if err == nil && n != 1 {
				err = fmt.Errorf("wanted to update 1 row, but updated %d when calling %s", n, f.name)
			}
		}
		if err != nil {
			err = fmt.Errorf("executing query %v: %w", i, err)
			if err2 := tx.Rollback(); err2 != nil {
				return fmt.Errorf("rolling back transaction due to %v: %w", err, err2)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
