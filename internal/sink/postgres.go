//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package sink

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
)

// PostgresLoader loads tables with COPY, one transaction per table.
type PostgresLoader struct {
	pool   *pgxpool.Pool
	schema string

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// NewPostgresLoader creates a loader writing into schema. An empty schema
// uses the connection's search_path.
func NewPostgresLoader(pool *pgxpool.Pool, schema string) *PostgresLoader {
	return &PostgresLoader{
		pool:             pool,
		schema:           schema,
		ProgressInterval: datagen.DefaultBatchConfig().ProgressInterval,
	}
}

func (l *PostgresLoader) identifier(table string) pgx.Identifier {
	if l.schema == "" {
		return pgx.Identifier{table}
	}
	return pgx.Identifier{l.schema, table}
}

// Load implements Loader.
func (l *PostgresLoader) Load(ctx context.Context, t *datagen.Table, policy ConflictPolicy) (LoadResult, error) {
	ident := l.identifier(t.Name)
	name := ident.Sanitize()

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if l.schema != "" {
		if _, err := tx.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{l.schema}.Sanitize()); err != nil {
			return LoadResult{}, fmt.Errorf("failed to create schema %s: %w", l.schema, err)
		}
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", name).Scan(&exists); err != nil {
		return LoadResult{}, fmt.Errorf("failed to check table %s: %w", t.Name, err)
	}

	if exists {
		switch policy {
		case PolicyFail:
			return LoadResult{}, fmt.Errorf("table %s: %w", name, ErrTableExists)
		case PolicyReplace:
			if _, err := tx.Exec(ctx, "DROP TABLE "+name); err != nil {
				return LoadResult{}, fmt.Errorf("failed to drop table %s: %w", t.Name, err)
			}
		}
	}

	if _, err := tx.Exec(ctx, postgresDialect.createTable(name, t)); err != nil {
		return LoadResult{}, fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}

	progress := datagen.NewProgressReporter(t.Name, "Loading data", int64(t.Len()), l.ProgressInterval)
	i := 0
	src := pgx.CopyFromFunc(func() ([]any, error) {
		if i >= len(t.Rows) {
			return nil, nil
		}
		row := t.Rows[i]
		i++
		progress.Update(1)
		return row, nil
	})

	n, err := tx.CopyFrom(ctx, ident, t.ColumnNames(), src)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to copy into %s: %w", t.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return LoadResult{}, fmt.Errorf("failed to commit %s: %w", t.Name, err)
	}
	progress.Done()

	return LoadResult{Success: true, RowsWritten: n}, nil
}
