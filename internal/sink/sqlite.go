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
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

// maxSQLiteParams stays under SQLite's bound-parameter limit.
const maxSQLiteParams = 32000

// SQLiteLoader loads tables into a SQLite file using batched multi-row
// inserts inside one transaction per table.
type SQLiteLoader struct {
	db        *sql.DB
	BatchSize int
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(path string, batchSize int) (*SQLiteLoader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer; WAL keeps readers unblocked during a load.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if batchSize <= 0 {
		batchSize = datagen.DefaultBatchConfig().BatchSize
	}

	logging.Debug().Str("path", path).Int("batch_size", batchSize).Msg("Opened sqlite database")
	return &SQLiteLoader{db: db, BatchSize: batchSize}, nil
}

// DB returns the underlying database handle.
func (l *SQLiteLoader) DB() *sql.DB {
	return l.db
}

// Close closes the database.
func (l *SQLiteLoader) Close() error {
	return l.db.Close()
}

// Load implements Loader.
func (l *SQLiteLoader) Load(ctx context.Context, t *datagen.Table, policy ConflictPolicy) (LoadResult, error) {
	name := quoteIdent(t.Name)

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	err = tx.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", t.Name).Scan(&count)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to check table %s: %w", t.Name, err)
	}

	if count > 0 {
		switch policy {
		case PolicyFail:
			return LoadResult{}, fmt.Errorf("table %s: %w", t.Name, ErrTableExists)
		case PolicyReplace:
			if _, err := tx.ExecContext(ctx, "DROP TABLE "+name); err != nil {
				return LoadResult{}, fmt.Errorf("failed to drop table %s: %w", t.Name, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx, sqliteDialect.createTable(name, t)); err != nil {
		return LoadResult{}, fmt.Errorf("failed to create table %s: %w", t.Name, err)
	}

	batch := l.BatchSize
	if cols := len(t.Columns); cols > 0 && batch*cols > maxSQLiteParams {
		batch = max(1, maxSQLiteParams/cols)
	}

	progress := datagen.NewProgressReporter(t.Name, "Loading data", int64(t.Len()), 0)
	var written int64
	for start := 0; start < len(t.Rows); start += batch {
		end := min(start+batch, len(t.Rows))
		query, args := l.insert(name, t, start, end)
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return LoadResult{}, fmt.Errorf("failed to insert into %s: %w", t.Name, err)
		}
		n, _ := res.RowsAffected()
		written += n
		progress.Update(int64(end - start))
	}

	if err := tx.Commit(); err != nil {
		return LoadResult{}, fmt.Errorf("failed to commit %s: %w", t.Name, err)
	}
	progress.Done()

	return LoadResult{Success: true, RowsWritten: written}, nil
}

// insert builds one multi-row INSERT for rows [start, end).
func (l *SQLiteLoader) insert(name string, t *datagen.Table, start, end int) (string, []any) {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quoteIdent(c.Name)
	}
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", name, strings.Join(cols, ", "))
	args := make([]any, 0, (end-start)*len(cols))
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte(',')
		}
		b.WriteString(placeholder)
		for j, v := range t.Rows[i] {
			args = append(args, sqliteValue(t.Columns[j].Type, v))
		}
	}
	return b.String(), args
}

// sqliteValue stores dates and timestamps in the same text form as the CSV
// output.
func sqliteValue(typ datagen.ColumnType, v any) any {
	if tv, ok := v.(time.Time); ok {
		return datagen.FormatValue(typ, tv)
	}
	return v
}
