//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sink writes generated tables to CSV files and loads them into
// PostgreSQL or SQLite.
package sink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

// ConflictPolicy decides what a loader does when the target table exists.
type ConflictPolicy string

const (
	// PolicyAppend inserts into the existing table.
	PolicyAppend ConflictPolicy = "append"
	// PolicyReplace drops and recreates the table.
	PolicyReplace ConflictPolicy = "replace"
	// PolicyFail refuses to touch an existing table.
	PolicyFail ConflictPolicy = "fail"
)

// ErrTableExists is returned under PolicyFail when the target table exists.
var ErrTableExists = errors.New("table already exists")

// ParseConflictPolicy parses a policy name.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch p := ConflictPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyAppend, PolicyReplace, PolicyFail:
		return p, nil
	default:
		return "", fmt.Errorf("invalid conflict policy %q (must be append, replace or fail)", s)
	}
}

// LoadResult reports the outcome of loading one table.
type LoadResult struct {
	Success     bool
	RowsWritten int64
}

// Loader writes a table to a database.
type Loader interface {
	Load(ctx context.Context, table *datagen.Table, policy ConflictPolicy) (LoadResult, error)
}

// LoadTables loads each table in order and stops at the first failure.
// It returns the number of rows written before any failure.
func LoadTables(ctx context.Context, l Loader, tables []*datagen.Table, policy ConflictPolicy) (int64, error) {
	var total int64
	started := time.Now()

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := l.Load(ctx, t, policy)
		if err != nil {
			return total, fmt.Errorf("failed to load %s: %w", t.Name, err)
		}
		total += res.RowsWritten

		logging.Info().
			Str("table", t.Name).
			Int64("rows", res.RowsWritten).
			Str("policy", string(policy)).
			Msg("Loaded table")
	}

	logging.Info().
		Int("tables", len(tables)).
		Int64("rows", total).
		Dur("elapsed", time.Since(started)).
		Msg("Load complete")

	return total, nil
}

// dialect maps column types to SQL types and quotes identifiers.
type dialect struct {
	types map[datagen.ColumnType]string
}

var (
	postgresDialect = dialect{types: map[datagen.ColumnType]string{
		datagen.TypeText:      "TEXT",
		datagen.TypeInt:       "BIGINT",
		datagen.TypeFloat:     "DOUBLE PRECISION",
		datagen.TypeBool:      "BOOLEAN",
		datagen.TypeDate:      "DATE",
		datagen.TypeTimestamp: "TIMESTAMP",
	}}
	sqliteDialect = dialect{types: map[datagen.ColumnType]string{
		datagen.TypeText:      "TEXT",
		datagen.TypeInt:       "INTEGER",
		datagen.TypeFloat:     "REAL",
		datagen.TypeBool:      "INTEGER",
		datagen.TypeDate:      "TEXT",
		datagen.TypeTimestamp: "TEXT",
	}}
)

// createTable returns a CREATE TABLE IF NOT EXISTS statement for t under
// the already-quoted name.
func (d dialect) createTable(name string, t *datagen.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", name)
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "    %s %s", quoteIdent(c.Name), d.types[c.Type])
	}
	b.WriteString("\n)")
	return b.String()
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
