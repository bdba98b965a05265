//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package sqlexec runs parameterized SQL scripts statement by statement.
package sqlexec

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

// DB executes a single statement. *pgxpool.Pool and *pgx.Conn satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// StatementResult is the outcome of one statement.
type StatementResult struct {
	Index        int
	SQL          string
	RowsAffected int64
	Duration     time.Duration
	Err          error
}

// Success reports whether the statement ran without error.
func (r StatementResult) Success() bool {
	return r.Err == nil
}

// Executor runs scripts against a database.
type Executor struct {
	db DB

	// ContinueOnError keeps executing after a failed statement.
	ContinueOnError bool
}

// NewExecutor creates an executor.
func NewExecutor(db DB) *Executor {
	return &Executor{db: db}
}

// Run substitutes vars into script, splits it into statements and executes
// them in order. Execution stops at the first failure unless
// ContinueOnError is set; statements that were not attempted have no
// result.
func (e *Executor) Run(ctx context.Context, script string, vars map[string]string) []StatementResult {
	sql, missing := Substitute(script, vars)
	for _, name := range missing {
		logging.Warn().Str("variable", name).Msg("Variable not set, leaving reference as written")
	}

	stmts := Split(sql)
	results := make([]StatementResult, 0, len(stmts))

	for i, stmt := range stmts {
		if err := ctx.Err(); err != nil {
			results = append(results, StatementResult{Index: i + 1, SQL: stmt, Err: err})
			break
		}

		logging.Debug().
			Int("statement", i+1).
			Int("total", len(stmts)).
			Str("sql", datagen.Truncate(stmt, 100)).
			Msg("Executing statement")

		started := time.Now()
		tag, err := e.db.Exec(ctx, stmt)
		res := StatementResult{Index: i + 1, SQL: stmt, Duration: time.Since(started), Err: err}
		if err == nil {
			res.RowsAffected = tag.RowsAffected()
		}
		results = append(results, res)

		if err != nil {
			logging.Error().
				Err(err).
				Int("statement", i+1).
				Str("sql", datagen.Truncate(stmt, 100)).
				Msg("Statement failed")
			if !e.ContinueOnError {
				break
			}
		}
	}

	return results
}

// RunFile reads a script from path and runs it.
func (e *Executor) RunFile(ctx context.Context, path string, vars map[string]string) ([]StatementResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return e.Run(ctx, string(data), vars), nil
}

// FirstError returns the first failed statement's error, annotated with
// its position, or nil if every statement succeeded.
func FirstError(results []StatementResult) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("statement %d failed: %w", r.Index, r.Err)
		}
	}
	return nil
}
