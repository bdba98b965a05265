//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-logisticsgen/internal/config"
	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/db"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/report"
	"github.com/pgEdge/pgedge-logisticsgen/internal/sink"
)

var (
	loadTarget         string
	loadInputDir       string
	loadSQLitePath     string
	loadSchema         string
	loadConflictPolicy string
	loadBatchSize      int
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the dataset into PostgreSQL or SQLite",
	Long: `Load the dataset into a database. With --input-dir the tables are read
from a previous generate run's output directory; otherwise the dataset is
generated in memory from the generate settings.

Conflict policies for tables that already exist:
  append  - insert into the existing table
  replace - drop and recreate the table (default)
  fail    - stop with an error

Example:
  pgedge-logisticsgen load --connection "postgres://..." --schema logistics
  pgedge-logisticsgen load --target sqlite --sqlite-path ./logistics.db --input-dir ./out`,
	RunE: runLoad,
}

func init() {
	addGenerateFlags(loadCmd.Flags())
	loadCmd.Flags().StringVar(&loadTarget, "target", "",
		"target database: postgres or sqlite")
	loadCmd.Flags().StringVar(&loadInputDir, "input-dir", "",
		"generate output directory to load from")
	loadCmd.Flags().StringVar(&loadSQLitePath, "sqlite-path", "",
		"SQLite database file (sqlite target)")
	loadCmd.Flags().StringVar(&loadSchema, "schema", "",
		"PostgreSQL schema to load into")
	loadCmd.Flags().StringVar(&loadConflictPolicy, "conflict-policy", "",
		"policy for existing tables: append, replace, fail")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 0,
		"rows per insert batch (sqlite target)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)

	// Override config with CLI flags
	if loadTarget != "" {
		cfg.Load.Target = loadTarget
	}
	if loadInputDir != "" {
		cfg.Load.InputDir = loadInputDir
	}
	if loadSQLitePath != "" {
		cfg.Load.SQLitePath = loadSQLitePath
	}
	if loadSchema != "" {
		cfg.Load.Schema = loadSchema
	}
	if loadConflictPolicy != "" {
		cfg.Load.ConflictPolicy = loadConflictPolicy
	}
	if loadBatchSize > 0 {
		cfg.Load.BatchSize = loadBatchSize
	}

	// Validate configuration
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}
	policy, err := sink.ParseConflictPolicy(cfg.Load.ConflictPolicy)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	run, tables, err := loadSource(ctx)
	if err != nil {
		return err
	}
	run.Policy = string(policy)

	logging.Info().
		Str("target", cfg.Load.Target).
		Str("run_id", run.RunID).
		Int("tables", len(tables)).
		Msg("Loading dataset")

	switch cfg.Load.Target {
	case config.TargetSQLite:
		loader, err := sink.OpenSQLite(cfg.Load.SQLitePath, cfg.Load.BatchSize)
		if err != nil {
			return err
		}
		defer loader.Close()

		if _, err := sink.LoadTables(ctx, loader, tables, policy); err != nil {
			return err
		}

	default:
		pool, err := db.Connect(ctx, cfg.Connection, 0)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		loader := sink.NewPostgresLoader(pool, cfg.Load.Schema)
		total, err := sink.LoadTables(ctx, loader, tables, policy)
		if err != nil {
			return err
		}
		run.TotalRows = total

		if err := db.SaveMetadata(ctx, pool, cfg.Load.Schema, run); err != nil {
			return fmt.Errorf("failed to save metadata: %w", err)
		}
	}

	return nil
}

// loadSource returns the tables to load, read from the input directory or
// generated in memory, with the run they belong to.
func loadSource(ctx context.Context) (db.RunInfo, []*datagen.Table, error) {
	if dir := cfg.Load.InputDir; dir != "" {
		m, tables, err := sink.ReadDir(dir)
		if err != nil {
			return db.RunInfo{}, nil, err
		}
		logging.SetRun(m.RunID, m.Seed)
		return db.RunInfo{RunID: m.RunID, Seed: m.Seed, Tables: len(tables)}, tables, nil
	}

	ds, err := generateDataset(ctx)
	if err != nil {
		return db.RunInfo{}, nil, fmt.Errorf("failed to generate dataset: %w", err)
	}
	tables := append(ds.Tables, report.Build(ds).Table())
	run := db.RunInfo{
		RunID:  sink.RunID(ds.Params, cfg.Generate.Cities),
		Seed:   ds.Params.Seed,
		Tables: len(tables),
	}
	return run, tables, nil
}
