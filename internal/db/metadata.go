//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/pkg/version"
)

const metadataTable = "logisticsgen_metadata"

// RunInfo describes a load of one generated dataset.
type RunInfo struct {
	RunID     string
	Seed      uint64
	Tables    int
	TotalRows int64
	Policy    string
}

func metadataIdent(schema string) string {
	if schema == "" {
		return pgx.Identifier{metadataTable}.Sanitize()
	}
	return pgx.Identifier{schema, metadataTable}.Sanitize()
}

// SaveMetadata records the loaded run in the metadata table of schema,
// creating the table if needed.
func SaveMetadata(ctx context.Context, pool *pgxpool.Pool, schema string, run RunInfo) error {
	table := metadataIdent(schema)

	_, err := pool.Exec(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`, table))
	if err != nil {
		return fmt.Errorf("failed to create metadata table: %w", err)
	}

	// Ordered so repeated saves touch keys in the same sequence.
	metadata := [][2]string{
		{"run_id", run.RunID},
		{"seed", strconv.FormatUint(run.Seed, 10)},
		{"version", version.Short()},
		{"loaded_at", time.Now().UTC().Format(time.RFC3339)},
		{"tables", strconv.Itoa(run.Tables)},
		{"total_rows", strconv.FormatInt(run.TotalRows, 10)},
		{"conflict_policy", run.Policy},
	}

	for _, kv := range metadata {
		_, err := pool.Exec(ctx, fmt.Sprintf(`
            INSERT INTO %s (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, table), kv[0], kv[1])
		if err != nil {
			return fmt.Errorf("failed to save metadata %s: %w", kv[0], err)
		}
	}

	logging.Debug().
		Str("run_id", run.RunID).
		Str("schema", schema).
		Msg("Saved metadata")

	return nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, schema, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, fmt.Sprintf(`
        SELECT value FROM %s WHERE key = $1
    `, metadataIdent(schema)), key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, pool *pgxpool.Pool, schema string) (map[string]string, error) {
	rows, err := pool.Query(ctx, fmt.Sprintf(`SELECT key, value FROM %s`, metadataIdent(schema)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataIdent(schema)))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, pool *pgxpool.Pool, schema string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", metadataIdent(schema)).Scan(&exists)
	return exists, err
}
