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
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
)

func openTestSQLite(t *testing.T, batch int) *SQLiteLoader {
	t.Helper()
	l, err := OpenSQLite(filepath.Join(t.TempDir(), "logistics.db"), batch)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func vehicleTable(n int) *datagen.Table {
	tbl := datagen.NewTable("dim_vehicle", []datagen.Column{
		datagen.Text("vehicle_id"), datagen.Int("capacity_kg"), datagen.Float("fuel_efficiency"),
		datagen.Bool("is_active"), datagen.Date("purchase_date"), datagen.Timestamp("last_seen"),
	})
	day := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		tbl.Append("VH"+string(rune('A'+i%26)), 1000+i, 8.5, i%2 == 0, day, nil)
	}
	return tbl
}

func countRows(t *testing.T, l *SQLiteLoader, table string) int {
	t.Helper()
	var n int
	if err := l.DB().QueryRow("SELECT count(*) FROM " + quoteIdent(table)).Scan(&n); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return n
}

func TestSQLiteLoaderPolicies(t *testing.T) {
	ctx := context.Background()
	l := openTestSQLite(t, 7)
	tbl := vehicleTable(30)

	res, err := l.Load(ctx, tbl, PolicyFail)
	if err != nil {
		t.Fatalf("Initial load failed: %v", err)
	}
	if !res.Success || res.RowsWritten != 30 {
		t.Errorf("Expected 30 rows written, got %+v", res)
	}

	if _, err := l.Load(ctx, tbl, PolicyAppend); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if n := countRows(t, l, "dim_vehicle"); n != 60 {
		t.Errorf("Expected 60 rows after append, got %d", n)
	}

	if _, err := l.Load(ctx, tbl, PolicyReplace); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if n := countRows(t, l, "dim_vehicle"); n != 30 {
		t.Errorf("Expected 30 rows after replace, got %d", n)
	}

	res, err = l.Load(ctx, tbl, PolicyFail)
	if !errors.Is(err, ErrTableExists) {
		t.Errorf("Expected ErrTableExists, got %v", err)
	}
	if res.Success {
		t.Error("Expected unsuccessful result under fail policy")
	}
	if n := countRows(t, l, "dim_vehicle"); n != 30 {
		t.Errorf("Fail policy must not change the table, got %d rows", n)
	}
}

func TestSQLiteLoaderValues(t *testing.T) {
	l := openTestSQLite(t, 0)
	if _, err := l.Load(context.Background(), vehicleTable(2), PolicyReplace); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var (
		capacity int
		active   bool
		purchase string
		lastSeen *string
	)
	err := l.DB().QueryRow(`SELECT capacity_kg, is_active, purchase_date, last_seen
		FROM dim_vehicle ORDER BY capacity_kg LIMIT 1`).Scan(&capacity, &active, &purchase, &lastSeen)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if capacity != 1000 || !active {
		t.Errorf("Unexpected values: capacity=%d active=%v", capacity, active)
	}
	if purchase != "2023-03-01" {
		t.Errorf("Expected date stored as 2023-03-01, got %s", purchase)
	}
	if lastSeen != nil {
		t.Errorf("Expected NULL last_seen, got %v", *lastSeen)
	}
}

func TestSQLiteLoadDataset(t *testing.T) {
	l := openTestSQLite(t, 500)
	ds := generate(t, smallParams())

	total, err := LoadTables(context.Background(), l, ds.Tables, PolicyReplace)
	if err != nil {
		t.Fatalf("LoadTables failed: %v", err)
	}
	if total != int64(ds.TotalRows()) {
		t.Errorf("Expected %d rows, got %d", ds.TotalRows(), total)
	}
	for _, tbl := range ds.Tables {
		if n := countRows(t, l, tbl.Name); n != tbl.Len() {
			t.Errorf("%s: expected %d rows, got %d", tbl.Name, tbl.Len(), n)
		}
	}
}
