//go:build integration

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
	"testing"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/testutil"
)

func TestPostgresLoaderIntegration(t *testing.T) {
	pool := testutil.NewTestDB(t, "sink").Pool

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ds := generate(t, smallParams())
	l := NewPostgresLoader(pool, "logistics")

	total, err := LoadTables(ctx, l, ds.Tables, PolicyFail)
	if err != nil {
		t.Fatalf("LoadTables failed: %v", err)
	}
	if total != int64(ds.TotalRows()) {
		t.Errorf("Expected %d rows, got %d", ds.TotalRows(), total)
	}

	if got := testutil.SchemaTables(t, pool, "logistics"); len(got) != len(ds.Tables) {
		t.Errorf("Expected %d tables in schema, got %d: %v", len(ds.Tables), len(got), got)
	}
	if n := testutil.CountRows(t, pool, "logistics", "fact_shipments"); n != ds.Table("fact_shipments").Len() {
		t.Errorf("Expected %d shipments, got %d", ds.Table("fact_shipments").Len(), n)
	}

	t.Run("FailPolicy", func(t *testing.T) {
		_, err := l.Load(ctx, ds.Table("dim_date"), PolicyFail)
		if !errors.Is(err, ErrTableExists) {
			t.Errorf("Expected ErrTableExists, got %v", err)
		}
	})

	t.Run("AppendThenReplace", func(t *testing.T) {
		tbl := ds.Table("dim_customer")
		if _, err := l.Load(ctx, tbl, PolicyAppend); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if _, err := l.Load(ctx, tbl, PolicyReplace); err != nil {
			t.Fatalf("Replace failed: %v", err)
		}
		if n := testutil.CountRows(t, pool, "logistics", "dim_customer"); n != tbl.Len() {
			t.Errorf("Expected %d rows after replace, got %d", tbl.Len(), n)
		}
	})
}
