//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report computes per-table data quality summaries.
package report

import (
	"strings"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
)

// Memory estimate constants, in bytes. Fixed-width cells (numbers, flags,
// dates) cost one machine word; text cells cost a string header plus their
// encoded length. A row also carries a slice header.
const (
	fixedCellBytes = 8
	textCellBytes  = 49
	rowBytes       = 24
)

// TableQuality is the quality summary of one table.
type TableQuality struct {
	Table          string
	RowCount       int
	ColumnCount    int
	NullPercentage float64
	DuplicateRows  int
	MemoryUsageMB  float64

	bytes int64
}

// Report holds the quality summaries in table order.
type Report struct {
	Tables []TableQuality
}

// Build computes the report for a generated dataset.
func Build(ds *logistics.Dataset) *Report {
	return BuildTables(ds.Tables)
}

// BuildTables computes the report for the given tables.
func BuildTables(tables []*datagen.Table) *Report {
	r := &Report{Tables: make([]TableQuality, 0, len(tables))}
	for _, t := range tables {
		r.Tables = append(r.Tables, Analyze(t))
	}
	return r
}

// Analyze computes the quality summary for a single table.
func Analyze(t *datagen.Table) TableQuality {
	q := TableQuality{
		Table:       t.Name,
		RowCount:    t.Len(),
		ColumnCount: len(t.Columns),
	}

	var nulls, bytes int64
	seen := make(map[string]struct{}, t.Len())
	var key strings.Builder

	for _, row := range t.Rows {
		key.Reset()
		bytes += rowBytes
		for j, v := range row {
			s := datagen.FormatValue(t.Columns[j].Type, v)
			if v == nil {
				nulls++
			}
			if t.Columns[j].Type == datagen.TypeText && v != nil {
				bytes += textCellBytes + int64(len(s))
			} else {
				bytes += fixedCellBytes
			}
			if j > 0 {
				key.WriteByte(0x1f)
			}
			// Distinguish NULL from the empty string.
			if v == nil {
				key.WriteByte(0x00)
			}
			key.WriteString(s)
		}

		k := key.String()
		if _, dup := seen[k]; dup {
			q.DuplicateRows++
		} else {
			seen[k] = struct{}{}
		}
	}

	cells := int64(q.RowCount) * int64(q.ColumnCount)
	if cells > 0 {
		q.NullPercentage = datagen.Round(float64(nulls)/float64(cells)*100, 2)
	}
	q.bytes = bytes
	q.MemoryUsageMB = datagen.Round(float64(bytes)/(1024*1024), 2)
	return q
}

var reportColumns = []datagen.Column{
	datagen.Text("table"), datagen.Int("row_count"), datagen.Int("column_count"),
	datagen.Float("null_percentage"), datagen.Int("duplicate_rows"), datagen.Float("memory_usage_mb"),
}

// Table renders the report as a table named data_quality_report.
func (r *Report) Table() *datagen.Table {
	t := datagen.NewTable("data_quality_report", reportColumns)
	for _, q := range r.Tables {
		t.Append(q.Table, q.RowCount, q.ColumnCount, q.NullPercentage, q.DuplicateRows, q.MemoryUsageMB)
	}
	return t
}

// Lookup returns the summary for the named table.
func (r *Report) Lookup(name string) (TableQuality, bool) {
	for _, q := range r.Tables {
		if q.Table == name {
			return q, true
		}
	}
	return TableQuality{}, false
}

// Log writes one line per table to the logger.
func (r *Report) Log() {
	for _, q := range r.Tables {
		logging.Info().
			Str("table", q.Table).
			Int("rows", q.RowCount).
			Int("columns", q.ColumnCount).
			Float64("null_pct", q.NullPercentage).
			Int("duplicates", q.DuplicateRows).
			Float64("memory_mb", q.MemoryUsageMB).
			Msg("Data quality")
	}
	logging.Info().
		Int("tables", len(r.Tables)).
		Str("estimated_size", datagen.FormatSize(r.TotalBytes())).
		Msg("Data quality totals")
}

// TotalBytes returns the unrounded in-memory estimate across all tables.
func (r *Report) TotalBytes() int64 {
	var n int64
	for _, q := range r.Tables {
		n += q.bytes
	}
	return n
}
