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
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
	"github.com/pgEdge/pgedge-logisticsgen/internal/report"
)

func smallParams() logistics.Params {
	p := logistics.DefaultParams()
	p.StartDate = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	p.EndDate = time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC)
	p.Customers = 5
	p.Vehicles = 4
	p.DeliveryPoints = 10
	p.Comprehensive = false
	return p
}

func generate(t *testing.T, p logistics.Params) *logistics.Dataset {
	t.Helper()
	ds, err := logistics.Generate(context.Background(), p, logistics.DefaultReference().WithCities(2))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	return ds
}

func TestParseConflictPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ConflictPolicy
		wantErr bool
	}{
		{"append", PolicyAppend, false},
		{"REPLACE", PolicyReplace, false},
		{" fail ", PolicyFail, false},
		{"upsert", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConflictPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestWriteCSVDeterministic(t *testing.T) {
	p := smallParams()
	dirA, dirB := t.TempDir(), t.TempDir()

	for _, dir := range []string{dirA, dirB} {
		ds := generate(t, p)
		if _, err := WriteCSV(dir, ds, report.Build(ds), 2); err != nil {
			t.Fatalf("WriteCSV failed: %v", err)
		}
	}

	files := []string{ReportFile, ManifestFile}
	for _, name := range logistics.BasicTables {
		files = append(files, name+".csv")
	}
	for _, file := range files {
		a, err := os.ReadFile(filepath.Join(dirA, file))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", file, err)
		}
		b, err := os.ReadFile(filepath.Join(dirB, file))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", file, err)
		}
		if !bytes.Equal(a, b) {
			t.Errorf("%s differs between runs with the same seed", file)
		}
	}
}

func TestWriteCSVLeavesNoStaging(t *testing.T) {
	dir := t.TempDir()
	ds := generate(t, smallParams())
	if _, err := WriteCSV(dir, ds, nil, 2); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".staging-") {
			t.Errorf("Staging directory %s was left behind", e.Name())
		}
		if e.Name() == ReportFile {
			t.Error("Report file written without a report")
		}
	}
	if len(entries) != len(logistics.BasicTables)+1 {
		t.Errorf("Expected %d files, got %d", len(logistics.BasicTables)+1, len(entries))
	}
}

func TestWriteCSVFailureKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "dim_date.csv")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	// The last table cannot be staged, after the earlier ones already were.
	ds := generate(t, smallParams())
	ds.Tables = append(ds.Tables, datagen.NewTable("bad/name", []datagen.Column{datagen.Int("id")}))

	_, err := WriteCSV(dir, ds, nil, 2)
	if err == nil {
		t.Fatal("Expected WriteCSV to fail")
	}
	if !strings.Contains(err.Error(), "bad/name") {
		t.Errorf("Expected error to name the table, got %v", err)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "old" {
		t.Error("Existing file was overwritten by a failed run")
	}
}

func TestWriteCSVCommitFailureRestoresPrevious(t *testing.T) {
	dir := t.TempDir()
	if _, err := WriteCSV(dir, generate(t, smallParams()), nil, 2); err != nil {
		t.Fatalf("First WriteCSV failed: %v", err)
	}
	before := readAll(t, dir)

	// Fail the fourth rename: the first table's old file is moved aside, its
	// new file placed, the second table's old file moved aside, then the
	// second table's new file cannot be placed.
	calls := 0
	rename = func(from, to string) error {
		calls++
		if calls == 4 {
			return errors.New("disk full")
		}
		return os.Rename(from, to)
	}
	t.Cleanup(func() { rename = os.Rename })

	p := smallParams()
	p.Seed = 99
	if _, err := WriteCSV(dir, generate(t, p), nil, 2); err == nil {
		t.Fatal("Expected WriteCSV to fail")
	}

	after := readAll(t, dir)
	if len(after) != len(before) {
		t.Fatalf("Expected %d files after rollback, got %d", len(before), len(after))
	}
	for name, data := range before {
		if !bytes.Equal(after[name], data) {
			t.Errorf("File %s changed after a failed run", name)
		}
	}
}

// readAll returns the regular files of dir by name. Hidden working
// directories left behind would show up as extra entries.
func readAll(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			out[e.Name()] = nil
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatal(err)
		}
		out[e.Name()] = data
	}
	return out
}

func TestReadDirRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ds := generate(t, smallParams())
	if _, err := WriteCSV(dir, ds, report.Build(ds), 2); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	m, tables, err := ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if m.Seed != ds.Params.Seed {
		t.Errorf("Expected seed %d, got %d", ds.Params.Seed, m.Seed)
	}
	if len(tables) != len(ds.Tables) {
		t.Fatalf("Expected %d tables, got %d", len(ds.Tables), len(tables))
	}
	for i, got := range tables {
		want := ds.Tables[i]
		if got.Name != want.Name || got.Len() != want.Len() {
			t.Errorf("Expected %s with %d rows, got %s with %d", want.Name, want.Len(), got.Name, got.Len())
			continue
		}
		for r := 0; r < got.Len(); r++ {
			if strings.Join(got.Record(r), ",") != strings.Join(want.Record(r), ",") {
				t.Errorf("%s row %d differs after round trip", got.Name, r)
				break
			}
		}
	}
}

func TestReadTableHeaderMismatch(t *testing.T) {
	cols := []datagen.Column{datagen.Int("id"), datagen.Text("name")}
	_, err := ReadTable(strings.NewReader("id,label\n1,x\n"), "t", cols)
	if err == nil {
		t.Error("Expected error for mismatched header")
	}
}

func TestRunIDStable(t *testing.T) {
	p := smallParams()
	a, b := RunID(p, 2), RunID(p, 2)
	if a != b {
		t.Errorf("Expected stable run id, got %s and %s", a, b)
	}

	p.Seed = 7
	if RunID(p, 2) == a {
		t.Error("Expected a different run id for a different seed")
	}
	if RunID(smallParams(), 3) == a {
		t.Error("Expected a different run id for a different city count")
	}
}

func TestManifestSchema(t *testing.T) {
	ds := generate(t, smallParams())
	m := NewManifest(ds, 2)

	if len(m.Tables) != len(ds.Tables) {
		t.Fatalf("Expected %d entries, got %d", len(ds.Tables), len(m.Tables))
	}
	if m.TotalRows != ds.TotalRows() {
		t.Errorf("Expected %d total rows, got %d", ds.TotalRows(), m.TotalRows)
	}
	cols, err := m.Tables[0].Schema()
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}
	if len(cols) != len(ds.Tables[0].Columns) || cols[0] != ds.Tables[0].Columns[0] {
		t.Errorf("Schema does not match table columns: %v", cols)
	}
}

type recordingLoader struct {
	loaded []string
	failOn string
}

func (l *recordingLoader) Load(_ context.Context, t *datagen.Table, _ ConflictPolicy) (LoadResult, error) {
	if t.Name == l.failOn {
		return LoadResult{}, errors.New("boom")
	}
	l.loaded = append(l.loaded, t.Name)
	return LoadResult{Success: true, RowsWritten: int64(t.Len())}, nil
}

func TestLoadTablesStopsAtFailure(t *testing.T) {
	ds := generate(t, smallParams())
	l := &recordingLoader{failOn: "dim_vehicle"}

	total, err := LoadTables(context.Background(), l, ds.Tables, PolicyAppend)
	if err == nil || !strings.Contains(err.Error(), "dim_vehicle") {
		t.Fatalf("Expected failure naming dim_vehicle, got %v", err)
	}
	if len(l.loaded) != 3 {
		t.Errorf("Expected 3 tables loaded before failure, got %v", l.loaded)
	}
	want := int64(ds.Tables[0].Len() + ds.Tables[1].Len() + ds.Tables[2].Len())
	if total != want {
		t.Errorf("Expected %d rows, got %d", want, total)
	}
}
