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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
	"github.com/pgEdge/pgedge-logisticsgen/internal/report"
)

// ReportFile is the quality report's file name inside an output directory.
const ReportFile = "data_quality_report.csv"

// WriteCSV writes one CSV file per table, the quality report and the
// manifest into dir. Every file is first written to a staging directory
// inside dir and only moved into place once all of them succeeded. If
// moving a file fails, the files already moved are taken back out and the
// ones they replaced are restored.
func WriteCSV(dir string, ds *logistics.Dataset, rep *report.Report, cities int) (*Manifest, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	staging, err := os.MkdirTemp(dir, ".staging-")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	var files []string
	for _, t := range ds.Tables {
		name := t.Name + ".csv"
		if err := writeTableFile(filepath.Join(staging, name), t); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", t.Name, err)
		}
		files = append(files, name)
	}

	m := NewManifest(ds, cities)
	if rep != nil {
		if err := writeTableFile(filepath.Join(staging, ReportFile), rep.Table()); err != nil {
			return nil, fmt.Errorf("failed to write data_quality_report: %w", err)
		}
		files = append(files, ReportFile)
		m.Report = ReportFile
	}

	data, err := m.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(staging, ManifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	files = append(files, ManifestFile)

	if err := commit(dir, staging, files); err != nil {
		return nil, err
	}

	logging.Info().
		Str("dir", dir).
		Int("files", len(files)).
		Str("run_id", m.RunID).
		Msg("Wrote CSV output")

	return m, nil
}

// rename is os.Rename; tests replace it to fail part way through a commit.
var rename = os.Rename

// commit moves the staged files into dir. Files they replace are first
// moved aside into a backup directory so a failed commit can put them back.
func commit(dir, staging string, files []string) error {
	backup, err := os.MkdirTemp(dir, ".previous-")
	if err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	defer os.RemoveAll(backup)

	var saved, placed []string
	rollback := func() {
		for _, name := range placed {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				logging.Warn().Err(err).Str("file", name).Msg("Failed to remove partially written output")
			}
		}
		for _, name := range saved {
			if err := rename(filepath.Join(backup, name), filepath.Join(dir, name)); err != nil {
				logging.Warn().Err(err).Str("file", name).Msg("Failed to restore previous output")
			}
		}
	}

	for _, name := range files {
		dst := filepath.Join(dir, name)
		if _, err := os.Lstat(dst); err == nil {
			if err := rename(dst, filepath.Join(backup, name)); err != nil {
				rollback()
				return fmt.Errorf("failed to move previous %s aside: %w", name, err)
			}
			saved = append(saved, name)
		}
		if err := rename(filepath.Join(staging, name), dst); err != nil {
			rollback()
			return fmt.Errorf("failed to move %s into place: %w", name, err)
		}
		placed = append(placed, name)
	}
	return nil
}

func writeTableFile(path string, t *datagen.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTable(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteTable writes t as CSV with a header row.
func WriteTable(w io.Writer, t *datagen.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.ColumnNames()); err != nil {
		return err
	}
	for i := range t.Rows {
		if err := cw.Write(t.Record(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable reads a CSV file written by WriteTable back into a table with
// the given schema. The header must match the schema.
func ReadTable(r io.Reader, name string, columns []datagen.Column) (*datagen.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(columns)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, c := range columns {
		if header[i] != c.Name {
			return nil, fmt.Errorf("column %d: expected %s, got %s", i, c.Name, header[i])
		}
	}

	t := datagen.NewTable(name, columns)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]any, len(columns))
		for j, s := range rec {
			v, err := datagen.ParseValue(columns[j].Type, s)
			if err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, columns[j].Name, err)
			}
			row[j] = v
		}
		t.Append(row...)
	}
	return t, nil
}

// ReadDir reads every table listed in the manifest of an output directory.
func ReadDir(dir string) (*Manifest, []*datagen.Table, error) {
	m, err := ReadManifest(dir)
	if err != nil {
		return nil, nil, err
	}

	tables := make([]*datagen.Table, 0, len(m.Tables))
	for _, e := range m.Tables {
		cols, err := e.Schema()
		if err != nil {
			return nil, nil, err
		}
		t, err := readTableFile(filepath.Join(dir, e.File), e.Name, cols)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s: %w", e.Name, err)
		}
		if t.Len() != e.Rows {
			return nil, nil, fmt.Errorf("table %s: manifest lists %d rows, file has %d", e.Name, e.Rows, t.Len())
		}
		tables = append(tables, t)
	}
	return m, tables, nil
}

func readTableFile(path, name string, cols []datagen.Column) (*datagen.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f, name, cols)
}
