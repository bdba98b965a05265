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
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
	"github.com/pgEdge/pgedge-logisticsgen/pkg/version"
)

// ManifestFile is the manifest's file name inside an output directory.
const ManifestFile = "manifest.yaml"

// runNamespace scopes run ids derived from generation parameters.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/pgEdge/pgedge-logisticsgen/run"))

// Manifest describes the contents of an output directory.
type Manifest struct {
	RunID     string         `yaml:"run_id"`
	Version   string         `yaml:"version"`
	Seed      uint64         `yaml:"seed"`
	AsOf      string         `yaml:"as_of"`
	Params    ManifestParams `yaml:"params"`
	Tables    []TableEntry   `yaml:"tables"`
	Report    string         `yaml:"report,omitempty"`
	TotalRows int            `yaml:"total_rows"`
}

// ManifestParams records the parameters a run was generated with.
type ManifestParams struct {
	StartDate      string            `yaml:"start_date"`
	EndDate        string            `yaml:"end_date"`
	Customers      int               `yaml:"customers"`
	Vehicles       int               `yaml:"vehicles"`
	DeliveryPoints int               `yaml:"delivery_points"`
	Cities         int               `yaml:"cities"`
	Comprehensive  bool              `yaml:"comprehensive"`
	TrafficPattern string            `yaml:"traffic_pattern"`
	Windows        logistics.Windows `yaml:"windows"`
}

// TableEntry lists one table file with its schema.
type TableEntry struct {
	Name    string        `yaml:"name"`
	File    string        `yaml:"file"`
	Rows    int           `yaml:"rows"`
	Columns []ColumnEntry `yaml:"columns"`
}

// ColumnEntry is one column of a table file.
type ColumnEntry struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// RunID derives a stable identifier from the generation parameters, so
// two runs with the same seed and parameters share an id.
func RunID(p logistics.Params, cities int) string {
	w := p.Windows
	canonical := fmt.Sprintf("seed=%d;start=%s;end=%s;customers=%d;vehicles=%d;points=%d;cities=%d;"+
		"comprehensive=%t;pattern=%s;windows=%d,%d,%d,%d,%d,%d,%d,%d",
		p.Seed, p.StartDate.Format(datagen.DateLayout), p.EndDate.Format(datagen.DateLayout),
		p.Customers, p.Vehicles, p.DeliveryPoints, cities, p.Comprehensive, p.TrafficPattern,
		w.Shipment, w.Weather, w.Traffic, w.Telemetry, w.RouteConditions, w.Utilization,
		w.RawTelematics, w.RawFeeds)
	return uuid.NewSHA1(runNamespace, []byte(canonical)).String()
}

// NewManifest describes a dataset. Cities is the number of cities the
// reference data was restricted to.
func NewManifest(ds *logistics.Dataset, cities int) *Manifest {
	p := ds.Params
	m := &Manifest{
		RunID:   RunID(p, cities),
		Version: version.Short(),
		Seed:    p.Seed,
		AsOf:    ds.AsOf.Format(datagen.TimestampLayout),
		Params: ManifestParams{
			StartDate:      p.StartDate.Format(datagen.DateLayout),
			EndDate:        p.EndDate.Format(datagen.DateLayout),
			Customers:      p.Customers,
			Vehicles:       p.Vehicles,
			DeliveryPoints: p.DeliveryPoints,
			Cities:         cities,
			Comprehensive:  p.Comprehensive,
			TrafficPattern: p.TrafficPattern,
			Windows:        p.Windows,
		},
		TotalRows: ds.TotalRows(),
	}
	for _, t := range ds.Tables {
		m.Tables = append(m.Tables, entryFor(t))
	}
	return m
}

func entryFor(t *datagen.Table) TableEntry {
	e := TableEntry{Name: t.Name, File: t.Name + ".csv", Rows: t.Len()}
	for _, c := range t.Columns {
		e.Columns = append(e.Columns, ColumnEntry{Name: c.Name, Type: c.Type.String()})
	}
	return e
}

// Schema returns the table schema recorded in the entry.
func (e TableEntry) Schema() ([]datagen.Column, error) {
	cols := make([]datagen.Column, len(e.Columns))
	for i, c := range e.Columns {
		typ, err := datagen.ParseColumnType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("table %s column %s: %w", e.Name, c.Name, err)
		}
		cols[i] = datagen.Column{Name: c.Name, Type: typ}
	}
	return cols, nil
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	return yaml.Marshal(m)
}

// ReadManifest reads the manifest from an output directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}
