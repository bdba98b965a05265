//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-logisticsgen.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
	"github.com/pgEdge/pgedge-logisticsgen/internal/patterns"
	"github.com/pgEdge/pgedge-logisticsgen/internal/sink"
)

// Load targets.
const (
	TargetPostgres = "postgres"
	TargetSQLite   = "sqlite"
)

// Config holds all configuration for pgedge-logisticsgen.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Exec holds configuration for the exec subcommand.
	Exec ExecConfig `mapstructure:"exec"`

	// Train holds configuration for the train subcommand.
	Train TrainConfig `mapstructure:"train"`
}

// GenerateConfig holds configuration for dataset generation.
type GenerateConfig struct {
	// Seed fixes every generated value. Must be non-zero.
	Seed uint64 `mapstructure:"seed"`

	// StartDate and EndDate bound the calendar, as YYYY-MM-DD.
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	Customers      int `mapstructure:"customers"`
	Vehicles       int `mapstructure:"vehicles"`
	DeliveryPoints int `mapstructure:"delivery_points"`

	// Cities restricts the reference cities to the first n (0 = all).
	Cities int `mapstructure:"cities"`

	// Comprehensive adds the extended, raw and real-time tables.
	Comprehensive bool `mapstructure:"comprehensive"`

	// TrafficPattern names the traffic pattern (see the patterns command).
	TrafficPattern string `mapstructure:"traffic_pattern"`

	// OutputDir is where CSV files and the manifest are written.
	OutputDir string `mapstructure:"output_dir"`

	// Windows sets trailing day windows for time-series tables.
	Windows WindowsConfig `mapstructure:"windows"`
}

// WindowsConfig sets the number of trailing days covered by each
// time-series table. Zero covers the whole date range.
type WindowsConfig struct {
	Shipment        int `mapstructure:"shipment"`
	Weather         int `mapstructure:"weather"`
	Traffic         int `mapstructure:"traffic"`
	Telemetry       int `mapstructure:"telemetry"`
	RouteConditions int `mapstructure:"route_conditions"`
	Utilization     int `mapstructure:"utilization"`
	RawTelematics   int `mapstructure:"raw_telematics"`
	RawFeeds        int `mapstructure:"raw_feeds"`
}

// LoadConfig holds configuration for loading generated data.
type LoadConfig struct {
	// Target is the database type: postgres or sqlite.
	Target string `mapstructure:"target"`

	// InputDir is a generate output directory to load from. When empty,
	// the dataset is generated in memory from the generate section.
	InputDir string `mapstructure:"input_dir"`

	// SQLitePath is the database file for the sqlite target.
	SQLitePath string `mapstructure:"sqlite_path"`

	// Schema is the PostgreSQL schema to load into.
	Schema string `mapstructure:"schema"`

	// ConflictPolicy is append, replace or fail.
	ConflictPolicy string `mapstructure:"conflict_policy"`

	// BatchSize is the number of rows per insert for sqlite.
	BatchSize int `mapstructure:"batch_size"`
}

// ExecConfig holds configuration for running SQL scripts.
type ExecConfig struct {
	// ContinueOnError keeps running after a failed statement.
	ContinueOnError bool `mapstructure:"continue_on_error"`

	// Vars are substituted into scripts, on top of the environment.
	Vars map[string]string `mapstructure:"vars"`
}

// TrainConfig holds configuration for model training.
type TrainConfig struct {
	Folds        int     `mapstructure:"folds"`
	Iterations   int     `mapstructure:"iterations"`
	LearningRate float64 `mapstructure:"learning_rate"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	w := logistics.DefaultWindows()
	return &Config{
		LogLevel: "info",
		Generate: GenerateConfig{
			Seed:           42,
			StartDate:      "2023-01-01",
			EndDate:        "2025-09-19",
			Customers:      1000,
			Vehicles:       200,
			DeliveryPoints: 200,
			Cities:         0,
			Comprehensive:  true,
			TrafficPattern: "metro-commute",
			OutputDir:      "logistics_sample_data",
			Windows: WindowsConfig{
				Shipment:        w.Shipment,
				Weather:         w.Weather,
				Traffic:         w.Traffic,
				Telemetry:       w.Telemetry,
				RouteConditions: w.RouteConditions,
				Utilization:     w.Utilization,
				RawTelematics:   w.RawTelematics,
				RawFeeds:        w.RawFeeds,
			},
		},
		Load: LoadConfig{
			Target:         TargetPostgres,
			SQLitePath:     "logistics.db",
			ConflictPolicy: string(sink.PolicyReplace),
			BatchSize:      datagen.DefaultBatchConfig().BatchSize,
		},
		Train: TrainConfig{
			Folds:        5,
			Iterations:   500,
			LearningRate: 0.5,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-logisticsgen.yaml
// 3. ~/.config/pgedge-logisticsgen/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("pgedge-logisticsgen")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-logisticsgen"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Params converts the generate section into generation parameters.
func (g GenerateConfig) Params() (logistics.Params, error) {
	start, err := time.Parse(datagen.DateLayout, g.StartDate)
	if err != nil {
		return logistics.Params{}, fmt.Errorf("invalid start_date %q: %w", g.StartDate, err)
	}
	end, err := time.Parse(datagen.DateLayout, g.EndDate)
	if err != nil {
		return logistics.Params{}, fmt.Errorf("invalid end_date %q: %w", g.EndDate, err)
	}

	return logistics.Params{
		Seed:           g.Seed,
		StartDate:      start,
		EndDate:        end,
		Customers:      g.Customers,
		Vehicles:       g.Vehicles,
		DeliveryPoints: g.DeliveryPoints,
		Comprehensive:  g.Comprehensive,
		TrafficPattern: g.TrafficPattern,
		Windows: logistics.Windows{
			Shipment:        g.Windows.Shipment,
			Weather:         g.Windows.Weather,
			Traffic:         g.Windows.Traffic,
			Telemetry:       g.Windows.Telemetry,
			RouteConditions: g.Windows.RouteConditions,
			Utilization:     g.Windows.Utilization,
			RawTelematics:   g.Windows.RawTelematics,
			RawFeeds:        g.Windows.RawFeeds,
		},
	}, nil
}

// Reference returns the reference data restricted to the configured
// number of cities.
func (g GenerateConfig) Reference() *logistics.Reference {
	ref := logistics.DefaultReference()
	if g.Cities > 0 {
		return ref.WithCities(g.Cities)
	}
	return ref
}

// ValidateGenerate checks configuration required for generate command.
func (c *Config) ValidateGenerate() error {
	g := c.Generate
	p, err := g.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if g.Cities < 0 {
		return fmt.Errorf("cities must not be negative")
	}
	if _, err := patterns.Get(g.TrafficPattern, "UTC"); err != nil {
		return err
	}
	return nil
}

// ValidateLoad checks configuration required for load command.
func (c *Config) ValidateLoad() error {
	switch c.Load.Target {
	case TargetPostgres:
		if c.Connection == "" {
			return fmt.Errorf("connection string is required for the postgres target")
		}
	case TargetSQLite:
		if c.Load.SQLitePath == "" {
			return fmt.Errorf("sqlite_path is required for the sqlite target")
		}
	default:
		return fmt.Errorf("target must be 'postgres' or 'sqlite'")
	}
	if _, err := sink.ParseConflictPolicy(c.Load.ConflictPolicy); err != nil {
		return err
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Load.InputDir == "" {
		return c.ValidateGenerate()
	}
	return nil
}

// ValidateExec checks configuration required for exec command.
func (c *Config) ValidateExec() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateTrain checks configuration required for train command.
func (c *Config) ValidateTrain() error {
	if err := c.ValidateGenerate(); err != nil {
		return err
	}
	if c.Train.Folds < 2 {
		return fmt.Errorf("folds must be at least 2")
	}
	if c.Train.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	if c.Train.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be positive")
	}
	return nil
}
