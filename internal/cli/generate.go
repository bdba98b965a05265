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
	"github.com/spf13/pflag"

	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
	"github.com/pgEdge/pgedge-logisticsgen/internal/report"
	"github.com/pgEdge/pgedge-logisticsgen/internal/sink"
)

var (
	genSeed           uint64
	genStartDate      string
	genEndDate        string
	genCustomers      int
	genVehicles       int
	genCities         int
	genDeliveryPoints int
	genBasic          bool
	genTrafficPattern string
	genOutputDir      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the dataset and write it as CSV",
	Long: `Generate the logistics dataset and write one CSV file per table, a
data quality report and a manifest into the output directory. Files are
staged and only moved into place when every file was written.

Example:
  pgedge-logisticsgen generate --seed 42 --output-dir ./out
  pgedge-logisticsgen generate --basic --cities 2 --start-date 2024-01-01 --end-date 2024-03-31`,
	RunE: runGenerate,
}

func init() {
	addGenerateFlags(generateCmd.Flags())
	generateCmd.Flags().StringVar(&genOutputDir, "output-dir", "",
		"output directory (default: logistics_sample_data)")
}

// addGenerateFlags registers the dataset flags shared by generate, load
// and train.
func addGenerateFlags(fs *pflag.FlagSet) {
	fs.Uint64Var(&genSeed, "seed", 0,
		"random seed (default: 42)")
	fs.StringVar(&genStartDate, "start-date", "",
		"first calendar day, YYYY-MM-DD")
	fs.StringVar(&genEndDate, "end-date", "",
		"last calendar day, YYYY-MM-DD")
	fs.IntVar(&genCustomers, "customers", 0,
		"number of customers")
	fs.IntVar(&genVehicles, "vehicles", 0,
		"number of vehicles")
	fs.IntVar(&genCities, "cities", 0,
		"restrict to the first n reference cities (0 = all)")
	fs.IntVar(&genDeliveryPoints, "delivery-points", 0,
		"number of delivery point locations")
	fs.BoolVar(&genBasic, "basic", false,
		"generate only the basic table set")
	fs.StringVar(&genTrafficPattern, "traffic-pattern", "",
		"traffic pattern (see 'patterns')")
}

// applyGenerateFlags overrides the generate section with flags that were
// set on the command line.
func applyGenerateFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	g := &cfg.Generate
	if fs.Changed("seed") {
		g.Seed = genSeed
	}
	if genStartDate != "" {
		g.StartDate = genStartDate
	}
	if genEndDate != "" {
		g.EndDate = genEndDate
	}
	if fs.Changed("customers") {
		g.Customers = genCustomers
	}
	if fs.Changed("vehicles") {
		g.Vehicles = genVehicles
	}
	if fs.Changed("cities") {
		g.Cities = genCities
	}
	if fs.Changed("delivery-points") {
		g.DeliveryPoints = genDeliveryPoints
	}
	if genBasic {
		g.Comprehensive = false
	}
	if genTrafficPattern != "" {
		g.TrafficPattern = genTrafficPattern
	}
	if genOutputDir != "" {
		g.OutputDir = genOutputDir
	}
}

// generateDataset builds the dataset described by the generate section.
func generateDataset(ctx context.Context) (*logistics.Dataset, error) {
	p, err := cfg.Generate.Params()
	if err != nil {
		return nil, err
	}
	logging.SetRun(sink.RunID(p, cfg.Generate.Cities), p.Seed)
	return logistics.Generate(ctx, p, cfg.Generate.Reference())
}

func runGenerate(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)

	// Validate configuration
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ds, err := generateDataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	rep := report.Build(ds)
	rep.Log()

	m, err := sink.WriteCSV(cfg.Generate.OutputDir, ds, rep, cfg.Generate.Cities)
	if err != nil {
		return err
	}

	logging.Info().
		Str("output_dir", cfg.Generate.OutputDir).
		Str("run_id", m.RunID).
		Str("summary", ds.String()).
		Msg("Generation complete")

	return nil
}
