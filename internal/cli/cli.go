//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-logisticsgen.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-logisticsgen/internal/config"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logistics"
	"github.com/pgEdge/pgedge-logisticsgen/internal/patterns"
	"github.com/pgEdge/pgedge-logisticsgen/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-logisticsgen",
		Short: "Deterministic logistics data warehouse generator",
		Long: `pgedge-logisticsgen builds a reproducible logistics star schema
(dates, locations, customers, vehicles, routes, weather, traffic and
maintenance dimensions; shipment, telemetry, route condition and
utilization facts; raw source feeds and real-time tables) from a single
seed, writes it to CSV, and loads it into PostgreSQL or SQLite.

The same seed and parameters always produce byte-identical output.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-logisticsgen.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(patternsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesBasic bool

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the generated tables",
	Long: `List the tables produced by the generate command, in output order.
The comprehensive set is the default; --basic lists the core star schema.`,
	Run: func(cmd *cobra.Command, args []string) {
		names := logistics.TablesFor(!tablesBasic)
		cmd.Printf("Generated tables (%d):\n\n", len(names))
		for _, name := range names {
			cmd.Printf("  %s\n", name)
		}
	},
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List available traffic patterns",
	Long: `List the traffic patterns that shape hourly traffic bands and daily
shipment volumes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available traffic patterns:")
		cmd.Println()
		for _, name := range patterns.List() {
			p, err := patterns.Get(name, "UTC")
			if err != nil {
				continue
			}
			cmd.Printf("  %-18s - %s\n", name, p.Description())
		}
	},
}

func init() {
	tablesCmd.Flags().BoolVar(&tablesBasic, "basic", false,
		"list only the basic table set")
}
