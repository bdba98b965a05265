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
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-logisticsgen/internal/db"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/sqlexec"
)

var (
	execVars            []string
	execContinueOnError bool
)

var execCmd = &cobra.Command{
	Use:   "exec <script.sql>...",
	Short: "Run parameterized SQL scripts",
	Long: `Run SQL scripts against PostgreSQL, one statement at a time.

Variables are taken from the environment, then the exec.vars section of
the config file, then --var flags, each overriding the previous:
  $VAR                     quoted literal value
  ${VAR}                   raw value (for identifiers)
  IFNULL($VAR, 'default')  quoted value, or the default if VAR is unset

Example:
  pgedge-logisticsgen exec setup.sql --var SCHEMA=analytics --connection "postgres://..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringArrayVar(&execVars, "var", nil,
		"script variable as KEY=VALUE (repeatable)")
	execCmd.Flags().BoolVar(&execContinueOnError, "continue-on-error", false,
		"keep running after a failed statement")
}

// scriptVars merges the environment, config vars and flag vars.
func scriptVars(environ []string, configVars map[string]string, flags []string) (map[string]string, error) {
	vars := make(map[string]string)
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}
	// Config keys are lowercased by the config loader.
	for k, v := range configVars {
		vars[strings.ToUpper(k)] = v
	}
	for _, kv := range flags {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --var %q, expected KEY=VALUE", kv)
		}
		vars[k] = v
	}
	return vars, nil
}

func runExec(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if execContinueOnError {
		cfg.Exec.ContinueOnError = true
	}

	// Validate configuration
	if err := cfg.ValidateExec(); err != nil {
		return err
	}

	vars, err := scriptVars(os.Environ(), cfg.Exec.Vars, execVars)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	pool, err := db.Connect(ctx, cfg.Connection, 1)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	executor := sqlexec.NewExecutor(pool)
	executor.ContinueOnError = cfg.Exec.ContinueOnError

	var failed error
	for _, path := range args {
		results, err := executor.RunFile(ctx, path, vars)
		if err != nil {
			return err
		}

		ok := 0
		for _, r := range results {
			if r.Success() {
				ok++
			}
		}
		logging.Info().
			Str("script", path).
			Int("statements", len(results)).
			Int("succeeded", ok).
			Msg("Script complete")

		if err := sqlexec.FirstError(results); err != nil {
			err = fmt.Errorf("%s: %w", path, err)
			if !cfg.Exec.ContinueOnError {
				return err
			}
			if failed == nil {
				failed = err
			}
		}
	}

	return failed
}
