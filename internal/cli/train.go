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

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
	"github.com/pgEdge/pgedge-logisticsgen/internal/model"
)

var trainFolds int

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train an on-time delivery classifier on generated shipments",
	Long: `Generate the dataset in memory and fit a logistic regression that
predicts whether a shipment is delivered on time. Accuracy is estimated
with k-fold cross validation.

Example:
  pgedge-logisticsgen train --seed 42 --folds 5`,
	RunE: runTrain,
}

func init() {
	addGenerateFlags(trainCmd.Flags())
	trainCmd.Flags().IntVar(&trainFolds, "folds", 0,
		"cross-validation folds (default: 5)")
}

func runTrain(cmd *cobra.Command, args []string) error {
	applyGenerateFlags(cmd)
	if trainFolds > 0 {
		cfg.Train.Folds = trainFolds
	}

	// Validate configuration
	if err := cfg.ValidateTrain(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	ds, err := generateDataset(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	X, y := model.ShipmentFeatures(ds.Shipments, ds.Routes)
	if len(X) < cfg.Train.Folds {
		return fmt.Errorf("only %d shipments, need at least %d for %d folds", len(X), cfg.Train.Folds, cfg.Train.Folds)
	}

	trainer := model.DefaultTrainer()
	trainer.Folds = cfg.Train.Folds
	trainer.Iterations = cfg.Train.Iterations
	trainer.LearningRate = cfg.Train.LearningRate
	trainer.Seed = ds.Params.Seed

	m, cv, err := trainer.Fit(X, y)
	if err != nil {
		return fmt.Errorf("failed to train model: %w", err)
	}

	lr := m.(*model.LogisticRegression)
	for i, name := range model.ShipmentFeatureNames {
		logging.Debug().
			Str("feature", name).
			Float64("weight", lr.Weights[i]).
			Msg("Feature weight")
	}

	logging.Info().
		Int("samples", len(X)).
		Int("folds", trainer.Folds).
		Float64("cv_accuracy", cv).
		Float64("baseline_accuracy", model.MajorityRate(y)).
		Float64("train_accuracy", model.Accuracy(m, X, y)).
		Msg("Training complete")

	return nil
}
