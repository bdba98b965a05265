//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model trains small classifiers over generated data.
package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/pgEdge/pgedge-logisticsgen/internal/datagen"
	"github.com/pgEdge/pgedge-logisticsgen/internal/logging"
)

var (
	// ErrNoData is returned when there are no training samples.
	ErrNoData = errors.New("no training data")
	// ErrShape is returned when samples, labels or features disagree in size.
	ErrShape = errors.New("inconsistent training data shape")
)

// Model scores a feature vector.
type Model interface {
	// Predict returns the probability of the positive class.
	Predict(x []float64) float64
}

// Trainer fits a model and reports its cross-validated accuracy.
type Trainer interface {
	Fit(X [][]float64, y []float64) (Model, float64, error)
}

// LogisticRegression is a fitted binary logistic model over standardized
// features.
type LogisticRegression struct {
	Weights []float64
	Bias    float64
	Mean    []float64
	Std     []float64
}

// Predict implements Model.
func (m *LogisticRegression) Predict(x []float64) float64 {
	z := m.Bias
	for j, w := range m.Weights {
		z += w * (x[j] - m.Mean[j]) / m.Std[j]
	}
	return sigmoid(z)
}

// Classify returns whether x is predicted positive.
func (m *LogisticRegression) Classify(x []float64) bool {
	return m.Predict(x) >= 0.5
}

// LogisticTrainer fits logistic regression by minimizing the L2 penalized
// log loss with gonum's gradient descent.
type LogisticTrainer struct {
	// LearningRate is the initial step of each line search.
	LearningRate float64
	// Iterations caps the optimizer's major iterations.
	Iterations int
	// L2 is the ridge penalty on the weights (not the bias).
	L2 float64
	// Folds is the number of cross-validation folds.
	Folds int
	// Seed fixes the fold assignment.
	Seed uint64
}

// DefaultTrainer returns a trainer with settings that converge on
// standardized features.
func DefaultTrainer() *LogisticTrainer {
	return &LogisticTrainer{
		LearningRate: 0.5,
		Iterations:   500,
		L2:           0.001,
		Folds:        5,
		Seed:         42,
	}
}

// Fit implements Trainer. It estimates accuracy with k-fold cross
// validation, then fits the returned model on every sample.
func (t *LogisticTrainer) Fit(X [][]float64, y []float64) (Model, float64, error) {
	if err := validate(X, y); err != nil {
		return nil, 0, err
	}
	if t.Folds < 2 || t.Folds > len(X) {
		return nil, 0, fmt.Errorf("folds must be between 2 and %d, got %d", len(X), t.Folds)
	}

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	order := datagen.Sample(datagen.NewFakerWithSeed(t.Seed), idx, len(idx))

	var total float64
	for k := 0; k < t.Folds; k++ {
		var trainX, testX [][]float64
		var trainY, testY []float64
		for pos, i := range order {
			if pos%t.Folds == k {
				testX, testY = append(testX, X[i]), append(testY, y[i])
			} else {
				trainX, trainY = append(trainX, X[i]), append(trainY, y[i])
			}
		}
		m, err := t.fit(trainX, trainY)
		if err != nil {
			return nil, 0, fmt.Errorf("fold %d: %w", k+1, err)
		}
		total += Accuracy(m, testX, testY)
	}

	m, err := t.fit(X, y)
	if err != nil {
		return nil, 0, err
	}
	return m, total / float64(t.Folds), nil
}

func (t *LogisticTrainer) fit(X [][]float64, y []float64) (*LogisticRegression, error) {
	n, d := len(X), len(X[0])
	m := &LogisticRegression{
		Mean: make([]float64, d),
		Std:  make([]float64, d),
	}

	raw := mat.NewDense(n, d, nil)
	for i, row := range X {
		raw.SetRow(i, row)
	}
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, raw)
		m.Mean[j], m.Std[j] = stat.MeanStdDev(col, nil)
		// Constant features carry no signal.
		if m.Std[j] == 0 || math.IsNaN(m.Std[j]) {
			m.Std[j] = 1
		}
	}

	z := mat.NewDense(n, d, nil)
	z.Apply(func(i, j int, v float64) float64 {
		return (v - m.Mean[j]) / m.Std[j]
	}, raw)
	labels := mat.NewVecDense(n, y)

	// Parameters are the d weights followed by the bias.
	var scores, resid, wgrad mat.VecDense
	forward := func(x []float64) {
		scores.MulVec(z, mat.NewVecDense(d, x[:d]))
		for i := 0; i < n; i++ {
			scores.SetVec(i, scores.AtVec(i)+x[d])
		}
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			forward(x)
			var loss float64
			for i := 0; i < n; i++ {
				s := scores.AtVec(i)
				loss += softplus(s) - y[i]*s
			}
			w := x[:d]
			return loss/float64(n) + 0.5*t.L2*floats.Dot(w, w)
		},
		Grad: func(grad, x []float64) {
			forward(x)
			resid.CloneFromVec(&scores)
			for i := 0; i < n; i++ {
				resid.SetVec(i, sigmoid(resid.AtVec(i)))
			}
			resid.SubVec(&resid, labels)
			wgrad.MulVec(z.T(), &resid)
			for j := 0; j < d; j++ {
				grad[j] = wgrad.AtVec(j)/float64(n) + t.L2*x[j]
			}
			grad[d] = mat.Sum(&resid) / float64(n)
		},
	}

	settings := &optimize.Settings{MajorIterations: t.Iterations}
	method := &optimize.GradientDescent{
		StepSizer: &optimize.ConstantStepSize{Size: t.LearningRate},
	}
	result, err := optimize.Minimize(problem, make([]float64, d+1), settings, method)
	if result == nil {
		return nil, fmt.Errorf("failed to fit logistic regression: %w", err)
	}
	// A line search that stalls near the optimum still reports the best
	// location found.
	if err != nil {
		if !finite(result.X) {
			return nil, fmt.Errorf("failed to fit logistic regression: %w", err)
		}
		logging.Debug().Err(err).Str("status", result.Status.String()).Msg("Optimizer stopped early")
	}

	m.Weights = append([]float64(nil), result.X[:d]...)
	m.Bias = result.X[d]
	return m, nil
}

// MajorityRate returns the accuracy of always predicting the more common
// label, the baseline a useful model has to beat.
func MajorityRate(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	pos := floats.Sum(y) / float64(len(y))
	return math.Max(pos, 1-pos)
}

// Accuracy returns the share of samples classified correctly at the 0.5
// threshold.
func Accuracy(m Model, X [][]float64, y []float64) float64 {
	if len(X) == 0 {
		return 0
	}
	correct := 0
	for i := range X {
		pred := 0.0
		if m.Predict(X[i]) >= 0.5 {
			pred = 1
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X))
}

func validate(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return ErrNoData
	}
	if len(X) != len(y) {
		return fmt.Errorf("%w: %d samples, %d labels", ErrShape, len(X), len(y))
	}
	d := len(X[0])
	if d == 0 {
		return fmt.Errorf("%w: no features", ErrShape)
	}
	for i, row := range X {
		if len(row) != d {
			return fmt.Errorf("%w: sample %d has %d features, expected %d", ErrShape, i, len(row), d)
		}
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("%w: label %d is %v, expected 0 or 1", ErrShape, i, v)
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// softplus is log(1 + e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

func finite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
