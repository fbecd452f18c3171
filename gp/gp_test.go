package gp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/gp"
	"github.com/primer-ml/primer/pkg/errors"
)

func trainingData() (*mat.Dense, []float64) {
	xs := []float64{-3, -2, -1, 0, 1, 2, 3}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Sin(x)
	}
	return mat.NewDense(len(xs), 1, xs), ys
}

func TestPredictBeforeFitReturnsNotFitted(t *testing.T) {
	g := gp.New(gp.RBF{LengthScale: 1, Variance: 1}, 1e-8)

	_, _, err := g.Predict(mat.NewDense(1, 1, []float64{0}))
	require.Error(t, err)
	assert.True(t, errors.IsNotFittedError(err))
}

func TestFitInterpolatesTrainingPoints(t *testing.T) {
	x, y := trainingData()
	g := gp.New(gp.RBF{LengthScale: 1, Variance: 1}, 1e-8)
	require.NoError(t, g.Fit(x, y))
	assert.True(t, g.Fitted())

	mean, std, err := g.Predict(x)
	require.NoError(t, err)

	for i := range y {
		assert.InDelta(t, y[i], mean[i], 1e-3, "mean at training point %d", i)
		assert.Less(t, std[i], 0.05, "uncertainty at training point %d", i)
	}
}

func TestUncertaintyGrowsAwayFromData(t *testing.T) {
	x, y := trainingData()
	g := gp.New(gp.RBF{LengthScale: 1, Variance: 1}, 1e-8)
	require.NoError(t, g.Fit(x, y))

	_, std, err := g.Predict(mat.NewDense(2, 1, []float64{0, 10}))
	require.NoError(t, err)

	assert.Less(t, std[0], std[1], "far query should be more uncertain")
	assert.InDelta(t, 1.0, std[1], 0.05, "far from data the prior variance dominates")
}

func TestFitRejectsMismatchedTargets(t *testing.T) {
	x, _ := trainingData()
	g := gp.New(gp.RBF{}, 1e-8)

	err := g.Fit(x, []float64{1, 2})
	require.Error(t, err)
}

func TestPredictRejectsWrongFeatureCount(t *testing.T) {
	x, y := trainingData()
	g := gp.New(gp.RBF{}, 1e-8)
	require.NoError(t, g.Fit(x, y))

	_, _, err := g.Predict(mat.NewDense(1, 2, []float64{0, 0}))
	require.Error(t, err)
}
