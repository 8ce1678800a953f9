// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	"testing"

	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointEstimateConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping training in short mode")
	}
	backend := graphtest.BuildTestBackend()
	const numExamples = 256
	inputs, labels := BuildLinearData(backend, numExamples, 0.01, TrainXMin, TrainXMax, 42)
	ds := must.M1(NewDataset(backend, "train", inputs, labels)).
		Infinite(true).BatchSize(numExamples, false)
	testInputs, testLabels := BuildLinearData(backend, 128, 0.01, TestXMin, TestXMax, 43)
	trainEvalDS := must.M1(NewDataset(backend, "train", inputs, labels)).
		BatchSize(numExamples, false)
	testEvalDS := must.M1(NewDataset(backend, "test", testInputs, testLabels)).
		BatchSize(128, false)

	// reportEvery > 0 exercises the periodic loss report; the eval datasets
	// exercise the final evaluation report.
	ctx := DefaultContext()
	require.NoError(t, TrainPointEstimate(backend, ctx, ds, 1000, 250, trainEvalDS, testEvalDS))

	estimate := must.M1(PointEstimateFromContext(ctx))
	assert.InDelta(t, TrueWeight, estimate.Weight, 0.1)
	assert.InDelta(t, TrueBias, estimate.Bias, 0.1)

	// Held-out data from a range never seen in training.
	mse := must.M1(PointModelMSE(backend, ctx, testInputs, testLabels))
	assert.Less(t, mse, 0.05, "held-out MSE")
}

func TestPointEstimateFromContextBeforeTraining(t *testing.T) {
	ctx := DefaultContext()
	_, err := PointEstimateFromContext(ctx)
	require.Error(t, err)
}
