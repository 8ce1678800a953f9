// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/gomlx/gomlx/pkg/ml/layers"
	"github.com/pkg/errors"
)

// PointModelGraph is the classic point-estimate regressor: a single dense layer
// with one weight and one bias, mapping inputs [batch, 1] to predictions
// [batch, 1]. Trained with mean squared error it recovers the generative line.
func PointModelGraph(ctx *context.Context, spec any, inputs []*Node) []*Node {
	_ = spec
	predictions := layers.Dense(ctx, inputs[0], true, 1)
	return []*Node{predictions}
}

// PointEstimate holds the weight and bias learned by the point-estimate model.
type PointEstimate struct {
	Weight, Bias float64
}

// PointEstimateFromContext reads the learned weight and bias back from the
// dense layer variables. It fails if the model hasn't been built yet.
func PointEstimateFromContext(ctx *context.Context) (PointEstimate, error) {
	weightsVar := ctx.GetVariableByScopeAndName("/dense", "weights")
	biasesVar := ctx.GetVariableByScopeAndName("/dense", "biases")
	if weightsVar == nil || biasesVar == nil {
		return PointEstimate{}, errors.New("point-estimate model variables not found in context -- was the model trained?")
	}
	weights, err := weightsVar.Value()
	if err != nil {
		return PointEstimate{}, err
	}
	biases, err := biasesVar.Value()
	if err != nil {
		return PointEstimate{}, err
	}
	return PointEstimate{
		Weight: weights.Value().([][]float64)[0][0],
		Bias:   biases.Value().([]float64)[0],
	}, nil
}
