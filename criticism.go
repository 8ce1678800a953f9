// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	"fmt"
	"math"

	"github.com/gomlx/gomlx/backends"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"
)

// PosteriorSummary holds the fitted guide: the approximate posterior over the
// regression weight and bias, as two independent Gaussians.
type PosteriorSummary struct {
	WeightLoc, WeightScale float64
	BiasLoc, BiasScale     float64
}

// GuideSummary reads the four guide parameters back from the context, mapping
// the raw scales through softplus. It fails if the guide hasn't been built yet.
func GuideSummary(ctx *context.Context) (PosteriorSummary, error) {
	read := func(name string) (float64, error) {
		v := ctx.GetVariableByScopeAndName("/"+GuideScope, name)
		if v == nil {
			return 0, errors.Errorf("guide variable %q not found in context -- was the guide trained?", name)
		}
		value, err := v.Value()
		if err != nil {
			return 0, err
		}
		return tensors.ToScalar[float64](value), nil
	}
	var summary PosteriorSummary
	var err error
	if summary.WeightLoc, err = read(VarWeightLoc); err != nil {
		return summary, err
	}
	if summary.WeightScale, err = read(VarWeightRawScale); err != nil {
		return summary, err
	}
	if summary.BiasLoc, err = read(VarBiasLoc); err != nil {
		return summary, err
	}
	if summary.BiasScale, err = read(VarBiasRawScale); err != nil {
		return summary, err
	}
	summary.WeightScale = softplusScalar(summary.WeightScale)
	summary.BiasScale = softplusScalar(summary.BiasScale)
	return summary, nil
}

// softplusScalar is the scalar counterpart of the in-graph softplus.
func softplusScalar(x float64) float64 {
	return math.Max(x, 0) + math.Log1p(math.Exp(-math.Abs(x)))
}

// CredibleInterval returns the central interval of the given probability mass
// (e.g. 0.9) for a Gaussian marginal of the posterior.
func CredibleInterval(loc, scale, prob float64) (low, high float64) {
	dist := distuv.Normal{Mu: loc, Sigma: scale}
	alpha := (1 - prob) / 2
	return dist.Quantile(alpha), dist.Quantile(1 - alpha)
}

// String prints the posterior marginals with 90% credible intervals, next to
// the ground truth.
func (s PosteriorSummary) String() string {
	wLow, wHigh := CredibleInterval(s.WeightLoc, s.WeightScale, 0.9)
	bLow, bHigh := CredibleInterval(s.BiasLoc, s.BiasScale, 0.9)
	return fmt.Sprintf(
		"weight ~ N(%.4f, %.4f), 90%% CI [%.4f, %.4f] (true %.1f)\n"+
			"bias   ~ N(%.4f, %.4f), 90%% CI [%.4f, %.4f] (true %.1f)",
		s.WeightLoc, s.WeightScale, wLow, wHigh, TrueWeight,
		s.BiasLoc, s.BiasScale, bLow, bHigh, TrueBias)
}

// PointModelMSE evaluates the trained point-estimate model on the given
// held-out data and returns its mean squared error.
func PointModelMSE(backend backends.Backend, ctx *context.Context, inputs, labels *tensors.Tensor) (float64, error) {
	mse, err := context.ExecOnce(backend, ctx.Reuse(),
		func(ctx *context.Context, x, y *Node) *Node {
			predictions := PointModelGraph(ctx, nil, []*Node{x})[0]
			return ReduceAllMean(Square(Sub(y, predictions)))
		}, inputs, labels)
	if err != nil {
		return 0, errors.WithMessage(err, "evaluating point model MSE")
	}
	return tensors.ToScalar[float64](mse), nil
}

// GuideMeanMSE evaluates the predictor formed by the guide's posterior means on
// the given held-out data and returns its mean squared error.
func GuideMeanMSE(backend backends.Backend, ctx *context.Context, inputs, labels *tensors.Tensor) (float64, error) {
	summary, err := GuideSummary(ctx)
	if err != nil {
		return 0, err
	}
	mse, err := ExecOnce(backend, func(x, y *Node) *Node {
		predictions := AddScalar(MulScalar(x, summary.WeightLoc), summary.BiasLoc)
		return ReduceAllMean(Square(Sub(y, predictions)))
	}, inputs, labels)
	if err != nil {
		return 0, errors.WithMessage(err, "evaluating guide-mean MSE")
	}
	return tensors.ToScalar[float64](mse), nil
}
