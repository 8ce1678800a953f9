// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	"math"

	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/ml/context"
)

// GuideScope is the context scope holding the four learnable guide parameters.
const GuideScope = "guide"

// Guide variable names. Raw scales are unconstrained and mapped through
// softplus before use, so the guide stddevs stay positive.
const (
	VarWeightLoc      = "weight_loc"
	VarWeightRawScale = "weight_raw_scale"
	VarBiasLoc        = "bias_loc"
	VarBiasRawScale   = "bias_raw_scale"
)

const (
	// PriorScale is the stddev of the unit-Gaussian priors over weight and bias.
	PriorScale = 1.0

	// LikelihoodScale is the fixed observation noise scale of the model.
	LikelihoodScale = 1.0

	// initialRawScale starts the guide stddevs at softplus(-1) ~= 0.31: wide
	// enough to explore, already narrower than the prior.
	initialRawScale = -1.0
)

// softplus computes log(1+exp(x)), numerically stable for large |x|.
func softplus(x *Node) *Node {
	return Add(Max(x, ZerosLike(x)), Log1P(Exp(Neg(Abs(x)))))
}

// normalLogProb returns log N(x; loc, scale) element-wise. loc and scale
// broadcast against x as usual.
func normalLogProb(x, loc, scale *Node) *Node {
	z := Div(Sub(x, loc), scale)
	return Sub(
		MulScalar(Square(z), -0.5),
		AddScalar(Log(scale), 0.5*math.Log(2*math.Pi)))
}

// BayesianModelGraph builds the model and guide in one graph and returns
// [predictions, negative ELBO].
//
// The guide is a factorized Gaussian over (weight, bias) with learnable
// locations and scales. A single reparameterized sample (loc + scale*epsilon)
// is drawn per step, so gradients of the ELBO flow through the sample into the
// guide parameters. The ELBO is the log-joint of the model under that sample
// minus the guide's own log-density:
//
//	ELBO = log p(w) + log p(b) + sum_i log p(y_i | w*x_i + b) - log q(w, b)
//
// The inputs must be [x, y]: the labels are fed as a second input because the
// likelihood term is scored in-graph (see NewVariationalDataset).
func BayesianModelGraph(ctx *context.Context, spec any, inputs []*Node) []*Node {
	_ = spec
	x, y := inputs[0], inputs[1]
	g := x.Graph()
	dtype := x.DType()

	guideCtx := ctx.In(GuideScope)
	weightLoc := guideCtx.VariableWithValue(VarWeightLoc, 0.0).ValueGraph(g)
	weightRaw := guideCtx.VariableWithValue(VarWeightRawScale, initialRawScale).ValueGraph(g)
	biasLoc := guideCtx.VariableWithValue(VarBiasLoc, 0.0).ValueGraph(g)
	biasRaw := guideCtx.VariableWithValue(VarBiasRawScale, initialRawScale).ValueGraph(g)
	weightScale := softplus(weightRaw)
	biasScale := softplus(biasRaw)

	// One reparameterized sample of (weight, bias) from the guide.
	scalar := shapes.Make(dtype)
	weight := Add(weightLoc, Mul(weightScale, ctx.RandomNormal(g, scalar)))
	bias := Add(biasLoc, Mul(biasScale, ctx.RandomNormal(g, scalar)))

	predictions := Add(Mul(x, weight), bias)

	priorLoc := ScalarZero(g, dtype)
	priorScale := Scalar(g, dtype, PriorScale)
	logPrior := Add(
		normalLogProb(weight, priorLoc, priorScale),
		normalLogProb(bias, priorLoc, priorScale))
	logLikelihood := ReduceAllSum(
		normalLogProb(y, predictions, Scalar(g, dtype, LikelihoodScale)))
	logGuide := Add(
		normalLogProb(weight, weightLoc, weightScale),
		normalLogProb(bias, biasLoc, biasScale))

	negativeELBO := Sub(logGuide, Add(logPrior, logLikelihood))
	return []*Node{predictions, negativeELBO}
}

// NegativeELBOLoss is the loss function for the SVI trainer: the model graph
// already computed the negative ELBO and returns it as its second output.
func NegativeELBOLoss(labels, predictions []*Node) *Node {
	_ = labels
	return predictions[1]
}
