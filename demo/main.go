// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

// Demo: Bayesian linear regression with stochastic variational inference.
//
// It generates a synthetic linear dataset (y = 3x + 1 + noise), first fits a
// point-estimate regressor with gradient descent, then fits a Gaussian guide to
// the posterior over (weight, bias) by maximizing the ELBO, and finally compares
// both to the ground truth on held-out data.
package main

import (
	"flag"
	"fmt"

	"github.com/gomlx/gomlx/backends"
	_ "github.com/gomlx/gomlx/backends/default"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/gomlx/gomlx/pkg/ml/train/optimizers"
	"github.com/gomlx/gomlx/ui/commandline"
	"github.com/janpfeifer/must"
	"github.com/probgo/bayeslinear"
	"k8s.io/klog/v2"
)

var flagNpyDir = flag.String("npy_dir", "", "If set, saves the generated training data as .npy files under this directory.")

func main() {
	pointCtx := bayeslinear.DefaultContext()
	guideCtx := bayeslinear.DefaultContext()
	settings := commandline.CreateContextSettingsFlag(pointCtx, "")
	flag.Parse()
	must.M1(commandline.ParseContextSettings(pointCtx, *settings))
	must.M1(commandline.ParseContextSettings(guideCtx, *settings))

	backend := backends.MustNew()
	fmt.Printf("Backend: %s, %s\n", backend.Name(), backend.Description())

	numExamples := context.GetParamOr(pointCtx, bayeslinear.ParamNumExamples, 256)
	noise := context.GetParamOr(pointCtx, bayeslinear.ParamNoiseStddev, 0.1)
	numSteps := context.GetParamOr(pointCtx, bayeslinear.ParamTrainSteps, 1000)
	reportEvery := context.GetParamOr(pointCtx, bayeslinear.ParamReportEvery, 100)
	seed := int64(context.GetParamOr(pointCtx, bayeslinear.ParamSeed, 42))
	learningRate := context.GetParamOr(pointCtx, optimizers.ParamLearningRate, 0.05)

	fmt.Printf("True parameters: weight=%.1f bias=%.1f\n", bayeslinear.TrueWeight, bayeslinear.TrueBias)
	fmt.Printf("Examples: %d  Noise: %.3f  Steps: %d  LR: %.3f\n\n", numExamples, noise, numSteps, learningRate)

	inputs, labels := bayeslinear.BuildLinearData(backend, numExamples, noise,
		bayeslinear.TrainXMin, bayeslinear.TrainXMax, seed)
	testInputs, testLabels := bayeslinear.BuildLinearData(backend, numExamples, noise,
		bayeslinear.TestXMin, bayeslinear.TestXMax, seed+1)
	if *flagNpyDir != "" {
		must.M(bayeslinear.WriteNPY(*flagNpyDir, inputs, labels))
		fmt.Printf("Saved training data to %s/{inputs,labels}.npy\n\n", *flagNpyDir)
	}

	// Stage 1: point estimate by gradient descent on the mean squared error.
	fmt.Println("Point-estimate regression:")
	trainDS := must.M1(bayeslinear.NewDataset(backend, "train", inputs, labels)).
		Infinite(true).BatchSize(numExamples, false)
	trainEvalDS := must.M1(bayeslinear.NewDataset(backend, "train", inputs, labels)).
		BatchSize(numExamples, false)
	testEvalDS := must.M1(bayeslinear.NewDataset(backend, "test (held-out)", testInputs, testLabels)).
		BatchSize(numExamples, false)
	if err := bayeslinear.TrainPointEstimate(backend, pointCtx, trainDS, numSteps, reportEvery,
		trainEvalDS, testEvalDS); err != nil {
		klog.Fatalf("Point-estimate training failed: %+v", err)
	}
	estimate := must.M1(bayeslinear.PointEstimateFromContext(pointCtx))
	pointMSE := must.M1(bayeslinear.PointModelMSE(backend, pointCtx, testInputs, testLabels))
	fmt.Printf("Learned: weight=%.4f bias=%.4f, held-out MSE=%.5f\n\n", estimate.Weight, estimate.Bias, pointMSE)

	// Stage 2: stochastic variational inference over the same data.
	fmt.Println("Bayesian regression (SVI):")
	guideCtx.SetRNGStateFromSeed(seed)
	sviDS := must.M1(bayeslinear.NewVariationalDataset(backend, "train (svi)", inputs, labels)).
		Infinite(true).BatchSize(numExamples, false)
	sviTrainEvalDS := must.M1(bayeslinear.NewVariationalDataset(backend, "train (svi)", inputs, labels)).
		BatchSize(numExamples, false)
	sviTestEvalDS := must.M1(bayeslinear.NewVariationalDataset(backend, "test (svi, held-out)", testInputs, testLabels)).
		BatchSize(numExamples, false)
	if err := bayeslinear.TrainVariational(backend, guideCtx, sviDS, numSteps, reportEvery,
		sviTrainEvalDS, sviTestEvalDS); err != nil {
		klog.Fatalf("SVI training failed: %+v", err)
	}
	summary := must.M1(bayeslinear.GuideSummary(guideCtx))
	guideMSE := must.M1(bayeslinear.GuideMeanMSE(backend, guideCtx, testInputs, testLabels))
	fmt.Printf("Fitted guide:\n%s\nheld-out MSE (guide means)=%.5f\n", summary, guideMSE)
}
