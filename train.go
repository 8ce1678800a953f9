// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	"fmt"

	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/context"
	"github.com/gomlx/gomlx/pkg/ml/train"
	"github.com/gomlx/gomlx/pkg/ml/train/losses"
	"github.com/gomlx/gomlx/pkg/ml/train/optimizers"
	"github.com/gomlx/gomlx/ui/commandline"
	"github.com/pkg/errors"
)

// Context hyperparameter names, settable from the command line with
// commandline.CreateContextSettingsFlag.
const (
	ParamNumExamples = "num_examples"
	ParamNoiseStddev = "noise"
	ParamTrainSteps  = "train_steps"
	ParamReportEvery = "report_every"
	ParamSeed        = "seed"
)

// DefaultContext returns a fresh context with the demo's default
// hyperparameters set.
func DefaultContext() *context.Context {
	ctx := context.New()
	ctx.SetParams(map[string]any{
		ParamNumExamples: 256,
		ParamNoiseStddev: 0.1,
		ParamTrainSteps:  1000,
		ParamReportEvery: 100,
		ParamSeed:        42,

		optimizers.ParamLearningRate: 0.05,
	})
	return ctx
}

// TrainPointEstimate fits the point-estimate regressor on trainDS by minimizing
// the mean squared error with Adam, printing the loss every reportEvery steps.
// The learned weight and bias end up in ctx (see PointEstimateFromContext).
// Any evalDS given (finite, typically the train and test data) are evaluated
// and reported after training.
func TrainPointEstimate(backend backends.Backend, ctx *context.Context, trainDS train.Dataset, numSteps, reportEvery int, evalDS ...train.Dataset) error {
	trainer := train.NewTrainer(backend, ctx, PointModelGraph,
		losses.MeanSquaredError,
		optimizers.Adam().Done(),
		nil, nil) // trainMetrics, evalMetrics
	if err := runLoop(trainer, trainDS, numSteps, reportEvery); err != nil {
		return err
	}
	return reportEval(trainer, evalDS...)
}

// TrainVariational runs stochastic variational inference: each step draws a
// sample from the guide, evaluates the negative ELBO and takes an Adam step on
// the guide parameters. The fitted guide ends up in ctx (see GuideSummary).
// Any evalDS given must be variational datasets (see NewVariationalDataset);
// their reported loss is the negative ELBO under a fresh guide sample.
func TrainVariational(backend backends.Backend, ctx *context.Context, trainDS train.Dataset, numSteps, reportEvery int, evalDS ...train.Dataset) error {
	trainer := train.NewTrainer(backend, ctx, BayesianModelGraph,
		NegativeELBOLoss,
		optimizers.Adam().Done(),
		nil, nil) // trainMetrics, evalMetrics
	if err := runLoop(trainer, trainDS, numSteps, reportEvery); err != nil {
		return err
	}
	return reportEval(trainer, evalDS...)
}

// runLoop drives a standard training loop with a progress bar and periodic
// loss reports.
func runLoop(trainer *train.Trainer, trainDS train.Dataset, numSteps, reportEvery int) error {
	loop := train.NewLoop(trainer)
	commandline.AttachProgressBar(loop)
	if reportEvery > 0 {
		train.EveryNSteps(loop, reportEvery, "loss report", 0,
			func(loop *train.Loop, metrics []*tensors.Tensor) error {
				fmt.Printf("\tstep %d: loss=%.5f\n", loop.LoopStep, tensors.ToScalar[float64](metrics[0]))
				return nil
			})
	}
	if _, err := loop.RunSteps(trainDS, numSteps); err != nil {
		return errors.WithMessagef(err, "training for %d steps", numSteps)
	}
	return nil
}

// reportEval prints the trainer's evaluation metrics on each dataset.
func reportEval(trainer *train.Trainer, evalDS ...train.Dataset) error {
	if len(evalDS) == 0 {
		return nil
	}
	fmt.Println()
	if err := commandline.ReportEval(trainer, evalDS...); err != nil {
		return errors.WithMessage(err, "reporting evaluation")
	}
	return nil
}
