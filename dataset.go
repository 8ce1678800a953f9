// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

// Package bayeslinear demonstrates Bayesian linear regression with stochastic
// variational inference (SVI), next to a plain point-estimate regression, both
// built on GoMLX.
//
// The data is synthetic: y = 3x + 1 plus Gaussian noise, with x linearly spaced
// over a fixed range. The point-estimate model recovers (3, 1) by minimizing the
// mean squared error. The Bayesian model places unit-Gaussian priors over the
// weight and the bias, and a factorized Gaussian guide is fit to the posterior
// by gradient ascent on the ELBO.
package bayeslinear

import (
	"os"
	"path/filepath"

	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/pkg/core/dtypes"
	. "github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/shapes"
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/gomlx/gomlx/pkg/ml/datasets"
	"github.com/pkg/errors"
	"github.com/sbinet/npyio"
)

// True generative parameters the models attempt to recover.
const (
	TrueWeight = 3.0
	TrueBias   = 1.0
)

// Default input ranges: training data is sampled in [TrainXMin, TrainXMax), the
// held-out test data in [TestXMin, TestXMax), so criticism measures extrapolation
// to inputs never seen in training.
const (
	TrainXMin, TrainXMax = -1.0, 1.0
	TestXMin, TestXMax   = 1.0, 2.0
)

// DType used throughout: this is a statistics demo, precision is cheap.
var DType = dtypes.Float64

// BuildLinearData generates n scalar examples of y = TrueWeight*x + TrueBias plus
// Normal(0, noiseStddev) noise. The x values are linearly spaced over
// [xMin, xMax). Generation is deterministic given the seed: the same seed always
// produces the same noise, and with noiseStddev == 0 the labels are exactly the
// noiseless line.
//
// It returns inputs shaped [n, 1] and labels shaped [n, 1].
func BuildLinearData(backend backends.Backend, n int, noiseStddev, xMin, xMax float64, seed int64) (inputs, labels *tensors.Tensor) {
	e := MustNewExec(backend, func(rngState *Node) (inputs, labels *Node) {
		g := rngState.Graph()
		inputs = IotaFull(g, shapes.Make(DType, n, 1))
		inputs = AddScalar(MulScalar(inputs, (xMax-xMin)/float64(n)), xMin)
		labels = AddScalar(MulScalar(inputs, TrueWeight), TrueBias)
		if noiseStddev > 0 {
			var noise *Node
			rngState, noise = RandomNormal(rngState, labels.Shape())
			labels = Add(labels, MulScalar(noise, noiseStddev))
		}
		return
	})
	defer e.Finalize()
	results := e.MustExec(RNGStateFromSeed(seed))
	inputs, labels = results[0], results[1]
	return
}

// NewDataset wraps the generated tensors into an InMemoryDataset suitable for the
// point-estimate trainer and for evaluation: inputs are [x], labels are [y].
func NewDataset(backend backends.Backend, name string, inputs, labels *tensors.Tensor) (*datasets.InMemoryDataset, error) {
	ds, err := datasets.InMemoryFromData(backend, name, []any{inputs}, []any{labels})
	if err != nil {
		return nil, errors.WithMessagef(err, "building dataset %q", name)
	}
	return ds, nil
}

// NewVariationalDataset wraps the tensors for the SVI trainer. The labels are
// fed twice, once as a second input: the Bayesian model graph needs y to score
// the likelihood term of the ELBO in-graph, and model graphs only see inputs.
func NewVariationalDataset(backend backends.Backend, name string, inputs, labels *tensors.Tensor) (*datasets.InMemoryDataset, error) {
	ds, err := datasets.InMemoryFromData(backend, name, []any{inputs, labels}, []any{labels})
	if err != nil {
		return nil, errors.WithMessagef(err, "building dataset %q", name)
	}
	return ds, nil
}

// WriteNPY saves the generated dataset as inputs.npy and labels.npy under dir,
// so it can be inspected with any tooling that reads NumPy files.
func WriteNPY(dir string, inputs, labels *tensors.Tensor) error {
	for _, part := range []struct {
		name   string
		tensor *tensors.Tensor
	}{{"inputs.npy", inputs}, {"labels.npy", labels}} {
		flat := flatValues(part.tensor)
		f, err := os.Create(filepath.Join(dir, part.name))
		if err != nil {
			return errors.Wrapf(err, "creating %s", part.name)
		}
		if err = npyio.Write(f, flat); err != nil {
			_ = f.Close()
			return errors.Wrapf(err, "writing %s", part.name)
		}
		if err = f.Close(); err != nil {
			return errors.Wrapf(err, "closing %s", part.name)
		}
	}
	return nil
}

// flatValues flattens a [n, 1] float64 tensor into a plain slice.
func flatValues(t *tensors.Tensor) []float64 {
	rows := t.Value().([][]float64)
	flat := make([]float64, 0, len(rows))
	for _, row := range rows {
		flat = append(flat, row[0])
	}
	return flat
}
