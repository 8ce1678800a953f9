// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/sbinet/npyio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinearDataNoiseless(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	inputs, labels := BuildLinearData(backend, 16, 0, TrainXMin, TrainXMax, 42)
	xs, ys := flatValues(inputs), flatValues(labels)
	require.Len(t, xs, 16)
	require.Len(t, ys, 16)

	// x linearly spaced over [TrainXMin, TrainXMax).
	step := (TrainXMax - TrainXMin) / 16.0
	for i, x := range xs {
		assert.InDelta(t, TrainXMin+float64(i)*step, x, 1e-12)
	}

	// Zero noise: labels sit exactly on the line.
	for i, x := range xs {
		assert.InDelta(t, TrueWeight*x+TrueBias, ys[i], 1e-12)
	}
}

func TestBuildLinearDataDeterminism(t *testing.T) {
	backend := graphtest.BuildTestBackend()

	// Same seed, same data -- noiseless or not.
	x1, y1 := BuildLinearData(backend, 32, 0, TrainXMin, TrainXMax, 7)
	x2, y2 := BuildLinearData(backend, 32, 0, TrainXMin, TrainXMax, 7)
	require.Equal(t, x1.Value(), x2.Value())
	require.Equal(t, y1.Value(), y2.Value())

	x3, y3 := BuildLinearData(backend, 32, 0.1, TrainXMin, TrainXMax, 7)
	x4, y4 := BuildLinearData(backend, 32, 0.1, TrainXMin, TrainXMax, 7)
	require.Equal(t, x3.Value(), x4.Value())
	require.Equal(t, y3.Value(), y4.Value())

	// Different seeds move the noisy labels but never the inputs.
	x5, y5 := BuildLinearData(backend, 32, 0.1, TrainXMin, TrainXMax, 8)
	require.Equal(t, x3.Value(), x5.Value())
	require.NotEqual(t, y3.Value(), y5.Value())
}

func TestWriteNPY(t *testing.T) {
	backend := graphtest.BuildTestBackend()
	inputs, labels := BuildLinearData(backend, 8, 0.1, TrainXMin, TrainXMax, 3)
	dir := t.TempDir()
	require.NoError(t, WriteNPY(dir, inputs, labels))

	for name, want := range map[string][]float64{
		"inputs.npy": flatValues(inputs),
		"labels.npy": flatValues(labels),
	} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err)
		var got []float64
		require.NoError(t, npyio.Read(f, &got))
		require.NoError(t, f.Close())
		assert.Equal(t, want, got, "roundtrip of %s", name)
	}
}
