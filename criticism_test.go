// Copyright 2026 The probgo Authors. SPDX-License-Identifier: Apache-2.0

package bayeslinear

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredibleInterval(t *testing.T) {
	low, high := CredibleInterval(0, 1, 0.9)
	assert.InDelta(t, -1.6449, low, 1e-3)
	assert.InDelta(t, 1.6449, high, 1e-3)

	// Shifting and scaling the marginal shifts and scales the interval.
	low, high = CredibleInterval(3, 0.5, 0.9)
	assert.InDelta(t, 3-1.6449*0.5, low, 1e-3)
	assert.InDelta(t, 3+1.6449*0.5, high, 1e-3)
}

func TestPosteriorSummaryString(t *testing.T) {
	s := PosteriorSummary{WeightLoc: 2.9, WeightScale: 0.05, BiasLoc: 1.1, BiasScale: 0.04}
	text := s.String()
	assert.True(t, strings.Contains(text, "weight"))
	assert.True(t, strings.Contains(text, "bias"))
	assert.True(t, strings.Contains(text, "90% CI"))
}

func TestGuideSummaryBeforeTraining(t *testing.T) {
	ctx := DefaultContext()
	_, err := GuideSummary(ctx)
	require.Error(t, err)
}
