package pulsewear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckSample(t *testing.T) {
	assert.ErrorIs(t, CheckSample(Sample{Red: 40000, IR: 90000}), ErrNotDetected)
	assert.ErrorIs(t, CheckSample(Sample{Red: 49999, IR: 90000}), ErrNotDetected)
	assert.ErrorIs(t, CheckSample(Sample{Red: 120000, IR: 0}), ErrNotDetected)
	assert.NoError(t, CheckSample(Sample{Red: 50000, IR: 90000}))
}

func TestEstimateSpO2(t *testing.T) {
	tests := []struct {
		ratio float64
		red   uint32
		want  int
	}{
		{1.05, 105000, 99},
		{0.97, 97000, 98},
		{0.92, 92000, 96},
		{0.5, 50000, 92},
		{1.0, 100000, 98},
		{0.95, 95000, 96},
		{0.90, 90000, 92},
	}
	for _, tt := range tests {
		got, err := EstimateSpO2(Sample{Red: tt.red, IR: 100000})
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ratio %v", tt.ratio)
	}
}

func TestEstimateSpO2ZeroInfrared(t *testing.T) {
	got, err := EstimateSpO2(Sample{Red: 100000})
	assert.ErrorIs(t, err, ErrNotDetected)
	assert.Zero(t, got)
}
