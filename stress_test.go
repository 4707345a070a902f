package pulsewear

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intervals(v ...uint32) *IntervalHistory {
	var h IntervalHistory
	for _, x := range v {
		h.push(x)
	}
	return &h
}

func TestClassifyStress(t *testing.T) {
	tests := []struct {
		name string
		h    *IntervalHistory
		want StressLevel
	}{
		{"wide", intervals(80, 20, 900, 900), StressLow},
		{"narrow", intervals(80, 65), StressHigh},
		{"medium", intervals(80, 55), StressMed},
		{"reversed", intervals(20, 80), StressLow},
		{"edge 50", intervals(100, 50), StressMed},
		{"edge 20", intervals(100, 80), StressHigh},
		{"cold start", intervals(), StressHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStress(tt.h))
		})
	}
}

func TestClassifyStressUsesFixedSlots(t *testing.T) {
	// After seven beats the newest two intervals sit in slots 1 and 2.
	// Their 90 ms spread would read Low, but slots 0 and 1 are compared.
	h := intervals(800, 800, 800, 800, 800, 810, 900)
	assert.Equal(t, [4]uint32{800, 810, 900, 800}, h.Slots())
	assert.Equal(t, StressHigh, ClassifyStress(h))
}

func TestStressLevelString(t *testing.T) {
	assert.Equal(t, "Low", StressLow.String())
	assert.Equal(t, "Med", StressMed.String())
	assert.Equal(t, "High", StressHigh.String())
}
