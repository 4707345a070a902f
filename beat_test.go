package pulsewear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPulseDetectorFlatSignal(t *testing.T) {
	p := NewPulseDetector()
	for i := 0; i < 1000; i++ {
		assert.False(t, p.BeatDetected(100000), "sample %d", i)
	}
}

func TestPulseDetectorSine(t *testing.T) {
	const (
		fs      = 100.0 // Hz
		hz      = 1.25  // 75 bpm
		seconds = 10
	)
	p := NewPulseDetector()

	beats := 0
	for i := 0; i < fs*seconds; i++ {
		v := 100000 + 2600*math.Sin(2*math.Pi*hz*float64(i)/fs)
		if p.BeatDetected(uint32(v)) {
			beats++
		}
	}

	dur := float64(seconds)
	periods := int(hz * dur)
	assert.Greater(t, beats, periods/2)
	assert.LessOrEqual(t, beats, periods+1)
}

func TestPulseDetectorReset(t *testing.T) {
	p := NewPulseDetector()
	for i := 0; i < 50; i++ {
		p.BeatDetected(uint32(100000 + 2000*math.Sin(float64(i))))
	}
	p.Reset()
	assert.Equal(t, PulseDetector{}, *p)
}

func TestFIRDCGain(t *testing.T) {
	var f fir
	var out float64
	for i := 0; i < firSize; i++ {
		out = f.filter(1)
	}
	sum := firCoeff[11]
	for _, c := range firCoeff[:11] {
		sum += 2 * c
	}
	assert.InDelta(t, sum, out, 1e-9)
}
