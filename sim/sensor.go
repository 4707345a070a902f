// Package sim stands in for the monitor hardware: a synthetic PPG sensor
// and a push-button driven from the keyboard.
package sim

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/cgxeiji/pulsewear"
)

// ErrEmpty is returned by ReadSample when no sample is due.
var ErrEmpty = errors.New("sim: no sample available")

// Signal levels, in ADC counts.
const (
	redDC     = 110000
	irDC      = 115000
	amplitude = 2600
	irGain    = 0.8
	// Ambient light only, far below the contact floor.
	liftedRed = 2000
	liftedIR  = 300
	// Samples held while nobody reads, like the FIFO of the real part.
	backlog = 32
)

// Config sets the synthetic signal.
type Config struct {
	HeartRate  float64 // bpm
	Noise      float64 // fraction of the pulse amplitude
	SampleRate int     // Hz
}

// Sensor produces a pulsatile red/IR pair at a fixed sample rate, paced by
// the clock. It implements pulsewear.Sensor.
type Sensor struct {
	clock  pulsewear.Clock
	cfg    Config
	period uint32 // ms

	awake bool
	due   uint32 // timestamp of the next sample
	phase float64
	n     int

	lifted  atomic.Bool
	applied pulsewear.SensorConfig
}

// NewSensor returns a sleeping sensor. A non-positive sample rate means
// 100 Hz.
func NewSensor(clock pulsewear.Clock, cfg Config) *Sensor {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 100
	}
	period := uint32(1000 / cfg.SampleRate)
	if period == 0 {
		period = 1
	}
	return &Sensor{clock: clock, cfg: cfg, period: period}
}

// LiftFinger simulates the finger leaving the sensor window, or coming
// back. It may be called from any goroutine.
func (s *Sensor) LiftFinger(lifted bool) {
	s.lifted.Store(lifted)
}

// Lifted reports whether the finger is off the sensor.
func (s *Sensor) Lifted() bool {
	return s.lifted.Load()
}

// Configure records c; the synthetic signal does not depend on it.
func (s *Sensor) Configure(c pulsewear.SensorConfig) error {
	s.applied = c
	return nil
}

// Applied returns the last configuration.
func (s *Sensor) Applied() pulsewear.SensorConfig { return s.applied }

// Wake starts sampling from now.
func (s *Sensor) Wake() error {
	s.awake = true
	s.due = s.clock.Millis() + s.period
	return nil
}

// Sleep stops sampling.
func (s *Sensor) Sleep() error {
	s.awake = false
	return nil
}

// Available reports whether a sample period has elapsed. Samples older
// than the backlog are dropped.
func (s *Sensor) Available() (bool, error) {
	if !s.awake {
		return false, nil
	}
	now := s.clock.Millis()
	if int32(now-s.due) < 0 {
		return false, nil
	}
	if late := (now - s.due) / s.period; late >= backlog {
		skip := late - backlog + 1
		s.due += skip * s.period
		s.advance(int(skip))
	}
	return true, nil
}

// ReadSample returns the next due sample.
func (s *Sensor) ReadSample() (pulsewear.Sample, error) {
	if ok, _ := s.Available(); !ok {
		return pulsewear.Sample{}, ErrEmpty
	}
	s.due += s.period
	s.advance(1)

	if s.lifted.Load() {
		return pulsewear.Sample{Red: liftedRed, IR: liftedIR}, nil
	}
	ac := amplitude * (math.Sin(2*math.Pi*s.phase) + s.noise())
	return pulsewear.Sample{
		Red: uint32(redDC + ac),
		IR:  uint32(irDC + irGain*ac),
	}, nil
}

func (s *Sensor) advance(samples int) {
	for i := 0; i < samples; i++ {
		s.phase += s.cfg.HeartRate / 60 / float64(s.cfg.SampleRate)
		if s.phase >= 1 {
			s.phase--
		}
		s.n++
	}
}

// noise is a cheap deterministic hash of the sample index in [-Noise, Noise).
func (s *Sensor) noise() float64 {
	x := math.Sin(12345.678*float64(s.n-1)) * 9876.543
	return s.cfg.Noise * (2*(x-math.Floor(x)) - 1)
}
