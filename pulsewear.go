// Package pulsewear is the control pipeline of a wrist-worn PPG monitor.
//
// A Controller samples the sensor, gates samples on skin contact, estimates
// SpO2, turns beat edges into a rolling heart rate and a stress label, and
// multiplexes telemetry, display refresh and transient overlays on plain
// timestamp comparisons. It is driven one Tick at a time from a single
// goroutine and never allocates on the sampling path.
package pulsewear

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/cgxeiji/pulsewear/telemetry"
)

// Sensor is a PPG front end with a sample FIFO.
type Sensor interface {
	// Configure (re)applies the acquisition parameters.
	Configure(SensorConfig) error
	Wake() error
	Sleep() error
	// Available reports whether ReadSample has a sample to return.
	Available() (bool, error)
	ReadSample() (Sample, error)
}

// BeatDetector reports beat edges in the red channel. It keeps its own
// filter state and must be fed every valid sample in order.
type BeatDetector interface {
	BeatDetected(red uint32) bool
}

// Button is the session push-button. Pressed reports the raw line level.
type Button interface {
	Pressed() bool
}

// SensorConfig holds the acquisition parameters of the sensor.
type SensorConfig struct {
	RedCurrent    float64 // mA
	IRCurrent     float64 // mA
	SampleAverage int
	SampleRate    int // Hz
	PulseWidth    int // us
	ADCRange      int // nA
}

// DefaultSensorConfig returns the parameters the monitor runs with unless
// told otherwise.
func DefaultSensorConfig() SensorConfig {
	return SensorConfig{
		RedCurrent:    defaultLEDCurrent,
		IRCurrent:     defaultLEDCurrent,
		SampleAverage: defaultSampleAverage,
		SampleRate:    defaultSampleRate,
		PulseWidth:    defaultPulseWidth,
		ADCRange:      defaultADCRange,
	}
}

// SessionState tells whether the monitor is measuring.
type SessionState int

// Session states.
const (
	Paused SessionState = iota
	Active
)

func (s SessionState) String() string {
	if s == Active {
		return "active"
	}
	return "paused"
}

// Metrics is the latest derived output. Display and telemetry both read the
// same value so they always agree.
type Metrics struct {
	// BPM is the instantaneous rate of the last beat edge, accepted or not.
	BPM int
	// AverageBPM is the mean over the rate history, zero without contact.
	AverageBPM int
	// SpO2 is in percent, zero without contact.
	SpO2   int
	Stress StressLevel
}

// Controller owns every piece of monitor state. It is not safe for
// concurrent use.
type Controller struct {
	sensor    Sensor
	beats     BeatDetector
	button    Button
	display   Display
	link      io.Writer
	clock     Clock
	log       *zap.Logger
	sensorCfg SensorConfig
	cadence   time.Duration

	state   SessionState
	pressed bool
	contact bool

	metrics Metrics
	tracker beatTracker
	lastIR  uint32

	flash     expiry
	greeting  expiry
	telemetry schedule
	refresh   schedule

	line []byte
}

// New returns a paused Controller reading from sensor.
func New(sensor Sensor, options ...Option) *Controller {
	c := &Controller{
		sensor:    sensor,
		beats:     NewPulseDetector(),
		button:    released{},
		display:   blank{},
		link:      io.Discard,
		clock:     SystemClock(),
		log:       zap.NewNop(),
		sensorCfg: DefaultSensorConfig(),
		cadence:   time.Millisecond,

		metrics: Metrics{SpO2: 98, Stress: StressLow},

		flash:     expiry{ttl: flashMs},
		greeting:  expiry{ttl: greetingMs},
		telemetry: schedule{interval: telemetryMs},
		refresh:   schedule{interval: refreshMs},

		line: make([]byte, 0, 32),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// State returns the session state.
func (c *Controller) State() SessionState { return c.state }

// Metrics returns the latest metrics.
func (c *Controller) Metrics() Metrics { return c.metrics }

// Rates returns the rate history.
func (c *Controller) Rates() RateHistory { return c.tracker.rates }

// Intervals returns the interval history.
func (c *Controller) Intervals() IntervalHistory { return c.tracker.intervals }

// Greeting reports whether the greeting overlay is showing.
func (c *Controller) Greeting() bool { return c.greeting.active() }

// Flashing reports whether the heartbeat glyph is showing.
func (c *Controller) Flashing() bool { return c.flash.active() }

// Run calls Tick at the configured cadence until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	t := time.NewTicker(c.cadence)
	defer t.Stop()

	for {
		c.Tick()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// Tick runs one iteration of the control loop: button, then sampling, then
// the periodic outputs. Sampling and outputs only run while active.
func (c *Controller) Tick() {
	c.pollButton()
	if c.state != Active {
		return
	}
	c.drain()
	c.emit(c.clock.Millis())
}

// pollButton toggles the session on a rising edge. The edge is followed by
// a blocking settle delay; the level latched for the next edge is the one
// read before the delay.
func (c *Controller) pollButton() {
	level := c.button.Pressed()
	if level && !c.pressed {
		c.clock.Sleep(debounceMs)
		if c.state == Active {
			c.stop()
		} else {
			c.start()
		}
	}
	c.pressed = level
}

// start begins a session. It runs after the settle delay, so the greeting
// is timed from the transition rather than from the press.
func (c *Controller) start() {
	now := c.clock.Millis()
	c.state = Active
	c.log.Info("session started", zap.Uint32("at_ms", now))

	if err := c.sensor.Wake(); err != nil {
		c.log.Warn("could not wake sensor", zap.Error(err))
	}
	if err := c.sensor.Configure(c.sensorCfg); err != nil {
		c.log.Warn("could not configure sensor", zap.Error(err))
	}
	if r, ok := c.beats.(interface{ Reset() }); ok {
		r.Reset()
	}

	c.flash.clear()
	c.greeting.start(now)
	c.send(telemetry.Start)
}

func (c *Controller) stop() {
	c.state = Paused
	c.log.Info("session stopped", zap.Uint32("at_ms", c.clock.Millis()))

	c.send(telemetry.Stop)
	if err := c.sensor.Sleep(); err != nil {
		c.log.Warn("could not put sensor to sleep", zap.Error(err))
	}
	c.metrics.AverageBPM = 0

	if err := c.display.Frame(drawPaused); err != nil {
		c.log.Warn("could not draw paused screen", zap.Error(err))
	}
}

// drain processes every sample waiting in the sensor FIFO.
func (c *Controller) drain() {
	for {
		ok, err := c.sensor.Available()
		if err != nil {
			c.log.Warn("could not poll sensor", zap.Error(err))
			return
		}
		if !ok {
			return
		}
		s, err := c.sensor.ReadSample()
		if err != nil {
			c.log.Warn("could not read sample", zap.Error(err))
			return
		}
		c.process(s)
	}
}

func (c *Controller) process(s Sample) {
	c.lastIR = s.IR

	if err := CheckSample(s); err != nil {
		c.metrics.AverageBPM = 0
		c.metrics.SpO2 = 0
		if c.contact {
			c.contact = false
			c.log.Debug("contact lost", zap.Error(err))
		}
		return
	}
	if !c.contact {
		c.contact = true
		c.log.Debug("contact restored", zap.Uint32("red", s.Red), zap.Uint32("ir", s.IR))
	}

	if spo2, err := EstimateSpO2(s); err == nil {
		c.metrics.SpO2 = spo2
	}

	if !c.beats.BeatDetected(s.Red) {
		return
	}

	now := c.clock.Millis()
	accepted := c.tracker.beat(now)
	c.metrics.BPM = c.tracker.bpm
	if !accepted {
		c.log.Debug("beat rejected", zap.Int("bpm", c.tracker.bpm))
		return
	}

	c.metrics.AverageBPM = averageRate(&c.tracker.rates)
	c.metrics.Stress = ClassifyStress(&c.tracker.intervals)
	c.flash.start(now)
}

func (c *Controller) emit(now uint32) {
	c.flash.expire(now)
	if c.greeting.expire(now) {
		c.log.Debug("greeting cleared", zap.Uint32("at_ms", now))
	}

	if c.telemetry.due(now) {
		c.line = telemetry.Append(c.line[:0], telemetry.Reading{
			IR:         c.lastIR,
			BPM:        c.metrics.BPM,
			AverageBPM: c.metrics.AverageBPM,
		})
		c.write(c.line)
	}

	if c.refresh.due(now) {
		if err := c.display.Frame(c.drawFrame); err != nil {
			c.log.Warn("could not refresh display", zap.Error(err))
		}
	}
}

func (c *Controller) drawFrame(cv Canvas) {
	if c.greeting.active() {
		drawGreeting(cv)
		return
	}
	drawMain(cv, c.metrics, c.flash.active())
}

func (c *Controller) send(msg string) {
	c.line = append(append(c.line[:0], msg...), '\n')
	c.write(c.line)
}

func (c *Controller) write(p []byte) {
	if _, err := c.link.Write(p); err != nil {
		c.log.Warn("could not write to transport", zap.Error(err))
	}
}

// Halt draws the fault screen and blocks until ctx is done. It is the end of
// the road after the sensor failed to come up.
func Halt(ctx context.Context, d Display, log *zap.Logger, cause error) error {
	log.Error("sensor did not respond, halting", zap.Error(cause))
	if err := d.Frame(DrawFault); err != nil {
		log.Warn("could not draw fault screen", zap.Error(err))
	}
	<-ctx.Done()
	return fmt.Errorf("pulsewear: %w: %w", ErrSensorInit, cause)
}

type released struct{}

func (released) Pressed() bool { return false }

type blank struct{}

func (blank) Frame(func(Canvas)) error { return nil }
