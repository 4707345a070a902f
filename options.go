package pulsewear

import (
	"io"
	"time"

	"go.uber.org/zap"
)

// An Option configures a Controller. It returns an Option that restores the
// previous value.
type Option func(c *Controller) Option

// WithBeatDetector replaces the built-in PulseDetector.
func WithBeatDetector(b BeatDetector) Option {
	return func(c *Controller) Option {
		old := c.beats
		c.beats = b
		return WithBeatDetector(old)
	}
}

// WithButton sets the session button. Without one the monitor never leaves
// the paused state.
func WithButton(b Button) Option {
	return func(c *Controller) Option {
		old := c.button
		c.button = b
		return WithButton(old)
	}
}

// WithDisplay sets the screen frames are drawn to.
func WithDisplay(d Display) Option {
	return func(c *Controller) Option {
		old := c.display
		c.display = d
		return WithDisplay(old)
	}
}

// WithTransport sets the link session notifications and telemetry lines are
// written to. Every Write carries exactly one newline-terminated line.
func WithTransport(w io.Writer) Option {
	return func(c *Controller) Option {
		old := c.link
		c.link = w
		return WithTransport(old)
	}
}

// WithClock replaces the system clock.
func WithClock(clk Clock) Option {
	return func(c *Controller) Option {
		old := c.clock
		c.clock = clk
		return WithClock(old)
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) Option {
		old := c.log
		c.log = l
		return WithLogger(old)
	}
}

// WithSensorConfig sets the parameters applied to the sensor on every
// session start.
func WithSensorConfig(cfg SensorConfig) Option {
	return func(c *Controller) Option {
		old := c.sensorCfg
		c.sensorCfg = cfg
		return WithSensorConfig(old)
	}
}

// WithCadence sets how often Run ticks. By default Run ticks every
// millisecond.
func WithCadence(d time.Duration) Option {
	return func(c *Controller) Option {
		old := c.cadence
		if d > 0 {
			c.cadence = d
		}
		return WithCadence(old)
	}
}
