// Package config provides configuration types and defaults for pulsewear.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all configuration for pulsewear.
type Config struct {
	Sensor    SensorConfig    `yaml:"sensor" mapstructure:"sensor"`
	Button    ButtonConfig    `yaml:"button" mapstructure:"button"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Transport TransportConfig `yaml:"transport" mapstructure:"transport"`
	Loop      LoopConfig      `yaml:"loop" mapstructure:"loop"`
	Sim       SimConfig       `yaml:"sim" mapstructure:"sim"`
	Receiver  ReceiverConfig  `yaml:"receiver" mapstructure:"receiver"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SensorConfig holds the MAX30102 bus location and acquisition parameters.
type SensorConfig struct {
	Bus           string  `yaml:"bus" mapstructure:"bus"`   // I²C bus name, "" = first available
	Addr          uint16  `yaml:"addr" mapstructure:"addr"` // 0 = 0x57
	RedCurrent    float64 `yaml:"red_current" mapstructure:"red_current"`
	IRCurrent     float64 `yaml:"ir_current" mapstructure:"ir_current"`
	SampleAverage int     `yaml:"sample_average" mapstructure:"sample_average"`
	SampleRate    int     `yaml:"sample_rate" mapstructure:"sample_rate"`
	PulseWidth    int     `yaml:"pulse_width" mapstructure:"pulse_width"`
	ADCRange      int     `yaml:"adc_range" mapstructure:"adc_range"`
}

// ButtonConfig holds the session button GPIO.
type ButtonConfig struct {
	Pin string `yaml:"pin" mapstructure:"pin"`
}

// DisplayConfig selects the screen.
type DisplayConfig struct {
	Kind string `yaml:"kind" mapstructure:"kind"` // "oled", "terminal" or "none"
	Bus  string `yaml:"bus" mapstructure:"bus"`
}

// TransportConfig selects where session notifications and telemetry go.
type TransportConfig struct {
	Kind     string `yaml:"kind" mapstructure:"kind"`     // "serial", "stdout", "mqtt" or "nats"
	Device   string `yaml:"device" mapstructure:"device"` // serial device path
	Broker   string `yaml:"broker" mapstructure:"broker"`
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Topic    string `yaml:"topic" mapstructure:"topic"`
	QoS      byte   `yaml:"qos" mapstructure:"qos"`
	URL      string `yaml:"url" mapstructure:"url"`
	Subject  string `yaml:"subject" mapstructure:"subject"`
}

// LoopConfig holds the control loop driver settings.
type LoopConfig struct {
	Cadence time.Duration `yaml:"cadence" mapstructure:"cadence"`
}

// SimConfig holds the synthetic sensor settings.
type SimConfig struct {
	HeartRate  float64       `yaml:"heart_rate" mapstructure:"heart_rate"` // bpm of the synthetic pulse
	Noise      float64       `yaml:"noise" mapstructure:"noise"`           // fraction of the pulse amplitude
	SampleRate int           `yaml:"sample_rate" mapstructure:"sample_rate"`
	Hold       time.Duration `yaml:"hold" mapstructure:"hold"` // how long Enter holds the button
}

// ReceiverConfig holds the companion receiver settings.
type ReceiverConfig struct {
	Window time.Duration `yaml:"window" mapstructure:"window"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`
	Format     string `yaml:"format" mapstructure:"format"`
	File       string `yaml:"file" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
}

// Default returns the configuration the monitor ships with.
func Default() *Config {
	return &Config{
		Sensor: SensorConfig{
			RedCurrent:    7.2,
			IRCurrent:     7.2,
			SampleAverage: 4,
			SampleRate:    400,
			PulseWidth:    411,
			ADCRange:      4096,
		},
		Button: ButtonConfig{
			Pin: "GPIO9",
		},
		Display: DisplayConfig{
			Kind: "oled",
		},
		Transport: TransportConfig{
			Kind:     "serial",
			Device:   "/dev/rfcomm0",
			Broker:   "tcp://127.0.0.1:1883",
			ClientID: "pulsewear",
			Topic:    "pulsewear/telemetry",
			URL:      "nats://127.0.0.1:4222",
			Subject:  "pulsewear.telemetry",
		},
		Loop: LoopConfig{
			Cadence: time.Millisecond,
		},
		Sim: SimConfig{
			HeartRate:  72,
			Noise:      0.05,
			SampleRate: 100,
			Hold:       100 * time.Millisecond,
		},
		Receiver: ReceiverConfig{
			Window: time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

var (
	displayKinds   = map[string]bool{"oled": true, "terminal": true, "none": true}
	transportKinds = map[string]bool{"serial": true, "stdout": true, "mqtt": true, "nats": true}
)

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if !displayKinds[c.Display.Kind] {
		return fmt.Errorf("config: unknown display kind %q", c.Display.Kind)
	}
	if !transportKinds[c.Transport.Kind] {
		return fmt.Errorf("config: unknown transport kind %q", c.Transport.Kind)
	}
	if c.Transport.Kind == "serial" && c.Transport.Device == "" {
		return errors.New("config: serial transport needs a device")
	}
	if c.Transport.QoS > 2 {
		return fmt.Errorf("config: mqtt qos %d out of range", c.Transport.QoS)
	}
	if c.Loop.Cadence <= 0 {
		return fmt.Errorf("config: loop cadence must be positive, got %v", c.Loop.Cadence)
	}
	if c.Sim.SampleRate <= 0 || c.Sim.HeartRate <= 0 {
		return errors.New("config: sim sample rate and heart rate must be positive")
	}
	if c.Receiver.Window <= 0 {
		return fmt.Errorf("config: receiver window must be positive, got %v", c.Receiver.Window)
	}
	return nil
}
