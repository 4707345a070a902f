package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/pulsewear"
	"github.com/cgxeiji/pulsewear/config"
	"github.com/cgxeiji/pulsewear/display"
	"github.com/cgxeiji/pulsewear/max30102"
)

// sensor adapts the MAX30102 driver to pulsewear.Sensor.
type sensor struct {
	dev *max30102.Device
}

func (s sensor) Configure(c pulsewear.SensorConfig) error {
	return s.dev.Setup(max30102.Settings{
		RedCurrent:    c.RedCurrent,
		IRCurrent:     c.IRCurrent,
		SampleAverage: c.SampleAverage,
		SampleRate:    c.SampleRate,
		PulseWidth:    c.PulseWidth,
		ADCRange:      c.ADCRange,
	})
}

func (s sensor) Wake() error              { return s.dev.Startup() }
func (s sensor) Sleep() error             { return s.dev.Shutdown() }
func (s sensor) Available() (bool, error) { return s.dev.Available() }

func (s sensor) ReadSample() (pulsewear.Sample, error) {
	red, ir := s.dev.Next()
	return pulsewear.Sample{Red: red, IR: ir}, nil
}

func sensorConfig(c config.SensorConfig) pulsewear.SensorConfig {
	return pulsewear.SensorConfig{
		RedCurrent:    c.RedCurrent,
		IRCurrent:     c.IRCurrent,
		SampleAverage: c.SampleAverage,
		SampleRate:    c.SampleRate,
		PulseWidth:    c.PulseWidth,
		ADCRange:      c.ADCRange,
	}
}

type nopDisplay struct{}

func (nopDisplay) Frame(func(pulsewear.Canvas)) error { return nil }

// openDisplay returns the configured screen and a function releasing it.
func openDisplay(cfg config.DisplayConfig, log *zap.Logger) (pulsewear.Display, func(), error) {
	switch cfg.Kind {
	case "terminal":
		return display.NewTerminal(os.Stdout), func() {}, nil
	case "none":
		return nopDisplay{}, func() {}, nil
	}

	if _, err := host.Init(); err != nil {
		return nil, nil, fmt.Errorf("could not initialize host: %w", err)
	}
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open display bus: %w", err)
	}
	oled, err := display.OpenOLED(bus)
	if err != nil {
		_ = bus.Close()
		return nil, nil, err
	}
	log.Info("display ready", zap.String("kind", cfg.Kind), zap.String("bus", bus.String()))
	return oled, func() {
		if err := oled.Close(); err != nil {
			log.Warn("could not halt display", zap.Error(err))
		}
		_ = bus.Close()
	}, nil
}
