package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cgxeiji/pulsewear"
	"github.com/cgxeiji/pulsewear/button"
	"github.com/cgxeiji/pulsewear/max30102"
	"github.com/cgxeiji/pulsewear/transport"
)

const splashFrameTime = 100 * time.Millisecond

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the monitor on its hardware",
		Long: `Run the monitor: MAX30102 on I²C, SSD1306 OLED, session button on a GPIO
and readings sent over the configured transport.

If the sensor cannot be found the fault screen is shown until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindLocal(v, cmd)
			return quiet(run(cmd.Context(), v))
		},
	}
	cmd.Flags().String(FlagTransport, "", "Transport (serial, stdout, mqtt, nats)")
	cmd.Flags().String(FlagDisplay, "", "Display (oled, terminal, none)")
	cmd.Flags().Duration(FlagCadence, 0, "Control loop cadence")
	cmd.Flags().String(FlagBus, "", "Sensor I²C bus (default: first available)")
	cmd.Flags().String(FlagButton, "", "Session button GPIO name")
	return cmd
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, log, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	disp, closeDisplay, err := openDisplay(cfg.Display, log)
	if err != nil {
		return err
	}
	defer closeDisplay()

	if err := splash(ctx, disp); err != nil {
		return err
	}

	dev, err := max30102.Open(cfg.Sensor.Bus, cfg.Sensor.Addr)
	if err != nil {
		return pulsewear.Halt(ctx, disp, log, err)
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Warn("could not close sensor", zap.Error(err))
		}
	}()
	logSensor(log, dev)

	// Parked until the first session starts.
	if err := dev.Shutdown(); err != nil {
		return pulsewear.Halt(ctx, disp, log, err)
	}

	btn, err := button.Open(cfg.Button.Pin)
	if err != nil {
		return err
	}

	sink, err := transport.Open(cfg.Transport, log)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	ctrl := pulsewear.New(sensor{dev: dev},
		pulsewear.WithButton(btn),
		pulsewear.WithDisplay(disp),
		pulsewear.WithTransport(sink),
		pulsewear.WithLogger(log),
		pulsewear.WithSensorConfig(sensorConfig(cfg.Sensor)),
		pulsewear.WithCadence(cfg.Loop.Cadence),
	)

	return ctrl.Run(ctx)
}

// identity is the part of the driver reported at startup.
type identity interface {
	RevID() (byte, error)
	Temperature() (float64, error)
}

// logSensor reports the revision and die temperature of a freshly opened
// sensor. Fields that could not be read are left out.
func logSensor(log *zap.Logger, dev identity) {
	var fields []zap.Field
	if rev, err := dev.RevID(); err != nil {
		log.Warn("could not read revision", zap.Error(err))
	} else {
		fields = append(fields, zap.Uint8("rev", rev))
	}
	if temp, err := dev.Temperature(); err != nil {
		log.Warn("could not read die temperature", zap.Error(err))
	} else {
		fields = append(fields, zap.Float64("die_temp_c", temp))
	}
	log.Info("sensor ready", fields...)
}

// splash plays the startup animation.
func splash(ctx context.Context, d pulsewear.Display) error {
	t := time.NewTicker(splashFrameTime)
	defer t.Stop()
	for f := 0; f < pulsewear.SplashFrames; f++ {
		if err := d.Frame(func(c pulsewear.Canvas) { pulsewear.DrawSplash(c, f) }); err != nil {
			return fmt.Errorf("could not draw splash: %w", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}
