package main

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cgxeiji/pulsewear"
	"github.com/cgxeiji/pulsewear/sim"
	"github.com/cgxeiji/pulsewear/transport"
)

// errInputClosed ends a simulation when stdin reaches EOF.
var errInputClosed = errors.New("input closed")

func newSimCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Simulate the monitor on this terminal",
		Long: `Simulate the monitor with a synthetic pulse and a terminal display.

Press Enter to push the session button. Type l and Enter to lift the
finger off the sensor or put it back. Ctrl-D quits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindLocal(v, cmd)
			return quiet(simulate(cmd.Context(), v))
		},
	}
	cmd.Flags().String(FlagTransport, "", "Transport (serial, stdout, mqtt, nats)")
	cmd.Flags().String(FlagDisplay, "", "Display (oled, terminal, none)")
	cmd.Flags().Duration(FlagCadence, 0, "Control loop cadence")
	cmd.Flags().Float64(FlagHeartRate, 0, "Simulated heart rate in bpm")
	cmd.Flags().Float64(FlagNoise, 0, "Simulated noise as a fraction of the pulse")
	return cmd
}

func simulate(ctx context.Context, v *viper.Viper) error {
	// Unless the command line or environment says otherwise the sim draws
	// on this terminal and writes telemetry to stdout.
	if !v.IsSet(flagKeys[FlagDisplay]) {
		v.Set(flagKeys[FlagDisplay], "terminal")
	}
	if !v.IsSet(flagKeys[FlagTransport]) {
		v.Set(flagKeys[FlagTransport], "stdout")
	}

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

	sink, err := transport.Open(cfg.Transport, log)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Close() }()

	clock := pulsewear.SystemClock()
	synth := sim.NewSensor(clock, sim.Config{
		HeartRate:  cfg.Sim.HeartRate,
		Noise:      cfg.Sim.Noise,
		SampleRate: cfg.Sim.SampleRate,
	})
	btn := sim.NewKeyButton(clock, cfg.Sim.Hold)

	ctrl := pulsewear.New(synth,
		pulsewear.WithButton(btn),
		pulsewear.WithDisplay(disp),
		pulsewear.WithTransport(sink),
		pulsewear.WithClock(clock),
		pulsewear.WithLogger(log),
		pulsewear.WithSensorConfig(sensorConfig(cfg.Sensor)),
		pulsewear.WithCadence(cfg.Loop.Cadence),
	)
	log.Info("simulating", zap.Float64("heart_rate", cfg.Sim.HeartRate), zap.Int("sample_rate", cfg.Sim.SampleRate))

	// A blocked stdin read cannot be interrupted, so the key reader is not
	// part of the group; process exit ends it.
	keys := make(chan error, 1)
	go func() { keys <- sim.Keys(ctx, os.Stdin, btn, synth) }()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(ctx) })
	g.Go(func() error {
		select {
		case err := <-keys:
			if err != nil {
				return err
			}
			return errInputClosed
		case <-ctx.Done():
			return nil
		}
	})
	if err := g.Wait(); !errors.Is(err, errInputClosed) {
		return err
	}
	return nil
}
