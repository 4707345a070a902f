package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cgxeiji/pulsewear/max30102"
)

const probeInterval = 500 * time.Millisecond

func newProbeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check the sensor and print its die temperature",
		RunE: func(cmd *cobra.Command, args []string) error {
			bindLocal(v, cmd)
			return quiet(probe(cmd.Context(), v, cmd.OutOrStdout()))
		},
	}
	cmd.Flags().String(FlagBus, "", "Sensor I²C bus (default: first available)")
	return cmd
}

func probe(ctx context.Context, v *viper.Viper, out io.Writer) error {
	cfg, log, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dev, err := max30102.Open(cfg.Sensor.Bus, cfg.Sensor.Addr)
	if err != nil {
		return err
	}
	defer func() { _ = dev.Close() }()

	rev, err := dev.RevID()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "MAX30102 rev.%d detected\n", rev)

	t := time.NewTicker(probeInterval)
	defer t.Stop()
	for {
		temp, err := dev.Temperature()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\rtemp = %02.2f ", temp)
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return ctx.Err()
		case <-t.C:
		}
	}
}
