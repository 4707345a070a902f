package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cgxeiji/pulsewear/config"
	"github.com/cgxeiji/pulsewear/receiver"
	"github.com/cgxeiji/pulsewear/transport"
)

var (
	timeStyle   = lipgloss.NewStyle().Faint(true)
	meanStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle = map[receiver.Status]lipgloss.Style{
		receiver.Normal: lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
		receiver.Low:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		receiver.High:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func newListenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Receive telemetry like the companion app",
		Long: `Receive monitor telemetry and print one heart rate average per window.

The source follows the transport setting: the serial device, stdin for
"stdout", or a subscription to the MQTT topic or NATS subject.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			bindLocal(v, cmd)
			return quiet(listen(cmd.Context(), v, cmd.OutOrStdout()))
		},
	}
	cmd.Flags().String(FlagTransport, "", "Source (serial, stdout, mqtt, nats)")
	cmd.Flags().Duration(FlagWindow, 0, "Averaging window")
	return cmd
}

func listen(ctx context.Context, v *viper.Viper, out io.Writer) error {
	cfg, log, err := setup(v)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	lines := make(chan string, 16)
	g, ctx := errgroup.WithContext(ctx)

	if err := subscribe(ctx, g, cfg.Transport, log, lines); err != nil {
		return err
	}

	r := receiver.New(cfg.Receiver.Window, log, func(s receiver.Summary) {
		fmt.Fprintf(out, "%s  %s  %s  (%d readings)\n",
			timeStyle.Render(s.At.Format("15:04:05")),
			meanStyle.Render(fmt.Sprintf("%.1f BPM", s.Mean)),
			statusStyle[s.Status].Render(s.Status.String()),
			s.Samples,
		)
	})
	g.Go(func() error { return r.Run(ctx, lines) })
	log.Info("listening", zap.String("source", cfg.Transport.Kind), zap.Duration("window", cfg.Receiver.Window))

	return g.Wait()
}

// subscribe starts feeding lines from the configured source.
func subscribe(ctx context.Context, g *errgroup.Group, cfg config.TransportConfig, log *zap.Logger, lines chan<- string) error {
	switch cfg.Kind {
	case "serial":
		f, err := os.Open(cfg.Device)
		if err != nil {
			return fmt.Errorf("could not open %s: %w", cfg.Device, err)
		}
		g.Go(func() error {
			<-ctx.Done()
			return f.Close()
		})
		g.Go(func() error {
			err := receiver.ReadLines(ctx, f, lines)
			if ctx.Err() != nil {
				return nil
			}
			return err
		})

	case "stdout":
		// A blocked stdin read cannot be interrupted; process exit ends it.
		go func() {
			if err := receiver.ReadLines(ctx, os.Stdin, lines); err != nil {
				log.Warn("stdin", zap.Error(err))
			}
		}()

	case "mqtt":
		m, err := transport.DialMQTT(cfg, log)
		if err != nil {
			return err
		}
		if err := receiver.FromMQTT(ctx, m.Client(), cfg.Topic, cfg.QoS, lines); err != nil {
			_ = m.Close()
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			return m.Close()
		})

	case "nats":
		nc, err := transport.ConnectNATS(cfg.URL)
		if err != nil {
			return fmt.Errorf("could not connect to %s: %w", cfg.URL, err)
		}
		if _, err := receiver.FromNATS(ctx, nc, cfg.Subject, lines); err != nil {
			nc.Close()
			return err
		}
		g.Go(func() error {
			<-ctx.Done()
			nc.Close()
			return nil
		})

	default:
		return fmt.Errorf("%w %q", transport.ErrUnknownKind, cfg.Kind)
	}
	return nil
}
