// Command pulsewear runs the wrist monitor on its hardware, simulates it on
// a terminal, or listens to its telemetry as the companion app does.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/cgxeiji/pulsewear/config"
	"github.com/cgxeiji/pulsewear/logger"
)

var version = "dev"

const service = "pulsewear"

// envKeys maps config keys to PULSEWEAR_* variable names, so
// transport.kind is read from PULSEWEAR_TRANSPORT_KIND.
var envKeys = strings.NewReplacer("-", "_", ".", "_")

func main() {
	v := viper.New()
	v.SetEnvPrefix("PULSEWEAR")
	v.SetEnvKeyReplacer(envKeys)
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "pulsewear",
		Short: "Wrist-worn heart rate, SpO2 and stress monitor",
		Long: `pulsewear samples a MAX30102 pulse oximeter, shows heart rate, SpO2 and a
stress label on a small OLED and streams readings to a paired phone.

A push-button starts and pauses a session.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.String(FlagConfig, "", "Config file path (default: ./pulsewear.yaml)")
	pf.BoolP(FlagVerbose, "v", false, "Enable debug logging")
	pf.String(FlagLogLevel, "", "Log level (debug, info, warn, error)")
	pf.String(FlagLogFormat, "", "Log format (console, json)")
	pf.String(FlagLogFile, "", "Also write JSON logs to this rotated file")
	pf.VisitAll(func(f *pflag.Flag) { bindFlag(v, f) })

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pulsewear %s\n", version)
		},
	}

	rootCmd.AddCommand(
		newRunCmd(v),
		newSimCmd(v),
		newListenCmd(v),
		newProbeCmd(v),
		versionCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// bindFlag binds f under its config key, or under its own name when it
// does not override one.
func bindFlag(v *viper.Viper, f *pflag.Flag) {
	key, ok := flagKeys[f.Name]
	if !ok {
		key = f.Name
	}
	_ = v.BindPFlag(key, f)
}

// setup loads the configuration and builds the logger.
func setup(v *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if v.GetBool(FlagVerbose) {
		cfg.Log.Level = "debug"
	}

	var file *logger.FileConfig
	if cfg.Log.File != "" {
		file = &logger.FileConfig{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, service, file)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// quiet maps a cancelled context, the normal way out, to a nil error.
func quiet(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// bindLocal binds the flags of the command being run. Commands share config
// keys, so this happens when a command starts rather than at construction.
func bindLocal(v *viper.Viper, cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) { bindFlag(v, f) })
}
