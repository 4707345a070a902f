// Package logger builds the zap loggers used by the pulsewear commands.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig enables a rotating log file next to stderr output.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ParseLevel maps "debug", "info", "warn" and "error" to a zap level.
// Anything else is info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}

func encoder(format string) zapcore.Encoder {
	if format == "console" {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		return zapcore.NewConsoleEncoder(cfg)
	}
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// New returns a logger writing to stderr at level in the given format
// ("json" or "console"). If file has a path, JSON records are also written
// to a lumberjack-rotated file. The service name is attached to every
// record when not empty.
func New(level, format, service string, file *FileConfig) (*zap.Logger, error) {
	lvl := zap.NewAtomicLevelAt(ParseLevel(level))

	cores := []zapcore.Core{
		zapcore.NewCore(encoder(format), zapcore.Lock(os.Stderr), lvl),
	}
	if file != nil && file.Path != "" {
		if file.MaxSizeMB < 0 || file.MaxBackups < 0 || file.MaxAgeDays < 0 {
			return nil, fmt.Errorf("logger: negative rotation setting for %s", file.Path)
		}
		w := &lumberjack.Logger{
			Filename:   file.Path,
			MaxSize:    file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAge:     file.MaxAgeDays,
			Compress:   file.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(w), lvl))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if service != "" {
		l = l.With(zap.String("service_name", service))
	}
	return l, nil
}
