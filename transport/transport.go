// Package transport carries controller lines off the device: to the
// Bluetooth serial port, stdout, an MQTT broker or a NATS server.
//
// Every sink is an io.Writer that receives exactly one newline-terminated
// line per Write.
package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/cgxeiji/pulsewear/config"
)

// ErrUnknownKind is returned by Open for an unsupported transport kind.
var ErrUnknownKind = errors.New("transport: unknown kind")

// Sink is a line transport. Close releases the underlying link.
type Sink interface {
	io.Writer
	io.Closer
}

// Open returns the sink selected by cfg.Kind.
func Open(cfg config.TransportConfig, log *zap.Logger) (Sink, error) {
	var (
		s   Sink
		err error
	)
	switch cfg.Kind {
	case "serial":
		s, err = OpenSerial(cfg.Device)
	case "stdout":
		s = nopCloser{os.Stdout}
	case "mqtt":
		s, err = DialMQTT(cfg, log)
	case "nats":
		s, err = DialNATS(cfg.URL, cfg.Subject, log)
	default:
		err = fmt.Errorf("%w %q", ErrUnknownKind, cfg.Kind)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Serial writes lines to a character device, usually an rfcomm port bound
// to the paired phone.
type Serial struct {
	f io.WriteCloser
}

// OpenSerial opens the device for writing.
func OpenSerial(device string) (*Serial, error) {
	f, err := os.OpenFile(device, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, fmt.Errorf("transport: could not open %s: %w", device, err)
	}
	return &Serial{f: f}, nil
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

// Close closes the device.
func (s *Serial) Close() error {
	return s.f.Close()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// payload strips the line terminator for message-oriented sinks.
func payload(p []byte) []byte {
	return bytes.TrimRight(p, "\r\n")
}
