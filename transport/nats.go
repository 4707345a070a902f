package transport

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const clientName = "pulsewear"

// ConnectNATS dials a NATS server, reconnecting forever.
func ConnectNATS(url string) (*nats.Conn, error) {
	return nats.Connect(
		url,
		nats.Name(clientName),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
}

// Publisher is the part of *nats.Conn a NATS sink needs.
type Publisher interface {
	Publish(subject string, data []byte) error
	Close()
}

// NATS publishes each line on a subject.
type NATS struct {
	conn    Publisher
	subject string
}

// DialNATS connects to url and publishes on subject.
func DialNATS(url, subject string, log *zap.Logger) (*NATS, error) {
	nc, err := ConnectNATS(url)
	if err != nil {
		return nil, fmt.Errorf("transport: could not connect to %s: %w", url, err)
	}
	log.Info("nats connected", zap.String("url", nc.ConnectedUrl()), zap.String("subject", subject))
	return NewNATS(nc, subject), nil
}

// NewNATS wraps a connection.
func NewNATS(conn Publisher, subject string) *NATS {
	return &NATS{conn: conn, subject: subject}
}

// Write publishes p without its line terminator. nats.go buffers
// outbound messages, so this does not block on the network.
func (n *NATS) Write(p []byte) (int, error) {
	if err := n.conn.Publish(n.subject, payload(p)); err != nil {
		return 0, fmt.Errorf("transport: could not publish to %s: %w", n.subject, err)
	}
	return len(p), nil
}

// Close closes the connection.
func (n *NATS) Close() error {
	n.conn.Close()
	return nil
}
