package receiver

import (
	"bufio"
	"context"
	"fmt"
	"io"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/nats-io/nats.go"
)

// ReadLines scans r line by line into out until EOF, a read error or ctx
// is done. out is not closed.
func ReadLines(ctx context.Context, r io.Reader, out chan<- string) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		select {
		case out <- sc.Text():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("receiver: could not read: %w", err)
	}
	return nil
}

// FromMQTT subscribes to topic and forwards every payload to out.
func FromMQTT(ctx context.Context, client mqtt.Client, topic string, qos byte, out chan<- string) error {
	token := client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case out <- string(msg.Payload()):
		case <-ctx.Done():
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("receiver: could not subscribe to %s: %w", topic, token.Error())
	}
	return nil
}

// Subscriber is the part of *nats.Conn FromNATS needs.
type Subscriber interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// FromNATS subscribes to subject and forwards every message to out.
func FromNATS(ctx context.Context, nc Subscriber, subject string, out chan<- string) (*nats.Subscription, error) {
	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		select {
		case out <- string(m.Data):
		case <-ctx.Done():
		}
	})
	if err != nil {
		return nil, fmt.Errorf("receiver: could not subscribe to %s: %w", subject, err)
	}
	return sub, nil
}
