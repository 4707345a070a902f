package transport

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/cgxeiji/pulsewear/config"
)

const disconnectQuiesce = 250 // ms

// MQTT publishes each line as a message on a topic.
type MQTT struct {
	client mqtt.Client
	topic  string
	qos    byte
	log    *zap.Logger

	// pending is the last publish still in flight.
	pending mqtt.Token
}

// NewMQTTOptions builds the client options for cfg.
func NewMQTTOptions(cfg config.TransportConfig) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	return opts
}

// DialMQTT connects to the broker in cfg.
func DialMQTT(cfg config.TransportConfig, log *zap.Logger) (*MQTT, error) {
	client := mqtt.NewClient(NewMQTTOptions(cfg))
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("transport: could not connect to %s: %w", cfg.Broker, token.Error())
	}
	log.Info("mqtt connected", zap.String("broker", cfg.Broker), zap.String("topic", cfg.Topic))
	return NewMQTT(client, cfg.Topic, cfg.QoS, log), nil
}

// NewMQTT wraps a connected client.
func NewMQTT(client mqtt.Client, topic string, qos byte, log *zap.Logger) *MQTT {
	return &MQTT{client: client, topic: topic, qos: qos, log: log}
}

// Write publishes p without its line terminator and never waits for the
// broker. A publish that fails at once is returned as an error; one that
// fails later is logged by a following Write.
func (m *MQTT) Write(p []byte) (int, error) {
	m.reap()

	// The client sends asynchronously and callers reuse p.
	msg := append([]byte(nil), payload(p)...)
	token := m.client.Publish(m.topic, m.qos, false, msg)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return 0, fmt.Errorf("transport: could not publish to %s: %w", m.topic, err)
		}
	default:
		m.pending = token
	}
	return len(p), nil
}

// reap logs the outcome of the pending publish if it has completed.
func (m *MQTT) reap() {
	if m.pending == nil {
		return
	}
	select {
	case <-m.pending.Done():
		if err := m.pending.Error(); err != nil {
			m.log.Warn("mqtt publish failed", zap.String("topic", m.topic), zap.Error(err))
		}
		m.pending = nil
	default:
	}
}

// Close disconnects from the broker.
func (m *MQTT) Close() error {
	m.client.Disconnect(disconnectQuiesce)
	return nil
}

// Client returns the underlying client, e.g. to subscribe on the same
// connection.
func (m *MQTT) Client() mqtt.Client {
	return m.client
}
