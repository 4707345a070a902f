package transport

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cgxeiji/pulsewear/config"
)

// token completes when complete is called.
type token struct {
	ch  chan struct{}
	err error
}

func newToken(done bool, err error) *token {
	t := &token{ch: make(chan struct{}), err: err}
	if done {
		close(t.ch)
	}
	return t
}

func (t *token) complete(err error) {
	t.err = err
	close(t.ch)
}

func (t *token) Wait() bool {
	<-t.ch
	return true
}

func (t *token) WaitTimeout(d time.Duration) bool {
	select {
	case <-t.ch:
		return true
	case <-time.After(d):
		return false
	}
}

func (t *token) Done() <-chan struct{} { return t.ch }
func (t *token) Error() error          { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type fakeMQTT struct {
	mqtt.Client
	sent         []published
	tok          *token
	disconnected bool
}

func (f *fakeMQTT) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	f.sent = append(f.sent, published{topic, qos, payload.([]byte)})
	return f.tok
}

func (f *fakeMQTT) Disconnect(uint) { f.disconnected = true }

func TestMQTTWrite(t *testing.T) {
	f := &fakeMQTT{tok: newToken(true, nil)}
	m := NewMQTT(f, "pulsewear/telemetry", 1, zap.NewNop())

	line := []byte("115000,72,70\n")
	n, err := m.Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n)
	copy(line, "XXXXXX")

	require.Len(t, f.sent, 1)
	assert.Equal(t, "pulsewear/telemetry", f.sent[0].topic)
	assert.Equal(t, byte(1), f.sent[0].qos)
	assert.Equal(t, "115000,72,70", string(f.sent[0].payload), "payload survives buffer reuse")

	require.NoError(t, m.Close())
	assert.True(t, f.disconnected)
}

func TestMQTTWriteError(t *testing.T) {
	f := &fakeMQTT{tok: newToken(true, errors.New("not connected"))}
	_, err := NewMQTT(f, "t", 0, zap.NewNop()).Write([]byte("START\n"))
	assert.ErrorContains(t, err, "not connected")
}

func TestMQTTWriteDoesNotWait(t *testing.T) {
	stalled := newToken(false, nil)
	f := &fakeMQTT{tok: stalled}
	core, logs := observer.New(zap.WarnLevel)
	m := NewMQTT(f, "t", 1, zap.New(core))

	start := time.Now()
	n, err := m.Write([]byte("STOP\n"))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	stalled.complete(errors.New("connection lost"))
	f.tok = newToken(true, nil)
	_, err = m.Write([]byte("START\n"))
	require.NoError(t, err)
	require.Equal(t, 1, logs.Len(), "late failure is logged")
	assert.Equal(t, "mqtt publish failed", logs.All()[0].Message)

	_, err = m.Write([]byte("START\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.Len(), "reported once")
}

func TestMQTTOptions(t *testing.T) {
	cfg := config.Default().Transport
	cfg.Username = "wrist"
	opts := NewMQTTOptions(cfg)
	r := mqtt.NewClient(opts).OptionsReader()
	require.Len(t, r.Servers(), 1)
	assert.Equal(t, "127.0.0.1:1883", r.Servers()[0].Host)
	assert.Equal(t, "pulsewear", r.ClientID())
	assert.Equal(t, "wrist", r.Username())
	assert.True(t, r.AutoReconnect())
}

type fakeConn struct {
	subjects []string
	data     []string
	err      error
	closed   bool
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.data = append(f.data, string(data))
	return nil
}

func (f *fakeConn) Close() { f.closed = true }

func TestNATSWrite(t *testing.T) {
	f := &fakeConn{}
	n := NewNATS(f, "pulsewear.telemetry")

	_, err := n.Write([]byte("START\n"))
	require.NoError(t, err)
	_, err = n.Write([]byte("115000,72,70\r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"START", "115000,72,70"}, f.data)
	assert.Equal(t, []string{"pulsewear.telemetry", "pulsewear.telemetry"}, f.subjects)

	require.NoError(t, n.Close())
	assert.True(t, f.closed)
}

func TestNATSWriteError(t *testing.T) {
	_, err := NewNATS(&fakeConn{err: errors.New("closed")}, "s").Write([]byte("STOP\n"))
	assert.ErrorContains(t, err, "closed")
}

func TestSerial(t *testing.T) {
	dev := filepath.Join(t.TempDir(), "rfcomm0")
	require.NoError(t, os.WriteFile(dev, nil, 0o600))

	s, err := OpenSerial(dev)
	require.NoError(t, err)
	_, err = s.Write([]byte("START\n"))
	require.NoError(t, err)
	_, err = s.Write([]byte("115000,72,70\n"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	got, err := os.ReadFile(dev)
	require.NoError(t, err)
	assert.Equal(t, "START\n115000,72,70\n", string(got))
}

func TestOpen(t *testing.T) {
	cfg := config.Default().Transport
	cfg.Kind = "stdout"
	s, err := Open(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, s.Close())

	cfg.Kind = "serial"
	cfg.Device = filepath.Join(t.TempDir(), "missing", "port")
	_, err = Open(cfg, zap.NewNop())
	assert.Error(t, err)

	cfg.Kind = "smoke"
	_, err = Open(cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownKind)
}
