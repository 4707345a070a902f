package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeIdentity struct {
	rev     byte
	revErr  error
	temp    float64
	tempErr error
}

func (f fakeIdentity) RevID() (byte, error)          { return f.rev, f.revErr }
func (f fakeIdentity) Temperature() (float64, error) { return f.temp, f.tempErr }

func TestLogSensor(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logSensor(zap.New(core), fakeIdentity{rev: 3, temp: 25.25})

	ready := logs.FilterMessage("sensor ready").All()
	require.Len(t, ready, 1)
	fields := ready[0].ContextMap()
	assert.EqualValues(t, 3, fields["rev"])
	assert.Equal(t, 25.25, fields["die_temp_c"])
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestLogSensorRevisionError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logSensor(zap.New(core), fakeIdentity{revErr: errors.New("nack"), temp: 25.25})

	warn := logs.FilterMessage("could not read revision").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "nack", warn[0].ContextMap()["error"])

	ready := logs.FilterMessage("sensor ready").All()
	require.Len(t, ready, 1)
	assert.NotContains(t, ready[0].ContextMap(), "rev", "no bogus revision")
	assert.Contains(t, ready[0].ContextMap(), "die_temp_c")
}
