package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every default config location at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, time.Millisecond, cfg.Loop.Cadence)
	assert.Equal(t, 400, cfg.Sensor.SampleRate)
}

func TestLoadLocalFile(t *testing.T) {
	isolate(t)
	yaml := `
sensor:
  sample_rate: 100
  red_current: 10.4
transport:
  kind: mqtt
  topic: wrist/42
loop:
  cadence: 5ms
`
	require.NoError(t, os.WriteFile(LocalConfigFile, []byte(yaml), 0o644))

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Sensor.SampleRate)
	assert.Equal(t, 10.4, cfg.Sensor.RedCurrent)
	assert.Equal(t, 7.2, cfg.Sensor.IRCurrent, "untouched keys keep defaults")
	assert.Equal(t, "mqtt", cfg.Transport.Kind)
	assert.Equal(t, "wrist/42", cfg.Transport.Topic)
	assert.Equal(t, 5*time.Millisecond, cfg.Loop.Cadence)
}

func TestLoadGlobalThenExplicit(t *testing.T) {
	dir := isolate(t)
	global := filepath.Join(dir, GlobalConfigDir, GlobalConfigFile)
	require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o755))
	require.NoError(t, os.WriteFile(global, []byte("display:\n  kind: terminal\nlog:\n  level: debug\n"), 0o644))

	explicit := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("log:\n  level: warn\n"), 0o644))

	v := viper.New()
	v.Set("config", explicit)
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "terminal", cfg.Display.Kind)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("config", "nope.yaml")
	_, err := Load(v)
	assert.Error(t, err)
}

func TestLoadOverride(t *testing.T) {
	isolate(t)
	v := viper.New()
	v.Set("transport.kind", "stdout")
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "stdout", cfg.Transport.Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"display", func(c *Config) { c.Display.Kind = "lcd" }},
		{"transport", func(c *Config) { c.Transport.Kind = "carrier pigeon" }},
		{"serial device", func(c *Config) { c.Transport.Device = "" }},
		{"qos", func(c *Config) { c.Transport.QoS = 3 }},
		{"cadence", func(c *Config) { c.Loop.Cadence = 0 }},
		{"sim rate", func(c *Config) { c.Sim.SampleRate = 0 }},
		{"window", func(c *Config) { c.Receiver.Window = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}
