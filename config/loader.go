package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config file locations.
const (
	// GlobalConfigDir is the XDG config directory name
	GlobalConfigDir = "pulsewear"
	// GlobalConfigFile is the global config file name
	GlobalConfigFile = "config.yaml"
	// LocalConfigFile is looked up in the working directory
	LocalConfigFile = "pulsewear.yaml"
)

// Load builds the configuration. Precedence, later wins:
//  1. Default() values
//  2. ~/.config/pulsewear/config.yaml
//  3. ./pulsewear.yaml
//  4. the file named by the "config" key (flag or PULSEWEAR_CONFIG)
//  5. environment variables and flags already bound to v
//
// Missing default files are ignored; an explicit file must exist. The
// result is validated.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()

	defaults, err := structToMap(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := v.MergeConfigMap(defaults); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	for _, path := range []string{globalConfigPath(), LocalConfigFile} {
		if path == "" {
			continue
		}
		if err := mergeFile(v, path, false); err != nil {
			return nil, err
		}
	}
	if explicit := v.GetString("config"); explicit != "" {
		if err := mergeFile(v, explicit, true); err != nil {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: could not decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func globalConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, GlobalConfigDir, GlobalConfigFile)
}

// mergeFile reads a YAML file into v. A missing file is an error only when
// required.
func mergeFile(v *viper.Viper, path string, required bool) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()

	fv := viper.New()
	fv.SetConfigType("yaml")
	if err := fv.ReadConfig(f); err != nil {
		return fmt.Errorf("config: could not read %s: %w", path, err)
	}
	return v.MergeConfigMap(fv.AllSettings())
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))
}

// structToMap flattens cfg into nested maps for viper.MergeConfigMap.
func structToMap(cfg *Config) (map[string]interface{}, error) {
	result := make(map[string]interface{})

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "mapstructure",
		Result:     &result,
		DecodeHook: durationToString(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(cfg); err != nil {
		return nil, err
	}
	return result, nil
}

func durationToString() mapstructure.DecodeHookFunc {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if from != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		return data.(time.Duration).String(), nil
	}
}
