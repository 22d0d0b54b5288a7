package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/neuronlabs/tunables/log"
)

var defaultConfig *Config

// ViperSetDefaults sets the default values for the viper config.
func ViperSetDefaults(v *viper.Viper) {
	setDefaults(v)
}

// ReadNamedConfig reads the config with the provided name.
func ReadNamedConfig(name string) (*Config, error) {
	return readNamedConfig(name)
}

// ReadConfig reads the config named 'config' from the working directory or 'configs' subdirectory.
func ReadConfig() (*Config, error) {
	return readNamedConfig("config")
}

// ReadConfigFile reads the config from the provided file path.
func ReadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return readViper(v)
}

// ReadDefaultConfig reads the default configuration.
func ReadDefaultConfig() *Config {
	return readDefaultConfig()
}

func readNamedConfig(name string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(name)

	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	return readViper(v)
}

func readViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	c := &Config{}
	if err = v.Unmarshal(c); err != nil {
		log.Debugf("Unmarshaling Config failed. %v", err)
		return nil, err
	}
	if err = c.Validate(); err != nil {
		log.Debugf("Config validation failed. %v", err)
		return nil, err
	}
	return c, nil
}

func readDefaultConfig() *Config {
	if defaultConfig == nil {
		v := viper.New()
		setDefaults(v)

		c := &Config{}
		if err := v.Unmarshal(c); err != nil {
			log.Debugf("Unmarshaling Config failed: %v", err)
			panic(err)
		}
		defaultConfig = c
	}
	return defaultConfig
}

func setDefaults(v *viper.Viper) {
	keys := map[string]interface{}{
		"tunables.prefix":            "components",
		"tunables.self_notify":       false,
		"tunables.naming_convention": "raw",
		"tunables.feedback_interval": 50 * time.Millisecond,
		"store.url":                  "ws://localhost:5810/nt",
		"store.listen_address":       ":5810",
		"store.path":                 "/nt",
		"store.read_timeout":         10 * time.Second,
		"store.write_timeout":        5 * time.Second,
		"store.ping_interval":        30 * time.Second,
		"store.send_buffer":          256,
		"store.shutdown_timeout":     10 * time.Second,
		"log.level":                  "info",
	}

	for k, value := range keys {
		v.SetDefault(k, value)
	}
}
