package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

var GlobalConfig *Config

type Config struct {
	HttpServerPort string `json:"port"`
	UnixSocket     string `json:"unixSocket"`
	TelemetryPort  string `json:"telemetryPort"`
	LogLevel       string `json:"logLevel"`
	NonceGuardTTL  string `json:"nonceGuardTTL"`
}

func (c *Config) VerifyRequired() error {
	if c.HttpServerPort == "" && c.UnixSocket == "" {
		return errors.New("one of port or unixSocket is required")
	}
	if c.HttpServerPort != "" && c.UnixSocket != "" {
		return errors.New("port and unixSocket are mutually exclusive")
	}
	if c.HttpServerPort != "" {
		if err := verifyPort("port", c.HttpServerPort); err != nil {
			return err
		}
	}
	if c.TelemetryPort != "" {
		if err := verifyPort("telemetryPort", c.TelemetryPort); err != nil {
			return err
		}
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid logLevel: %w", err)
	}
	if _, err := c.NonceGuardDuration(); err != nil {
		return err
	}
	return nil
}

// NonceGuardDuration is how long consumed signing commitments are remembered.
func (c *Config) NonceGuardDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.NonceGuardTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid nonceGuardTTL: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("nonceGuardTTL must be positive, got %s", d)
	}
	return d, nil
}

func verifyPort(field, port string) error {
	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("invalid %s %q", field, port)
	}
	return nil
}

func ConfigFromFile(configPath string) (*Config, error) {
	return ReadConfigJson(configPath)
}

func ReadConfigJson(configPath string) (*Config, error) {
	config := GetDefaultConfig()
	log.Debugf("ConfigPath=%s", configPath)
	f, err := os.OpenFile(configPath, os.O_RDONLY|os.O_SYNC, 0)
	if err != nil {
		log.WithError(err).Error("OpenConfigFile")
		return nil, err
	}
	defer f.Close()

	err = json.NewDecoder(f).Decode(config)
	if err != nil {
		log.WithError(err).Error("DecodeConfig")
		return nil, fmt.Errorf("error reading config: %w", err)
	}
	return config, nil
}

func GetDefaultConfig() *Config {
	config := &Config{
		HttpServerPort: DefaultServerPort,
		TelemetryPort:  DefaultTelemetryPort,
		LogLevel:       DefaultLogLevel,
		NonceGuardTTL:  DefaultNonceGuardTTL,
	}
	return config
}
