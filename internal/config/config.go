package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/alarm-clock/internal/logger"
)

// Config holds settings shared by the alarm binaries.
type Config struct {
	// ServerAddress is the gRPC address of alarm-server.
	ServerAddress string `yaml:"server_addr"`
	// Capacity is the size of the alarm queue and of both scheduler gates.
	Capacity int `yaml:"capacity"`
	// Workers is the number of consumer goroutines alarm-server runs.
	Workers int `yaml:"workers"`
	// Timeout bounds RPC calls and the graceful shutdown of the server.
	Timeout time.Duration `yaml:"timeout"`
	// LogLevel is a zap level name such as "debug" or "info".
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for settings.
	DefaultConfigFilename = "alarm-clock-settings.yaml"

	// DefaultCapacity is the queue capacity used when none is configured.
	DefaultCapacity = 5

	// DefaultTimeout is the default duration for network operations.
	DefaultTimeout = 5 * time.Second

	// DefaultLogLevel is the level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errServerAddressRequired is returned when server address is missing.
	errServerAddressRequired = errors.New("server address must be provided")
	// errNegativeCapacity is returned for a capacity below zero.
	errNegativeCapacity = errors.New("capacity must not be negative")
	// errNegativeWorkers is returned for a worker count below zero.
	errNegativeWorkers = errors.New("workers must not be negative")
	// errUnknownLogLevel is returned for a level name zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Load reads configuration from the provided path and validates it.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save validates cfg and writes it to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills defaults for unset ones.
// Zero capacity and workers mean "unset"; negative values are errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.ServerAddress == "" {
		return errServerAddressRequired
	}

	if _, err := net.ResolveTCPAddr("tcp", cfg.ServerAddress); err != nil {
		return fmt.Errorf("invalid server address: %w", err)
	}

	switch {
	case cfg.Capacity < 0:
		return fmt.Errorf("%w: %d", errNegativeCapacity, cfg.Capacity)
	case cfg.Capacity == 0:
		cfg.Capacity = DefaultCapacity
	}

	switch {
	case cfg.Workers < 0:
		return fmt.Errorf("%w: %d", errNegativeWorkers, cfg.Workers)
	case cfg.Workers == 0:
		cfg.Workers = cfg.Capacity
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return nil
}

// ApplyLogLevel sets the shared logger level from the configuration.
func (c *Config) ApplyLogLevel() {
	if lvl, ok := logger.ParseLogLevel(c.LogLevel); ok {
		logger.SetLevel(lvl)
	}
}
