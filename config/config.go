package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alabanza/alabanza/logging"
	transposecfg "github.com/alabanza/alabanza/transpose/config"
)

// Config is the application configuration for the alabanza binary
type Config struct {
	Engine  transposecfg.EngineConfig `yaml:"engine" json:"engine"`
	Storage StorageConfig             `yaml:"storage" json:"storage"`
	Server  ServerConfig              `yaml:"server" json:"server"`
	Logging LoggingConfig             `yaml:"logging" json:"logging"`
}

// StorageConfig selects the song/mix record store
type StorageConfig struct {
	Driver string `yaml:"driver" json:"driver"` // sqlite, memory
	Path   string `yaml:"path" json:"path"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr            string        `yaml:"addr" json:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	PingInterval    time.Duration `yaml:"ping_interval" json:"ping_interval"` // live websocket keepalive
}

// LoggingConfig configures the process logger
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `yaml:"format" json:"format"` // console, json
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Engine: *transposecfg.DefaultEngineConfig(),
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   filepath.Join(".alabanza", "alabanza.db"),
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			PingInterval:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if mode := os.Getenv("ALABANZA_MODE"); mode != "" {
		c.Engine.Mode = transposecfg.Mode(mode)
	}
	if spelling := os.Getenv("ALABANZA_SPELLING"); spelling != "" {
		c.Engine.Spelling = transposecfg.SpellingPolicy(spelling)
	}
	if size := os.Getenv("ALABANZA_CACHE_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			c.Engine.CacheSize = n
		}
	}
	if path := os.Getenv("ALABANZA_DB"); path != "" {
		c.Storage.Path = path
	}
	if driver := os.Getenv("ALABANZA_STORAGE"); driver != "" {
		c.Storage.Driver = driver
	}
	if addr := os.Getenv("ALABANZA_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if level := os.Getenv("ALABANZA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// ValidDrivers lists the supported storage drivers.
var ValidDrivers = []string{"sqlite", "memory"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	mode, err := transposecfg.ParseMode(string(c.Engine.Mode))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	c.Engine.Mode = mode

	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	validDriver := false
	for _, d := range ValidDrivers {
		if c.Storage.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidDrivers)
	}
	if c.Storage.Driver == "sqlite" && c.Storage.Path == "" {
		return fmt.Errorf("storage path is required for the sqlite driver")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}
