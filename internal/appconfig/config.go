// Package appconfig loads the simmeta process configuration from a YAML or
// TOML file.
package appconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/simmeta/internal/core/observability/log"
	"github.com/zeusync/simmeta/internal/server"
)

// DefaultFileName is looked up in the working directory when no config file
// is named explicitly.
const DefaultFileName = "simmeta.yaml"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete process configuration.
type Config struct {
	Dataset   string       `yaml:"dataset" toml:"dataset"`
	LogLevel  string       `yaml:"log_level" toml:"log_level"`
	LogFormat string       `yaml:"log_format" toml:"log_format"` // json or console
	Server    ServerConfig `yaml:"server" toml:"server"`
}

// ServerConfig configures the HTTP and websocket surface.
type ServerConfig struct {
	Listen           string `yaml:"listen" toml:"listen"`
	Token            string `yaml:"token,omitempty" toml:"token,omitempty"`
	ReadTimeoutS     int    `yaml:"read_timeout_s" toml:"read_timeout_s"`
	WriteTimeoutS    int    `yaml:"write_timeout_s" toml:"write_timeout_s"`
	ShutdownTimeoutS int    `yaml:"shutdown_timeout_s" toml:"shutdown_timeout_s"` // Graceful shutdown timeout (default: 5)
	MaxFeedClients   int    `yaml:"max_feed_clients" toml:"max_feed_clients"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	d := server.DefaultServerConfig()
	return &Config{
		Dataset:   "data",
		LogLevel:  "info",
		LogFormat: log.FormatConsole,
		Server: ServerConfig{
			Listen:           d.ListenAddr,
			ReadTimeoutS:     int(d.ReadTimeout / time.Second),
			WriteTimeoutS:    int(d.WriteTimeout / time.Second),
			ShutdownTimeoutS: int(d.ShutdownTimeout / time.Second),
			MaxFeedClients:   d.MaxFeedClients,
		},
	}
}

// Load reads path, choosing the decoder by extension (.toml, otherwise
// YAML). Keys absent from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = LoadTOML(bytes.NewReader(data))
	} else {
		cfg, err = LoadYAML(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// A relative dataset is relative to the config file.
	if cfg.Dataset != "" && !filepath.IsAbs(cfg.Dataset) {
		cfg.Dataset = filepath.Join(filepath.Dir(path), cfg.Dataset)
	}
	return cfg, nil
}

// LoadYAML decodes YAML from r over Default.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadTOML decodes TOML from r over Default.
func LoadTOML(r io.Reader) (*Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidConfig, undecoded[0].String())
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Dataset == "" {
		return fmt.Errorf("%w: dataset cannot be empty", ErrInvalidConfig)
	}
	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.LogFormat != log.FormatJSON && c.LogFormat != log.FormatConsole {
		return fmt.Errorf("%w: unknown log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.Server.Listen == "" {
		return fmt.Errorf("%w: server.listen cannot be empty", ErrInvalidConfig)
	}
	for name, v := range map[string]int{
		"read_timeout_s":     c.Server.ReadTimeoutS,
		"write_timeout_s":    c.Server.WriteTimeoutS,
		"shutdown_timeout_s": c.Server.ShutdownTimeoutS,
		"max_feed_clients":   c.Server.MaxFeedClients,
	} {
		if v < 0 {
			return fmt.Errorf("%w: server.%s must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Level is the parsed log level.
func (c *Config) Level() log.Level {
	l, _ := log.ParseLevel(c.LogLevel)
	return l
}

// LogOptions converts the logging keys.
func (c *Config) LogOptions() log.Options {
	return log.Options{Level: c.Level(), Format: c.LogFormat}
}

// ServerOptions converts the server section.
func (c *Config) ServerOptions() server.Config {
	cfg := server.DefaultServerConfig()
	cfg.ListenAddr = c.Server.Listen
	cfg.Token = c.Server.Token
	cfg.ReadTimeout = time.Duration(c.Server.ReadTimeoutS) * time.Second
	cfg.WriteTimeout = time.Duration(c.Server.WriteTimeoutS) * time.Second
	cfg.ShutdownTimeout = time.Duration(c.Server.ShutdownTimeoutS) * time.Second
	cfg.MaxFeedClients = c.Server.MaxFeedClients
	return cfg
}
