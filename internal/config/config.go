// Package config loads the html-preview configuration: the watched
// document, its generator, debounce delay, and the server and state
// surfaces around the preview session.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	perrors "github.com/showgood/html-preview/internal/errors"
)

// Default values applied by Load and by ApplyDefaults.
const (
	DefaultPreviewIdentity = "*html-preview*"
	DefaultListen          = "127.0.0.1"
	DefaultPort            = 1317
)

// Config represents the application configuration.
type Config struct {
	// Document is the source document the preview follows.
	Document string `yaml:"document"`

	// Generator is an explicit override of generator dispatch. Empty means
	// inference from the document's file extension.
	Generator string `yaml:"generator,omitempty"`

	// AfterChangeIdleDelay is the debounce delay in seconds after the last
	// qualifying edit. Zero or absent disables live-typing regeneration;
	// only save-triggered regeneration applies then.
	AfterChangeIdleDelay float64 `yaml:"after_change_idle_delay,omitempty"`

	// PreviewIdentity is the display identity of the shared preview
	// session.
	PreviewIdentity string `yaml:"preview_identity,omitempty"`

	Server     ServerConfig    `yaml:"server,omitempty"`
	Output     OutputConfig    `yaml:"output,omitempty"`
	State      StateConfig     `yaml:"state,omitempty"`
	Logging    LoggingConfig   `yaml:"logging,omitempty"`
	Generators []ExecGenerator `yaml:"generators,omitempty"`
}

// ServerConfig configures the viewer/IPC HTTP server.
type ServerConfig struct {
	Listen  string `yaml:"listen,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	Metrics bool   `yaml:"metrics,omitempty"`
}

// OutputConfig configures where generated documents land.
type OutputConfig struct {
	// Directory for generated output. Empty means a temporary directory
	// created at startup and removed on shutdown.
	Directory string `yaml:"directory,omitempty"`
	Clean     bool   `yaml:"clean,omitempty"`
}

// StateConfig configures navigation state persistence.
type StateConfig struct {
	// Path of the SQLite state database. Empty disables persistence.
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig configures the slog default handler.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// ExecGenerator registers an external export pipeline as a generator.
// The command receives {input} and {output} placeholders.
type ExecGenerator struct {
	Name    string   `yaml:"name"`
	Command []string `yaml:"command"`
}

// Load loads configuration from the specified file. Environment variables
// in the YAML content are expanded, and a .env file next to the process is
// honored when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, perrors.NewConfigError("read config file", err)
	}
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, perrors.NewConfigError("parse config file", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.PreviewIdentity == "" {
		c.PreviewIdentity = DefaultPreviewIdentity
	}
	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}

// Validate rejects configurations that cannot drive a preview.
func (c *Config) Validate() error {
	if c.AfterChangeIdleDelay < 0 {
		return perrors.NewConfigError("after_change_idle_delay must not be negative", nil)
	}
	for _, g := range c.Generators {
		if g.Name == "" {
			return perrors.NewConfigError("generator entry missing name", nil)
		}
		if len(g.Command) == 0 {
			return perrors.NewConfigError(fmt.Sprintf("generator %q missing command", g.Name), nil)
		}
	}
	return nil
}

// IdleDelay returns the debounce delay as a duration; zero disables
// live-typing regeneration.
func (c *Config) IdleDelay() time.Duration {
	if c.AfterChangeIdleDelay <= 0 {
		return 0
	}
	return time.Duration(c.AfterChangeIdleDelay * float64(time.Second))
}
