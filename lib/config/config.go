// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/servopanel/lib/servo"
)

// EnvironmentVariable names the settings file when --config is absent.
const EnvironmentVariable = "SERVOPANEL_CONFIG"

// DefaultServer is the backend base URL used without a settings file.
const DefaultServer = "http://localhost:5000"

// Config is the client configuration.
type Config struct {
	// Server is the backend base URL.
	Server string `yaml:"server" json:"server"`

	// Events is the push channel endpoint. Empty means SSE at
	// <server>/api/events. A unix:///path URL selects CBOR frames over
	// a Unix socket.
	Events string `yaml:"events" json:"events"`

	// RequestTimeout bounds each backend request.
	RequestTimeout Duration `yaml:"request_timeout" json:"request_timeout"`

	// ResyncInterval is how often the panel re-fetches the status
	// snapshot. Zero disables it.
	ResyncInterval Duration `yaml:"resync_interval" json:"resync_interval"`

	// Position is the backend's native position range.
	Position servo.Range `yaml:"position" json:"position"`

	// Log configures logging outside the panel view.
	Log LogConfig `yaml:"log" json:"log"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Output is an optional path for a JSON log file.
	Output string `yaml:"output" json:"output"`
}

// Duration is a time.Duration written as a Go duration string ("5s",
// "250ms") in settings files.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String returns the Go duration string.
func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	return d.parse(text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	return d.parse(text)
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Duration) parse(text string) error {
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Default returns the configuration used without a settings file.
func Default() *Config {
	return &Config{
		Server:         DefaultServer,
		RequestTimeout: Duration(5 * time.Second),
		Position:       servo.DefaultRange(),
		Log:            LogConfig{Level: "info"},
	}
}

// Load loads the file named by path, or by SERVOPANEL_CONFIG when path
// is empty. With neither, it returns Default. The result is validated.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile loads a settings file over the defaults and validates it.
// ${VAR} and ${VAR:-default} in the log output path are expanded from
// the environment.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	cfg.Log.Output = expandVars(cfg.Log.Output)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return fmt.Errorf("unsupported config extension %q (want .yaml, .yml, .json or .jsonc)", filepath.Ext(path))
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if err := validateHTTPURL(c.Server); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if c.Events != "" {
		if err := validateEventsURL(c.Events); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, errors.New("request_timeout must not be negative"))
	}
	if c.ResyncInterval < 0 {
		errs = append(errs, errors.New("resync_interval must not be negative"))
	}
	if err := c.Position.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("position: %w", err))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}

	return errors.Join(errs...)
}

// EventsURL returns the push channel endpoint: Events when set,
// otherwise the SSE endpoint under Server.
func (c *Config) EventsURL() string {
	if c.Events != "" {
		return c.Events
	}
	return strings.TrimRight(c.Server, "/") + "/api/events"
}

// ParseLevel parses a log level name. The empty string means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown level %q (want debug, info, warn or error)", name)
	}
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q must be an http or https URL", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}

func validateEventsURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme == "unix" {
		if parsed.Path == "" && parsed.Opaque == "" {
			return fmt.Errorf("%q has no socket path", raw)
		}
		return nil
	}
	return validateHTTPURL(raw)
}

// Overrides are command-line values that replace file values. Empty
// strings and nil durations leave the file value alone.
type Overrides struct {
	Server         string
	Events         string
	RequestTimeout *time.Duration
	ResyncInterval *time.Duration
	LogLevel       string
	LogOutput      string
}

// Apply writes the set overrides into c and validates the result.
func (c *Config) Apply(overrides Overrides) error {
	if overrides.Server != "" {
		c.Server = overrides.Server
	}
	if overrides.Events != "" {
		c.Events = overrides.Events
	}
	if overrides.RequestTimeout != nil {
		c.RequestTimeout = Duration(*overrides.RequestTimeout)
	}
	if overrides.ResyncInterval != nil {
		c.ResyncInterval = Duration(*overrides.ResyncInterval)
	}
	if overrides.LogLevel != "" {
		c.Log.Level = overrides.LogLevel
	}
	if overrides.LogOutput != "" {
		c.Log.Output = overrides.LogOutput
	}
	return c.Validate()
}
