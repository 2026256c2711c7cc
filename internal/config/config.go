package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFeedURL     = "https://www.google.com/calendar/ical/j7gov1cmnqr9tvg14k621j7t5c@group.calendar.google.com/public/basic.ics"
	DefaultOutputPath  = "events.md"
	DefaultHeaderTitle = "Full Events Calendar"
	DefaultHeaderURL   = "https://www.python.org/events/python-events"
	DefaultRefresh     = "0 * * * *"
	DefaultListen      = "127.0.0.1:8080"
	DefaultLogLevel    = "info"
)

// HeaderConfig is the link written at the top of the document.
type HeaderConfig struct {
	Title string `yaml:"title" json:"title"`
	URL   string `yaml:"url" json:"url"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the daemon's HTTP API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// FeedURL is the public ICS endpoint.
	FeedURL string `yaml:"feed_url" json:"feed_url"`

	// OutputPath is the markdown file that is overwritten on every run.
	OutputPath string `yaml:"output_path" json:"output_path"`

	Header HeaderConfig `yaml:"header" json:"header"`

	// Timezone is the IANA zone used for "now" and the month window.
	// Empty means the process' local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Refresh is the cron schedule used in daemon mode.
	Refresh string `yaml:"refresh" json:"refresh"`

	// Listen is the HTTP listen address used in daemon mode. Empty disables HTTP.
	Listen string `yaml:"listen" json:"listen"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// BasicAuth, if set, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		FeedURL:    DefaultFeedURL,
		OutputPath: DefaultOutputPath,
		Header: HeaderConfig{
			Title: DefaultHeaderTitle,
			URL:   DefaultHeaderURL,
		},
		Refresh:  DefaultRefresh,
		Listen:   DefaultListen,
		LogLevel: DefaultLogLevel,
	}
}

// Normalize fills zero values with defaults so partial files still work.
func (c *Config) Normalize() {
	if c.FeedURL == "" {
		c.FeedURL = DefaultFeedURL
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.Header.Title == "" {
		c.Header.Title = DefaultHeaderTitle
	}
	if c.Header.URL == "" {
		c.Header.URL = DefaultHeaderURL
	}
	if c.Refresh == "" {
		c.Refresh = DefaultRefresh
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.BasicAuth != nil && (c.BasicAuth.Username == "" || c.BasicAuth.Password == "") {
		c.BasicAuth = nil
	}
}

// Validate checks the values that would otherwise only fail at runtime.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := cron.ParseStandard(c.Refresh); err != nil {
		errs = append(errs, fmt.Errorf("refresh %q: %w", c.Refresh, err))
	}
	if !strings.HasPrefix(c.FeedURL, "http://") && !strings.HasPrefix(c.FeedURL, "https://") {
		errs = append(errs, fmt.Errorf("feed_url %q: must be http or https", c.FeedURL))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone; empty means time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Load reads configuration from a YAML path.
//
// Behavior:
//   - empty path: built-in defaults, nothing touches the disk
//   - missing file: defaults are written to path (0600) and returned
//   - otherwise: YAML is unmarshalled and normalized
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg as YAML via a temp file in the same directory and a
// rename, leaving the final file with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".eventsmd-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
