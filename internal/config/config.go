// Package config builds the run configuration once at process start.
//
// Values are layered: built-in defaults, then an optional TOML file, then
// environment variables. The CLI applies flag overrides on top. Delivery
// settings (API key, sending domain, sender, recipients) are validated
// separately by ValidateDelivery so commands that never send can skip them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultSourceURL      = "https://austin.showlists.net/"
	DefaultStatePath      = "~/.local/share/showlist-watch/shows.txt"
	DefaultConfigPath     = "~/.config/showlist-watch/config.toml"
	DefaultTimeoutSeconds = 30
)

// Environment variable names
const (
	EnvAPIKey         = "API_KEY"
	EnvSendingDomain  = "SENDING_DOMAIN"
	EnvFromAddress    = "FROM_ADDRESS"
	EnvToAddresses    = "TO_ADDRESSES"
	EnvMailgunBaseURL = "MAILGUN_BASE_URL"
	EnvSourceURL      = "SHOWLIST_URL"
	EnvSourceTimeout  = "SHOWLIST_TIMEOUT_SECONDS"
	EnvStateFile      = "STATE_FILE"
	EnvExcludedVenues = "EXCLUDED_VENUES"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
)

// Source configures the listing page fetch.
type Source struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// State configures the known-show state file.
type State struct {
	Path string `toml:"path"`
}

// Filter configures show filtering.
type Filter struct {
	// Exact venue names whose shows are ignored entirely
	ExcludedVenues []string `toml:"excluded_venues"`
}

// Delivery configures the notification email.
type Delivery struct {
	APIKey        string   `toml:"api_key" env:"API_KEY" validate:"required"`
	SendingDomain string   `toml:"sending_domain" env:"SENDING_DOMAIN" validate:"required"`
	FromAddress   string   `toml:"from_address" env:"FROM_ADDRESS" validate:"required"`
	ToAddresses   []string `toml:"to_addresses" env:"TO_ADDRESSES" validate:"required,min=1"`
	BaseURL       string   `toml:"base_url" env:"MAILGUN_BASE_URL" validate:"omitempty,url"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // auto, json, or text
}

// Config encapsulates all configuration values for a run.
type Config struct {
	Source   Source   `toml:"source"`
	State    State    `toml:"state"`
	Filter   Filter   `toml:"filter"`
	Delivery Delivery `toml:"delivery"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the built-in configuration. Delivery is left empty.
func Default() Config {
	return Config{
		Source: Source{
			URL:            DefaultSourceURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		State: State{
			Path: DefaultStatePath,
		},
		Filter: Filter{
			ExcludedVenues: []string{},
		},
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (the
// default location when path is empty), and the environment. The state path
// is returned expanded and absolute. An explicitly
// named file must exist; the default file is optional.
func Load(path string) (*Config, error) {
	cfg := Default()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	statePath, err := ExpandPath(cfg.State.Path)
	if err != nil {
		return nil, err
	}
	cfg.State.Path = statePath

	return &cfg, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if explicit {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}

	return expanded, true, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}

	str(EnvAPIKey, &c.Delivery.APIKey)
	str(EnvSendingDomain, &c.Delivery.SendingDomain)
	str(EnvFromAddress, &c.Delivery.FromAddress)
	str(EnvMailgunBaseURL, &c.Delivery.BaseURL)
	str(EnvSourceURL, &c.Source.URL)
	str(EnvStateFile, &c.State.Path)
	str(EnvLogLevel, &c.Logging.Level)
	str(EnvLogFormat, &c.Logging.Format)

	if v, ok := lookup(EnvToAddresses); ok {
		c.Delivery.ToAddresses = SplitList(v, ",")
	}
	if v, ok := lookup(EnvExcludedVenues); ok {
		c.Filter.ExcludedVenues = SplitList(v, ";")
	}

	if v, ok := lookup(EnvSourceTimeout); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &Error{Invalid: []string{EnvSourceTimeout}}
		}
		c.Source.TimeoutSeconds = n
	}

	return nil
}

func (c *Config) normalize() {
	c.Source.URL = strings.TrimSpace(c.Source.URL)
	c.State.Path = strings.TrimSpace(c.State.Path)
	c.Delivery.APIKey = strings.TrimSpace(c.Delivery.APIKey)
	c.Delivery.SendingDomain = strings.TrimSpace(c.Delivery.SendingDomain)
	c.Delivery.FromAddress = strings.TrimSpace(c.Delivery.FromAddress)
	c.Delivery.BaseURL = strings.TrimSpace(c.Delivery.BaseURL)
	c.Delivery.ToAddresses = trimAll(c.Delivery.ToAddresses)
	c.Filter.ExcludedVenues = trimAll(c.Filter.ExcludedVenues)
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	if c.Source.URL == "" {
		c.Source.URL = DefaultSourceURL
	}
	if c.State.Path == "" {
		c.State.Path = DefaultStatePath
	}
	if c.Source.TimeoutSeconds == 0 {
		c.Source.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "auto"
	}
}

// Validate checks the settings every command depends on. Delivery settings
// are checked by ValidateDelivery.
func (c *Config) Validate() error {
	var invalid []string

	if u, err := url.Parse(c.Source.URL); err != nil || u.Scheme == "" || u.Host == "" {
		invalid = append(invalid, EnvSourceURL)
	}
	if c.Source.TimeoutSeconds < 0 {
		invalid = append(invalid, EnvSourceTimeout)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, EnvLogLevel)
	}
	switch c.Logging.Format {
	case "auto", "json", "text":
	default:
		invalid = append(invalid, EnvLogFormat)
	}

	if len(invalid) > 0 {
		return &Error{Invalid: invalid}
	}
	return nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// SplitList splits a delimited value, trimming entries and dropping blanks.
func SplitList(value, sep string) []string {
	return trimAll(strings.Split(value, sep))
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
