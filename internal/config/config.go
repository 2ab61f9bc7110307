package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the resolved application configuration
type Config struct {
	APIURL         string
	Debounce       time.Duration
	RequestTimeout time.Duration // 0 = no client-side timeout
	RateLimit      float64       // requests per second, 0 = unlimited
	LogLevel       string
	Events         bool // write diagnostics events to DataDir/events.jsonl
	DataDir        string
}

// fileConfig is the on-disk shape shared by config.json and config.toml.
// Durations are strings like "20ms".
type fileConfig struct {
	APIURL         string   `json:"api_url,omitempty" toml:"api_url,omitempty"`
	Debounce       string   `json:"debounce,omitempty" toml:"debounce,omitempty"`
	RequestTimeout string   `json:"request_timeout,omitempty" toml:"request_timeout,omitempty"`
	RateLimit      *float64 `json:"rate_limit,omitempty" toml:"rate_limit,omitempty"`
	LogLevel       string   `json:"log_level,omitempty" toml:"log_level,omitempty"`
	Events         *bool    `json:"events,omitempty" toml:"events,omitempty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APIURL:   "http://localhost:8080",
		Debounce: 20 * time.Millisecond,
		LogLevel: "info",
		DataDir:  DefaultDataDir(),
	}
}

// DefaultDataDir is ~/.flicksearch, or .flicksearch when there is no home.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".flicksearch"
	}
	return filepath.Join(home, ".flicksearch")
}

// ConfigPath returns the default config file path inside dataDir
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config.json")
}

// Load resolves configuration: defaults, then the config file, then .env
// in the working directory, then the process environment. An explicit
// path must exist; the default path may be missing.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if dir, ok := os.LookupEnv("FLICKSEARCH_DATA_DIR"); ok && dir != "" {
		cfg.DataDir = dir
	}

	explicit := path != ""
	if !explicit {
		path = ConfigPath(cfg.DataDir)
	}
	if err := cfg.LoadFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	dotenv, err := godotenv.Read()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	if err := cfg.ApplyEnv(envLookup(dotenv)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a .json or .toml file over c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".json", "":
		err = json.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("config %s: unsupported format", path)
	}
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return c.merge(fc)
}

func (c *Config) merge(fc fileConfig) error {
	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.Debounce != "" {
		d, err := time.ParseDuration(fc.Debounce)
		if err != nil {
			return fmt.Errorf("debounce: %w", err)
		}
		c.Debounce = d
	}
	if fc.RequestTimeout != "" {
		d, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if fc.RateLimit != nil {
		c.RateLimit = *fc.RateLimit
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Events != nil {
		c.Events = *fc.Events
	}
	return nil
}

// ApplyEnv overrides fields from FLICKSEARCH_* variables. VITE_API_URL is
// honoured as a fallback for the base URL so the web front end's .env
// works unchanged.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("VITE_API_URL"); ok && v != "" {
		c.APIURL = v
	}
	if v, ok := lookup("FLICKSEARCH_API_URL"); ok && v != "" {
		c.APIURL = v
	}
	fc := fileConfig{}
	if v, ok := lookup("FLICKSEARCH_DEBOUNCE"); ok {
		fc.Debounce = v
	}
	if v, ok := lookup("FLICKSEARCH_REQUEST_TIMEOUT"); ok {
		fc.RequestTimeout = v
	}
	if v, ok := lookup("FLICKSEARCH_RATE_LIMIT"); ok && v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("FLICKSEARCH_RATE_LIMIT: %w", err)
		}
		fc.RateLimit = &r
	}
	if v, ok := lookup("FLICKSEARCH_LOG_LEVEL"); ok {
		fc.LogLevel = v
	}
	if v, ok := lookup("FLICKSEARCH_EVENTS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("FLICKSEARCH_EVENTS: %w", err)
		}
		fc.Events = &b
	}
	return c.merge(fc)
}

// envLookup checks the process environment first, then the .env values.
func envLookup(dotenv map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// Validate rejects values the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("api url %q: %w", c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api url %q: must be an http(s) URL", c.APIURL)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce %s: must not be negative", c.Debounce)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout %s: must not be negative", c.RequestTimeout)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit %v: must not be negative", c.RateLimit)
	}
	return nil
}

// Save writes the persistable fields as JSON (or TOML, by extension)
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	rate := c.RateLimit
	events := c.Events
	fc := fileConfig{
		APIURL:    c.APIURL,
		Debounce:  c.Debounce.String(),
		RateLimit: &rate,
		LogLevel:  c.LogLevel,
		Events:    &events,
	}
	if c.RequestTimeout > 0 {
		fc.RequestTimeout = c.RequestTimeout.String()
	}

	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		data, err = toml.Marshal(fc)
	} else {
		data, err = json.MarshalIndent(fc, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EventsPath is where diagnostics events are written when enabled
func (c *Config) EventsPath() string {
	return filepath.Join(c.DataDir, "events.jsonl")
}
