package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type ServerConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

type UIConfig struct {
	ShowTimestamps bool `toml:"show_timestamps"`
}

// FileConfig mirrors the on-disk layout of config.toml
type FileConfig struct {
	Server ServerConfig `toml:"server"`
	UI     UIConfig     `toml:"ui"`
}

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	ShowTimestamps bool
}

var Debug = false

// Log is the debug logger. It discards everything until InitDebugLog enables it.
var Log = zerolog.Nop()

// ApplyHost overrides the base URL from the command line, taking precedence
// over the file and environment
func (c *Config) ApplyHost(host string) error {
	if host == "" {
		return nil
	}
	c.BaseURL = strings.TrimSuffix(host, "/")
	return c.Validate()
}

// Validate checks that the base URL is an absolute http(s) URL and the timeout is not negative
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url %q: scheme must be http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base_url %q: missing host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout %s: must not be negative", c.Timeout)
	}
	return nil
}

func (c *Config) applyFile(fc *FileConfig) error {
	if fc.Server.BaseURL != "" {
		c.BaseURL = fc.Server.BaseURL
	}
	if fc.Server.Timeout != "" {
		d, err := time.ParseDuration(fc.Server.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", fc.Server.Timeout, err)
		}
		c.Timeout = d
	}
	c.ShowTimestamps = fc.UI.ShowTimestamps
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if baseURL := os.Getenv("CHATUI_BASE_URL"); baseURL != "" {
		c.BaseURL = baseURL
	}
	if timeout := os.Getenv("CHATUI_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid CHATUI_TIMEOUT %q: %w", timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

func CheckDebug() bool {
	debug := os.Getenv("CHATUI_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog points Log at <dir>/debug.log when CHATUI_DEBUG is set.
// The TUI owns stdout, so debug output can only go to a file.
func InitDebugLog(dir string) {
	if !CheckDebug() {
		return
	}

	if err := EnsureDir(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not create log directory %s: %v\n", dir, err)
		return
	}

	logPath := filepath.Join(dir, "debug.log")

	// 0600: log lines include message text
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	Debug = true
	Log = zerolog.New(f).With().
		Timestamp().
		Str("app", "chatui").
		Logger()
	Log.Debug().
		Str("CHATUI_DEBUG", os.Getenv("CHATUI_DEBUG")).
		Str("path", logPath).
		Msg("=== Debug logging started ===")
}

// Load builds the effective config: defaults, then the TOML file at path
// (GetConfigFilePath when empty), then CHATUI_* environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BaseURL:        DefaultBaseURL,
		Timeout:        0,
		ShowTimestamps: true,
	}

	if path == "" {
		path = GetConfigFilePath()
	}

	fileCfg, err := LoadFileConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.applyFile(fileCfg); err != nil {
		return nil, fmt.Errorf("failed to apply config file %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
