// Package config loads console settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/smartmcq/internal/model"
)

// Config holds all console configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Display   DisplayConfig   `yaml:"display"`
	DevServer DevServerConfig `yaml:"devserver"`
}

// APIConfig points the console at a backend.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	// WebURL prefixes deep links to the web console.
	WebURL  string        `yaml:"web_url"`
	Timeout time.Duration `yaml:"timeout"`
	// Username pre-fills the sign-in form.
	Username string `yaml:"username"`
}

// DisplayConfig holds defaults for rendering questions.
type DisplayConfig struct {
	LetterCase       string `yaml:"letter_case"`
	Separator        string `yaml:"separator"`
	IncludeAnswerKey bool   `yaml:"include_answer_key"`
	PreviewLength    int    `yaml:"preview_length"`
}

// DevServerConfig configures `smartmcq devserver`.
type DevServerConfig struct {
	Addr        string   `yaml:"addr"`
	Secret      string   `yaml:"secret"`
	Fixtures    string   `yaml:"fixtures"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			WebURL:  "http://localhost:3000",
			Timeout: 15 * time.Second,
		},
		Display: DisplayConfig{
			LetterCase:    string(model.Uppercase),
			Separator:     ".",
			PreviewLength: 80,
		},
		DevServer: DevServerConfig{
			Addr:        ":8080",
			Secret:      "smartmcq-dev-secret",
			CORSOrigins: []string{"http://localhost:3000"},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/smartmcq/config.yaml, falling back
// to ~/.config/smartmcq/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "smartmcq", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		f, err := os.Open(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("open config: %w", err)
		default:
			defer f.Close()
			if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
				return Config{}, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SMARTMCQ_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SMARTMCQ_WEB_URL"); v != "" {
		c.API.WebURL = v
	}
	if v := os.Getenv("SMARTMCQ_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.API.Timeout = d
		}
	}
	if v := os.Getenv("SMARTMCQ_USERNAME"); v != "" {
		c.API.Username = v
	}
	if v := os.Getenv("SMARTMCQ_DEVSERVER_SECRET"); v != "" {
		c.DevServer.Secret = v
	}
}

// Validate checks required fields and enumerations.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	switch model.LetterCase(strings.ToLower(c.Display.LetterCase)) {
	case model.Uppercase, model.Lowercase:
	default:
		return fmt.Errorf("display.letter_case must be %q or %q", model.Uppercase, model.Lowercase)
	}
	if c.Display.PreviewLength <= 0 {
		return fmt.Errorf("display.preview_length must be positive")
	}
	return nil
}

// DefaultTestConfiguration returns the display defaults as a test
// Configuration for newly created tests.
func (c Config) DefaultTestConfiguration() model.Configuration {
	return model.Configuration{
		LetterCase:       model.LetterCase(strings.ToLower(c.Display.LetterCase)),
		Separator:        c.Display.Separator,
		IncludeAnswerKey: c.Display.IncludeAnswerKey,
	}.Normalized()
}
