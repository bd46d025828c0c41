package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/pfrederiksen/powerof10"
	"github.com/pfrederiksen/powerof10/internal/logger"
	"github.com/titanous/json5"
)

const (
	DefaultFile = "po10.json5"
	EnvPrefix   = "PO10_"
)

// Config is the resolved settings of one CLI run.
type Config struct {
	BaseURL   string `json:"base_url,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	// Timeout is a Go duration string such as "30s".
	Timeout  string `json:"timeout,omitempty"`
	LogLevel string `json:"log_level,omitempty"`
	DumpDir  string `json:"dump_dir,omitempty"`
	Format   string `json:"format,omitempty"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		BaseURL:   powerof10.BaseURL,
		UserAgent: powerof10.UserAgent,
		Timeout:   powerof10.Timeout.String(),
		LogLevel:  strings.ToLower(string(logger.LevelWarn)),
		Format:    "text",
	}
}

// Load resolves the configuration. path names the json5 file; when empty
// DefaultFile in the working directory is used. Missing files are not an
// error.
func Load(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	if path == "" {
		path = DefaultFile
	}
	cfg, err := ReadFile[Config](path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := mergo.Merge(&cfg, Defaults()); err != nil {
		return Config{}, fmt.Errorf("applying defaults: %w", err)
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(name string) error {
	err := godotenv.Load(name)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", name, err)
}

// ReadFile reads name and merges name's ".local" sibling over it, so
// po10.json5 is overridden by po10.local.json5. It returns fs.ErrNotExist
// when neither exists.
func ReadFile[T any](name string) (T, error) {
	var out T
	found := false

	data, err := os.ReadFile(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return out, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("parsing %s: %w", name, err)
		}
		found = true
	}

	local := localName(name)
	data, err = os.ReadFile(local)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return out, err
	}
	if len(data) > 0 {
		var override T
		if err := json5.Unmarshal(data, &override); err != nil {
			return out, fmt.Errorf("parsing %s: %w", local, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		found = true
	}

	if !found {
		return out, fs.ErrNotExist
	}
	return out, nil
}

func localName(name string) string {
	dir, base := filepath.Split(name)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}

func applyEnv(cfg *Config) {
	for key, field := range map[string]*string{
		"BASE_URL":   &cfg.BaseURL,
		"USER_AGENT": &cfg.UserAgent,
		"TIMEOUT":    &cfg.Timeout,
		"LOG_LEVEL":  &cfg.LogLevel,
		"DUMP_DIR":   &cfg.DumpDir,
		"FORMAT":     &cfg.Format,
	} {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}
}

// Validate checks the values that are parsed later.
func (c Config) Validate() error {
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	switch strings.ToLower(c.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", c.Format)
	}
	if c.BaseURL == "" {
		return errors.New("base_url must not be empty")
	}
	return nil
}

// TimeoutDuration parses Timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}
