// Package config loads server and render settings from a YAML file, an
// optional .env file and MARKRENDER_* environment variables, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/alnah/go-markrender/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Limits on configured values.
const (
	MaxWorkers      = 256
	MaxTimeout      = 10 * time.Minute
	MaxBodyLimitLen = 16 // "1M", "512K"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARKRENDER_"

// Config holds all configuration for the server and the command line tool.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`            // listen address (default ":8080")
	ReadTimeout     time.Duration `yaml:"readTimeout"`     // default 10s
	WriteTimeout    time.Duration `yaml:"writeTimeout"`    // default 60s
	IdleTimeout     time.Duration `yaml:"idleTimeout"`     // default 120s
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"` // default 10s
	BodyLimit       string        `yaml:"bodyLimit"`       // echo size syntax (default "1M")
}

// RenderConfig defines render defaults and concurrency.
type RenderConfig struct {
	Workers  int           `yaml:"workers"`  // 0 = auto from GOMAXPROCS
	Timeout  time.Duration `yaml:"timeout"`  // wait bound per request (default 30s)
	Theme    string        `yaml:"theme"`    // transparent, light, dark (default dark)
	PageSize string        `yaml:"pageSize"` // preview, auto, default (default preview)
	// Compression is the PNG level: default, speed, best or none.
	Compression string `yaml:"compression"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // zerolog level name (default "info")
	Format string `yaml:"format"` // console or json (default "console")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			BodyLimit:       "1M",
		},
		Render: RenderConfig{
			Timeout:     30 * time.Second,
			Theme:       "dark",
			PageSize:    "preview",
			Compression: "default",
		},
		Log: LogConfig{Level: "info", Format: "console"},
	}
}

// Validate checks ranges and enumerations. Called by LoadConfig and
// ApplyEnv, but available for callers that build a Config by hand.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr: must not be empty", ErrInvalidValue)
	}
	for name, d := range map[string]time.Duration{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.idleTimeout":     c.Server.IdleTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"render.timeout":         c.Render.Timeout,
	} {
		if d < 0 || d > MaxTimeout {
			return fmt.Errorf("%w: %s: must be between 0 and %s, got %s", ErrInvalidValue, name, MaxTimeout, d)
		}
	}
	if len(c.Server.BodyLimit) > MaxBodyLimitLen || !validBodyLimit(c.Server.BodyLimit) {
		return fmt.Errorf("%w: server.bodyLimit: %q (use a size like 512K or 1M)", ErrInvalidValue, c.Server.BodyLimit)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	if err := oneOf("render.theme", c.Render.Theme, "", "transparent", "t", "light", "l", "dark", "d"); err != nil {
		return err
	}
	if err := oneOf("render.pageSize", c.Render.PageSize, "", "preview", "p", "auto", "a", "default", "d"); err != nil {
		return err
	}
	if err := oneOf("render.compression", c.Render.Compression, "", "default", "speed", "best", "none"); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log.level: %q", ErrInvalidValue, c.Log.Level)
	}
	if err := oneOf("log.format", c.Log.Format, "", "console", "json"); err != nil {
		return err
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q", ErrInvalidValue, field, value)
}

// validBodyLimit accepts a positive integer with an optional B, K, M or G
// suffix.
func validBodyLimit(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimRight(s, "BKMG")
	n, err := strconv.Atoi(s)
	return err == nil && n > 0
}

// LoadConfig loads configuration from a file path or config name, on top
// of DefaultConfig. If nameOrPath contains a path separator, it's treated
// as a file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadEnvFiles loads KEY=value files into the process environment with
// godotenv. Missing files are skipped; variables already set win.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides c from MARKRENDER_* variables found by lookup, then
// validates the result.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidValue, EnvPrefix, key, err)
		}
		*dst = d
		return nil
	}

	str("ADDR", &c.Server.Addr)
	str("BODY_LIMIT", &c.Server.BodyLimit)
	str("THEME", &c.Render.Theme)
	str("PAGE_SIZE", &c.Render.PageSize)
	str("COMPRESSION", &c.Render.Compression)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sWORKERS: %q", ErrInvalidValue, EnvPrefix, v)
		}
		c.Render.Workers = n
	}
	if err := dur("RENDER_TIMEOUT", &c.Render.Timeout); err != nil {
		return err
	}
	if err := dur("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout); err != nil {
		return err
	}

	return c.Validate()
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-markrender/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-markrender", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
