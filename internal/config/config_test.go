package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.BodyLimit != "1M" {
		t.Errorf("Server.BodyLimit = %q, want 1M", cfg.Server.BodyLimit)
	}
	if cfg.Render.Workers != 0 {
		t.Errorf("Render.Workers = %d, want 0 (auto)", cfg.Render.Workers)
	}
	if cfg.Render.Theme != "dark" || cfg.Render.PageSize != "preview" {
		t.Errorf("Render defaults = %q/%q, want dark/preview", cfg.Render.Theme, cfg.Render.PageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		field   string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "short theme", mutate: func(c *Config) { c.Render.Theme = "L" }},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: true, field: "server.addr"},
		{name: "negative timeout", mutate: func(c *Config) { c.Render.Timeout = -time.Second }, wantErr: true, field: "render.timeout"},
		{name: "huge timeout", mutate: func(c *Config) { c.Server.ReadTimeout = time.Hour }, wantErr: true, field: "server.readTimeout"},
		{name: "body limit kilobytes", mutate: func(c *Config) { c.Server.BodyLimit = "512K" }},
		{name: "bad body limit", mutate: func(c *Config) { c.Server.BodyLimit = "lots" }, wantErr: true, field: "server.bodyLimit"},
		{name: "zero body limit", mutate: func(c *Config) { c.Server.BodyLimit = "0M" }, wantErr: true, field: "server.bodyLimit"},
		{name: "too many workers", mutate: func(c *Config) { c.Render.Workers = MaxWorkers + 1 }, wantErr: true, field: "render.workers"},
		{name: "negative workers", mutate: func(c *Config) { c.Render.Workers = -1 }, wantErr: true, field: "render.workers"},
		{name: "bad theme", mutate: func(c *Config) { c.Render.Theme = "sepia" }, wantErr: true, field: "render.theme"},
		{name: "bad page size", mutate: func(c *Config) { c.Render.PageSize = "letter" }, wantErr: true, field: "render.pageSize"},
		{name: "bad compression", mutate: func(c *Config) { c.Render.Compression = "max" }, wantErr: true, field: "render.compression"},
		{name: "debug level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: true, field: "log.level"},
		{name: "bad format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true, field: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("Validate() = %v, want ErrInvalidValue", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("merges over defaults", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, dir, "partial.yaml", "server:\n  addr: \":9000\"\nrender:\n  workers: 3\n  theme: light\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Addr != ":9000" || cfg.Render.Workers != 3 || cfg.Render.Theme != "light" {
			t.Errorf("LoadConfig() = %+v", cfg)
		}
		if cfg.Server.BodyLimit != "1M" || cfg.Render.PageSize != "preview" {
			t.Errorf("defaults lost: %+v", cfg)
		}
	})

	t.Run("durations", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, dir, "durations.yaml", "render:\n  timeout: 45s\nserver:\n  shutdownTimeout: 2s\n")
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Render.Timeout != 45*time.Second || cfg.Server.ShutdownTimeout != 2*time.Second {
			t.Errorf("timeouts = %v, %v", cfg.Render.Timeout, cfg.Server.ShutdownTimeout)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, dir, "unknown.yaml", "render:\n  colour: red\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, dir, "invalid.yaml", "log:\n  format: xml\n")
		if _, err := LoadConfig(path); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("LoadConfig() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(filepath.Join(dir, "nope.yaml")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfig(""); !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("LoadConfig() error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("markrender-config-that-does-not-exist")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("LoadConfig() error = %v, want ErrConfigNotFound", err)
		}
		if !strings.Contains(err.Error(), ".yaml") {
			t.Errorf("error %q does not list the searched paths", err)
		}
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := m[k]
			return v, ok
		}
	}

	t.Run("overrides", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		err := cfg.ApplyEnv(env(map[string]string{
			"MARKRENDER_ADDR":           "127.0.0.1:7000",
			"MARKRENDER_WORKERS":        "4",
			"MARKRENDER_RENDER_TIMEOUT": "5s",
			"MARKRENDER_LOG_FORMAT":     "json",
			"MARKRENDER_THEME":          "",
		}))
		if err != nil {
			t.Fatalf("ApplyEnv() error = %v", err)
		}
		if cfg.Server.Addr != "127.0.0.1:7000" || cfg.Render.Workers != 4 || cfg.Render.Timeout != 5*time.Second || cfg.Log.Format != "json" {
			t.Errorf("ApplyEnv() = %+v", cfg)
		}
		if cfg.Render.Theme != "dark" {
			t.Errorf("empty variable replaced theme with %q", cfg.Render.Theme)
		}
	})

	t.Run("bad workers", func(t *testing.T) {
		t.Parallel()

		err := DefaultConfig().ApplyEnv(env(map[string]string{"MARKRENDER_WORKERS": "many"}))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ApplyEnv() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Parallel()

		err := DefaultConfig().ApplyEnv(env(map[string]string{"MARKRENDER_RENDER_TIMEOUT": "soon"}))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ApplyEnv() error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("validates result", func(t *testing.T) {
		t.Parallel()

		err := DefaultConfig().ApplyEnv(env(map[string]string{"MARKRENDER_PAGE_SIZE": "tabloid"}))
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("ApplyEnv() error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "test.env", "MARKRENDER_TEST_ENV_FILE=loaded\n")
	t.Setenv("MARKRENDER_TEST_ENV_FILE", "")
	os.Unsetenv("MARKRENDER_TEST_ENV_FILE")

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFiles() error = %v", err)
	}
	if got := os.Getenv("MARKRENDER_TEST_ENV_FILE"); got != "loaded" {
		t.Errorf("MARKRENDER_TEST_ENV_FILE = %q, want loaded", got)
	}
}
