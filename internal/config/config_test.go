package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/wcforge/contentgen/internal/content"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if d, _ := cfg.RequestTimeout(); d != 2*time.Minute {
		t.Errorf("timeout = %v, want 2m", d)
	}
	if len(cfg.PromptDefaults()) != 0 {
		t.Errorf("expected no prompt defaults, got %v", cfg.PromptDefaults())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_TOKEN", "secret123")

		result := ResolveEnvVars("Bearer ${TEST_API_TOKEN}")
		if result != "Bearer secret123" {
			t.Errorf("expected Bearer secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_ResolvedHeaders(t *testing.T) {
	t.Setenv("TEST_CG_TOKEN", "tok")

	cfg := &Config{Headers: map[string]string{
		"Authorization": "Bearer ${TEST_CG_TOKEN}",
		"X-Empty":       "${DEFINITELY_NOT_SET_12345}",
		"X-Store":       "main",
	}}

	got := cfg.ResolvedHeaders()
	if got["Authorization"] != "Bearer tok" || got["X-Store"] != "main" {
		t.Errorf("headers = %v", got)
	}
	if _, ok := got["X-Empty"]; ok {
		t.Error("empty header should be dropped")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative base url", func(c *Config) { c.BaseURL = "/ai" }},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Timeout = "-1s" }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad output", func(c *Config) { c.Output = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLogLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfigFile(t, `
base_url: "http://shop.test/ai"
product_id: "42"
prompts:
  title: "7"
  meta_description: "uuid-9"
headers:
  X-Store: main
`)

		mgr, err := NewManager(path, nil)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.BaseURL != "http://shop.test/ai" || cfg.ProductID != "42" {
			t.Errorf("config = %+v", cfg)
		}
		if cfg.Output != "yaml" || cfg.LogLevel != "info" {
			t.Errorf("defaults not applied: %+v", cfg)
		}
		prompts := cfg.PromptDefaults()
		if prompts[content.FieldTitle] != "7" || prompts[content.FieldMetaDescription] != "uuid-9" || len(prompts) != 2 {
			t.Errorf("prompts = %v", prompts)
		}
		if cfg.Headers["x-store"] != "main" && cfg.Headers["X-Store"] != "main" {
			t.Errorf("headers = %v", cfg.Headers)
		}
		if mgr.ConfigFileUsed() != path {
			t.Errorf("ConfigFileUsed() = %s", mgr.ConfigFileUsed())
		}
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		if _, err := NewManager(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := writeConfigFile(t, "timeout: forever\n")
		if _, err := NewManager(path, nil); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfigFile(t, "base_url: http://file.test/ai\n")
		t.Setenv("CONTENTGEN_BASE_URL", "http://env.test/ai")
		t.Setenv("CONTENTGEN_PROMPTS_TITLE", "11")

		mgr, err := NewManager(path, nil)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.BaseURL != "http://env.test/ai" {
			t.Errorf("base_url = %s", cfg.BaseURL)
		}
		if cfg.Prompts.Title != "11" {
			t.Errorf("prompts.title = %s", cfg.Prompts.Title)
		}
	})

	t.Run("flags override environment", func(t *testing.T) {
		path := writeConfigFile(t, "product_id: \"1\"\n")
		t.Setenv("CONTENTGEN_PRODUCT_ID", "2")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("product", "", "")
		flags.String("server", "", "")
		if err := flags.Parse([]string{"--product", "3"}); err != nil {
			t.Fatal(err)
		}

		mgr, err := NewManager(path, flags)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.ProductID != "3" {
			t.Errorf("product_id = %s, want 3", cfg.ProductID)
		}
		if cfg.BaseURL != "http://localhost:5000/ai" {
			t.Errorf("unset flag should not override default, got %s", cfg.BaseURL)
		}
	})
}

func TestManager_Set(t *testing.T) {
	path := writeConfigFile(t, "base_url: http://shop.test/ai\n")
	mgr, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	if err := mgr.Set("prompts.title", "5", ""); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if mgr.Get().Prompts.Title != "5" {
		t.Errorf("prompts.title = %s", mgr.Get().Prompts.Title)
	}

	reloaded, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.Get().Prompts.Title != "5" || reloaded.Get().BaseURL != "http://shop.test/ai" {
		t.Errorf("reloaded config = %+v", reloaded.Get())
	}

	if err := mgr.Set("timeout", "never", ""); err == nil {
		t.Error("expected invalid value to be rejected")
	}
	if mgr.Get().Timeout == "never" {
		t.Error("rejected value should not be kept")
	}
	if err := mgr.Set("nope", "1", ""); err == nil {
		t.Error("expected unknown key to be rejected")
	}
}

func TestManager_SetKeepsOverridesOutOfFile(t *testing.T) {
	path := writeConfigFile(t, "base_url: http://shop.test/ai\n")
	t.Setenv("CONTENTGEN_BASE_URL", "http://env-override.test/ai")
	t.Setenv("CONTENTGEN_PRODUCT_ID", "777")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "", "")
	if err := flags.Parse([]string{"--output", "json"}); err != nil {
		t.Fatal(err)
	}

	mgr, err := NewManager(path, flags)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if err := mgr.Set("prompts.title", "5", ""); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// The running config still sees the overrides.
	cfg := mgr.Get()
	if cfg.BaseURL != "http://env-override.test/ai" || cfg.ProductID != "777" || cfg.Output != "json" {
		t.Errorf("merged config = %+v", cfg)
	}
	if cfg.Prompts.Title != "5" {
		t.Errorf("prompts.title = %s", cfg.Prompts.Title)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, leaked := range []string{"env-override", "777", "json"} {
		if strings.Contains(string(data), leaked) {
			t.Errorf("config file contains override %q:\n%s", leaked, data)
		}
	}

	os.Unsetenv("CONTENTGEN_BASE_URL")
	os.Unsetenv("CONTENTGEN_PRODUCT_ID")
	reloaded, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	got := reloaded.Get()
	if got.BaseURL != "http://shop.test/ai" || got.ProductID != "" || got.Output != DefaultConfig().Output {
		t.Errorf("reloaded config = %+v", got)
	}
	if got.Prompts.Title != "5" {
		t.Errorf("reloaded prompts.title = %s", got.Prompts.Title)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# contentgen configuration") {
		t.Errorf("missing header:\n%s", data)
	}

	mgr, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("default config does not load: %v", err)
	}
	if mgr.Get().BaseURL != DefaultConfig().BaseURL {
		t.Errorf("base_url = %s", mgr.Get().BaseURL)
	}

	if err := WriteDefault(path); err == nil {
		t.Error("expected error when file exists")
	}
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	path := writeConfigFile(t, "product_id: \"9\"\n")
	mgr, err := NewManager(path, nil)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				cfg := mgr.Get()
				_ = cfg.ProductID
			}
			done <- struct{}{}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
