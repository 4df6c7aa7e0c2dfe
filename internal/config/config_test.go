package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apierrors "github.com/diogo/floatchat/internal/errors"
	"github.com/diogo/floatchat/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "" {
		t.Errorf("BaseURL should default to empty, got %q", cfg.BaseURL)
	}
	if cfg.TimeoutSeconds != 300 {
		t.Errorf("TimeoutSeconds = %d, want 300", cfg.TimeoutSeconds)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to false")
	}
	if cfg.Markdown.Style != "dark" {
		t.Errorf("Markdown.Style = %s, want dark", cfg.Markdown.Style)
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("GetConfigPath() returned relative path: %s", path)
	}
	if filepath.Base(filepath.Dir(path)) != ".floatchat" {
		t.Errorf("config should live under .floatchat, got %s", path)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.TimeoutSeconds != DefaultConfig().TimeoutSeconds {
		t.Error("expected defaults when no config file exists")
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.BaseURL = "http://10.1.2.3:8000"
	cfg.SessionID = "abc"
	cfg.Notify = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	path, _ := GetConfigPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file missing: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config perms = %o, want 600", info.Mode().Perm())
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.BaseURL != cfg.BaseURL || loaded.SessionID != "abc" || !loaded.Notify {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".floatchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg.TimeoutSeconds != 300 {
		t.Error("expected defaults on parse error")
	}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		env     string
		legacy  string
		file    string
		want    string
		wantErr bool
	}{
		{name: "default", want: models.DefaultBaseURL},
		{name: "config file", file: "http://files:1", want: "http://files:1"},
		{name: "legacy env beats file", legacy: "http://legacy:2", file: "http://files:1", want: "http://legacy:2"},
		{name: "env beats legacy", env: "http://env:3/", legacy: "http://legacy:2", want: "http://env:3"},
		{name: "flag beats all", flag: "https://flag:4", env: "http://env:3", want: "https://flag:4"},
		{name: "invalid scheme", flag: "ftp://x", wantErr: true},
		{name: "no host", flag: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPIBase, tt.env)
			t.Setenv(EnvLegacyAPIBase, tt.legacy)

			got, err := ResolveBaseURL(tt.flag, Config{BaseURL: tt.file})
			if tt.wantErr {
				if !errors.Is(err, apierrors.ErrInvalidBaseURL) {
					t.Errorf("expected ErrInvalidBaseURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveBaseURL() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(EnvAPIBase+"=http://from-dotenv:9\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIBase, "")
	os.Unsetenv(EnvAPIBase)

	if err := LoadEnv(envFile); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if got := os.Getenv(EnvAPIBase); got != "http://from-dotenv:9" {
		t.Errorf("%s = %q after LoadEnv", EnvAPIBase, got)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}

func TestConfig_Set(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("base_url", "http://host:8000/"); err != nil {
		t.Fatalf("Set base_url: %v", err)
	}
	if cfg.BaseURL != "http://host:8000" {
		t.Errorf("BaseURL = %s", cfg.BaseURL)
	}

	if err := cfg.Set("notify", "true"); err != nil || !cfg.Notify {
		t.Errorf("Set notify failed: %v", err)
	}
	if err := cfg.Set("timeout_seconds", "-1"); err == nil {
		t.Error("expected error for negative timeout")
	}
	if err := cfg.Set("verbose", "maybe"); err == nil {
		t.Error("expected error for non-bool")
	}
	if err := cfg.Set("nope", "1"); err == nil {
		t.Error("expected error for unknown key")
	}

	keys := SettableKeys()
	if len(keys) == 0 || keys[0] != "base_url" {
		t.Errorf("SettableKeys() = %v", keys)
	}
}
