package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/themifi/relox/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_YAML(t *testing.T) {
	var holder struct {
		TTL Duration `yaml:"ttl"`
	}
	if err := yaml.Unmarshal([]byte("ttl: 90s\n"), &holder); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if holder.TTL.Duration != 90*time.Second {
		t.Errorf("TTL = %v, want 90s", holder.TTL.Duration)
	}

	out, err := yaml.Marshal(holder)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "ttl: 1m30s\n" {
		t.Errorf("Marshal() = %q", out)
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.General.Name != "relox" {
		t.Errorf("General.Name = %v, want relox", cfg.General.Name)
	}
	if cfg.General.Environment != "development" {
		t.Errorf("General.Environment = %v, want development", cfg.General.Environment)
	}
	if cfg.Interpreter.MaxDepth != 256 {
		t.Errorf("Interpreter.MaxDepth = %v, want 256", cfg.Interpreter.MaxDepth)
	}
	if cfg.Interpreter.MaxSourceBytes != 1<<20 {
		t.Errorf("Interpreter.MaxSourceBytes = %v, want 1MiB", cfg.Interpreter.MaxSourceBytes)
	}
	if cfg.Server.Port != 9190 {
		t.Errorf("Server.Port = %v, want 9190", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout.Duration != 30*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout.Duration)
	}
	if cfg.Cache.TTL.Duration != 5*time.Minute {
		t.Errorf("Cache.TTL = %v, want 5m", cfg.Cache.TTL.Duration)
	}
	if cfg.Log.Format != "console" {
		t.Errorf("Log.Format = %v, want console", cfg.Log.Format)
	}
	if cfg.JournalEnabled() {
		t.Error("journal should be disabled without a path")
	}
}

func TestConfig_ServerAddress(t *testing.T) {
	cfg := Default()
	if got := cfg.ServerAddress(); got != "0.0.0.0:9190" {
		t.Errorf("ServerAddress() = %v, want 0.0.0.0:9190", got)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeConfigError) {
		t.Errorf("error code = %v, want CONFIG_ERROR", mdwerror.GetCode(err))
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[general]
name = "relox-test"

[interpreter]
max_depth = 64

[server]
port = 9999
host = "127.0.0.1"

[cache]
enabled = true
ttl = "45s"

[journal]
path = "$RELOX_TEST_DIR/journal.db"
`)
	t.Setenv("RELOX_TEST_DIR", "/tmp/relox")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "relox-test" {
		t.Errorf("General.Name = %v, want relox-test", cfg.General.Name)
	}
	if cfg.Interpreter.MaxDepth != 64 {
		t.Errorf("Interpreter.MaxDepth = %v, want 64", cfg.Interpreter.MaxDepth)
	}
	if cfg.ServerAddress() != "127.0.0.1:9999" {
		t.Errorf("ServerAddress() = %v", cfg.ServerAddress())
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL.Duration != 45*time.Second {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Journal.Path != "/tmp/relox/journal.db" {
		t.Errorf("Journal.Path = %v, want expanded path", cfg.Journal.Path)
	}

	// Check defaults were applied for missing values
	if cfg.Interpreter.MaxSourceBytes != 1<<20 {
		t.Errorf("Interpreter.MaxSourceBytes = %v, want default", cfg.Interpreter.MaxSourceBytes)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
interpreter:
  max_source_bytes: 2048
server:
  port: 7000
  request_timeout: 2s
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Interpreter.MaxSourceBytes != 2048 {
		t.Errorf("Interpreter.MaxSourceBytes = %v, want 2048", cfg.Interpreter.MaxSourceBytes)
	}
	if cfg.Server.Port != 7000 || cfg.Server.RequestTimeout.Duration != 2*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Interpreter.MaxDepth != 256 {
		t.Errorf("Interpreter.MaxDepth = %v, want default", cfg.Interpreter.MaxDepth)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"unsupported extension", "config.ini", "port=1"},
		{"malformed toml", "config.toml", "[server\nport = 1"},
		{"malformed yaml", "config.yaml", "server: [1, 2"},
		{"invalid port", "config.toml", "[server]\nport = 70000"},
		{"invalid format", "config.yaml", "log:\n  format: xml\n"},
		{"negative depth", "config.toml", "[interpreter]\nmax_depth = -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !mdwerror.HasCode(err, mdwerror.CodeConfigError) {
				t.Errorf("error code = %v, want CONFIG_ERROR", mdwerror.GetCode(err))
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "relox.toml", "[server]\nport = 9444\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Server.Port != 9444 {
		t.Errorf("Server.Port = %v, want 9444", cfg.Server.Port)
	}
}

func TestLoadFromEnv_NoConfigFound(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv("HOME", t.TempDir())

	// Change to a temp directory without config files
	originalWd, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	defer os.Chdir(originalWd)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Server.Port != Default().Server.Port {
		t.Errorf("LoadFromEnv() should fall back to defaults, got %+v", cfg.Server)
	}
}
