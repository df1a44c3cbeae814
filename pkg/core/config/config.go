package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/themifi/relox/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "RELOX_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General     GeneralConfig     `toml:"general" yaml:"general"`
	Interpreter InterpreterConfig `toml:"interpreter" yaml:"interpreter"`
	Server      ServerConfig      `toml:"server" yaml:"server"`
	Cache       CacheConfig       `toml:"cache" yaml:"cache"`
	Journal     JournalConfig     `toml:"journal" yaml:"journal"`
	Log         LogConfig         `toml:"log" yaml:"log"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
}

// InterpreterConfig bounds the work a single evaluation may do
type InterpreterConfig struct {
	MaxDepth       int   `toml:"max_depth" yaml:"max_depth"`
	MaxSourceBytes int64 `toml:"max_source_bytes" yaml:"max_source_bytes"`
}

// ServerConfig holds gRPC server settings
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	Port             int      `toml:"port" yaml:"port"`
	MaxRecvMsgSize   int      `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	RequestTimeout   Duration `toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout  Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	Enabled         bool     `toml:"enabled" yaml:"enabled"`
	TTL             Duration `toml:"ttl" yaml:"ttl"`
	CleanupInterval Duration `toml:"cleanup_interval" yaml:"cleanup_interval"`
}

// JournalConfig holds evaluation journal settings. An empty path disables
// the journal.
type JournalConfig struct {
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// MarshalYAML formats the duration as a string scalar
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mdwerror.New(fmt.Sprintf("config file not found: %s", path)).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read config").WithCode(mdwerror.CodeConfigError)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml", "":
		_, err = toml.Decode(string(data), &cfg)
	default:
		return nil, mdwerror.New(fmt.Sprintf("unsupported config format: %s", filepath.Ext(path))).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeConfigError).
			WithDetail("path", path)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in path fields
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the RELOX_CONFIG environment variable.
// Without it the default locations are tried; if none exists the defaults
// are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = findDefault()
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func findDefault() string {
	defaultPaths := []string{
		"./configs/config.toml",
		"./config.toml",
	}
	if home := os.Getenv("HOME"); home != "" {
		defaultPaths = append(defaultPaths, filepath.Join(home, ".config/relox/config.toml"))
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "relox"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Interpreter
	if c.Interpreter.MaxDepth == 0 {
		c.Interpreter.MaxDepth = 256
	}
	if c.Interpreter.MaxSourceBytes == 0 {
		c.Interpreter.MaxSourceBytes = 1 << 20
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9190
	}
	if c.Server.MaxRecvMsgSize == 0 {
		c.Server.MaxRecvMsgSize = 4 * 1024 * 1024
	}
	if c.Server.RequestTimeout.Duration == 0 {
		c.Server.RequestTimeout.Duration = 10 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 30 * time.Second
	}

	// Cache
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 5 * time.Minute
	}
	if c.Cache.CleanupInterval.Duration == 0 {
		c.Cache.CleanupInterval.Duration = time.Minute
	}

	// Journal
	if c.Journal.Retention.Duration == 0 {
		c.Journal.Retention.Duration = 30 * 24 * time.Hour
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.Output == "" {
		c.Log.Output = "stderr"
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Journal.Path = os.ExpandEnv(c.Journal.Path)
	c.Log.Output = os.ExpandEnv(c.Log.Output)
}

// Validate checks value ranges after defaults were applied
func (c *Config) Validate() error {
	var problems []string
	if c.Interpreter.MaxDepth < 1 {
		problems = append(problems, "interpreter.max_depth must be positive")
	}
	if c.Interpreter.MaxSourceBytes < 1 {
		problems = append(problems, "interpreter.max_source_bytes must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Cache.TTL.Duration < 0 {
		problems = append(problems, "cache.ttl must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text", "console", "logfmt":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not supported", c.Log.Format))
	}

	if len(problems) > 0 {
		return mdwerror.New("invalid configuration: " + strings.Join(problems, "; ")).
			WithCode(mdwerror.CodeConfigError).
			WithDetail("problems", len(problems))
	}
	return nil
}

// ServerAddress returns the listen address of the gRPC server
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// JournalEnabled reports whether evaluations are recorded
func (c *Config) JournalEnabled() bool {
	return c.Journal.Path != ""
}
