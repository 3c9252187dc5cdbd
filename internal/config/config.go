package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. REELSTATS_TIMEZONE.
const EnvPrefix = "REELSTATS"

// Global configuration structure.
type Global struct {
	Timezone          string `mapstructure:"timezone" yaml:"timezone"`
	NaiveTimestamps   string `mapstructure:"naive_timestamps" yaml:"naive_timestamps"`
	PreviewRows       int    `mapstructure:"preview_rows" yaml:"preview_rows"`
	DefaultViewColumn string `mapstructure:"default_view_column" yaml:"default_view_column"`
	OutputFormat      string `mapstructure:"output_format" yaml:"output_format"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// HTTP server
	ServerAddr  string `mapstructure:"server_addr" yaml:"server_addr"`
	MaxUploadMB int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// NaiveLocal reports whether offset-less timestamps are local wall-clock time.
func (c *Global) NaiveLocal() bool {
	return strings.EqualFold(c.NaiveTimestamps, "local")
}

// Validate rejects values the commands cannot act on.
func (c *Global) Validate() error {
	switch strings.ToLower(c.NaiveTimestamps) {
	case "utc", "local":
	default:
		return fmt.Errorf("naive_timestamps must be utc or local, got %q", c.NaiveTimestamps)
	}
	switch strings.ToLower(c.OutputFormat) {
	case "markdown", "json":
	default:
		return fmt.Errorf("output_format must be markdown or json, got %q", c.OutputFormat)
	}
	if c.PreviewRows < 0 {
		return fmt.Errorf("preview_rows must be >= 0, got %d", c.PreviewRows)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0, got %d", c.MaxUploadMB)
	}
	return nil
}

var defaults = map[string]any{
	"timezone":            "America/Sao_Paulo",
	"naive_timestamps":    "utc",
	"preview_rows":        50,
	"default_view_column": "Views",
	"output_format":       "markdown",
	"log_level":           "info",
	"log_format":          "text",
	"server_addr":         ":8080",
	"max_upload_mb":       32,
}

// Keys lists the settable configuration keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Defaults returns the built-in configuration, ignoring files and env.
func Defaults() *Global {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// DefaultPath returns ~/.reelstats/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".reelstats", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.reelstats/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is loaded into the environment first; existing variables win.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		// a missing file is created by Save; anything else is an error
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		if p, err := DefaultPath(); err == nil {
			v.AddConfigPath(filepath.Dir(p))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Set assigns key from its string form. c is left untouched when the
// resulting configuration would be invalid.
func (c *Global) Set(key, value string) error {
	next := *c
	switch key {
	case "timezone":
		next.Timezone = value
	case "naive_timestamps":
		next.NaiveTimestamps = strings.ToLower(value)
	case "preview_rows", "max_upload_mb":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		if key == "preview_rows" {
			next.PreviewRows = n
		} else {
			next.MaxUploadMB = n
		}
	case "default_view_column":
		next.DefaultViewColumn = value
	case "output_format":
		next.OutputFormat = strings.ToLower(value)
	case "log_level":
		next.LogLevel = strings.ToLower(value)
	case "log_format":
		next.LogFormat = strings.ToLower(value)
	case "server_addr":
		next.ServerAddr = value
	default:
		return fmt.Errorf("unknown key: %s (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
