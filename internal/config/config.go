package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source drivers.
const (
	SourceEmbedded = "embedded"
	SourceAssets   = "assets"
	SourceRedis    = "redis"
	SourceSQLite   = "sqlite"
	SourceRemote   = "remote"
)

// ID allocator drivers.
const (
	IDsUUID  = "uuid"
	IDsRedis = "redis"
)

// Config holds the taxodex configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Source  SourceConfig  `yaml:"source"`
	IDs     IDConfig      `yaml:"ids"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int    `yaml:"port"`
	ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	ShutdownSec     int    `yaml:"shutdown_timeout_sec"`
	StaticDir       string `yaml:"static_dir"` // optional page directory served at /
}

// SourceConfig selects where records come from.
type SourceConfig struct {
	Driver         string       `yaml:"driver"` // embedded, assets, redis, sqlite, remote (default: embedded)
	LoadTimeoutSec int          `yaml:"load_timeout_sec"`
	Assets         AssetsConfig `yaml:"assets"`
	SQLite         SQLiteConfig `yaml:"sqlite"`
	Remote         RemoteConfig `yaml:"remote"`
}

// AssetsConfig locates literature.json, taxonomy.json and sample.json.
type AssetsConfig struct {
	Driver  string   `yaml:"driver"` // fs, http, s3 (default: fs)
	Dir     string   `yaml:"dir"`
	BaseURL string   `yaml:"base_url"`
	S3      S3Config `yaml:"s3"`
}

// S3Config holds bucket settings for the s3 asset driver.
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	PathStyle bool   `yaml:"path_style"`
}

// SQLiteConfig holds the sqlite source settings.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig points at another taxodex query API.
type RemoteConfig struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// RedisConfig holds Redis/Valkey connection settings shared by the redis
// source and the redis id sequence.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IDConfig selects the id allocator.
type IDConfig struct {
	Driver string `yaml:"driver"` // uuid, redis (default: uuid)
}

// UsesRedis reports whether any component needs a redis connection.
func (c *Config) UsesRedis() bool {
	return c.Source.Driver == SourceRedis || c.IDs.Driver == IDsRedis
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Default returns a validated configuration serving the embedded sample data.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Source.Driver == "" {
		c.Source.Driver = SourceEmbedded
	}
	if c.Source.LoadTimeoutSec <= 0 {
		c.Source.LoadTimeoutSec = 30
	}
	if c.Source.Assets.Driver == "" {
		c.Source.Assets.Driver = "fs"
	}
	if c.Source.Assets.Driver == "fs" && c.Source.Assets.Dir == "" {
		c.Source.Assets.Dir = "data"
	}
	if c.Source.SQLite.Path == "" {
		c.Source.SQLite.Path = "taxodex.db"
	}
	if c.Source.Remote.TimeoutSec <= 0 {
		c.Source.Remote.TimeoutSec = 10
	}
	if c.IDs.Driver == "" {
		c.IDs.Driver = IDsUUID
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "taxodex:"
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Source.Driver {
	case SourceEmbedded, SourceRedis, SourceSQLite:
		// ok
	case SourceAssets:
		if err := c.Source.Assets.validate(); err != nil {
			return err
		}
	case SourceRemote:
		if c.Source.Remote.BaseURL == "" {
			return fmt.Errorf("source.remote.base_url is required for the remote driver")
		}
	default:
		return fmt.Errorf(
			"source.driver must be one of embedded, assets, redis, sqlite, remote; got %q",
			c.Source.Driver,
		)
	}

	switch c.IDs.Driver {
	case IDsUUID, IDsRedis:
		// ok
	default:
		return fmt.Errorf("ids.driver must be \"uuid\" or \"redis\", got %q", c.IDs.Driver)
	}

	if c.UsesRedis() && len(c.Redis.Addrs) == 0 {
		return fmt.Errorf("redis.addrs is required")
	}
	return nil
}

func (a *AssetsConfig) validate() error {
	switch a.Driver {
	case "fs":
		if a.Dir == "" {
			return fmt.Errorf("source.assets.dir is required for the fs driver")
		}
	case "http":
		if a.BaseURL == "" {
			return fmt.Errorf("source.assets.base_url is required for the http driver")
		}
	case "s3":
		if a.S3.Bucket == "" {
			return fmt.Errorf("source.assets.s3.bucket is required for the s3 driver")
		}
	default:
		return fmt.Errorf("source.assets.driver must be one of fs, http, s3; got %q", a.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
