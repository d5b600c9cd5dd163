package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

// Artifact sources.
const (
	SourceFile = "file"
	SourceKV   = "kv"
)

// DefaultArtifactFiles are the artifact file names used when models.paths omits a condition.
var DefaultArtifactFiles = map[condition.Kind]string{
	condition.Diabetes:          "diabetes_model.json",
	condition.HeartDisease:      "heart_disease_model.json",
	condition.LiverDisease:      "liver_disease_model.json",
	condition.KidneyDisease:     "kidney_disease_model.json",
	condition.ParkinsonsDisease: "parkinsons_model.json",
}

// Config holds the healthrisk configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Models     ModelsConfig     `yaml:"models"`
	Store      StoreConfig      `yaml:"store"`
	Features   FeaturesConfig   `yaml:"features"`
	Prediction PredictionConfig `yaml:"prediction"`
	Tracing    TracingConfig    `yaml:"tracing"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port" env:"HEALTHRISK_HTTP_PORT"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"HEALTHRISK_LOG_LEVEL"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`                             // optional rotating log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ModelsConfig locates the classifier artifacts.
type ModelsConfig struct {
	Source string            `yaml:"source"` // file (default) or kv
	Dir    string            `yaml:"dir" env:"HEALTHRISK_MODELS_DIR"`
	Paths  map[string]string `yaml:"paths"` // condition key -> file, relative to dir
}

// StoreConfig holds key-value store connection settings.
type StoreConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// FeaturesConfig controls feature vector assembly.
type FeaturesConfig struct {
	OutOfRange string `yaml:"out_of_range" env:"HEALTHRISK_OUT_OF_RANGE"` // reject (default) or clamp
}

// PredictionConfig controls the prediction service.
type PredictionConfig struct {
	CacheSize int `yaml:"cache_size"` // 0 disables the result cache
}

// TracingConfig enables OTLP trace export when Endpoint is set.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"HEALTHRISK_OTEL_ENDPOINT"`
	ServiceName string `yaml:"service_name"`
	Insecure    bool   `yaml:"insecure"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from path, then applies environment overrides,
// defaults and validation.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
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
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
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
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB <= 0 {
			c.Logging.MaxSizeMB = 100
		}
		if c.Logging.MaxBackups <= 0 {
			c.Logging.MaxBackups = 5
		}
		if c.Logging.MaxAgeDays <= 0 {
			c.Logging.MaxAgeDays = 28
		}
	}
	if c.Models.Source == "" {
		c.Models.Source = SourceFile
	}
	if c.Models.Dir == "" {
		c.Models.Dir = "models"
	}
	if c.Models.Paths == nil {
		c.Models.Paths = make(map[string]string)
	}
	configured := make(map[condition.Kind]bool)
	for key := range c.Models.Paths {
		if k, err := condition.Parse(key); err == nil {
			configured[k] = true
		}
	}
	for k, file := range DefaultArtifactFiles {
		if !configured[k] {
			c.Models.Paths[k.String()] = file
		}
	}
	if c.Store.ReadinessTimeout <= 0 {
		c.Store.ReadinessTimeout = 10
	}
	if c.Features.OutOfRange == "" {
		c.Features.OutOfRange = "reject"
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "healthrisk"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Models.Source {
	case SourceFile:
	case SourceKV:
		if len(c.Store.Addrs) == 0 {
			return fmt.Errorf("store.addrs is required when models.source is %q", SourceKV)
		}
	default:
		return fmt.Errorf("models.source must be %q or %q, got %q", SourceFile, SourceKV, c.Models.Source)
	}
	if _, err := c.ArtifactPaths(); err != nil {
		return err
	}
	switch c.Features.OutOfRange {
	case "", "reject", "clamp":
		// ok
	default:
		return fmt.Errorf("features.out_of_range must be \"reject\" or \"clamp\", got %q", c.Features.OutOfRange)
	}
	if c.Prediction.CacheSize < 0 {
		return fmt.Errorf("prediction.cache_size must not be negative, got %d", c.Prediction.CacheSize)
	}
	return nil
}

// ArtifactPaths resolves models.paths keys to conditions. Two keys naming the
// same condition (for example "heart" and "heart_disease") are rejected.
func (c *Config) ArtifactPaths() (map[condition.Kind]string, error) {
	out := make(map[condition.Kind]string, len(c.Models.Paths))
	for key, path := range c.Models.Paths {
		k, err := condition.Parse(key)
		if err != nil {
			return nil, fmt.Errorf("models.paths: %w", err)
		}
		if _, dup := out[k]; dup {
			return nil, fmt.Errorf("models.paths: condition %s configured twice", k)
		}
		if path == "" {
			return nil, fmt.Errorf("models.paths.%s is empty", key)
		}
		out[k] = path
	}
	return out, nil
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
