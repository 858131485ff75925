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

// Config holds the rankdex service configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
	Screening  ScreeningConfig  `yaml:"screening"`
	Extraction ExtractionConfig `yaml:"extraction"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. No keys means auth is off.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes"`
}

// ScreeningConfig holds ranking and validation settings.
type ScreeningConfig struct {
	MinQueryLength int             `yaml:"min_query_length"`
	MaxCandidates  int             `yaml:"max_candidates"`
	VocabularyCap  int             `yaml:"vocabulary_cap"`
	KeywordCount   int             `yaml:"keyword_count"`
	SummaryLength  int             `yaml:"summary_length"`
	StopWords      StopWordsConfig `yaml:"stop_words"`
}

// StopWordsConfig selects the stop-word list.
type StopWordsConfig struct {
	Source string   `yaml:"source"` // builtin (default), snowball, none
	File   string   `yaml:"file"`   // replaces the source list when set
	Extra  []string `yaml:"extra"`
}

// ExtractionConfig holds file extraction settings.
type ExtractionConfig struct {
	Workers      int   `yaml:"workers"`
	MaxFileBytes int64 `yaml:"max_file_bytes"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from path.
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

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// Default returns a configuration with every default applied and no file read.
// The CLI runs on it when no config file exists.
func Default() Config {
	cfg := Config{HTTP: HTTPConfig{Port: 8080}}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		c.HTTP.MaxUploadBytes = 64 << 20
	}
	if c.Screening.MinQueryLength <= 0 {
		c.Screening.MinQueryLength = 10
	}
	if c.Screening.MaxCandidates <= 0 {
		c.Screening.MaxCandidates = 200
	}
	if c.Screening.VocabularyCap <= 0 {
		c.Screening.VocabularyCap = 5000
	}
	if c.Screening.KeywordCount <= 0 {
		c.Screening.KeywordCount = 5
	}
	if c.Screening.SummaryLength <= 0 {
		c.Screening.SummaryLength = 500
	}
	if c.Screening.StopWords.Source == "" {
		c.Screening.StopWords.Source = "builtin"
	}
	if c.Extraction.Workers <= 0 {
		c.Extraction.Workers = 4
	}
	if c.Extraction.MaxFileBytes <= 0 {
		c.Extraction.MaxFileBytes = 10 << 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Screening.StopWords.Source {
	case "builtin", "snowball", "none":
		// ok
	default:
		return fmt.Errorf(
			"screening.stop_words.source must be \"builtin\", \"snowball\" or \"none\", got %q",
			c.Screening.StopWords.Source,
		)
	}
	if c.Screening.KeywordCount > 50 {
		return fmt.Errorf("screening.keyword_count must be at most 50, got %d", c.Screening.KeywordCount)
	}
	if c.Extraction.MaxFileBytes > c.HTTP.MaxUploadBytes {
		return fmt.Errorf("extraction.max_file_bytes (%d) exceeds http.max_upload_bytes (%d)",
			c.Extraction.MaxFileBytes, c.HTTP.MaxUploadBytes)
	}
	for i, k := range c.Auth.APIKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("auth.api_keys[%d] is empty", i)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// Relative to the source file, for tests and go run from subdirectories.
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

// Exists reports whether a config file for env can be found.
func Exists(env string) bool {
	return fileExists(findConfigPath(env))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
