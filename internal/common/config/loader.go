package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL      = "https://app.dokicasa.it"
	defaultMaxRedirects = 3
)

// envBindings maps config keys to the environment variables the service has
// always been deployed with.
var envBindings = map[string]string{
	"dokicasa.token":         "DOKICASA_TOKEN",
	"dokicasa.base_url":      "DOKICASA_BASE_URL",
	"dokicasa.timeout":       "DOKICASA_TIMEOUT_MS",
	"dokicasa.max_redirects": "DOKICASA_MAX_REDIRECTS",
	"dokicasa.catalog_path":  "DOKICASA_CATALOG_PATH",
	"server.port":            "PORT",
	"camunda.enabled":        "CAMUNDA_ENABLED",
	"camunda.broker_address": "ZEEBE_ADDRESS",
	"logging.level":          "LOG_LEVEL",
	"tracing.exporter":       "TRACING_EXPORTER",
	"app.environment":        "APP_ENVIRONMENT",
}

// Load reads configs/config.yaml, merges configs/config.<APP_ENVIRONMENT>.yaml
// over it and applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	// an explicit max_redirects of 0 disables following
	if !v.IsSet("dokicasa.max_redirects") {
		cfg.Dokicasa.MaxRedirects = defaultMaxRedirects
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in YAML values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok || !strings.Contains(strVal, "$") {
			continue
		}
		if expanded := os.ExpandEnv(strVal); expanded != strVal {
			v.Set(key, expanded)
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "dokicasa-integration"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	cfg.Dokicasa.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Dokicasa.BaseURL), "/")
	if cfg.Dokicasa.BaseURL == "" {
		cfg.Dokicasa.BaseURL = defaultBaseURL
	}
	if cfg.Dokicasa.Timeout == 0 {
		cfg.Dokicasa.Timeout = 15000
	}
	if cfg.Dokicasa.ExternalIDs == nil {
		cfg.Dokicasa.ExternalIDs = map[string]string{}
	}

	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	cfg.Tracing.Exporter = strings.ToLower(strings.TrimSpace(cfg.Tracing.Exporter))
	if cfg.Tracing.Exporter == "" {
		cfg.Tracing.Exporter = "none"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 60000
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields. A missing provider
// token is not fatal here; each submission reports it.
func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Dokicasa.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("dokicasa.base_url %q is not an absolute http(s) URL", cfg.Dokicasa.BaseURL)
	}
	if cfg.Dokicasa.Timeout < 0 {
		return fmt.Errorf("dokicasa.timeout must be positive")
	}
	if cfg.Dokicasa.MaxRedirects < 0 {
		return fmt.Errorf("dokicasa.max_redirects must not be negative")
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	if cfg.Camunda.Enabled && cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required when camunda is enabled")
	}
	switch cfg.Tracing.Exporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("tracing.exporter %q must be none or stdout", cfg.Tracing.Exporter)
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
