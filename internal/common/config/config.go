package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Server   ServerConfig            `mapstructure:"server"`
	Dokicasa DokicasaConfig          `mapstructure:"dokicasa"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Tracing  TracingConfig           `mapstructure:"tracing"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the HTTP entry settings.
type ServerConfig struct {
	Port            int `mapstructure:"port"`
	ReadTimeout     int `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"` // milliseconds
}

// DokicasaConfig holds the provider connection settings.
type DokicasaConfig struct {
	BaseURL      string            `mapstructure:"base_url"`
	Token        string            `mapstructure:"token"`
	Timeout      int               `mapstructure:"timeout"` // milliseconds
	MaxRedirects int               `mapstructure:"max_redirects"`
	ExternalIDs  map[string]string `mapstructure:"external_ids"`
	CatalogPath  string            `mapstructure:"catalog_path"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// TracingConfig selects where finished spans go: "none" or "stdout".
type TracingConfig struct {
	Exporter string `mapstructure:"exporter"`
}

// ExternalID returns the configured external id for a city, or "" when the
// city has none.
func (d DokicasaConfig) ExternalID(city string) string {
	return d.ExternalIDs[city]
}

// RequestTimeout returns the per-call provider timeout.
func (d DokicasaConfig) RequestTimeout() time.Duration {
	return GetDuration(d.Timeout)
}
