package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoadFromFile_Defaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "app:\n  name: dokicasa-test\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "dokicasa-test", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://app.dokicasa.it", cfg.Dokicasa.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Dokicasa.RequestTimeout())
	assert.Equal(t, 3, cfg.Dokicasa.MaxRedirects)
	assert.Empty(t, cfg.Dokicasa.Token)
	assert.Empty(t, cfg.Dokicasa.ExternalID("roma"))
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "none", cfg.Tracing.Exporter)
	assert.False(t, cfg.Camunda.Enabled)
}

func TestLoadFromFile_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOKICASA_TOKEN", "secret-token")
	t.Setenv("DOKICASA_TIMEOUT_MS", "20000")
	t.Setenv("PORT", "9090")

	path := writeConfig(t, `
dokicasa:
  base_url: "https://staging.dokicasa.test///"
  external_ids:
    milano: "11111_1"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "secret-token", cfg.Dokicasa.Token)
	assert.Equal(t, 20*time.Second, cfg.Dokicasa.RequestTimeout())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://staging.dokicasa.test", cfg.Dokicasa.BaseURL)
	assert.Equal(t, "11111_1", cfg.Dokicasa.ExternalID("milano"))
	assert.Empty(t, cfg.Dokicasa.ExternalID("torino"))
}

func TestLoadFromFile_ExpandsPlaceholders(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOKI_SECRET_FOR_TEST", "from-placeholder")

	path := writeConfig(t, "dokicasa:\n  token: \"${DOKI_SECRET_FOR_TEST}\"\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-placeholder", cfg.Dokicasa.Token)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "non http base url",
			body:    "dokicasa:\n  base_url: \"ftp://files.example\"\n",
			wantErr: "dokicasa.base_url",
		},
		{
			name:    "camunda without broker",
			body:    "camunda:\n  enabled: true\n",
			wantErr: "camunda.broker_address",
		},
		{
			name:    "unknown tracing exporter",
			body:    "tracing:\n  exporter: jaeger\n",
			wantErr: "tracing.exporter",
		},
		{
			name:    "port out of range",
			body:    "server:\n  port: 70000\n",
			wantErr: "server.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_ZeroMaxRedirectsIsKept(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "dokicasa:\n  max_redirects: 0\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Dokicasa.MaxRedirects)
}

func TestLoadFromFile_MaxRedirectsFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DOKICASA_MAX_REDIRECTS", "0")

	cfg, err := LoadFromFile(writeConfig(t, "dokicasa:\n  max_redirects: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Dokicasa.MaxRedirects)
}

func TestLoadFromFile_TracingExporter(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRACING_EXPORTER", "STDOUT")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: traced\n"))
	require.NoError(t, err)
	assert.Equal(t, "stdout", cfg.Tracing.Exporter)
}
