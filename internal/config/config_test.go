package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultFileName), false, "")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, "templates", cfg.TemplatesDir)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.SettleDelay)
	assert.True(t, cfg.SelfDestruct)
	assert.Equal(t, []string{"./letsencrypt-initialize.sh"}, cfg.Issuance.Command)
	assert.Equal(t, "/etc/nginx/conf.d/default.conf", cfg.Issuance.ProxyConfigPath)
	assert.Empty(t, cfg.Compose.Command)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), true, "")
	assert.Error(t, err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `
workdir: /srv/edge
log_level: debug
max_attempts: 5
settle_delay: 2s
self_destruct: false
compose:
  command: ["docker-compose"]
public_ip:
  url: https://ip.example.net
acme:
  preflight: false
docker:
  min_version: "24.0.0"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, true, "")
	require.NoError(t, err)

	assert.Equal(t, "/srv/edge", cfg.WorkDir)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.SettleDelay)
	assert.False(t, cfg.SelfDestruct)
	assert.Equal(t, []string{"docker-compose"}, cfg.Compose.Command)
	assert.Equal(t, "https://ip.example.net", cfg.PublicIP.URL)
	assert.Equal(t, "resolver1.opendns.com:53", cfg.PublicIP.Resolver)
	assert.False(t, cfg.ACME.Preflight)
	assert.Equal(t, "24.0.0", cfg.Docker.MinVersion)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("max_attempts: [nope"), 0644))

	_, err := Load(path, true, "")
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("max_attempts: 5\n"), 0644))

	t.Setenv("INIT_SERVER_MAX_ATTEMPTS", "7")
	t.Setenv("INIT_SERVER_SETTLE_DELAY", "1m")
	t.Setenv("INIT_SERVER_COMPOSE_COMMAND", "podman compose")
	t.Setenv("INIT_SERVER_SELF_DESTRUCT", "false")

	cfg, err := Load(path, true, "")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Equal(t, time.Minute, cfg.SettleDelay)
	assert.Equal(t, []string{"podman", "compose"}, cfg.Compose.Command)
	assert.False(t, cfg.SelfDestruct)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("INIT_SERVER_MAX_ATTEMPTS", "three")

	_, err := Load("", false, "")
	assert.ErrorContains(t, err, "INIT_SERVER_MAX_ATTEMPTS")
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "bootstrap.env")
	require.NoError(t, os.WriteFile(envFile, []byte("INIT_SERVER_LOG_LEVEL=warn\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("INIT_SERVER_LOG_LEVEL") })

	cfg, err := Load("", false, envFile)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero attempts", func(c *Config) { c.MaxAttempts = 0 }, "max_attempts"},
		{"negative settle", func(c *Config) { c.SettleDelay = -time.Second }, "settle_delay"},
		{"no issuance command", func(c *Config) { c.Issuance.Command = nil }, "issuance.command"},
		{"no workdir", func(c *Config) { c.WorkDir = "" }, "workdir"},
		{"no ip source", func(c *Config) { c.PublicIP.URL = ""; c.PublicIP.Resolver = "" }, "public_ip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
