package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/contract-tests/items-contract-tests/client"
	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, name := range []string{"BASE_URL", "USERNAME", "PASSWORD", "SCOPE", "CLIENT_ID", "CLIENT_SECRET"} {
		if value, ok := os.LookupEnv(envPrefix + name); ok {
			require.NoError(t, os.Unsetenv(envPrefix+name))
			t.Cleanup(func() { _ = os.Setenv(envPrefix+name, value) })
		}
	}
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, servicedef.DefaultPaths(), cfg.Paths)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.StatusQueryTimeout)
	assert.Equal(t, float64(0), cfg.RequestsPerSecond)
	assert.Equal(t, Credentials{}, cfg.Credentials)
}

func TestLoadFileKeepsDefaultsForMissingSettings(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
base_url: https://api.example.com
paths:
  items: /v2/items/
credentials:
  username: tester@example.com
  password: pw
request_timeout: 5s
seed: 7
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.BaseURL)
	assert.Equal(t, "/v2/items/", cfg.Paths.Items)
	assert.Equal(t, servicedef.LoginPath, cfg.Paths.Login)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.StatusQueryTimeout)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.NoError(t, cfg.Validate())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "credentials:\n  username: from-file\n  password: from-file\n")
	t.Setenv("ITEMS_API_PASSWORD", "from-env")
	t.Setenv("ITEMS_API_BASE_URL", "http://other:9000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Credentials.Username)
	assert.Equal(t, "from-env", cfg.Credentials.Password)
	assert.Equal(t, "http://other:9000", cfg.BaseURL)
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "base_url: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "request_timeout: soon"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Credentials = Credentials{Username: "u", Password: "p"}
		return cfg
	}
	require.NoError(t, valid().Validate())

	for name, modify := range map[string]func(*Config){
		"relative URL":    func(c *Config) { c.BaseURL = "/api" },
		"no username":     func(c *Config) { c.Credentials.Username = "" },
		"no password":     func(c *Config) { c.Credentials.Password = "" },
		"zero timeout":    func(c *Config) { c.RequestTimeout = 0 },
		"negative rate":   func(c *Config) { c.RequestsPerSecond = -1 },
		"unparseable URL": func(c *Config) { c.BaseURL = "http://[::1" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestClientCredentials(t *testing.T) {
	cfg := Default()
	cfg.Credentials = Credentials{Username: "u", Password: "p", Scope: "s", ClientID: "id", ClientSecret: "sec"}
	assert.Equal(t, client.Credentials{Username: "u", Password: "p", Scope: "s", ClientID: "id", ClientSecret: "sec"},
		cfg.ClientCredentials())
}
