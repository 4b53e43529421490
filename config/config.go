// Package config loads the settings for a test run from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/contract-tests/items-contract-tests/client"
	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"
)

const envPrefix = "ITEMS_API_"

// Config is the configuration of a test run. Command-line flags override it after loading.
type Config struct {
	BaseURL            string           `yaml:"base_url" default:"http://localhost:8000"`
	Paths              servicedef.Paths `yaml:"paths"`
	Credentials        Credentials      `yaml:"credentials"`
	RequestTimeout     time.Duration    `yaml:"request_timeout" default:"30s"`
	StatusQueryTimeout time.Duration    `yaml:"status_query_timeout" default:"10s"`
	RequestsPerSecond  float64          `yaml:"requests_per_second"`
	Seed               int64            `yaml:"seed"`
}

type Credentials struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Scope        string `yaml:"scope"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Default returns a Config with every default applied and no credentials.
func Default() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	defaults.SetDefaults(&cfg.Paths)
	return cfg
}

// Load reads the YAML file at path, if path is not empty, and then applies environment
// overrides. Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	for name, target := range map[string]*string{
		"BASE_URL":      &c.BaseURL,
		"USERNAME":      &c.Credentials.Username,
		"PASSWORD":      &c.Credentials.Password,
		"SCOPE":         &c.Credentials.Scope,
		"CLIENT_ID":     &c.Credentials.ClientID,
		"CLIENT_SECRET": &c.Credentials.ClientSecret,
	} {
		if value, ok := os.LookupEnv(envPrefix + name); ok {
			*target = value
		}
	}
}

// Validate checks the settings that cannot have a usable default.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("base URL %q is not an absolute URL", c.BaseURL)
	}
	if c.Credentials.Username == "" || c.Credentials.Password == "" {
		return errors.New("username and password are required (set them in the config file or with " +
			envPrefix + "USERNAME and " + envPrefix + "PASSWORD)")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("requests per second cannot be negative")
	}
	return nil
}

func (c *Config) ClientCredentials() client.Credentials {
	return client.Credentials{
		Username:     c.Credentials.Username,
		Password:     c.Credentials.Password,
		Scope:        c.Credentials.Scope,
		ClientID:     c.Credentials.ClientID,
		ClientSecret: c.Credentials.ClientSecret,
	}
}
