// Package config loads the bootstrap settings: defaults, then an optional
// YAML file, then INIT_SERVER_* environment variables. Command-line flags are
// applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no config path
// is given.
const DefaultFileName = "init-server.yml"

const envPrefix = "INIT_SERVER_"

type Config struct {
	WorkDir      string        `yaml:"workdir"`
	TemplatesDir string        `yaml:"templates_dir"`
	LogLevel     string        `yaml:"log_level"`
	MaxAttempts  int           `yaml:"max_attempts"`
	SettleDelay  time.Duration `yaml:"settle_delay"`
	SelfDestruct bool          `yaml:"self_destruct"`

	Compose  ComposeConfig  `yaml:"compose"`
	Issuance IssuanceConfig `yaml:"issuance"`
	PublicIP PublicIPConfig `yaml:"public_ip"`
	ACME     ACMEConfig     `yaml:"acme"`
	Docker   DockerConfig   `yaml:"docker"`
}

type ComposeConfig struct {
	// Command is the compose CLI, e.g. ["docker", "compose"]. Empty means
	// autodetect.
	Command []string `yaml:"command"`
}

type IssuanceConfig struct {
	Command         []string `yaml:"command"`          // run inside the container
	ProxyConfigPath string   `yaml:"proxy_config_path"` // copied out after issuance
	CertificateDir  string   `yaml:"certificate_dir"`   // live/<domain>/fullchain.pem lives here
}

type PublicIPConfig struct {
	URL      string        `yaml:"url"`
	Resolver string        `yaml:"resolver"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ACMEConfig struct {
	Preflight bool `yaml:"preflight"`
}

type DockerConfig struct {
	MinVersion string `yaml:"min_version"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		WorkDir:      ".",
		TemplatesDir: "templates",
		LogLevel:     "info",
		MaxAttempts:  3,
		SettleDelay:  10 * time.Second,
		SelfDestruct: true,
		Issuance: IssuanceConfig{
			Command:         []string{"./letsencrypt-initialize.sh"},
			ProxyConfigPath: "/etc/nginx/conf.d/default.conf",
			CertificateDir:  "/etc/letsencrypt/live",
		},
		PublicIP: PublicIPConfig{
			URL:      "https://api.ipify.org",
			Resolver: "resolver1.opendns.com:53",
			Timeout:  10 * time.Second,
		},
		ACME: ACMEConfig{
			Preflight: true,
		},
		Docker: DockerConfig{
			MinVersion: "20.10.0",
		},
	}
}

// Load reads the configuration. When explicit is false a missing file is not
// an error. envFile, when set, is loaded into the process environment first
// without overriding variables that are already set.
func Load(path string, explicit bool, envFile string) (*Config, error) {
	cfg := Default()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv("WORKDIR"); ok {
		c.WorkDir = v
	}
	if v, ok := lookupEnv("TEMPLATES_DIR"); ok {
		c.TemplatesDir = v
	}
	if v, ok := lookupEnv("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := lookupEnv("MAX_ATTEMPTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sMAX_ATTEMPTS: %w", envPrefix, err)
		}
		c.MaxAttempts = n
	}
	if v, ok := lookupEnv("SETTLE_DELAY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSETTLE_DELAY: %w", envPrefix, err)
		}
		c.SettleDelay = d
	}
	if v, ok := lookupEnv("SELF_DESTRUCT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSELF_DESTRUCT: %w", envPrefix, err)
		}
		c.SelfDestruct = b
	}
	if v, ok := lookupEnv("COMPOSE_COMMAND"); ok {
		c.Compose.Command = strings.Fields(v)
	}
	if v, ok := lookupEnv("PUBLIC_IP_URL"); ok {
		c.PublicIP.URL = v
	}
	if v, ok := lookupEnv("PUBLIC_IP_RESOLVER"); ok {
		c.PublicIP.Resolver = v
	}
	if v, ok := lookupEnv("ACME_PREFLIGHT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sACME_PREFLIGHT: %w", envPrefix, err)
		}
		c.ACME.Preflight = b
	}
	if v, ok := lookupEnv("DOCKER_MIN_VERSION"); ok {
		c.Docker.MinVersion = v
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// Validate checks the settings the services rely on.
func (c *Config) Validate() error {
	if c.WorkDir == "" {
		return fmt.Errorf("workdir cannot be empty")
	}
	if c.TemplatesDir == "" {
		return fmt.Errorf("templates_dir cannot be empty")
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay cannot be negative")
	}
	if len(c.Issuance.Command) == 0 {
		return fmt.Errorf("issuance.command cannot be empty")
	}
	if c.Issuance.ProxyConfigPath == "" {
		return fmt.Errorf("issuance.proxy_config_path cannot be empty")
	}
	if c.PublicIP.URL == "" && c.PublicIP.Resolver == "" {
		return fmt.Errorf("public_ip needs a url or a resolver")
	}
	return nil
}
