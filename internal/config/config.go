// Package config loads the registration settings of the agent.
//
// Settings come from a single YAML file given with --config. Values missing
// from the file keep their defaults, the ENDPOINTREG_TOKEN environment
// variable replaces the token, and command-line flags are applied last by the
// caller before [Config.Validate].
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/slashdevops/endpointreg"
	"github.com/slashdevops/endpointreg/internal/logging"
)

// TokenEnv names the environment variable that overrides server.token.
const TokenEnv = "ENDPOINTREG_TOKEN"

// Defaults.
const (
	DefaultInstallationMode = "service"
	DefaultServiceName      = "openaev-agent"
	DefaultRetryAttempts    = 5
	DefaultRetryMaxElapsed  = 2 * time.Minute
)

// Config is the complete agent registration configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Agent   AgentConfig   `yaml:"agent"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig locates and authenticates against the management server.
type ServerConfig struct {
	// URL is the server base URL, e.g. https://aev.example.com.
	URL string `yaml:"url"`

	// Token is the bearer token sent with every request.
	Token string `yaml:"token"`

	// UnsecuredCertificate disables server certificate verification.
	UnsecuredCertificate bool `yaml:"unsecured_certificate"`

	// WithProxy routes requests through HTTP_PROXY / HTTPS_PROXY.
	WithProxy bool `yaml:"with_proxy"`
}

// AgentConfig describes the agent installation being registered.
type AgentConfig struct {
	InstallationMode string `yaml:"installation_mode"`
	ServiceName      string `yaml:"service_name"`

	// Variant is openaev or openbas.
	Variant string `yaml:"variant"`

	// Namespace replaces the variant's external reference namespace.
	Namespace string `yaml:"namespace"`
}

// RetryConfig bounds the caller-side retry loop.
type RetryConfig struct {
	Attempts   uint64        `yaml:"attempts"`
	MaxElapsed time.Duration `yaml:"max_elapsed"`
}

// LoggingConfig selects the log handler.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every optional value filled in.
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			InstallationMode: DefaultInstallationMode,
			ServiceName:      DefaultServiceName,
			Variant:          endpointreg.VariantOpenAEV.Name,
		},
		Retry: RetryConfig{
			Attempts:   DefaultRetryAttempts,
			MaxElapsed: DefaultRetryMaxElapsed,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatText,
		},
	}
}

// Load reads the YAML file at path over [Default] and applies the token
// environment override. An empty path skips the file. Load does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := Parse(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if token, ok := os.LookupEnv(TokenEnv); ok && token != "" {
		cfg.Server.Token = token
	}

	return cfg, nil
}

// Parse decodes YAML data into cfg. Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// Validate reports every invalid or missing setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Server.URL) == "" {
		errs = append(errs, errors.New("server.url is required"))
	}

	if strings.TrimSpace(c.Server.Token) == "" {
		errs = append(errs, fmt.Errorf("server.token is required (or set %s)", TokenEnv))
	}

	if _, err := c.Variant(); err != nil {
		errs = append(errs, fmt.Errorf("agent.variant: %w", err))
	}

	if c.Retry.Attempts == 0 {
		errs = append(errs, errors.New("retry.attempts must be at least 1"))
	}

	if c.Retry.MaxElapsed < 0 {
		errs = append(errs, errors.New("retry.max_elapsed must not be negative"))
	}

	if _, err := logging.New(io.Discard, logging.Options{Level: c.Logging.Level, Format: c.Logging.Format}); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}

// Variant resolves agent.variant and applies the namespace override.
func (c *Config) Variant() (endpointreg.Variant, error) {
	variant, err := endpointreg.ParseVariant(c.Agent.Variant)
	if err != nil {
		return endpointreg.Variant{}, err
	}

	if ns := strings.TrimSpace(c.Agent.Namespace); ns != "" {
		variant.ReferenceNamespace = ns
	}

	return variant, nil
}
