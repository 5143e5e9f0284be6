package domain

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the Responsive production endpoint used when no
// base_url is configured.
const DefaultBaseURL = "https://app.rfpio.com"

// TokenEnvVar is the environment variable consulted for the Responsive
// API token when the config file does not provide one. This matches how
// the server receives its credential when launched as a subprocess.
const TokenEnvVar = "RESPONSIVE_API_TOKEN"

// Config represents the server configuration.
// This is the root configuration structure loaded from YAML files.
type Config struct {
	Transport  TransportConfig  `yaml:"transport"`
	Responsive ResponsiveConfig `yaml:"responsive"`
}

// TransportConfig defines transport settings.
// Specifies whether to use stdio or HTTP transport.
type TransportConfig struct {
	Type string     `yaml:"type"` // "stdio" or "http"
	HTTP HTTPConfig `yaml:"http,omitempty"`
}

// HTTPConfig defines HTTP transport settings.
// Only used when transport type is "http".
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ResponsiveConfig defines the connection to the Responsive content
// library API.
type ResponsiveConfig struct {
	BaseURL string     `yaml:"base_url,omitempty"`
	Auth    AuthConfig `yaml:"auth,omitempty"`
}

// AuthConfig defines authentication settings. The Responsive API uses
// bearer token authentication only. The token may be omitted here and
// provided through the RESPONSIVE_API_TOKEN environment variable; a
// missing token is not a load-time error; it surfaces as a
// configuration failure on the first remote call.
type AuthConfig struct {
	Token string `yaml:"token,omitempty"`
}

// DefaultConfig returns the configuration used when no config file is
// present: stdio transport against the production Responsive endpoint.
func DefaultConfig() *Config {
	return &Config{
		Transport:  TransportConfig{Type: "stdio"},
		Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
	}
}

// LoadConfig reads and validates configuration from a YAML file.
// A missing file is not an error: the server is commonly launched as a
// bare subprocess with only an environment token, so defaults apply.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("invalid YAML syntax in configuration file: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills unset fields with their default values.
func (c *Config) applyDefaults() {
	if c.Transport.Type == "" {
		c.Transport.Type = "stdio"
	}
	if c.Responsive.BaseURL == "" {
		c.Responsive.BaseURL = DefaultBaseURL
	}
}

// Token resolves the Responsive API token: the config file value wins,
// otherwise the RESPONSIVE_API_TOKEN environment variable. An empty
// return means no credential is configured.
func (c *Config) Token() string {
	if c.Responsive.Auth.Token != "" {
		return c.Responsive.Auth.Token
	}
	return os.Getenv(TokenEnvVar)
}

// Validate checks the configuration for completeness and correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errors []string

	if err := c.validateTransport(); err != nil {
		errors = append(errors, err.Error())
	}

	if err := c.Responsive.Validate(); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// validateTransport validates the transport configuration.
func (c *Config) validateTransport() error {
	var errors []string

	if c.Transport.Type != "stdio" && c.Transport.Type != "http" {
		errors = append(errors, fmt.Sprintf("invalid transport type '%s': must be 'stdio' or 'http'", c.Transport.Type))
	}

	if c.Transport.Type == "http" {
		if c.Transport.HTTP.Host == "" {
			errors = append(errors, "HTTP host is required when transport type is 'http'")
		}
		if c.Transport.HTTP.Port <= 0 || c.Transport.HTTP.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid HTTP port %d: must be between 1 and 65535", c.Transport.HTTP.Port))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate validates the Responsive connection configuration.
// The token is not validated here; see AuthenticationManager.
func (rc *ResponsiveConfig) Validate() error {
	var errors []string

	if rc.BaseURL == "" {
		errors = append(errors, "responsive base_url is required")
	} else {
		parsedURL, err := url.Parse(rc.BaseURL)
		if err != nil {
			errors = append(errors, fmt.Sprintf("responsive base_url is invalid: %v", err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, "responsive base_url must use http or https scheme")
		} else if parsedURL.Host == "" {
			errors = append(errors, "responsive base_url must include a host")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
