package domain

import (
	"os"
	"path/filepath"
	"testing"
)

// writeTempConfig writes config content to a temp file and returns its path.
func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigValid(t *testing.T) {
	path := writeTempConfig(t, `
transport:
  type: stdio

responsive:
  base_url: https://responsive.example.com
  auth:
    token: test-token
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if config.Transport.Type != "stdio" {
		t.Errorf("Expected transport type 'stdio', got %q", config.Transport.Type)
	}
	if config.Responsive.BaseURL != "https://responsive.example.com" {
		t.Errorf("Unexpected base URL: %q", config.Responsive.BaseURL)
	}
	if config.Responsive.Auth.Token != "test-token" {
		t.Errorf("Unexpected token: %q", config.Responsive.Auth.Token)
	}
}

// TestLoadConfigMissingFile verifies a missing config file falls back to
// defaults rather than failing: the server is commonly spawned with only
// environment configuration.
func TestLoadConfigMissingFile(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}

	if config.Transport.Type != "stdio" {
		t.Errorf("Expected default transport 'stdio', got %q", config.Transport.Type)
	}
	if config.Responsive.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL %q, got %q", DefaultBaseURL, config.Responsive.BaseURL)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
responsive:
  auth:
    token: abc
`)

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	if config.Transport.Type != "stdio" {
		t.Errorf("Expected default transport 'stdio', got %q", config.Transport.Type)
	}
	if config.Responsive.BaseURL != DefaultBaseURL {
		t.Errorf("Expected default base URL %q, got %q", DefaultBaseURL, config.Responsive.BaseURL)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeTempConfig(t, "transport: [unclosed")

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid YAML, got nil")
	}
}

func TestConfigValidateTransport(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid stdio",
			config: Config{
				Transport:  TransportConfig{Type: "stdio"},
				Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
			},
		},
		{
			name: "valid http",
			config: Config{
				Transport:  TransportConfig{Type: "http", HTTP: HTTPConfig{Host: "127.0.0.1", Port: 8080}},
				Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
			},
		},
		{
			name: "invalid transport type",
			config: Config{
				Transport:  TransportConfig{Type: "websocket"},
				Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
			},
			wantErr: true,
		},
		{
			name: "http missing host",
			config: Config{
				Transport:  TransportConfig{Type: "http", HTTP: HTTPConfig{Port: 8080}},
				Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
			},
			wantErr: true,
		},
		{
			name: "http invalid port",
			config: Config{
				Transport:  TransportConfig{Type: "http", HTTP: HTTPConfig{Host: "127.0.0.1", Port: 70000}},
				Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
			},
			wantErr: true,
		},
		{
			name: "bad base url scheme",
			config: Config{
				Transport:  TransportConfig{Type: "stdio"},
				Responsive: ResponsiveConfig{BaseURL: "ftp://example.com"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}

// TestConfigMissingTokenIsNotAnError verifies token absence passes
// validation: the configuration failure is surfaced on the first remote
// call, not at load time.
func TestConfigMissingTokenIsNotAnError(t *testing.T) {
	config := Config{
		Transport:  TransportConfig{Type: "stdio"},
		Responsive: ResponsiveConfig{BaseURL: DefaultBaseURL},
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected missing token to pass validation, got: %v", err)
	}
}

func TestConfigTokenEnvironmentFallback(t *testing.T) {
	t.Setenv(TokenEnvVar, "env-token")

	config := DefaultConfig()
	if got := config.Token(); got != "env-token" {
		t.Errorf("Expected env token fallback, got %q", got)
	}

	config.Responsive.Auth.Token = "file-token"
	if got := config.Token(); got != "file-token" {
		t.Errorf("Expected file token to win, got %q", got)
	}
}
