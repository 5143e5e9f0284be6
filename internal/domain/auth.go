package domain

import (
	"fmt"
	"net/http"
)

// Credentials stores the bearer token for the Responsive API.
type Credentials struct {
	Token string
}

// AuthenticationManager holds the Responsive credential and produces
// HTTP clients that attach it. The credential may legitimately be empty
// at construction time: validation is deferred until the first remote
// call so a misconfigured server still starts and reports the problem
// through the tool-result path.
type AuthenticationManager struct {
	credentials *Credentials
}

// NewAuthenticationManager creates an authentication manager for the
// given credentials. Credentials may be nil or empty.
func NewAuthenticationManager(credentials *Credentials) *AuthenticationManager {
	if credentials == nil {
		credentials = &Credentials{}
	}
	return &AuthenticationManager{credentials: credentials}
}

// NewAuthenticationManagerFromConfig creates an authentication manager
// from a configuration, resolving the token through the config's
// file-then-environment lookup.
func NewAuthenticationManagerFromConfig(config *Config) *AuthenticationManager {
	return NewAuthenticationManager(&Credentials{Token: config.Token()})
}

// HasCredentials reports whether a token is present.
func (am *AuthenticationManager) HasCredentials() bool {
	return am.credentials.Token != ""
}

// ValidateCredentials checks that a token is configured.
// Called lazily by the transport adapter before each remote call.
func (am *AuthenticationManager) ValidateCredentials() error {
	if am.credentials.Token == "" {
		return fmt.Errorf("%s environment variable not set and no token configured", TokenEnvVar)
	}
	return nil
}

// GetAuthenticatedClient returns an HTTP client that attaches the
// bearer token to every request. The client is usable even when no
// token is present; callers are expected to run ValidateCredentials
// first on paths that require authentication.
func (am *AuthenticationManager) GetAuthenticatedClient() *http.Client {
	return &http.Client{
		Transport: &authenticatedTransport{
			base:        http.DefaultTransport,
			credentials: am.credentials,
		},
	}
}

// authenticatedTransport is an http.RoundTripper that injects the
// Authorization header into outgoing requests.
type authenticatedTransport struct {
	base        http.RoundTripper
	credentials *Credentials
}

// RoundTrip implements http.RoundTripper. The request is cloned before
// mutation, as required by the RoundTripper contract.
func (t *authenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cloned := req.Clone(req.Context())
	if t.credentials.Token != "" {
		cloned.Header.Set("Authorization", "Bearer "+t.credentials.Token)
	}
	return t.base.RoundTrip(cloned)
}
