package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"responsive-mcp-server/internal/domain"
)

// searchPath is the Responsive answer-library search endpoint, relative
// to the configured base URL.
const searchPath = "/rfpserver/ext/v1/answer-lib/search"

// requestTimeout bounds every outbound call. There is a single attempt;
// retry is the caller's decision.
const requestTimeout = 30 * time.Second

// ResponsiveClient handles Responsive content library API interactions.
// It implements the domain.ContentSearcher interface: every failure mode
// is classified into the RemoteResult error taxonomy rather than
// propagated, so the dispatcher always receives a uniform value.
type ResponsiveClient struct {
	baseURL     string
	authManager *domain.AuthenticationManager
	httpClient  *http.Client
}

// NewResponsiveClient creates a new Responsive API client.
// The baseURL should be the root URL of the Responsive instance
// (e.g., "https://app.rfpio.com"). The credential held by the
// authentication manager is validated lazily on each Search call, not
// here, so a server without a token still constructs cleanly.
func NewResponsiveClient(baseURL string, authManager *domain.AuthenticationManager) *ResponsiveClient {
	httpClient := authManager.GetAuthenticatedClient()
	httpClient.Timeout = requestTimeout

	return &ResponsiveClient{
		baseURL:     baseURL,
		authManager: authManager,
		httpClient:  httpClient,
	}
}

// BaseURL returns the configured base URL for the Responsive instance.
func (c *ResponsiveClient) BaseURL() string {
	return c.baseURL
}

// Search executes an answer-library search against the Responsive API.
// Outcomes are classified as follows:
//   - missing credential            -> configuration (no network attempt)
//   - network-level failure         -> transport
//   - non-2xx status                -> http_status (message carries the code)
//   - malformed JSON response body  -> decode
//   - anything else                 -> unexpected
//
// On success the parsed response body is returned verbatim; no
// reshaping, no pagination following.
func (c *ResponsiveClient) Search(ctx context.Context, req *domain.SearchRequest) domain.RemoteResult {
	if err := c.authManager.ValidateCredentials(); err != nil {
		return domain.Failure(domain.Envelope(domain.ErrConfiguration, "%v", err))
	}

	body, err := json.Marshal(req)
	if err != nil {
		return domain.Failure(domain.Envelope(domain.ErrUnexpected, "failed to marshal search request: %v", err))
	}

	endpoint := c.baseURL + searchPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Failure(domain.Envelope(domain.ErrUnexpected, "failed to create request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.Failure(domain.Envelope(domain.ErrTransport, "error communicating with Responsive API: %v", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Failure(domain.Envelope(domain.ErrTransport, "error reading Responsive API response: %v", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Failure(domain.Envelope(domain.ErrHTTPStatus, "HTTP error: %d", resp.StatusCode))
	}

	var payload interface{}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return domain.Failure(domain.Envelope(domain.ErrDecode, "invalid JSON response from server"))
	}

	return domain.Success(payload)
}

// Ensure ResponsiveClient satisfies the searcher contract.
var _ domain.ContentSearcher = (*ResponsiveClient)(nil)
