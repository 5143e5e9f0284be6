package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"responsive-mcp-server/internal/domain"
)

func newTestClient(baseURL, token string) *ResponsiveClient {
	am := domain.NewAuthenticationManager(&domain.Credentials{Token: token})
	return NewResponsiveClient(baseURL, am)
}

// TestSearchSuccessRoundTrip verifies a 200 response body is returned
// verbatim as the success payload.
func TestSearchSuccessRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/rfpserver/ext/v1/answer-lib/search" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("Unexpected Authorization header: %q", auth)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Unexpected Content-Type: %q", ct)
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"results": [], "cursor": "*"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-token")

	req := domain.NewSearchRequest()
	req.Keyword = "conduct"

	result := client.Search(context.Background(), req)
	if !result.OK() {
		t.Fatalf("Expected success, got envelope: %v", result.Err)
	}

	expected := map[string]interface{}{
		"results": []interface{}{},
		"cursor":  "*",
	}
	if !reflect.DeepEqual(result.Payload, expected) {
		t.Errorf("Payload not passed through verbatim: got %v, want %v", result.Payload, expected)
	}
}

// TestSearchSendsCompletePayload verifies the outbound body carries
// every declared field even when all defaults apply.
func TestSearchSendsCompletePayload(t *testing.T) {
	var received map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-token")

	req := domain.NewSearchRequest()
	req.Keyword = "policy"

	if result := client.Search(context.Background(), req); !result.OK() {
		t.Fatalf("Expected success, got envelope: %v", result.Err)
	}

	if len(received) != len(domain.SearchParameterNames) {
		t.Errorf("Expected %d fields in outbound payload, got %d", len(domain.SearchParameterNames), len(received))
	}
	for _, name := range domain.SearchParameterNames {
		if _, present := received[name]; !present {
			t.Errorf("Outbound payload missing field %s", name)
		}
	}
	if received["limit"] != float64(25) {
		t.Errorf("Expected default limit 25 on the wire, got %v", received["limit"])
	}
	if received["flagFilter"] != "ALL" {
		t.Errorf("Expected default flagFilter ALL on the wire, got %v", received["flagFilter"])
	}
}

// TestSearchHTTPStatusError verifies non-2xx statuses classify as
// http_status and never escape as a fault.
func TestSearchHTTPStatusError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"unauthorized", http.StatusUnauthorized},
		{"not found", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":"boom"}`))
			}))
			defer server.Close()

			client := newTestClient(server.URL, "test-token")

			req := domain.NewSearchRequest()
			req.Keyword = "conduct"

			result := client.Search(context.Background(), req)
			if result.OK() {
				t.Fatal("Expected failure envelope, got success")
			}
			if result.Err.Kind != domain.ErrHTTPStatus {
				t.Errorf("Expected kind http_status, got %v", result.Err.Kind)
			}
		})
	}
}

// TestSearchDecodeError verifies malformed response bodies classify as decode.
func TestSearchDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`this is not json`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, "test-token")

	req := domain.NewSearchRequest()
	req.Keyword = "conduct"

	result := client.Search(context.Background(), req)
	if result.OK() {
		t.Fatal("Expected failure envelope, got success")
	}
	if result.Err.Kind != domain.ErrDecode {
		t.Errorf("Expected kind decode, got %v", result.Err.Kind)
	}
}

// TestSearchMissingCredential verifies the configuration failure is
// detected before any network attempt.
func TestSearchMissingCredential(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestClient(server.URL, "")

	req := domain.NewSearchRequest()
	req.Keyword = "conduct"

	result := client.Search(context.Background(), req)
	if result.OK() {
		t.Fatal("Expected failure envelope, got success")
	}
	if result.Err.Kind != domain.ErrConfiguration {
		t.Errorf("Expected kind configuration, got %v", result.Err.Kind)
	}
	if hits != 0 {
		t.Errorf("Expected no network attempt, server saw %d requests", hits)
	}
}

// TestSearchTransportError verifies network-level failures classify as transport.
func TestSearchTransportError(t *testing.T) {
	// Start and immediately stop a server so the port refuses connections.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, "test-token")

	req := domain.NewSearchRequest()
	req.Keyword = "conduct"

	result := client.Search(context.Background(), req)
	if result.OK() {
		t.Fatal("Expected failure envelope, got success")
	}
	if result.Err.Kind != domain.ErrTransport {
		t.Errorf("Expected kind transport, got %v", result.Err.Kind)
	}
}

// TestSearchContextCancellation verifies a cancelled context resolves as
// a transport failure rather than hanging.
func TestSearchContextCancellation(t *testing.T) {
	block := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer server.Close()
	defer close(block)

	client := newTestClient(server.URL, "test-token")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := domain.NewSearchRequest()
	req.Keyword = "conduct"

	result := client.Search(ctx, req)
	if result.OK() {
		t.Fatal("Expected failure envelope, got success")
	}
	if result.Err.Kind != domain.ErrTransport {
		t.Errorf("Expected kind transport, got %v", result.Err.Kind)
	}
}
