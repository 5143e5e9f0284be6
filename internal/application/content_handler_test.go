package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"responsive-mcp-server/internal/domain"
)

// fakeSearcher records the request it receives and returns a canned result.
type fakeSearcher struct {
	lastRequest *domain.SearchRequest
	result      domain.RemoteResult
	calls       int
}

func (f *fakeSearcher) Search(ctx context.Context, req *domain.SearchRequest) domain.RemoteResult {
	f.calls++
	f.lastRequest = req
	return f.result
}

func TestContentHandlerToolName(t *testing.T) {
	handler := NewContentHandler(&fakeSearcher{})

	if handler.ToolName() != "search" {
		t.Errorf("Expected handler name 'search', got %q", handler.ToolName())
	}
}

func TestContentHandlerListTools(t *testing.T) {
	handler := NewContentHandler(&fakeSearcher{})

	tools := handler.ListTools()
	if len(tools) != 1 {
		t.Fatalf("Expected one tool, got %d", len(tools))
	}

	tool := tools[0]
	if tool.Name != ToolSearchContent {
		t.Errorf("Expected tool %q, got %q", ToolSearchContent, tool.Name)
	}
	if tool.InputSchema.Type != "object" {
		t.Errorf("Expected object schema, got %q", tool.InputSchema.Type)
	}

	// The schema must document every declared search parameter.
	for _, name := range domain.SearchParameterNames {
		if _, present := tool.InputSchema.Properties[name]; !present {
			t.Errorf("Schema missing property %s", name)
		}
	}
	if len(tool.InputSchema.Properties) != len(domain.SearchParameterNames) {
		t.Errorf("Expected %d schema properties, got %d", len(domain.SearchParameterNames), len(tool.InputSchema.Properties))
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "keyword" {
		t.Errorf("Expected keyword to be the only required parameter, got %v", tool.InputSchema.Required)
	}
}

func TestContentHandlerSuccess(t *testing.T) {
	searcher := &fakeSearcher{
		result: domain.Success(map[string]interface{}{
			"results": []interface{}{map[string]interface{}{"question": "Q1"}},
			"cursor":  "*",
		}),
	}
	handler := NewContentHandler(searcher)

	resp, err := handler.Handle(context.Background(), &domain.ToolRequest{
		Name: ToolSearchContent,
		Arguments: map[string]interface{}{
			"keyword": "conduct",
			"limit":   float64(10),
		},
	})
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if resp.IsError {
		t.Fatal("Expected success response")
	}

	if searcher.lastRequest.Keyword != "conduct" {
		t.Errorf("Searcher received wrong keyword: %q", searcher.lastRequest.Keyword)
	}
	if searcher.lastRequest.Limit != 10 {
		t.Errorf("Searcher received wrong limit: %d", searcher.lastRequest.Limit)
	}

	if len(resp.Content) != 1 || resp.Content[0].Type != "text" {
		t.Fatalf("Unexpected content: %+v", resp.Content)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &decoded); err != nil {
		t.Fatalf("Response text is not valid JSON: %v", err)
	}
	if decoded["cursor"] != "*" {
		t.Errorf("Payload not carried through: %v", decoded)
	}
}

func TestContentHandlerUnknownTool(t *testing.T) {
	searcher := &fakeSearcher{result: domain.Success(nil)}
	handler := NewContentHandler(searcher)

	_, err := handler.Handle(context.Background(), &domain.ToolRequest{
		Name: "search_everything",
	})
	if err == nil {
		t.Fatal("Expected error for unknown tool")
	}

	var env *domain.ErrorEnvelope
	if !errors.As(err, &env) {
		t.Fatalf("Expected *domain.ErrorEnvelope, got %T", err)
	}
	if env.Kind != domain.ErrUnknownTool {
		t.Errorf("Expected kind unknown_tool, got %v", env.Kind)
	}
	if searcher.calls != 0 {
		t.Error("Searcher should not have been called")
	}
}

func TestContentHandlerValidationFailure(t *testing.T) {
	searcher := &fakeSearcher{result: domain.Success(nil)}
	handler := NewContentHandler(searcher)

	resp, err := handler.Handle(context.Background(), &domain.ToolRequest{
		Name:      ToolSearchContent,
		Arguments: map[string]interface{}{},
	})
	if err != nil {
		t.Fatalf("Validation failures must not surface as errors, got: %v", err)
	}

	if !resp.IsError {
		t.Fatal("Expected IsError response for missing keyword")
	}
	text := resp.Content[0].Text
	if !strings.HasPrefix(text, "validation: ") {
		t.Errorf("Expected text to carry the validation kind, got %q", text)
	}
	if !strings.Contains(text, "keyword") {
		t.Errorf("Expected text to name the missing parameter, got %q", text)
	}
	if searcher.calls != 0 {
		t.Error("Searcher should not have been called on validation failure")
	}
}

func TestContentHandlerRemoteFailure(t *testing.T) {
	searcher := &fakeSearcher{
		result: domain.Failure(domain.Envelope(domain.ErrHTTPStatus, "HTTP error: %d", 500)),
	}
	handler := NewContentHandler(searcher)

	resp, err := handler.Handle(context.Background(), &domain.ToolRequest{
		Name:      ToolSearchContent,
		Arguments: map[string]interface{}{"keyword": "conduct"},
	})
	if err != nil {
		t.Fatalf("Remote failures must not surface as errors, got: %v", err)
	}

	if !resp.IsError {
		t.Fatal("Expected IsError response")
	}
	if resp.Content[0].Text != "http_status: HTTP error: 500" {
		t.Errorf("Unexpected failure text: %q", resp.Content[0].Text)
	}
}
