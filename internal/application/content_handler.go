package application

import (
	"context"
	"encoding/json"
	"fmt"

	"responsive-mcp-server/internal/domain"
)

// ContentHandler implements ToolHandler for Responsive content library
// operations. It validates tool-call arguments into a SearchRequest,
// executes the remote search through a ContentSearcher, and wraps the
// RemoteResult into an MCP tool response.
type ContentHandler struct {
	searcher domain.ContentSearcher
	logger   *StructuredLogger
}

// NewContentHandler creates a new ContentHandler instance.
func NewContentHandler(searcher domain.ContentSearcher) *ContentHandler {
	return &ContentHandler{
		searcher: searcher,
		logger:   NewStructuredLogger(),
	}
}

// ToolSearchContent is the tool name advertised to MCP clients.
const ToolSearchContent = "search_content"

// ToolName returns the identifier for this handler.
func (h *ContentHandler) ToolName() string {
	return "search"
}

// ListTools returns available tools for content library operations.
func (h *ContentHandler) ListTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolSearchContent,
			Description: "Search the Responsive Content Library for matching Q/A pairs using keywords and additional filters",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"keyword": map[string]interface{}{
						"type":        "string",
						"description": "Keyword to search for",
					},
					"approvers": stringArrayProperty("List of approvers"),
					"businessUnits": stringArrayProperty("List of business units"),
					"collectionList": stringArrayProperty("List of collections"),
					"cursor": map[string]interface{}{
						"type":        "string",
						"description": "Cursor for pagination",
						"default":     domain.DefaultCursor,
					},
					"customFields": map[string]interface{}{
						"type":        "object",
						"description": "JSON object for custom fields",
						"default":     map[string]interface{}{},
					},
					"facetFields": stringArrayProperty("List of facet fields"),
					"flagFilter": map[string]interface{}{
						"type":        "string",
						"description": "Flag filter (ALL, STARRED, UNSTARRED)",
						"enum":        []string{domain.FlagFilterAll, domain.FlagFilterStarred, domain.FlagFilterUnstarred},
						"default":     domain.DefaultFlagFilter,
					},
					"hasAlertText":   boolProperty("Filter for items with alert text"),
					"hasAttachment":  boolProperty("Filter for items with attachments"),
					"hasImage":       boolProperty("Filter for items with images"),
					"hasOpenComment": boolProperty("Filter for items with open comments"),
					"idsList":        stringArrayProperty("List of IDs"),
					"languageSearch": stringArrayProperty("List of languages"),
					"lastUpdatedBy":  stringArrayProperty("List of last updated by users"),
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results",
						"default":     domain.DefaultLimit,
					},
					"metadata":      boolProperty("Include metadata in results"),
					"owners":        stringArrayProperty("List of owners"),
					"projectSearch": stringArrayProperty("List of projects"),
					"sectionSearch": stringArrayProperty("List of sections"),
					"starRating": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum star rating",
						"default":     domain.DefaultStarRating,
					},
					"tagSearch": stringArrayProperty("List of tags"),
				},
				Required: []string{"keyword"},
			},
		},
	}
}

// stringArrayProperty builds the schema fragment for a list-of-strings filter.
func stringArrayProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": description,
		"default":     []interface{}{},
	}
}

// boolProperty builds the schema fragment for a boolean filter.
func boolProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": description,
		"default":     false,
	}
}

// Handle processes an MCP tool call request for search_content.
// Validation failures and remote failures are both reported through the
// tool response with IsError set; they never surface as Go errors, so a
// failed search cannot crash the serving loop.
func (h *ContentHandler) Handle(ctx context.Context, req *domain.ToolRequest) (*domain.ToolResponse, error) {
	if req.Name != ToolSearchContent {
		return nil, domain.Envelope(domain.ErrUnknownTool, "unknown tool: %s", req.Name)
	}

	searchReq, err := BuildSearchRequest(req.Arguments)
	if err != nil {
		result := domain.Failure(domain.Envelope(domain.ErrValidation, "%v", err))
		return resultToToolResponse(result)
	}

	h.logger.LogInfo("executing content search", map[string]interface{}{
		"keyword": searchReq.Keyword,
		"limit":   searchReq.Limit,
		"cursor":  searchReq.Cursor,
	})

	result := h.searcher.Search(ctx, searchReq)
	if !result.OK() {
		h.logger.LogError("content search failed", result.Err, map[string]interface{}{
			"keyword": searchReq.Keyword,
			"kind":    result.Err.Kind.String(),
		})
	}

	return resultToToolResponse(result)
}

// resultToToolResponse converts a RemoteResult into an MCP tool response.
// Success payloads are rendered as pretty-printed JSON text; envelopes
// become IsError responses carrying the classified message.
func resultToToolResponse(result domain.RemoteResult) (*domain.ToolResponse, error) {
	if !result.OK() {
		return &domain.ToolResponse{
			Content: []domain.ContentBlock{
				{Type: "text", Text: result.Err.Error()},
			},
			IsError: true,
		}, nil
	}

	jsonBytes, err := json.MarshalIndent(result.Payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search result: %w", err)
	}

	return &domain.ToolResponse{
		Content: []domain.ContentBlock{
			{Type: "text", Text: string(jsonBytes)},
		},
	}, nil
}
