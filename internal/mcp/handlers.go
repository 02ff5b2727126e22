package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/errors"
	"github.com/hpungsan/quorum/internal/ops"
	"github.com/hpungsan/quorum/internal/roster"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db   *sql.DB
	cfg  *config.Config
	deps ops.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, deps ops.Deps) *Handlers {
	return &Handlers{db: db, cfg: cfg, deps: deps}
}

// Request types for each tool

// ConsultRequest represents the arguments for consult.
type ConsultRequest struct {
	Question    string              `json:"question"`
	Context     string              `json:"context,omitempty"`
	Preset      string              `json:"preset,omitempty"`
	Roles       []roster.RoleWeight `json:"roles,omitempty"`
	PackSlug    string              `json:"pack_slug,omitempty"`
	Locale      string              `json:"locale,omitempty"`
	PackVersion int                 `json:"pack_version,omitempty"`
	Mock        bool                `json:"mock,omitempty"`
	MockV2      bool                `json:"mock_v2,omitempty"`
}

// MinutesFetchRequest represents the arguments for minutes_fetch.
type MinutesFetchRequest struct {
	ID string `json:"id"`
}

// MinutesListRequest represents the arguments for minutes_list.
type MinutesListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// PackInfoRequest represents the arguments for pack_info.
type PackInfoRequest struct {
	Slug    string `json:"slug,omitempty"`
	Locale  string `json:"locale,omitempty"`
	Version int    `json:"version,omitempty"`
}

// Handler implementations

// HandleConsult handles the consult tool call.
func (h *Handlers) HandleConsult(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConsultRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Consult(ctx, h.db, h.cfg, h.deps, ops.ConsultInput{
		Question:    input.Question,
		Context:     input.Context,
		Preset:      input.Preset,
		Roles:       input.Roles,
		PackSlug:    input.PackSlug,
		Locale:      input.Locale,
		PackVersion: input.PackVersion,
		Mock:        input.Mock,
		MockV2:      input.MockV2,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMinutesFetch handles the minutes_fetch tool call.
func (h *Handlers) HandleMinutesFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MinutesFetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMinutesList handles the minutes_list tool call.
func (h *Handlers) HandleMinutesList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MinutesListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePackInfo handles the pack_info tool call.
func (h *Handlers) HandlePackInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PackInfoRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.PackInfo(h.deps.Cache, h.cfg, ops.PackInfoInput{
		Slug:    input.Slug,
		Locale:  input.Locale,
		Version: input.Version,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if qErr, ok := err.(*errors.QuorumError); ok {
		errorObj := map[string]any{
			"code":    qErr.Code,
			"message": qErr.Message,
			"status":  qErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if qErr.Code != errors.ErrInternal && qErr.Details != nil {
			errorObj["details"] = qErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
