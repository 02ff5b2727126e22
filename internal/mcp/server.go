// Package mcp exposes the council over the Model Context Protocol via
// stdio, so agent runtimes can consult it as a tool.
package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/quorum/internal/config"
	"github.com/hpungsan/quorum/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"consult": {
		def:     consultToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleConsult },
	},
	"minutes_fetch": {
		def:     minutesFetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMinutesFetch },
	},
	"minutes_list": {
		def:     minutesListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMinutesList },
	},
	"pack_info": {
		def:     packInfoToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePackInfo },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with Quorum tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, deps ops.Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"quorum",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, deps)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, deps ops.Deps, version string) error {
	s := NewServer(db, cfg, deps, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
