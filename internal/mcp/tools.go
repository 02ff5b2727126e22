package mcp

import "github.com/mark3labs/mcp-go/mcp"

var consultToolDef = mcp.NewTool("consult",
	mcp.WithDescription("Pose a decision question to the council. Every role answers independently, a consensus is synthesized, and the session persists as a minutes record."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("The decision question to deliberate"),
	),
	mcp.WithString("context",
		mcp.Description("Optional background the council should consider"),
	),
	mcp.WithString("preset",
		mcp.Description("Named lineup preset; takes precedence over roles"),
	),
	mcp.WithArray("roles",
		mcp.Description("Custom lineup as [{role_key, weight, position}]; ignored when preset is set"),
	),
	mcp.WithString("pack_slug",
		mcp.Description("Prompt pack slug; defaults to the configured pack"),
	),
	mcp.WithString("locale",
		mcp.Description("Pack locale; defaults to the configured locale"),
	),
	mcp.WithNumber("pack_version",
		mcp.Description("Pin a pack version; 0 uses the active version"),
	),
	mcp.WithBoolean("mock",
		mcp.Description("Use the deterministic offline provider"),
	),
	mcp.WithBoolean("mock_v2",
		mcp.Description("Offline provider with the executive consensus shape"),
	),
)

var minutesFetchToolDef = mcp.NewTool("minutes_fetch",
	mcp.WithDescription("Fetch one minutes record by its ULID, including every role's raw output and the consensus."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Minutes record ULID"),
	),
)

var minutesListToolDef = mcp.NewTool("minutes_list",
	mcp.WithDescription("List minutes records newest first, with pagination."),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of records to skip"),
	),
)

var packInfoToolDef = mcp.NewTool("pack_info",
	mcp.WithDescription("Describe the prompt pack a consultation would run with: version, content hash, and roles."),
	mcp.WithString("slug",
		mcp.Description("Pack slug; defaults to the configured pack"),
	),
	mcp.WithString("locale",
		mcp.Description("Pack locale; defaults to the configured locale"),
	),
	mcp.WithNumber("version",
		mcp.Description("Pin a pack version; 0 uses the active version"),
	),
)
