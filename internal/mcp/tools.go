package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the capture tool set. Descriptions are what MCP
// clients show the model, so they state defaults and limits explicitly.

var saveToolDef = mcp.NewTool("capture_save",
	mcp.WithDescription("Save one capture: the text typed into an application over a time interval."),
	mcp.WithString("app_name",
		mcp.Required(),
		mcp.Description("Application the text was typed into."),
	),
	mcp.WithString("content",
		mcp.Description("Captured text. May be empty."),
	),
	mcp.WithNumber("start_time",
		mcp.Description("Interval start as a Unix timestamp. Defaults to now."),
	),
	mcp.WithNumber("end_time",
		mcp.Description("Interval end as a Unix timestamp. Defaults to start_time."),
	),
)

var saveManyToolDef = mcp.NewTool("capture_save_many",
	mcp.WithDescription("Save a batch of captures under one shared batch id. Malformed items are skipped and reported; valid items still land."),
	mcp.WithArray("items",
		mcp.Required(),
		mcp.Description("Captures to save (max 100). Each item: app_name (required), content, start_time, end_time."),
		mcp.Items(map[string]any{
			"type": "object",
			"properties": map[string]any{
				"app_name":   map[string]any{"type": "string"},
				"content":    map[string]any{"type": "string"},
				"start_time": map[string]any{"type": "number"},
				"end_time":   map[string]any{"type": "number"},
			},
			"required": []string{"app_name"},
		}),
	),
)

var getToolDef = mcp.NewTool("capture_get",
	mcp.WithDescription("Get one capture by id, including its full content."),
	mcp.WithNumber("id",
		mcp.Required(),
		mcp.Description("Capture identifier."),
	),
)

var recentToolDef = mcp.NewTool("capture_recent",
	mcp.WithDescription("List the newest captures across all applications."),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default 50, max 500)."),
	),
)

var byAppToolDef = mcp.NewTool("capture_by_app",
	mcp.WithDescription("List the newest captures for one application. Unknown applications yield an empty list."),
	mcp.WithString("app_name",
		mcp.Required(),
		mcp.Description("Application to filter by."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default 20, max 500)."),
	),
)

var appsToolDef = mcp.NewTool("capture_apps",
	mcp.WithDescription("List every application with its capture count, most captures first."),
)

var searchToolDef = mcp.NewTool("capture_search",
	mcp.WithDescription("Search captures: indexed full-text match first, fuzzy similarity fallback for anything the index misses. Results carry a score in [0,1] and a snippet."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text query. Blank queries return no results."),
	),
	mcp.WithString("app_name",
		mcp.Description("Restrict results to one application."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum results (default 50, max 200)."),
	),
	mcp.WithNumber("min_score",
		mcp.Description("Fuzzy-match score cutoff in [0,1] (default 0.3). Indexed matches are not filtered."),
	),
)

var statsToolDef = mcp.NewTool("capture_stats",
	mcp.WithDescription("Aggregate snapshot: total captures, unique applications, char/word totals, and the top 5 applications by capture count."),
)

var rebuildToolDef = mcp.NewTool("capture_rebuild",
	mcp.WithDescription("Rebuild the full-text index from the captures table. Use after suspected index corruption."),
)

var exportToolDef = mcp.NewTool("capture_export",
	mcp.WithDescription("Export captures to a JSONL file under ~/.keystash/exports (or a configured allowed directory)."),
	mcp.WithString("path",
		mcp.Description("Destination .jsonl path. Defaults to ~/.keystash/exports/<app>-<timestamp>.jsonl."),
	),
	mcp.WithString("app_name",
		mcp.Description("Only export captures for this application."),
	),
)

var importToolDef = mcp.NewTool("capture_import",
	mcp.WithDescription("Import captures from a JSONL export file. Captures get fresh ids; malformed lines are skipped and reported."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Source .jsonl path, directly in an allowed directory."),
	),
)
