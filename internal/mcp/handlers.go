package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/keystash/keystash/internal/config"
	"github.com/keystash/keystash/internal/db"
	"github.com/keystash/keystash/internal/errors"
	"github.com/keystash/keystash/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *db.Store
	cfg   *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *db.Store, cfg *config.Config) *Handlers {
	return &Handlers{store: store, cfg: cfg}
}

// Request types for each tool

// SaveRequest represents the arguments for capture_save.
type SaveRequest struct {
	AppName   string `json:"app_name"`
	Content   string `json:"content"`
	StartTime int64  `json:"start_time,omitempty"`
	EndTime   int64  `json:"end_time,omitempty"`
}

// SaveManyRequest represents the arguments for capture_save_many.
type SaveManyRequest struct {
	Items []ops.SaveManyItem `json:"items"`
}

// GetRequest represents the arguments for capture_get.
type GetRequest struct {
	ID int64 `json:"id"`
}

// RecentRequest represents the arguments for capture_recent.
type RecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ByAppRequest represents the arguments for capture_by_app.
type ByAppRequest struct {
	AppName string `json:"app_name"`
	Limit   int    `json:"limit,omitempty"`
}

// SearchRequest represents the arguments for capture_search.
type SearchRequest struct {
	Query    string   `json:"query"`
	AppName  *string  `json:"app_name,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	MinScore *float64 `json:"min_score,omitempty"`
}

// ExportRequest represents the arguments for capture_export.
type ExportRequest struct {
	Path    string  `json:"path,omitempty"`
	AppName *string `json:"app_name,omitempty"`
}

// ImportRequest represents the arguments for capture_import.
type ImportRequest struct {
	Path string `json:"path"`
}

// Handler implementations

// HandleSave handles the capture_save tool call.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Save(ctx, h.store, h.cfg, ops.SaveInput{
		AppName:   input.AppName,
		Content:   input.Content,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSaveMany handles the capture_save_many tool call.
func (h *Handlers) HandleSaveMany(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SaveManyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.SaveMany(ctx, h.store, h.cfg, ops.SaveManyInput{Items: input.Items})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGet handles the capture_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Get(ctx, h.store, h.cfg, ops.GetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecent handles the capture_recent tool call.
func (h *Handlers) HandleRecent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RecentRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Recent(ctx, h.store, h.cfg, ops.RecentInput{Limit: input.Limit})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleByApp handles the capture_by_app tool call.
func (h *Handlers) HandleByApp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ByAppRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ByApp(ctx, h.store, h.cfg, ops.ByAppInput{
		AppName: input.AppName,
		Limit:   input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleApps handles the capture_apps tool call.
func (h *Handlers) HandleApps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Apps(ctx, h.store, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the capture_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SearchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Search(ctx, h.store, h.cfg, ops.SearchInput{
		Query:    input.Query,
		AppName:  input.AppName,
		Limit:    input.Limit,
		MinScore: input.MinScore,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStats handles the capture_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Stats(ctx, h.store, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRebuild handles the capture_rebuild tool call.
func (h *Handlers) HandleRebuild(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ops.Rebuild(ctx, h.store, h.cfg)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the capture_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.store, h.cfg, ops.ExportInput{
		Path:    input.Path,
		AppName: input.AppName,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the capture_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ImportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Import(ctx, h.store, h.cfg, ops.ImportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Internal error details are not exposed to avoid leaking file paths or SQL
// errors to clients.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if stashErr, ok := err.(*errors.StashError); ok {
		errorObj := map[string]any{
			"code":    stashErr.Code,
			"message": stashErr.Message,
			"status":  stashErr.Status,
		}
		if stashErr.Code != errors.ErrInternal && stashErr.Details != nil {
			errorObj["details"] = stashErr.Details
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
