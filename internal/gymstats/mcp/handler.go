package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service plannerService
}

func NewHandler(service plannerService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

// GetPlannerSchemaTool returns the MCP tool handler for get_planner_schema.
func (h *Handler) GetPlannerSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

type EstimateMaxInput struct {
	Weight string `json:"weight" jsonschema:"Weight lifted, a number or per-set list like 100;102.5"`
	Reps   string `json:"reps" jsonschema:"Reps per set"`
	RPE    string `json:"rpe" jsonschema:"Actual RPE, a number or per-set list like 8;8.5"`
	Sets   int    `json:"sets,omitempty" jsonschema:"Number of sets, needed for per-set lists"`
}

// EstimateMaxTool returns the MCP tool handler for estimate_max.
func (h *Handler) EstimateMaxTool() func(context.Context, *mcp.CallToolRequest, EstimateMaxInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in EstimateMaxInput) (*mcp.CallToolResult, any, error) {
		est, err := h.service.EstimateMax(in.Weight, in.Reps, in.RPE, in.Sets)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return jsonResult(map[string]float64{"estimatedMax": est}), nil, nil
	}
}

type BackoffRangeInput struct {
	Reps      int     `json:"reps" jsonschema:"Planned reps of the backoff set"`
	RPE       float64 `json:"rpe" jsonschema:"Planned RPE of the backoff set"`
	TopSetMax float64 `json:"top_set_max" jsonschema:"Estimated max of the top set"`
}

// BackoffRangeTool returns the MCP tool handler for backoff_range.
func (h *Handler) BackoffRangeTool() func(context.Context, *mcp.CallToolRequest, BackoffRangeInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in BackoffRangeInput) (*mcp.CallToolResult, any, error) {
		br, err := h.service.BackoffRange(in.Reps, in.RPE, in.TopSetMax)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return jsonResult(br), nil, nil
	}
}

type PreviewProgressionInput struct {
	PlanID       string  `json:"plan_id" jsonschema:"Id of the training plan"`
	RPEIncrement float64 `json:"rpe_increment" jsonschema:"Target RPE added per week, e.g. 0.5"`
	WithDeload   bool    `json:"with_deload,omitempty" jsonschema:"Make the last week a deload week"`
}

// PreviewProgressionTool returns the MCP tool handler for preview_progression.
func (h *Handler) PreviewProgressionTool() func(context.Context, *mcp.CallToolRequest, PreviewProgressionInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in PreviewProgressionInput) (*mcp.CallToolResult, any, error) {
		if in.PlanID == "" {
			return errorResult("plan_id is required"), nil, nil
		}
		preview, err := h.service.PreviewProgression(ctx, in.PlanID, in.RPEIncrement, in.WithDeload)
		if err != nil {
			return errorResult(fmt.Sprintf("Error previewing progression for [%s]: %s", in.PlanID, err)), nil, nil
		}
		return jsonResult(preview), nil, nil
	}
}
