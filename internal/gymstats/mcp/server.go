package mcp

import (
	"net/http"

	"github.com/2beens/gymplanner/internal/auth"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with planner tools bound to userID:
// schema, estimate max, backoff range and progression preview.
func NewServer(schemaRepo SchemaRepo, previewer progressionPreviewer, userID string) *mcp.Server {
	h := NewHandler(NewPlannerService(schemaRepo, previewer, userID))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymplanner",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_planner_schema",
		Description: "Returns the DB schema of the planner tables (training_plan, best_performance, gymstats_event): table names, columns, types, nullable, default.",
	}, h.GetPlannerSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_max",
		Description: "Estimates a one-rep max from weight, reps and actual RPE. Weight and RPE may be per-set lists separated by ';' when sets is given.",
	}, h.EstimateMaxTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "backoff_range",
		Description: "Recommends a weight window for a backoff set of the given reps at the given RPE, from the top set estimated max.",
	}, h.BackoffRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "preview_progression",
		Description: "Runs the week-over-week target RPE progression on a copy of a stored plan and returns the resulting ramp. Nothing is saved.",
	}, h.PreviewProgressionTool())

	return s
}

// NewHTTPHandler serves MCP over streamable HTTP. Each request gets a server bound to
// the user the auth middleware put into the request context.
func NewHTTPHandler(schemaRepo SchemaRepo, previewer progressionPreviewer) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return NewServer(schemaRepo, previewer, auth.UserIDFromContext(r.Context()))
	}, &mcp.StreamableHTTPOptions{Stateless: true})
}
