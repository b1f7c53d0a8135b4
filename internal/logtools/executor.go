// Package logtools implements the MCP tool handlers: free-text and
// structured log search, severity shortcuts, server discovery, channel
// analysis, kernel-log debugging, condition checks, and the canned
// debug scenarios.
package logtools

import (
	"context"
	"encoding/json"
	"fmt"

	"cephlog-mcp/internal/analysis"
	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"
	"cephlog-mcp/internal/shaper"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Executor is the slice of the transport client the tool handlers
// need. Declared on the consumer side so tests can substitute a canned
// backend.
type Executor interface {
	Execute(ctx context.Context, q *logql.Query) (*models.SearchResult, error)
	ExecuteAtSeverity(ctx context.Context, q *logql.Query, maxSeverity int) (*models.SearchResult, error)
	DiscoverServers(ctx context.Context) (map[string]*analysis.ServerProfile, *models.SearchResult, error)
}

// shaped runs the summary analysis over a raw result and applies the
// default size budget.
func shaped(result *models.SearchResult) *shaper.Response {
	report := analysis.Summarize(result.Entries, constants.MaxCriticalEvents)
	return shaper.Shape(result, report, nil, nil, shaper.DefaultBudget())
}

// textResult wraps a payload as the tool's JSON text content.
func textResult(payload any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{
				Text: formatJSON(payload),
			},
		},
	}
}

// formatJSON formats JSON for display
func formatJSON(data any) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
