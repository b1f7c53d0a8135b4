package logtools

import (
	"context"
	"fmt"
	"strings"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/shaper"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SeverityArgs represents the input arguments shared by the
// search_errors, search_warnings, and search_critical shortcuts.
type SeverityArgs struct {
	Query     string  `json:"query,omitempty"`
	HoursBack float64 `json:"hours_back,omitempty"`
	ServerID  string  `json:"server_id,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// severityDefaults fixes one shortcut's priority ceiling and its
// fallback lookback window and result count.
type severityDefaults struct {
	maxPriority int
	hoursBack   float64
	limit       int
}

// severityPayload echoes the effective parameters alongside the shaped
// result, so the caller knows which window was actually searched.
type severityPayload struct {
	MaxPriority int     `json:"max_priority"`
	HoursBack   float64 `json:"hours_back"`
	*shaper.Response
}

// NewSearchErrorsHandler creates a handler for the search_errors tool
// (priority 3 and more severe).
func NewSearchErrorsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, SeverityArgs) (*mcp.CallToolResult, any, error) {
	return newSeverityHandler(client, severityDefaults{maxPriority: 3, hoursBack: 24, limit: 100})
}

// NewSearchWarningsHandler creates a handler for the search_warnings
// tool (priority 4 and more severe).
func NewSearchWarningsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, SeverityArgs) (*mcp.CallToolResult, any, error) {
	return newSeverityHandler(client, severityDefaults{maxPriority: 4, hoursBack: 24, limit: 200})
}

// NewSearchCriticalHandler creates a handler for the search_critical
// tool (priority 2 and more severe, with a longer default lookback
// since critical events are rare).
func NewSearchCriticalHandler(client Executor) func(context.Context, *mcp.CallToolRequest, SeverityArgs) (*mcp.CallToolResult, any, error) {
	return newSeverityHandler(client, severityDefaults{maxPriority: 2, hoursBack: 48, limit: 50})
}

func newSeverityHandler(client Executor, def severityDefaults) func(context.Context, *mcp.CallToolRequest, SeverityArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SeverityArgs) (*mcp.CallToolResult, any, error) {
		hours := args.HoursBack
		if hours <= 0 {
			hours = def.hoursBack
		}
		limit := args.Limit
		if limit <= 0 {
			limit = def.limit
		}

		q := &logql.Query{
			Search:    strings.TrimSpace(args.Query),
			HoursBack: hours,
			Limit:     limit,
		}
		if args.ServerID != "" {
			// The backend records the host id under either spelling
			// depending on collector version, so filter on both.
			q.Where = logql.Or(
				logql.Eq(constants.FieldServerID, args.ServerID),
				logql.Eq(constants.FieldServerIDAlt, args.ServerID),
			)
		}

		result, err := client.ExecuteAtSeverity(ctx, q, def.maxPriority)
		if err != nil {
			return nil, nil, fmt.Errorf("execute query: %w", err)
		}

		payload := severityPayload{
			MaxPriority: def.maxPriority,
			HoursBack:   hours,
			Response:    shaped(result),
		}
		return textResult(payload), nil, nil
	}
}
