package logtools

import (
	"context"
	"encoding/json"
	"fmt"

	"cephlog-mcp/internal/intent"
	"cephlog-mcp/internal/shaper"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// QueryLogsArgs represents the input arguments for the query_logs
// tool. Where is a raw predicate tree in the backend's JSON syntax;
// the tool description carries the full operator catalog.
type QueryLogsArgs struct {
	Where          json.RawMessage `json:"where,omitempty"`
	Search         string          `json:"_search,omitempty"`
	HoursBack      float64         `json:"hours_back,omitempty"`
	StartTimestamp int64           `json:"start_timestamp,omitempty"`
	EndTimestamp   int64           `json:"end_timestamp,omitempty"`
	Limit          int             `json:"limit,omitempty"`
}

// queryPayload is the query_logs response document, echoing the exact
// query sent to the backend.
type queryPayload struct {
	CanonicalQuery json.RawMessage `json:"canonical_query"`
	*shaper.Response
}

// NewQueryLogsHandler creates a handler for the query_logs tool, the
// structured counterpart of search_logs.
func NewQueryLogsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, QueryLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args QueryLogsArgs) (*mcp.CallToolResult, any, error) {
		if len(args.Where) == 0 && args.Search == "" {
			return nil, nil, fmt.Errorf("where parameter is required (or pass _search for a bare full-text query)")
		}

		q, err := intent.BuildStructured(args.Where, args.Search, args.HoursBack, args.StartTimestamp, args.EndTimestamp, args.Limit)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid query: %w", err)
		}

		result, err := client.Execute(ctx, q)
		if err != nil {
			return nil, nil, fmt.Errorf("execute query: %w", err)
		}

		payload := queryPayload{
			CanonicalQuery: json.RawMessage(q.Key()),
			Response:       shaped(result),
		}
		return textResult(payload), nil, nil
	}
}
