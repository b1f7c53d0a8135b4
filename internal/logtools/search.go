package logtools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/intent"
	"cephlog-mcp/internal/shaper"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchLogsArgs represents the input arguments for the search_logs tool
type SearchLogsArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// interpretation echoes the parser's reading of a free-text request so
// the caller can spot a misparse and rephrase.
type interpretation struct {
	Scenario   string   `json:"scenario,omitempty"`
	Services   []string `json:"services,omitempty"`
	Severities []int    `json:"severities,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
}

// searchPayload is the search_logs response document: the shaped
// result plus the interpretation and the exact query that was sent.
type searchPayload struct {
	Interpretation interpretation  `json:"interpretation"`
	CanonicalQuery json.RawMessage `json:"canonical_query"`
	*shaper.Response
}

// NewSearchLogsHandler creates a handler for the search_logs tool,
// which turns a natural-language request into a backend query.
func NewSearchLogsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, SearchLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args SearchLogsArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Query) == "" {
			return nil, nil, fmt.Errorf("query parameter is required, e.g. \"osd failures in the last 2 hours\"")
		}
		limit := args.Limit
		if limit <= 0 {
			limit = constants.DefaultLogLimit
		}

		it := intent.Parse(args.Query, time.Now())
		q, err := intent.Build(it, limit)
		if err != nil {
			return nil, nil, fmt.Errorf("build query: %w", err)
		}

		result, err := client.Execute(ctx, q)
		if err != nil {
			return nil, nil, fmt.Errorf("execute query: %w", err)
		}

		payload := searchPayload{
			Interpretation: interpret(it),
			CanonicalQuery: json.RawMessage(q.Key()),
			Response:       shaped(result),
		}
		return textResult(payload), nil, nil
	}
}

func interpret(it intent.Intent) interpretation {
	return interpretation{
		Scenario:   it.Scenario,
		Services:   it.Services,
		Severities: it.Severities,
		Keywords:   it.Keywords,
		Start:      it.Start.UTC().Format(time.RFC3339),
		End:        it.End.UTC().Format(time.RFC3339),
	}
}
