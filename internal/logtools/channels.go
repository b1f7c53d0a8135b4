package logtools

import (
	"context"
	"fmt"

	"cephlog-mcp/internal/analysis"
	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// AnalyzeLogChannelsArgs represents the input arguments for the
// analyze_log_channels tool.
type AnalyzeLogChannelsArgs struct {
	HoursBack float64 `json:"hours_back,omitempty"`
}

// channelsPayload is the analyze_log_channels response document.
type channelsPayload struct {
	*analysis.ChannelReport
	SampleSize int     `json:"sample_size"`
	HoursBack  float64 `json:"hours_back"`
}

// NewAnalyzeLogChannelsHandler creates a handler for the
// analyze_log_channels tool, which samples recent logs without a
// filter and reports how entries are distributed across origin
// channels (journal, syslog, kernel).
func NewAnalyzeLogChannelsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, AnalyzeLogChannelsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args AnalyzeLogChannelsArgs) (*mcp.CallToolResult, any, error) {
		hours := args.HoursBack
		if hours <= 0 {
			hours = constants.DiscoveryHoursBack
		}

		q := &logql.Query{
			HoursBack: hours,
			Limit:     constants.MediumSampleSize,
		}
		result, err := client.Execute(ctx, q)
		if err != nil {
			return nil, nil, fmt.Errorf("execute query: %w", err)
		}

		payload := channelsPayload{
			ChannelReport: analysis.AnalyzeChannels(result.Entries),
			SampleSize:    len(result.Entries),
			HoursBack:     hours,
		}
		return textResult(payload), nil, nil
	}
}
