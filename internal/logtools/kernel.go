package logtools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf8"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DebugKernelLogsArgs represents the input arguments for the
// debug_kernel_logs tool.
type DebugKernelLogsArgs struct {
	HoursBack float64 `json:"hours_back,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// kernelStrategy is one way of asking the backend for kernel logs.
// Clusters differ in how their collectors label kernel output, so the
// tool tries each strategy in turn and reports what worked.
type kernelStrategy struct {
	name  string
	where *logql.Node
}

func kernelStrategies() []kernelStrategy {
	return []kernelStrategy{
		{
			name: "direct kernel channel",
			where: logql.And(
				logql.Eq(constants.FieldTransport, "kernel"),
				logql.Lte(constants.FieldPriority, 5),
			),
		},
		{
			name: "syslog with kernel identifier",
			where: logql.And(
				logql.Eq(constants.FieldTransport, "syslog"),
				logql.Eq(constants.FieldSyslogID, "kernel"),
				logql.Lte(constants.FieldPriority, 5),
			),
		},
		{
			name: "kernel in message content",
			where: logql.And(
				logql.Contains(constants.FieldMessage, "kernel"),
				logql.Lte(constants.FieldPriority, 4),
			),
		},
		{
			name: "hardware and driver messages",
			where: logql.And(
				logql.Regex(constants.FieldMessage, "(hardware|driver|device|disk|network)"),
				logql.Lte(constants.FieldPriority, 4),
			),
		},
	}
}

// StrategyOutcome records how one kernel-log strategy fared.
type StrategyOutcome struct {
	Strategy       string          `json:"strategy"`
	Success        bool            `json:"success"`
	LogCount       int             `json:"log_count"`
	SampleMessages []string        `json:"sample_messages,omitempty"`
	ChannelsFound  []string        `json:"channels_found,omitempty"`
	Query          json.RawMessage `json:"query"`
	Error          string          `json:"error,omitempty"`
}

// kernelPayload is the debug_kernel_logs response document.
type kernelPayload struct {
	Strategies      []StrategyOutcome `json:"strategies"`
	Recommendations []string          `json:"recommendations"`
	HoursBack       float64           `json:"hours_back"`
}

// NewDebugKernelLogsHandler creates a handler for the debug_kernel_logs
// tool. A failed strategy is recorded, not fatal; only context
// cancellation aborts the hunt.
func NewDebugKernelLogsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, DebugKernelLogsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args DebugKernelLogsArgs) (*mcp.CallToolResult, any, error) {
		hours := args.HoursBack
		if hours <= 0 {
			hours = constants.DiscoveryHoursBack
		}
		limit := args.Limit
		if limit <= 0 {
			limit = 100
		}

		strategies := kernelStrategies()
		outcomes := make([]StrategyOutcome, 0, len(strategies))
		for _, s := range strategies {
			q := &logql.Query{
				Where:     s.where,
				HoursBack: hours,
				Limit:     limit,
			}
			outcome := StrategyOutcome{
				Strategy: s.name,
				Query:    json.RawMessage(q.Key()),
			}

			result, err := client.Execute(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return nil, nil, ctx.Err()
				}
				outcome.Error = err.Error()
				outcomes = append(outcomes, outcome)
				continue
			}

			outcome.Success = len(result.Entries) > 0
			outcome.LogCount = result.TotalCount
			for i := 0; i < len(result.Entries) && i < constants.MaxSampleItems; i++ {
				outcome.SampleMessages = append(outcome.SampleMessages, clipMessage(result.Entries[i].Message, 100))
			}
			outcome.ChannelsFound = distinctChannels(result.Entries)
			outcomes = append(outcomes, outcome)
		}

		payload := kernelPayload{
			Strategies:      outcomes,
			Recommendations: kernelRecommendations(outcomes),
			HoursBack:       hours,
		}
		return textResult(payload), nil, nil
	}
}

// distinctChannels lists the origin channels seen in an entry set,
// sorted for stable output. Entries without a channel count as
// "unknown".
func distinctChannels(entries []models.LogEntry) []string {
	seen := make(map[string]bool)
	for _, e := range entries {
		ch := e.Channel
		if ch == "" {
			ch = "unknown"
		}
		seen[ch] = true
	}
	channels := make([]string, 0, len(seen))
	for ch := range seen {
		channels = append(channels, ch)
	}
	sort.Strings(channels)
	return channels
}

// kernelRecommendations turns the per-strategy outcomes into guidance:
// which strategy to use from now on, or what to check when none found
// anything.
func kernelRecommendations(outcomes []StrategyOutcome) []string {
	best := -1
	for i, o := range outcomes {
		if !o.Success {
			continue
		}
		if best < 0 || o.LogCount > outcomes[best].LogCount {
			best = i
		}
	}

	if best < 0 {
		return []string{
			"no kernel logs found with standard methods",
			"check the log collector's kernel ingestion configuration",
			"consider broader searches with hardware or system keywords",
		}
	}
	return []string{
		fmt.Sprintf("best kernel log strategy: %s", outcomes[best].Strategy),
		fmt.Sprintf("found %d logs with this method", outcomes[best].LogCount),
	}
}

// clipMessage caps a sample message without splitting a multi-byte
// rune.
func clipMessage(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
