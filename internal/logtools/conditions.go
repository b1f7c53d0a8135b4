package logtools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/intent"
	"cephlog-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Condition check defaults: how many matches trip an alert and how far
// back to look.
const (
	defaultConditionThreshold = 5
	defaultConditionWindow    = 300 // seconds
	conditionSampleLimit      = 100
)

// CheckLogConditionsArgs represents the input arguments for the
// check_log_conditions tool.
type CheckLogConditionsArgs struct {
	Conditions []string `json:"conditions"`
	Threshold  int      `json:"threshold,omitempty"`
	TimeWindow int      `json:"time_window,omitempty"`
}

// ConditionCheck is the outcome of evaluating one condition once.
type ConditionCheck struct {
	Condition string `json:"condition"`
	Count     int    `json:"count"`
	Threshold int    `json:"threshold"`
	Triggered bool   `json:"triggered"`
	Severity  string `json:"severity"`
	Timestamp string `json:"timestamp"`
}

// ConditionAlert carries the evidence for a triggered condition.
type ConditionAlert struct {
	Condition  string            `json:"condition"`
	Count      int               `json:"count"`
	Severity   string            `json:"severity"`
	SampleLogs []models.LogEntry `json:"sample_logs,omitempty"`
}

// conditionsPayload is the check_log_conditions response document.
type conditionsPayload struct {
	Checks         []ConditionCheck `json:"checks"`
	Alerts         []ConditionAlert `json:"alerts"`
	Summary        string           `json:"summary"`
	TimeWindow     string           `json:"time_window"`
	Recommendation string           `json:"recommendation"`
}

// NewCheckLogConditionsHandler creates a handler for the
// check_log_conditions tool: a non-blocking snapshot check of several
// natural-language conditions against the recent log stream.
func NewCheckLogConditionsHandler(client Executor) func(context.Context, *mcp.CallToolRequest, CheckLogConditionsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args CheckLogConditionsArgs) (*mcp.CallToolResult, any, error) {
		if len(args.Conditions) == 0 {
			return nil, nil, fmt.Errorf("conditions parameter is required, e.g. [\"osd failures\", \"slow requests\"]")
		}
		threshold := args.Threshold
		if threshold <= 0 {
			threshold = defaultConditionThreshold
		}
		window := args.TimeWindow
		if window <= 0 {
			window = defaultConditionWindow
		}

		now := time.Now()
		checks := make([]ConditionCheck, 0, len(args.Conditions))
		var alerts []ConditionAlert
		for _, condition := range args.Conditions {
			if strings.TrimSpace(condition) == "" {
				return nil, nil, fmt.Errorf("conditions must not be empty strings")
			}

			// Parse the condition for services and keywords, then pin
			// the window to the requested number of seconds; any time
			// phrase inside the condition text loses to the explicit
			// window.
			it := intent.Parse(condition, now)
			it.Start = now.Add(-time.Duration(window) * time.Second)
			it.End = now

			q, err := intent.Build(it, conditionSampleLimit)
			if err != nil {
				return nil, nil, fmt.Errorf("build query for condition %q: %w", condition, err)
			}
			result, err := client.Execute(ctx, q)
			if err != nil {
				return nil, nil, fmt.Errorf("check condition %q: %w", condition, err)
			}

			check := ConditionCheck{
				Condition: condition,
				Count:     result.TotalCount,
				Threshold: threshold,
				Triggered: result.TotalCount >= threshold,
				Severity:  worstSeverity(result.Entries),
				Timestamp: now.UTC().Format(time.RFC3339),
			}
			checks = append(checks, check)

			if check.Triggered {
				samples := result.Entries
				if len(samples) > constants.MaxSampleItems {
					samples = samples[:constants.MaxSampleItems]
				}
				alerts = append(alerts, ConditionAlert{
					Condition:  condition,
					Count:      check.Count,
					Severity:   check.Severity,
					SampleLogs: samples,
				})
			}
		}

		recommendation := "all clear"
		if len(alerts) > 0 {
			recommendation = "run again later to check for changes"
		}
		payload := conditionsPayload{
			Checks:         checks,
			Alerts:         alerts,
			Summary:        fmt.Sprintf("%d of %d conditions triggered", len(alerts), len(checks)),
			TimeWindow:     fmt.Sprintf("last %d seconds", window),
			Recommendation: recommendation,
		}
		return textResult(payload), nil, nil
	}
}

// worstSeverity names the most severe priority present in an entry
// set, or "none" for an empty set.
func worstSeverity(entries []models.LogEntry) string {
	if len(entries) == 0 {
		return "none"
	}
	worst := entries[0].Priority
	for _, e := range entries[1:] {
		if e.Priority < worst {
			worst = e.Priority
		}
	}
	return strings.ToLower(models.PriorityName(worst))
}
