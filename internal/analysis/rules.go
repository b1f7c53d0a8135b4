package analysis

import (
	"fmt"
	"strings"

	"cephlog-mcp/internal/models"
)

// Rule thresholds.
const (
	criticalAttentionThreshold = 5
	errorPatternThreshold      = 20
	osdIssueThreshold          = 3
	repeatedKeywordThreshold   = 10
)

var (
	networkSignals = []string{"timeout", "unreachable", "heartbeat", "connection refused", "connection reset"}
	authSignals    = []string{"authentication fail", "permission denied", "unauthorized", "access denied"}
)

// ruleInput bundles the observed conditions recommendation rules may
// inspect.
type ruleInput struct {
	report        *SummaryReport
	networkEvents int
	authEvents    int
	osdCritical   int
}

// recommendationRule maps one observed condition to advisory text.
// Rules are independent: every applicable rule fires, none short-circuit.
type recommendationRule struct {
	name  string
	apply func(ruleInput) (string, bool)
}

var recommendationRules = []recommendationRule{
	{
		name: "critical_volume",
		apply: func(in ruleInput) (string, bool) {
			n := in.report.PriorityBreakdown["EMERGENCY"] +
				in.report.PriorityBreakdown["ALERT"] +
				in.report.PriorityBreakdown["CRITICAL"]
			if n > criticalAttentionThreshold {
				return fmt.Sprintf("Immediate attention needed: %d critical events", n), true
			}
			return "", false
		},
	},
	{
		name: "error_volume",
		apply: func(in ruleInput) (string, bool) {
			if n := in.report.PriorityBreakdown["ERROR"]; n > errorPatternThreshold {
				return fmt.Sprintf("Investigate error patterns: %d errors found", n), true
			}
			return "", false
		},
	},
	{
		name: "storage_health",
		apply: func(in ruleInput) (string, bool) {
			if in.osdCritical > osdIssueThreshold {
				return fmt.Sprintf("Multiple OSD issues among top events (%d): check storage hardware health", in.osdCritical), true
			}
			return "", false
		},
	},
	{
		name: "connectivity",
		apply: func(in ruleInput) (string, bool) {
			if in.networkEvents > repeatedKeywordThreshold {
				return fmt.Sprintf("Repeated connectivity failures (%d entries): investigate network health", in.networkEvents), true
			}
			return "", false
		},
	},
	{
		name: "access_control",
		apply: func(in ruleInput) (string, bool) {
			if in.authEvents > repeatedKeywordThreshold {
				return fmt.Sprintf("Repeated authentication failures (%d entries): review access control", in.authEvents), true
			}
			return "", false
		},
	},
	{
		name: "load_patterns",
		apply: func(in ruleInput) (string, bool) {
			if in.report.Trends != nil && len(in.report.Trends.PeakHours) > 0 {
				peak := in.report.Trends.PeakHours[0]
				return fmt.Sprintf("Peak activity at %s (%d entries): review load patterns", peak.Hour, peak.Count), true
			}
			return "", false
		},
	},
}

// recommendations evaluates the rule table against the report and the
// raw entries it was derived from.
func recommendations(report *SummaryReport, entries []models.LogEntry) []string {
	in := ruleInput{report: report}
	for _, e := range entries {
		lower := strings.ToLower(e.Message)
		if containsAnySignal(lower, networkSignals) {
			in.networkEvents++
		}
		if containsAnySignal(lower, authSignals) {
			in.authEvents++
		}
	}
	for _, ev := range report.CriticalEvents {
		if strings.Contains(strings.ToLower(ev.Preview), "osd") {
			in.osdCritical++
		}
	}

	out := []string{}
	for _, rule := range recommendationRules {
		if text, ok := rule.apply(in); ok {
			out = append(out, text)
		}
	}
	return out
}

func containsAnySignal(s string, signals []string) bool {
	for _, sig := range signals {
		if strings.Contains(s, sig) {
			return true
		}
	}
	return false
}
