// Package intent turns loosely structured requests into canonical log
// queries. Parsing is deliberately lenient: an unparseable request
// still yields a usable intent with defaults, because an overly broad
// query is cheaper than a rejected one.
package intent

import (
	"regexp"
	"strings"
	"time"

	"cephlog-mcp/internal/ceph"
)

// Intent is the structured reading of one free-text request. Severities
// holds syslog priority ordinals in ascending order; nil means no
// severity filter. Start and End are always set and always ordered.
type Intent struct {
	Scenario   string
	Services   []string
	Severities []int
	Keywords   []string
	Start      time.Time
	End        time.Time
}

// scenario is one row of the catalog: a recognizer plus the defaults it
// seeds. Rows are evaluated in order and the first match wins.
type scenario struct {
	name       string
	match      *regexp.Regexp
	services   []string
	severities []int
	keywords   []string
}

var scenarios = []scenario{
	{
		name:       "osd_issues",
		match:      regexp.MustCompile(`(?i)(osd|object.?storage).*?(fail|down|crash|slow|error|flap|timeout)`),
		services:   []string{"ceph-osd", "ceph-mon"},
		severities: severityAtMost(4),
		keywords:   []string{"OSD", "failed", "down", "crashed", "flapping"},
	},
	{
		name:       "slow_requests",
		match:      regexp.MustCompile(`(?i)(slow|blocked|stuck|delayed)\s+(request|operation|op|query|io)`),
		services:   []string{"ceph-osd", "ceph-mon", "ceph-mds"},
		severities: severityAtMost(4),
		keywords:   []string{"slow request", "blocked", "timeout", "stuck"},
	},
	{
		name:       "auth_failures",
		match:      regexp.MustCompile(`(?i)(auth|authentication|login|permission).*?(fail|denied|error)`),
		services:   []string{"ceph-mon", "ceph-mgr"},
		severities: severityAtMost(4),
		keywords:   []string{"authentication", "failed", "denied", "unauthorized"},
	},
	{
		name:       "network_problems",
		match:      regexp.MustCompile(`(?i)(network|connection|timeout|unreachable|heartbeat|msgr)`),
		services:   []string{"ceph-mon", "ceph-osd", "ceph-mds", "ceph-mgr"},
		severities: severityAtMost(4),
		keywords:   []string{"connection", "timeout", "network", "unreachable", "heartbeat"},
	},
	{
		name:       "pool_issues",
		match:      regexp.MustCompile(`(?i)pool.*?(full|create|delete|error)`),
		services:   []string{"ceph-mon", "ceph-mgr"},
		severities: severityAtMost(4),
		keywords:   []string{"pool", "full", "quota", "space"},
	},
}

var kernelWords = []string{"kernel", "hardware", "driver"}

// Parse reads a free-text request into an Intent relative to now. It
// never fails: text that matches nothing yields empty service/keyword
// sets, no severity filter, and the default trailing window.
func Parse(text string, now time.Time) Intent {
	lower := strings.ToLower(text)

	it := Intent{}
	it.Start, it.End = parseWindow(lower, now)

	for _, sc := range scenarios {
		if sc.match.MatchString(text) {
			it.Scenario = sc.name
			it.Services = append([]string(nil), sc.services...)
			it.Severities = append([]int(nil), sc.severities...)
			it.Keywords = append([]string(nil), sc.keywords...)
			break
		}
	}

	// An explicit severity word beats whatever the scenario seeded.
	if sev, ok := parseSeverityWords(lower); ok {
		it.Severities = sev
	} else if it.Severities == nil && containsAny(lower, kernelWords) {
		// Kernel logs default to warning-and-worse; unfiltered kernel
		// output is mostly noise.
		it.Severities = severityAtMost(4)
	}

	// Explicitly named daemons beat the scenario's generic defaults.
	if mentioned := ceph.Detect(text); len(mentioned) > 0 {
		it.Services = mentioned
	}

	return it
}

// parseSeverityWords maps explicit severity vocabulary to an ordinal
// set. The boolean reports whether any severity word was present; a
// true with nil severities means "all levels requested".
func parseSeverityWords(lower string) ([]int, bool) {
	switch {
	case strings.Contains(lower, "all level") ||
		strings.Contains(lower, "all log") ||
		strings.Contains(lower, "everything"):
		return nil, true
	case strings.Contains(lower, "critical") || strings.Contains(lower, "emergency"):
		return severityAtMost(2), true
	case strings.Contains(lower, "error") && !strings.Contains(lower, "no error"):
		return severityAtMost(3), true
	case strings.Contains(lower, "warn"):
		return severityAtMost(4), true
	case strings.Contains(lower, "info"):
		return severityAtMost(6), true
	case strings.Contains(lower, "debug") || strings.Contains(lower, "trace"):
		return nil, true
	}
	return nil, false
}

// severityAtMost returns the ordinals 0..max, i.e. max and everything
// more severe.
func severityAtMost(max int) []int {
	out := make([]int, 0, max+1)
	for p := 0; p <= max; p++ {
		out = append(out, p)
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
