package logtools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cephlog-mcp/internal/ceph"
	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/shaper"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Scenario is one canned diagnostic query: a named, described
// predicate tree with a default window and result ceiling.
type Scenario struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Where       *logql.Node `json:"where"`
	HoursBack   float64     `json:"hours_back"`
	Limit       int         `json:"limit"`
	Example     string      `json:"example,omitempty"`
}

// Scenarios returns the catalog in its fixed order. The trees are
// rebuilt on every call so callers can retarget them freely.
func Scenarios() []Scenario {
	return []Scenario{
		{
			ID:          "osd_health_check",
			Name:        "OSD Health Check",
			Description: "Check for OSD failures, flapping, and performance issues",
			Where: logql.And(
				logql.Regex(constants.FieldUnit, "ceph-osd@.*"),
				logql.Lte(constants.FieldPriority, 4),
			),
			HoursBack: 24,
			Limit:     100,
		},
		{
			ID:          "cluster_status_errors",
			Name:        "Cluster Status Errors",
			Description: "Find critical cluster-wide errors and warnings",
			Where: logql.And(
				logql.Contains(constants.FieldUnit, "ceph-mon"),
				logql.Lte(constants.FieldPriority, 3),
				logql.Regex(constants.FieldMessage, "(error|fail|critical|emergency)"),
			),
			HoursBack: 48,
			Limit:     50,
		},
		{
			ID:          "slow_requests",
			Name:        "Slow Request Analysis",
			Description: "Identify slow operations and blocked requests",
			Where: logql.And(
				logql.Contains(constants.FieldMessage, "slow request"),
				logql.Lte(constants.FieldPriority, 5),
			),
			HoursBack: 12,
			Limit:     200,
		},
		{
			ID:          "pg_issues",
			Name:        "Placement Group Issues",
			Description: "Find PG-related problems: inconsistent, incomplete, degraded",
			Where: logql.And(
				logql.Regex(constants.FieldMessage, "(pg|placement.?group)"),
				logql.Regex(constants.FieldMessage, "(inconsistent|incomplete|degraded|stuck|unclean)"),
				logql.Lte(constants.FieldPriority, 4),
			),
			HoursBack: 72,
			Limit:     100,
		},
		{
			ID:          "network_errors",
			Name:        "Network Connectivity Issues",
			Description: "Detect network timeouts, connection failures, and heartbeat issues",
			Where: logql.And(
				logql.Regex(constants.FieldMessage, "(network|connection|timeout|heartbeat|unreachable)"),
				logql.Lte(constants.FieldPriority, 4),
			),
			HoursBack: 24,
			Limit:     150,
		},
		{
			ID:          "mon_election",
			Name:        "Monitor Election Issues",
			Description: "Check for monitor election problems and quorum issues",
			Where: logql.And(
				logql.Contains(constants.FieldUnit, "ceph-mon"),
				logql.Regex(constants.FieldMessage, "(election|quorum|leader|paxos)"),
				logql.Lte(constants.FieldPriority, 5),
			),
			HoursBack: 24,
			Limit:     100,
		},
		{
			ID:          "storage_errors",
			Name:        "Storage Hardware Errors",
			Description: "Find disk errors, SMART failures, and storage subsystem issues",
			Where: logql.And(
				logql.Regex(constants.FieldMessage, "(disk|storage|smart|hardware|device)"),
				logql.Regex(constants.FieldMessage, "(error|fail|abort|timeout)"),
				logql.Lte(constants.FieldPriority, 4),
			),
			HoursBack: 168, // hardware faults surface slowly, look a week back
			Limit:     100,
		},
		{
			ID:          "kernel_ceph_errors",
			Name:        "Kernel Ceph Issues",
			Description: "Check kernel-level Ceph messages and errors",
			Where: logql.And(
				logql.Eq(constants.FieldTransport, "kernel"),
				logql.Regex(constants.FieldMessage, "(ceph|rbd|rados)"),
				logql.Lte(constants.FieldPriority, 4),
			),
			HoursBack: 48,
			Limit:     100,
		},
		{
			ID:          "rbd_mapping_issues",
			Name:        "RBD Mapping Problems",
			Description: "Find RBD image mapping/unmapping issues and client problems",
			Where: logql.And(
				logql.Contains(constants.FieldMessage, "rbd"),
				logql.Regex(constants.FieldMessage, "(map|unmap|mount|unmount|client)"),
				logql.Lte(constants.FieldPriority, 5),
			),
			HoursBack: 24,
			Limit:     100,
		},
		{
			ID:          "recent_startup",
			Name:        "Recent Service Startups",
			Description: "Check recent Ceph service startups and initialization",
			Where: logql.And(
				logql.Regex(constants.FieldUnit, "ceph-.*"),
				logql.Regex(constants.FieldMessage, "(start|init|boot|mount|active)"),
				logql.Lte(constants.FieldPriority, 6),
			),
			HoursBack: 6,
			Limit:     200,
		},
		{
			ID:          "specific_osd_analysis",
			Name:        "Specific OSD Analysis",
			Description: "Analyze one OSD in depth; pass service (e.g. \"osd.12\") to pick which",
			Where: logql.And(
				logql.Contains(constants.FieldUnit, "ceph-osd@12"),
				logql.Lte(constants.FieldPriority, 5),
			),
			HoursBack: 48,
			Limit:     150,
			Example:   "run with service \"osd.12\" to analyze ceph-osd@12",
		},
		{
			ID:          "mon_specific_debugging",
			Name:        "Monitor Service Debugging",
			Description: "Debug one monitor in depth; pass service (e.g. \"mon.node1\") to pick which",
			Where: logql.And(
				logql.Contains(constants.FieldUnit, "ceph-mon@node1"),
				logql.Lte(constants.FieldPriority, 4),
				logql.Regex(constants.FieldMessage, "(error|warn|fail|election|quorum)"),
			),
			HoursBack: 24,
			Limit:     100,
			Example:   "run with service \"mon.node1\" to debug ceph-mon@node1",
		},
		{
			ID:          "all_ceph_services",
			Name:        "All Ceph Service Activity",
			Description: "Broad sweep over every Ceph daemon type for recent activity",
			Where: logql.And(
				logql.Regex(constants.FieldUnit, "ceph-(osd|mon|mgr|mds|radosgw)@.*"),
				logql.Lte(constants.FieldPriority, 6),
			),
			HoursBack: 12,
			Limit:     100,
			Example:   "run with service \"mgr.node1\" to narrow to one daemon",
		},
	}
}

// FindScenario looks a scenario up by id.
func FindScenario(id string) (Scenario, bool) {
	for _, sc := range Scenarios() {
		if sc.ID == id {
			return sc, true
		}
	}
	return Scenario{}, false
}

// ListDebugScenariosArgs represents the input arguments for the
// list_debug_scenarios tool.
type ListDebugScenariosArgs struct {
	Keyword string `json:"keyword,omitempty"`
}

// scenarioListPayload is the list_debug_scenarios response document.
type scenarioListPayload struct {
	Scenarios []Scenario `json:"scenarios"`
	Count     int        `json:"count"`
}

// NewListDebugScenariosHandler creates a handler for the
// list_debug_scenarios tool. An optional keyword filters the catalog
// by name or description.
func NewListDebugScenariosHandler() func(context.Context, *mcp.CallToolRequest, ListDebugScenariosArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args ListDebugScenariosArgs) (*mcp.CallToolResult, any, error) {
		scenarios := Scenarios()
		if kw := strings.ToLower(strings.TrimSpace(args.Keyword)); kw != "" {
			kept := scenarios[:0]
			for _, sc := range scenarios {
				if strings.Contains(strings.ToLower(sc.Name), kw) ||
					strings.Contains(strings.ToLower(sc.Description), kw) ||
					strings.Contains(sc.ID, kw) {
					kept = append(kept, sc)
				}
			}
			scenarios = kept
		}

		payload := scenarioListPayload{Scenarios: scenarios, Count: len(scenarios)}
		return textResult(payload), nil, nil
	}
}

// RunDebugScenarioArgs represents the input arguments for the
// run_debug_scenario tool.
type RunDebugScenarioArgs struct {
	Scenario  string  `json:"scenario"`
	Service   string  `json:"service,omitempty"`
	HoursBack float64 `json:"hours_back,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

// scenarioRunPayload is the run_debug_scenario response document.
type scenarioRunPayload struct {
	Scenario       string          `json:"scenario"`
	Name           string          `json:"name"`
	CanonicalQuery json.RawMessage `json:"canonical_query"`
	*shaper.Response
}

// NewRunDebugScenarioHandler creates a handler for the
// run_debug_scenario tool. The optional service argument retargets the
// scenario's unit clause (or adds one) after normalizing short forms
// like "osd.12".
func NewRunDebugScenarioHandler(client Executor) func(context.Context, *mcp.CallToolRequest, RunDebugScenarioArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args RunDebugScenarioArgs) (*mcp.CallToolResult, any, error) {
		sc, ok := FindScenario(strings.TrimSpace(args.Scenario))
		if !ok {
			return nil, nil, fmt.Errorf("unknown scenario %q; call list_debug_scenarios for the catalog", args.Scenario)
		}

		where := sc.Where
		if svc := strings.TrimSpace(args.Service); svc != "" {
			unit := ceph.Normalize(svc)
			if replaced, found := retargetUnit(where, unit); found {
				where = replaced
			} else {
				where = logql.And(logql.Contains(constants.FieldUnit, unit), where)
			}
		}

		hours := args.HoursBack
		if hours <= 0 {
			hours = sc.HoursBack
		}
		limit := args.Limit
		if limit <= 0 {
			limit = sc.Limit
		}

		q := &logql.Query{Where: where, HoursBack: hours, Limit: limit}
		result, err := client.Execute(ctx, q)
		if err != nil {
			return nil, nil, fmt.Errorf("run scenario %s: %w", sc.ID, err)
		}

		payload := scenarioRunPayload{
			Scenario:       sc.ID,
			Name:           sc.Name,
			CanonicalQuery: json.RawMessage(q.Key()),
			Response:       shaped(result),
		}
		return textResult(payload), nil, nil
	}
}

// retargetUnit rewrites every unit clause in the tree to match the
// given unit, reporting whether any clause was found. The input tree
// is left untouched.
func retargetUnit(n *logql.Node, unit string) (*logql.Node, bool) {
	if n == nil {
		return nil, false
	}
	if n.Comb != "" {
		found := false
		children := make([]*logql.Node, 0, len(n.Children))
		for _, c := range n.Children {
			rc, f := retargetUnit(c, unit)
			found = found || f
			children = append(children, rc)
		}
		return &logql.Node{Comb: n.Comb, Children: children}, found
	}
	if n.Field == constants.FieldUnit {
		return logql.Contains(constants.FieldUnit, unit), true
	}
	return logql.Pred(n.Field, n.Op, n.Value), false
}
