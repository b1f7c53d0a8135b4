package logtools

const SearchLogsDescription = `
Search cluster logs using natural language. The request is parsed into services, severities, keywords, and a time window, then executed against the cluster log backend.

Understands:
- Operational scenarios: "osd failures", "slow requests", "authentication errors", "network problems", "pool full"
- Severity words: "errors", "warnings", "critical", "info"
- Ceph service short forms: "osd.12", "mon.node1", "mgr.a" (translated to systemd unit names automatically)
- Time phrases: "last hour", "past 2 days", "30 minutes ago", "recent"

Parameters:
- query: (Required) Natural language description of what to find, e.g. "osd.12 slow requests in the last 6 hours"
- limit: (Optional) Maximum number of log entries to fetch. Default: 1000.

The response contains the parser's interpretation (so you can rephrase if it misread the request), the exact canonical query sent to the backend, the shaped entry list, and a summary with severity histogram, per-service counts, scored critical events, trends, and recommendations.

Large results are automatically reduced: up to 5 entries are returned in full, up to 50 as a truncated head sample, and anything bigger as critical events plus a small chronological sample. total_count always reflects the full match count.

An unparseable request is not an error: it falls back to a one-hour unfiltered window. Use query_logs when you already know the exact filter tree you want.
`

const QueryLogsDescription = `
Query cluster logs with a structured JSON filter tree. This is the precise counterpart of search_logs for when you know exactly what to filter on.

AVAILABLE FILTER FIELDS:
- _SYSTEMD_UNIT: systemd service unit (string), e.g. "ceph-mon", "ceph-osd@12"
- PRIORITY: syslog priority (integer: 0=emerg, 1=alert, 2=crit, 3=err, 4=warning, 5=notice, 6=info, 7=debug)
- CLUSTER_SERVER_ID: cluster node id (string), e.g. "1", "2"
- CLUSTER_SERVERID: alternative spelling of the node id field; older collectors use this one
- MESSAGE: log message content (string)
- _TRANSPORT: origin channel (string): "kernel", "syslog", "journal"
- _HOSTNAME: server hostname (string)
- SYSLOG_IDENTIFIER: reporting identifier (string), e.g. "kernel", "ceph-osd"

OPERATORS (inside {"FIELD": {"_op": value}}):
- String: _eq, _neq, _contains, _starts_with, _ends_with, _regex
- Numeric: _eq, _neq, _gt, _gte, _lt, _lte
- Sets: _in, _nin (value is a JSON array)
- Existence: _exists, _missing (value is true)
- Combinators: {"_and": [...]}, {"_or": [...]}, {"_not": [...]} with unlimited nesting

EXAMPLES:

Monitor errors on server 1:
{"where": {"_and": [
  {"_SYSTEMD_UNIT": {"_contains": "ceph-mon"}},
  {"PRIORITY": {"_lte": 3}},
  {"CLUSTER_SERVERID": {"_eq": "1"}}
]}}

Kernel logs with full-text search (note _search rides outside the where tree):
{"where": {"_TRANSPORT": {"_eq": "kernel"}}, "_search": "error"}

OSD 12 errors and warnings:
{"where": {"_and": [
  {"_SYSTEMD_UNIT": {"_contains": "ceph-osd@12"}},
  {"PRIORITY": {"_lte": 4}}
]}}

Errors or warnings, excluding heartbeat noise:
{"where": {"_and": [
  {"PRIORITY": {"_in": [3, 4]}},
  {"_not": [{"MESSAGE": {"_contains": "heartbeat"}}]}
]}}

Parameters:
- where: JSON predicate tree (required unless _search is given)
- _search: (Optional) full-text search term layered on top of the tree
- hours_back: (Optional) trailing window in hours. Default: 1. Ignored when timestamps are given.
- start_timestamp / end_timestamp: (Optional) explicit window as unix seconds
- limit: (Optional) maximum entries to fetch. Default: 1000.

An unsupported operator or field predicate shape is rejected with an error naming the offending path. The response echoes the exact canonical query sent to the backend, followed by the shaped result and summary (same shape as search_logs).
`

const SearchErrorsDescription = `
Shortcut: search logs at ERROR severity and worse (PRIORITY <= 3). Equivalent to query_logs with a priority ceiling, tuned defaults, and the full analysis pipeline.

Parameters:
- query: (Optional) full-text term to narrow the search, e.g. "osd" or "timeout"
- hours_back: (Optional) trailing window in hours. Default: 24.
- server_id: (Optional) restrict to one cluster node; both server-id field spellings are matched
- limit: (Optional) maximum entries. Default: 100.
`

const SearchWarningsDescription = `
Shortcut: search logs at WARNING severity and worse (PRIORITY <= 4). Use this for a broader sweep than search_errors when hunting developing problems.

Parameters:
- query: (Optional) full-text term to narrow the search
- hours_back: (Optional) trailing window in hours. Default: 24.
- server_id: (Optional) restrict to one cluster node
- limit: (Optional) maximum entries. Default: 200.
`

const SearchCriticalDescription = `
Shortcut: search logs at CRITICAL severity and worse (PRIORITY <= 2). Looks back 48 hours by default because critical events are rare and often precede the symptom that prompted the search.

Parameters:
- query: (Optional) full-text term to narrow the search
- hours_back: (Optional) trailing window in hours. Default: 48.
- server_id: (Optional) restrict to one cluster node
- limit: (Optional) maximum entries. Default: 50.
`

const DiscoverServersDescription = `
Discover which cluster nodes are emitting logs. Samples the last 24 hours of entries that carry a server id (either field spelling), then profiles each node: hostname(s), services seen, entry count, share of total volume, and an activity tier.

Takes no parameters.

Returns the per-server profiles keyed by server id, the most active node, and a human-readable summary block. Use the discovered ids as CLUSTER_SERVERID filters in query_logs, or as server_id in the severity shortcuts.
`

const AnalyzeLogChannelsDescription = `
Analyze how log entries are distributed across origin channels (journal, syslog, kernel). Samples recent logs without a filter and reports per-channel counts, percentages, priority distribution, reporting services, and short message samples.

Parameters:
- hours_back: (Optional) trailing window in hours. Default: 24.

The report includes kernel-specific advice: which channel or identifier filter will actually reach kernel logs on this cluster. Run this before filtering on _TRANSPORT, since collectors differ in how they label kernel output.
`

const DebugKernelLogsDescription = `
Hunt for kernel logs using four strategies in turn: the direct kernel channel, syslog with the kernel identifier, "kernel" in message content, and hardware/driver message patterns. Clusters differ in how kernel output is ingested; this tool finds out which route works on yours.

Parameters:
- hours_back: (Optional) trailing window in hours. Default: 24.
- limit: (Optional) maximum entries per strategy. Default: 100.

Returns each strategy's outcome (match count, sample messages, channels seen, the exact query used) and a recommendation naming the best strategy, or remediation hints when none found anything. A strategy that fails is recorded and the hunt continues.
`

const CheckLogConditionsDescription = `
Check log conditions instantly (non-blocking snapshot). Each condition is a natural-language phrase, evaluated once against the recent log stream; a condition whose match count reaches the threshold is reported as a triggered alert with sample entries.

USE CASES:
- Quick health checks: "Are there any OSD failures right now?"
- Validation after operations: "Check for errors after pool creation"
- Threshold watching: "Alert if more than 5 slow requests"

Parameters:
- conditions: (Required) list of natural-language conditions, e.g. ["osd failures", "slow requests", "authentication errors"]
- threshold: (Optional) matches needed to trigger an alert. Default: 5.
- time_window: (Optional) window in seconds to check. Default: 300 (last 5 minutes).

Returns one check per condition (count, triggered flag, worst severity seen) plus the triggered alerts with up to 3 sample log entries each. This tool returns immediately; run it again later to observe changes.
`

const ListDebugScenariosDescription = `
List the canned diagnostic scenarios: pre-built queries for common cluster problems (OSD health, monitor elections, slow requests, placement group issues, network trouble, storage hardware, kernel messages, RBD mapping, service startups).

Parameters:
- keyword: (Optional) filter the catalog by id, name, or description

Each entry shows the scenario's id, the filter tree it runs, and its default window and limit. Execute one with run_debug_scenario.
`

const RunDebugScenarioDescription = `
Run one canned diagnostic scenario from the catalog (see list_debug_scenarios) and return the shaped result with summary and recommendations.

Parameters:
- scenario: (Required) scenario id, e.g. "osd_health_check"
- service: (Optional) retarget the scenario to one service; accepts short forms like "osd.12" or "mon.node1", which are translated to systemd unit names
- hours_back: (Optional) override the scenario's default window
- limit: (Optional) override the scenario's default entry ceiling

Example: scenario "specific_osd_analysis" with service "osd.33" analyzes ceph-osd@33 instead of the catalog's default.
`
