package models

import "time"

// LogEntry is one journald-shaped record returned by the cluster API.
// Attrs keeps any record fields beyond the well-known set.
type LogEntry struct {
	Timestamp time.Time         `json:"timestamp"`
	Priority  int               `json:"priority"`
	Unit      string            `json:"unit,omitempty"`
	Hostname  string            `json:"hostname,omitempty"`
	ServerID  string            `json:"server_id,omitempty"`
	Channel   string            `json:"channel,omitempty"`
	Message   string            `json:"message"`
	Excerpt   bool              `json:"excerpt,omitempty"`
	Attrs     map[string]string `json:"attrs,omitempty"`
}

// SearchResult is the raw outcome of one executed query, before any
// analysis or shaping. TotalCount is the backend's reported hit count
// when known, otherwise len(Entries).
type SearchResult struct {
	Entries     []LogEntry
	TotalCount  int
	Partial     bool // stream ended before all reported hits arrived
	NoMatches   bool // backend reported zero hits; not an error
	Transport   string
	Elapsed     time.Duration
	CacheHit    bool
	ExecutionID string
	Malformed   int // records dropped during decode
}

// Transport identifiers recorded on SearchResult.
const (
	TransportWebsocket = "websocket"
	TransportBulk      = "bulk"
	TransportCache     = "cache"
)

var priorityNames = [8]string{
	"EMERGENCY", "ALERT", "CRITICAL", "ERROR",
	"WARNING", "NOTICE", "INFO", "DEBUG",
}

// PriorityName maps a syslog priority (0-7) to its conventional name.
// Out-of-range values report as UNKNOWN.
func PriorityName(p int) string {
	if p < 0 || p >= len(priorityNames) {
		return "UNKNOWN"
	}
	return priorityNames[p]
}
