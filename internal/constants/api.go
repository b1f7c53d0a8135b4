package constants

import "time"

// API Endpoints
const (
	// Log API endpoints. EndpointLogStream is a websocket endpoint; the
	// scheme is rewritten to ws/wss at dial time.
	EndpointLogStream = "/api/logs"
	EndpointLogExport = "/api/logs/export"

	// Health/status endpoint used by connectivity checks.
	EndpointClusterStatus = "/api/status"
)

// HTTP Headers
const (
	HeaderAccept          = "Accept"
	HeaderContentType     = "Content-Type"
	HeaderAuthorization   = "Authorization"
	HeaderUserAgent       = "User-Agent"
	HeaderContentTypeJSON = "application/json"
	HeaderAcceptZIP       = "application/zip"
)

// Bearer token prefix
const BearerPrefix = "Bearer "

// User Agent
const UserAgentCephlogMCP = "Cephlog-MCP-Server/1.0"

// Journald record fields as the cluster API emits them. ServerID carries
// the cluster's own host identifier; ServerIDAlt is the spelling older
// backends used, read but never written.
const (
	FieldMessage       = "MESSAGE"
	FieldPriority      = "PRIORITY"
	FieldUnit          = "_SYSTEMD_UNIT"
	FieldTransport     = "_TRANSPORT"
	FieldHostname      = "_HOSTNAME"
	FieldSyslogID      = "SYSLOG_IDENTIFIER"
	FieldServerID      = "CLUSTER_SERVER_ID"
	FieldServerIDAlt   = "CLUSTER_SERVERID"
	FieldRealtimeStamp = "__REALTIME_TIMESTAMP"
	FieldTimestamp     = "timestamp"
)

// Streaming control tokens sent by the backend before any records.
const (
	ControlClear   = "clear"
	ControlEmpty   = "empty"
	ControlTooWide = "too_wide"
	ControlHits    = "hits:"
	ControlError   = "error:"
)

// Transport timeouts
const (
	StreamHandshakeTimeout = 10 * time.Second
	StreamControlTimeout   = 30 * time.Second
	StreamReadTimeout      = 5 * time.Second
	BulkExportTimeout      = 120 * time.Second
	APIRequestTimeout      = 30 * time.Second
)

// Query limits
const (
	DefaultLogLimit    = 1000
	MaxLogEntries      = 10000
	DefaultHoursBack   = 1
	MaxHoursBack       = 168 // 7 days
	AnalysisSampleSize = 10000
	MediumSampleSize   = 2000
)

// Response cache
const (
	LogCacheTTL     = 300 * time.Second
	MaxCacheEntries = 100
)

// Response shaping thresholds. Responses at or under Small pass through
// whole; under Medium they are truncated to TruncateToItems; anything
// larger is summarized.
const (
	SmallResponseThreshold  = 5
	MediumResponseThreshold = 50
	TruncateToItems         = 25
	MaxSampleItems          = 3
	MaxCriticalEvents       = 5
	MaxLogMessageLength     = 200
	TruncationMarker        = "...[truncated]"
)

// Server discovery
const (
	DiscoveryHoursBack      = 24
	DiscoveryMinActiveCount = 10
)
