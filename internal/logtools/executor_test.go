package logtools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cephlog-mcp/internal/analysis"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// fakeExecutor is a canned backend for handler tests. Results are
// served from the results queue when present, else from result; every
// received query is recorded.
type fakeExecutor struct {
	result   *models.SearchResult
	results  []*models.SearchResult
	err      error
	profiles map[string]*analysis.ServerProfile

	queries  []*logql.Query
	ceilings []int
}

func (f *fakeExecutor) Execute(ctx context.Context, q *logql.Query) (*models.SearchResult, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	if len(f.results) > 0 {
		r := f.results[0]
		f.results = f.results[1:]
		return r, nil
	}
	return f.result, nil
}

func (f *fakeExecutor) ExecuteAtSeverity(ctx context.Context, q *logql.Query, maxSeverity int) (*models.SearchResult, error) {
	f.ceilings = append(f.ceilings, maxSeverity)
	return f.Execute(ctx, q)
}

func (f *fakeExecutor) DiscoverServers(ctx context.Context) (map[string]*analysis.ServerProfile, *models.SearchResult, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.profiles, f.result, nil
}

// entriesOf builds n entries at the given priority, one minute apart.
func entriesOf(n, priority int) []models.LogEntry {
	base := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	entries := make([]models.LogEntry, n)
	for i := range entries {
		entries[i] = models.LogEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Priority:  priority,
			Unit:      "ceph-osd@1.service",
			Message:   "entry",
		}
	}
	return entries
}

func resultWith(entries []models.LogEntry) *models.SearchResult {
	return &models.SearchResult{
		Entries:    entries,
		TotalCount: len(entries),
		Transport:  models.TransportWebsocket,
	}
}

// callText extracts the JSON text payload of a tool result.
func callText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) != 1 {
		t.Fatalf("expected exactly one content item, got %+v", res)
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

// decodePayload unmarshals a tool result's JSON text into a generic map.
func decodePayload(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal([]byte(callText(t, res)), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	return payload
}
