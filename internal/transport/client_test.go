package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"
)

type fakeStreamer struct {
	result *StreamResult
	err    error
	calls  int
	last   *logql.Query
}

func (f *fakeStreamer) Stream(ctx context.Context, q *logql.Query) (*StreamResult, error) {
	f.calls++
	f.last = q
	return f.result, f.err
}

type fakeBulk struct {
	result *BulkResult
	err    error
	calls  int
}

func (f *fakeBulk) Export(ctx context.Context, q *logql.Query) (*BulkResult, error) {
	f.calls++
	return f.result, f.err
}

func newTestClient(streamer Streamer, bulk BulkExporter) *Client {
	return &Client{
		streamer: streamer,
		bulk:     bulk,
		cache:    NewResponseCache(constants.MaxCacheEntries, constants.LogCacheTTL),
		limiter:  rate.NewLimiter(rate.Inf, 1),
		log:      zerolog.Nop(),
	}
}

func clientQuery() *logql.Query {
	return &logql.Query{Where: logql.Contains(constants.FieldUnit, "ceph-osd@12"), HoursBack: 1}
}

func streamedEntries(n int) []models.LogEntry {
	entries := make([]models.LogEntry, n)
	for i := range entries {
		entries[i] = models.LogEntry{
			Timestamp: time.Date(2025, 6, 10, 9, 0, i, 0, time.UTC),
			Priority:  6,
			Unit:      "ceph-osd@12",
			Message:   "m",
		}
	}
	return entries
}

func TestExecutePrefersStreaming(t *testing.T) {
	streamer := &fakeStreamer{result: &StreamResult{Entries: streamedEntries(3), Hits: 3, HitsKnown: true}}
	bulk := &fakeBulk{}
	client := newTestClient(streamer, bulk)

	result, err := client.Execute(context.Background(), clientQuery())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Transport != models.TransportWebsocket {
		t.Errorf("Transport = %q, want websocket", result.Transport)
	}
	if result.TotalCount != 3 || len(result.Entries) != 3 {
		t.Errorf("counts = %d/%d, want 3/3", result.TotalCount, len(result.Entries))
	}
	if result.Partial {
		t.Error("complete result flagged partial")
	}
	if result.ExecutionID == "" {
		t.Error("no execution id assigned")
	}
	if bulk.calls != 0 {
		t.Errorf("bulk transport called %d times, want 0", bulk.calls)
	}
}

func TestExecuteFallsBackWhenTooBroad(t *testing.T) {
	streamer := &fakeStreamer{err: &Error{Kind: KindTooBroad, Transport: models.TransportWebsocket, Stage: "control"}}
	bulk := &fakeBulk{result: &BulkResult{Entries: streamedEntries(2)}}
	client := newTestClient(streamer, bulk)

	result, err := client.Execute(context.Background(), clientQuery())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Transport != models.TransportBulk {
		t.Errorf("Transport = %q, want bulk after fallback", result.Transport)
	}
	if streamer.calls != 1 || bulk.calls != 1 {
		t.Errorf("stream/bulk calls = %d/%d, want exactly one each", streamer.calls, bulk.calls)
	}
}

func TestExecuteFallsBackOnTimeout(t *testing.T) {
	streamer := &fakeStreamer{err: &Error{Kind: KindTimeout, Transport: models.TransportWebsocket, Stage: "control"}}
	bulk := &fakeBulk{result: &BulkResult{Entries: streamedEntries(1)}}
	client := newTestClient(streamer, bulk)

	result, err := client.Execute(context.Background(), clientQuery())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if result.Transport != models.TransportBulk {
		t.Errorf("Transport = %q, want bulk after timeout fallback", result.Transport)
	}
}

func TestExecuteNeverRetriesStreaming(t *testing.T) {
	streamer := &fakeStreamer{err: &Error{Kind: KindFailure, Transport: models.TransportWebsocket, Stage: "dial"}}
	bulk := &fakeBulk{err: &Error{Kind: KindTimeout, Transport: models.TransportBulk, Stage: "export"}}
	client := newTestClient(streamer, bulk)

	_, err := client.Execute(context.Background(), clientQuery())
	if !IsTimeout(err) {
		t.Fatalf("Execute() error = %v, want the bulk timeout surfaced", err)
	}
	if streamer.calls != 1 || bulk.calls != 1 {
		t.Errorf("stream/bulk calls = %d/%d, want one each and no retries", streamer.calls, bulk.calls)
	}
}

func TestExecuteAuthFailureIsFatal(t *testing.T) {
	streamer := &fakeStreamer{err: &Error{Kind: KindAuth, Transport: models.TransportWebsocket, Stage: "handshake"}}
	bulk := &fakeBulk{}
	client := newTestClient(streamer, bulk)

	_, err := client.Execute(context.Background(), clientQuery())
	if !IsAuth(err) {
		t.Fatalf("Execute() error = %v, want auth failure", err)
	}
	if bulk.calls != 0 {
		t.Error("bulk transport tried with credentials the backend already rejected")
	}
}

func TestExecuteBackendErrorIsFatal(t *testing.T) {
	streamer := &fakeStreamer{err: &Error{Kind: KindBackend, Transport: models.TransportWebsocket, Stage: "control", Err: errors.New("bad query")}}
	bulk := &fakeBulk{}
	client := newTestClient(streamer, bulk)

	_, err := client.Execute(context.Background(), clientQuery())
	if !isBackend(err) {
		t.Fatalf("Execute() error = %v, want backend error", err)
	}
	if bulk.calls != 0 {
		t.Error("bulk transport tried for a query the backend rejected")
	}
}

func TestExecuteServesSecondCallFromCache(t *testing.T) {
	streamer := &fakeStreamer{result: &StreamResult{Entries: streamedEntries(2), Hits: 2, HitsKnown: true}}
	client := newTestClient(streamer, &fakeBulk{})

	first, err := client.Execute(context.Background(), clientQuery())
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}

	// A structurally identical but freshly built query must hit.
	second, err := client.Execute(context.Background(), clientQuery())
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheHit || second.Transport != models.TransportCache {
		t.Errorf("second result = %q/%v, want cache transport", second.Transport, second.CacheHit)
	}
	if streamer.calls != 1 {
		t.Errorf("streamer called %d times, want network I/O only once", streamer.calls)
	}
	if len(second.Entries) != len(first.Entries) || second.TotalCount != first.TotalCount {
		t.Errorf("cached result differs: %d/%d vs %d/%d",
			len(second.Entries), second.TotalCount, len(first.Entries), first.TotalCount)
	}
	if first.CacheHit {
		t.Error("first result retroactively flagged as cache hit")
	}
}

func TestExecuteRejectsInvalidQuery(t *testing.T) {
	streamer := &fakeStreamer{}
	client := newTestClient(streamer, &fakeBulk{})

	q := clientQuery()
	q.Limit = -5
	if _, err := client.Execute(context.Background(), q); err == nil {
		t.Fatal("negative limit accepted")
	}
	if streamer.calls != 0 {
		t.Error("transport touched for a query that failed validation")
	}
}

func TestExecuteAtSeverityAddsCeiling(t *testing.T) {
	streamer := &fakeStreamer{result: &StreamResult{}}
	client := newTestClient(streamer, &fakeBulk{})

	base := clientQuery()
	if _, err := client.ExecuteAtSeverity(context.Background(), base, 3); err != nil {
		t.Fatalf("ExecuteAtSeverity() error: %v", err)
	}

	expected := logql.And(
		logql.Contains(constants.FieldUnit, "ceph-osd@12"),
		logql.Lte(constants.FieldPriority, 3),
	)
	if !logql.Equal(streamer.last.Where, expected) {
		t.Errorf("executed tree does not carry the severity ceiling")
	}
	if !logql.Equal(base.Where, logql.Contains(constants.FieldUnit, "ceph-osd@12")) {
		t.Error("caller's query was modified")
	}
}

func TestDiscoverServers(t *testing.T) {
	entries := []models.LogEntry{
		{Timestamp: time.Now(), Priority: 6, Unit: "ceph-osd@1", Hostname: "node-a", ServerID: "1", Message: "m"},
		{Timestamp: time.Now(), Priority: 6, Unit: "ceph-mon@b", Hostname: "node-b", ServerID: "2", Message: "m"},
		{Timestamp: time.Now(), Priority: 6, Unit: "ceph-osd@1", Hostname: "node-a", ServerID: "1", Message: "m"},
	}
	streamer := &fakeStreamer{result: &StreamResult{Entries: entries, Hits: 3, HitsKnown: true}}
	client := newTestClient(streamer, &fakeBulk{})

	profiles, result, err := client.DiscoverServers(context.Background())
	if err != nil {
		t.Fatalf("DiscoverServers() error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("got %d profiles, want 2", len(profiles))
	}
	if profiles["1"].LogCount != 2 {
		t.Errorf("server 1 LogCount = %d, want 2", profiles["1"].LogCount)
	}
	if result.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", result.TotalCount)
	}

	expected := logql.Or(
		logql.Exists(constants.FieldServerID),
		logql.Exists(constants.FieldServerIDAlt),
	)
	if !logql.Equal(streamer.last.Where, expected) {
		t.Error("discovery query does not probe both server id spellings")
	}
	if streamer.last.HoursBack != constants.DiscoveryHoursBack {
		t.Errorf("HoursBack = %v, want %v", streamer.last.HoursBack, constants.DiscoveryHoursBack)
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != constants.EndpointClusterStatus {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get(constants.HeaderAuthorization) != "Bearer secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	good := NewClient(models.Config{APIToken: "secret", BaseURL: srv.URL}, zerolog.Nop())
	if err := good.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error: %v", err)
	}

	bad := NewClient(models.Config{APIToken: "nope", BaseURL: srv.URL}, zerolog.Nop())
	if err := bad.Ping(context.Background()); !IsAuth(err) {
		t.Errorf("Ping() error = %v, want auth failure", err)
	}
}
