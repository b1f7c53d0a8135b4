package logtools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cephlog-mcp/internal/analysis"
)

func TestDiscoverServersPayload(t *testing.T) {
	fake := &fakeExecutor{
		result: resultWith(entriesOf(14, 6)),
		profiles: map[string]*analysis.ServerProfile{
			"srv-a": {
				ServerID:  "srv-a",
				Hostnames: []string{"node1"},
				Services:  []string{"ceph-osd@1.service", "ceph-mon@node1.service"},
				LogCount:  12,
				Share:     85.7,
				Activity:  analysis.ActivityHigh,
				Active:    true,
			},
			"srv-b": {
				ServerID: "srv-b",
				Services: []string{"ceph-mgr@node2.service"},
				LogCount: 2,
				Share:    14.3,
				Activity: analysis.ActivityMedium,
			},
		},
	}
	handler := NewDiscoverServersHandler(fake)

	res, _, err := handler(context.Background(), nil, DiscoverServersArgs{})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	payload := decodePayload(t, res)
	if payload["server_count"] != float64(2) {
		t.Errorf("server_count = %v, want 2", payload["server_count"])
	}
	if payload["most_active"] != "srv-a" {
		t.Errorf("most_active = %v, want srv-a", payload["most_active"])
	}
	if payload["sample_size"] != float64(14) {
		t.Errorf("sample_size = %v, want 14", payload["sample_size"])
	}

	summary, _ := payload["summary"].(string)
	for _, want := range []string{"Detected 2 active server(s)", "srv-a (node1): 12 logs (85.7%), 2 services, active", "srv-b (unknown): 2 logs (14.3%), 1 services, quiet"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestMostActiveServerTieBreak(t *testing.T) {
	profiles := map[string]*analysis.ServerProfile{
		"srv-c": {ServerID: "srv-c", LogCount: 5},
		"srv-a": {ServerID: "srv-a", LogCount: 5},
		"srv-b": {ServerID: "srv-b", LogCount: 3},
	}
	if got := mostActiveServer(profiles); got != "srv-a" {
		t.Errorf("mostActiveServer = %q, want the lexically first of the tied ids", got)
	}
}

func TestServerSummaryEmpty(t *testing.T) {
	if got := serverSummary(nil); got != "No servers detected in recent logs" {
		t.Errorf("serverSummary(nil) = %q", got)
	}
}

func TestDiscoverServersPropagatesError(t *testing.T) {
	fake := &fakeExecutor{err: errors.New("backend down")}
	handler := NewDiscoverServersHandler(fake)

	if _, _, err := handler(context.Background(), nil, DiscoverServersArgs{}); err == nil {
		t.Fatal("expected the backend error to propagate")
	}
}
