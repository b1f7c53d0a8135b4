package logtools

import (
	"context"
	"testing"

	"cephlog-mcp/internal/models"
)

func TestCheckLogConditionsRequiresConditions(t *testing.T) {
	fake := &fakeExecutor{result: resultWith(nil)}
	handler := NewCheckLogConditionsHandler(fake)

	if _, _, err := handler(context.Background(), nil, CheckLogConditionsArgs{}); err == nil {
		t.Fatal("expected an error for an empty condition list")
	}
	if _, _, err := handler(context.Background(), nil, CheckLogConditionsArgs{
		Conditions: []string{"osd failures", "  "},
	}); err == nil {
		t.Fatal("expected an error for a blank condition")
	}
}

func TestCheckLogConditionsTriggersAlerts(t *testing.T) {
	fake := &fakeExecutor{
		results: []*models.SearchResult{
			resultWith(entriesOf(6, 3)),
			resultWith(entriesOf(1, 4)),
		},
	}
	handler := NewCheckLogConditionsHandler(fake)

	res, _, err := handler(context.Background(), nil, CheckLogConditionsArgs{
		Conditions: []string{"osd failures", "slow requests"},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	payload := decodePayload(t, res)
	checks, _ := payload["checks"].([]any)
	if len(checks) != 2 {
		t.Fatalf("checks = %d, want 2", len(checks))
	}

	first, _ := checks[0].(map[string]any)
	if first["triggered"] != true || first["count"] != float64(6) {
		t.Errorf("first check = %v, want triggered with count 6", first)
	}
	if first["severity"] != "error" {
		t.Errorf("first check severity = %v, want error", first["severity"])
	}
	second, _ := checks[1].(map[string]any)
	if second["triggered"] == true {
		t.Errorf("second check should stay below the default threshold: %v", second)
	}

	alerts, _ := payload["alerts"].([]any)
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(alerts))
	}
	alert, _ := alerts[0].(map[string]any)
	if alert["condition"] != "osd failures" {
		t.Errorf("alert condition = %v", alert["condition"])
	}
	samples, _ := alert["sample_logs"].([]any)
	if len(samples) != 3 {
		t.Errorf("sample_logs capped at 3, got %d", len(samples))
	}

	if payload["summary"] != "1 of 2 conditions triggered" {
		t.Errorf("summary = %v", payload["summary"])
	}
	if payload["time_window"] != "last 300 seconds" {
		t.Errorf("time_window = %v, want the default window", payload["time_window"])
	}
	if payload["recommendation"] != "run again later to check for changes" {
		t.Errorf("recommendation = %v", payload["recommendation"])
	}
}

func TestCheckLogConditionsAllClear(t *testing.T) {
	fake := &fakeExecutor{result: resultWith(nil)}
	handler := NewCheckLogConditionsHandler(fake)

	res, _, err := handler(context.Background(), nil, CheckLogConditionsArgs{
		Conditions: []string{"auth failures"},
	})
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	payload := decodePayload(t, res)
	if payload["recommendation"] != "all clear" {
		t.Errorf("recommendation = %v, want all clear", payload["recommendation"])
	}
	if payload["alerts"] != nil {
		t.Errorf("alerts = %v, want none", payload["alerts"])
	}
	checks, _ := payload["checks"].([]any)
	check, _ := checks[0].(map[string]any)
	if check["severity"] != "none" {
		t.Errorf("severity = %v, want none for an empty match set", check["severity"])
	}
}

func TestCheckLogConditionsPinsWindow(t *testing.T) {
	fake := &fakeExecutor{result: resultWith(nil)}
	handler := NewCheckLogConditionsHandler(fake)

	if _, _, err := handler(context.Background(), nil, CheckLogConditionsArgs{
		Conditions: []string{"disk errors in the last hour"},
		TimeWindow: 60,
	}); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	q := fake.queries[0]
	if q.End-q.Start != 60 {
		t.Errorf("window = [%d, %d]: the explicit time_window must override the condition's own phrase", q.Start, q.End)
	}
	if q.Limit != conditionSampleLimit {
		t.Errorf("Limit = %d, want %d", q.Limit, conditionSampleLimit)
	}
}
