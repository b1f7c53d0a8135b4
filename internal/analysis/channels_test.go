package analysis

import (
	"strings"
	"testing"

	"cephlog-mcp/internal/models"
)

func channelEntry(channel string, priority int, unit, msg string) models.LogEntry {
	return models.LogEntry{
		Timestamp: summaryBase,
		Priority:  priority,
		Unit:      unit,
		Channel:   channel,
		Message:   msg,
	}
}

func TestAnalyzeChannels(t *testing.T) {
	var entries []models.LogEntry
	for i := 0; i < 7; i++ {
		entries = append(entries, channelEntry("journal", 6, "ceph-osd@1", "journal line"))
	}
	entries = append(entries, channelEntry("kernel", 3, "", "I/O error on dm-0"))
	entries = append(entries, channelEntry("kernel", 4, "", "link down"))
	entries = append(entries, channelEntry("syslog", 6, "cron", "job ran"))

	report := AnalyzeChannels(entries)
	if report.TotalAnalyzed != 10 {
		t.Errorf("TotalAnalyzed = %d, want 10", report.TotalAnalyzed)
	}
	if report.ChannelsFound != 3 {
		t.Errorf("ChannelsFound = %d, want 3", report.ChannelsFound)
	}
	if report.Distribution["journal"] != 7 || report.Distribution["kernel"] != 2 || report.Distribution["syslog"] != 1 {
		t.Errorf("Distribution = %v, want journal:7 kernel:2 syslog:1", report.Distribution)
	}

	kern := report.Details["kernel"]
	if kern == nil {
		t.Fatal("no kernel channel detail")
	}
	if kern.Percentage != 20 {
		t.Errorf("kernel Percentage = %v, want 20", kern.Percentage)
	}
	if kern.PriorityDist[3] != 1 || kern.PriorityDist[4] != 1 {
		t.Errorf("kernel PriorityDist = %v, want one err and one warning", kern.PriorityDist)
	}
	if kern.CriticalCount != 1 {
		t.Errorf("kernel CriticalCount = %d, want 1", kern.CriticalCount)
	}
	if !strings.Contains(report.KernelAdvice, `_TRANSPORT "kernel"`) {
		t.Errorf("KernelAdvice = %q, want direct kernel transport advice", report.KernelAdvice)
	}
}

func TestAnalyzeChannelsCapsSamplesAndServices(t *testing.T) {
	long := strings.Repeat("x", 150)
	var entries []models.LogEntry
	for i := 0; i < 12; i++ {
		entries = append(entries, channelEntry("journal", 6, "unit-"+string(rune('a'+i)), long))
	}

	stat := AnalyzeChannels(entries).Details["journal"]
	if len(stat.Samples) != 3 {
		t.Errorf("got %d samples, want 3", len(stat.Samples))
	}
	for _, s := range stat.Samples {
		if len(s) != 103 || !strings.HasSuffix(s, "...") {
			t.Errorf("sample %q not clipped to 100 chars plus ellipsis", s)
		}
	}
	if len(stat.Services) != 10 {
		t.Errorf("got %d services, want cap of 10", len(stat.Services))
	}
}

func TestAnalyzeChannelsUnknownChannel(t *testing.T) {
	report := AnalyzeChannels([]models.LogEntry{channelEntry("", 6, "ceph-mon@a", "m")})
	if report.Distribution["unknown"] != 1 {
		t.Errorf("Distribution = %v, want blank channel bucketed as unknown", report.Distribution)
	}
}

func TestKernelAdvice(t *testing.T) {
	tests := []struct {
		name     string
		dist     map[string]int
		expected string
	}{
		{"kernel present", map[string]int{"kernel": 3, "journal": 10}, `use _TRANSPORT "kernel"`},
		{"syslog fallback", map[string]int{"syslog": 4, "journal": 10}, `SYSLOG_IDENTIFIER "kernel"`},
		{"journal fallback", map[string]int{"journal": 10}, `try _TRANSPORT "journal"`},
		{"nothing usable", map[string]int{"stdout": 2, "audit": 1}, "available: audit, stdout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := kernelAdvice(tt.dist); !strings.Contains(got, tt.expected) {
				t.Errorf("kernelAdvice(%v) = %q, want substring %q", tt.dist, got, tt.expected)
			}
		})
	}
}

func TestClipKeepsRunesIntact(t *testing.T) {
	s := strings.Repeat("a", 99) + "é" // multibyte rune straddles the cut
	got := clip(s, 100)
	if strings.ContainsRune(got, '�') {
		t.Errorf("clip split a rune: %q", got)
	}
	if got != strings.Repeat("a", 99)+"..." {
		t.Errorf("clip = %q, want cut before the straddling rune", got)
	}
}
