package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"cephlog-mcp/internal/models"
)

// ChannelStat describes one origin channel's slice of an entry set.
// CriticalCount totals entries at error severity or worse.
type ChannelStat struct {
	Channel       string      `json:"channel"`
	LogCount      int         `json:"log_count"`
	Percentage    float64     `json:"percentage"`
	PriorityDist  map[int]int `json:"priority_distribution"`
	Services      []string    `json:"services,omitempty"`
	Samples       []string    `json:"sample_messages,omitempty"`
	CriticalCount int         `json:"critical_logs"`
}

// ChannelReport answers "is this class of log even being captured":
// the per-channel distribution plus advice on how to reach kernel logs
// given what the cluster actually ingests.
type ChannelReport struct {
	TotalAnalyzed int                     `json:"total_logs_analyzed"`
	ChannelsFound int                     `json:"channels_found"`
	Distribution  map[string]int          `json:"channel_distribution"`
	Details       map[string]*ChannelStat `json:"channel_details"`
	KernelAdvice  string                  `json:"kernel_advice"`
}

const (
	maxChannelServices = 10
	maxChannelSamples  = 3
	sampleMessageLen   = 100
)

// AnalyzeChannels groups entries by their origin channel and computes
// per-channel counts, percentages, priority distribution, and a few
// sample messages for diagnostic display.
func AnalyzeChannels(entries []models.LogEntry) *ChannelReport {
	report := &ChannelReport{
		TotalAnalyzed: len(entries),
		Distribution:  make(map[string]int),
		Details:       make(map[string]*ChannelStat),
	}

	for _, e := range entries {
		ch := e.Channel
		if ch == "" {
			ch = "unknown"
		}
		report.Distribution[ch]++

		stat := report.Details[ch]
		if stat == nil {
			stat = &ChannelStat{Channel: ch, PriorityDist: make(map[int]int)}
			report.Details[ch] = stat
		}
		stat.LogCount++
		stat.PriorityDist[e.Priority]++
		if e.Priority <= 3 {
			stat.CriticalCount++
		}

		unit := e.Unit
		if unit == "" {
			unit = "unknown"
		}
		if len(stat.Services) < maxChannelServices && !containsString(stat.Services, unit) {
			stat.Services = append(stat.Services, unit)
		}
		if len(stat.Samples) < maxChannelSamples && e.Message != "" {
			stat.Samples = append(stat.Samples, clip(e.Message, sampleMessageLen))
		}
	}

	report.ChannelsFound = len(report.Distribution)
	for _, stat := range report.Details {
		if report.TotalAnalyzed > 0 {
			stat.Percentage = math.Round(float64(stat.LogCount)/float64(report.TotalAnalyzed)*1000) / 10
		}
	}
	report.KernelAdvice = kernelAdvice(report.Distribution)
	return report
}

// kernelAdvice recommends the most promising filter for reaching kernel
// logs given the channels the cluster actually ingests.
func kernelAdvice(dist map[string]int) string {
	switch {
	case dist["kernel"] > 0:
		return "use _TRANSPORT \"kernel\": direct kernel logs are present"
	case dist["syslog"] > 0:
		return "try _TRANSPORT \"syslog\" with SYSLOG_IDENTIFIER \"kernel\": kernel logs likely arrive via syslog"
	case dist["journal"] > 0:
		return "try _TRANSPORT \"journal\": kernel logs may be folded into the journal"
	default:
		channels := make([]string, 0, len(dist))
		for ch := range dist {
			channels = append(channels, ch)
		}
		sort.Strings(channels)
		return fmt.Sprintf("no kernel channel found; available: %s; try SYSLOG_IDENTIFIER filtering instead",
			strings.Join(channels, ", "))
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// clip shortens s to at most max bytes, appending an ellipsis when it
// actually cut something. The cut never splits a multibyte rune.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
