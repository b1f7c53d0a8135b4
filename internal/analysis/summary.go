package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"cephlog-mcp/internal/models"
)

// criticalKeywords are high-signal substrings that pull an entry's
// score down (more critical) when they appear in its message.
var criticalKeywords = []string{
	"failed", "error", "crash", "panic", "fatal", "abort", "exception",
	"timeout", "unreachable", "down", "offline", "corruption", "loss",
}

// Keyword penalties and the storage-failure bonus. Scores are negative
// -is-worse: base priority*10, minus penalties.
const (
	keywordPenalty        = 20
	storageFailurePenalty = 15
)

// CriticalEvent is one scored entry retained verbatim in a summary.
// Index is the entry's position in the original chronological slice.
type CriticalEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Priority  string    `json:"priority"`
	Score     int       `json:"score"`
	Preview   string    `json:"message_preview"`
	Index     int       `json:"-"`
}

// HourCount is one trend bucket.
type HourCount struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// Trends aggregates per-hour volume.
type Trends struct {
	HourlyDistribution map[string]int `json:"hourly_distribution"`
	PeakHours          []HourCount    `json:"peak_hours,omitempty"`
	ActiveServices     int            `json:"active_services"`
	BusiestService     string         `json:"busiest_service,omitempty"`
}

// TimeRange is the observed span of an entry set.
type TimeRange struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
}

// SummaryReport is the bounded digest of one entry set.
type SummaryReport struct {
	Summary           string          `json:"summary"`
	TotalLogs         int             `json:"total_logs"`
	PriorityBreakdown map[string]int  `json:"priority_breakdown,omitempty"`
	ServiceBreakdown  map[string]int  `json:"service_breakdown,omitempty"`
	CriticalEvents    []CriticalEvent `json:"critical_events"`
	Trends            *Trends         `json:"trends,omitempty"`
	Recommendations   []string        `json:"recommendations"`
	TimeRange         *TimeRange      `json:"time_range,omitempty"`
}

const (
	topServices      = 10
	topPeakHours     = 3
	previewLen       = 100
	hourBucketFormat = "2006-01-02 15:00"
)

// Summarize builds the report for an entry set: severity and service
// histograms, the maxEvents most critical entries, hourly trends, and
// the recommendations the observed conditions trigger.
func Summarize(entries []models.LogEntry, maxEvents int) *SummaryReport {
	if len(entries) == 0 {
		return &SummaryReport{
			Summary:         "No logs found",
			CriticalEvents:  []CriticalEvent{},
			Recommendations: []string{},
		}
	}

	report := &SummaryReport{
		TotalLogs:         len(entries),
		PriorityBreakdown: priorityBreakdown(entries),
		ServiceBreakdown:  serviceBreakdown(entries),
		CriticalEvents:    criticalEvents(entries, maxEvents),
		Trends:            analyzeTrends(entries),
		TimeRange:         observedRange(entries),
	}
	report.Summary = summaryText(report)
	report.Recommendations = recommendations(report, entries)
	return report
}

func priorityBreakdown(entries []models.LogEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[models.PriorityName(e.Priority)]++
	}
	return counts
}

// serviceBreakdown keeps the ten busiest units.
func serviceBreakdown(entries []models.LogEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[unitOrUnknown(e)]++
	}
	if len(counts) <= topServices {
		return counts
	}

	type unitCount struct {
		unit  string
		count int
	}
	ranked := make([]unitCount, 0, len(counts))
	for u, c := range counts {
		ranked = append(ranked, unitCount{u, c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].unit < ranked[j].unit
	})

	top := make(map[string]int, topServices)
	for _, uc := range ranked[:topServices] {
		top[uc.unit] = uc.count
	}
	return top
}

// Score computes an entry's criticality: more negative is more
// critical. Base is priority*10; each critical keyword in the message
// subtracts keywordPenalty, and a storage daemon failure subtracts
// storageFailurePenalty on top.
func Score(e models.LogEntry) int {
	score := e.Priority * 10
	lower := strings.ToLower(e.Message)
	for _, kw := range criticalKeywords {
		if strings.Contains(lower, kw) {
			score -= keywordPenalty
		}
	}
	if strings.Contains(lower, "osd") &&
		(strings.Contains(lower, "failed") || strings.Contains(lower, "down") || strings.Contains(lower, "crash")) {
		score -= storageFailurePenalty
	}
	return score
}

// criticalEvents scores every entry, sorts ascending, and keeps the top
// maxEvents. The sort is stable so ties keep chronological order.
func criticalEvents(entries []models.LogEntry, maxEvents int) []CriticalEvent {
	if maxEvents <= 0 {
		return []CriticalEvent{}
	}

	events := make([]CriticalEvent, 0, len(entries))
	for i, e := range entries {
		events = append(events, CriticalEvent{
			Timestamp: e.Timestamp,
			Service:   unitOrUnknown(e),
			Priority:  models.PriorityName(e.Priority),
			Score:     Score(e),
			Preview:   clip(e.Message, previewLen),
			Index:     i,
		})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Score < events[j].Score })

	if len(events) > maxEvents {
		events = events[:maxEvents]
	}
	return events
}

func analyzeTrends(entries []models.LogEntry) *Trends {
	hourly := make(map[string]int)
	perService := make(map[string]int)

	for _, e := range entries {
		if !e.Timestamp.IsZero() {
			hourly[e.Timestamp.Format(hourBucketFormat)]++
		}
		perService[unitOrUnknown(e)]++
	}

	trends := &Trends{
		HourlyDistribution: hourly,
		ActiveServices:     len(perService),
		BusiestService:     busiest(perService),
	}

	buckets := make([]HourCount, 0, len(hourly))
	for h, c := range hourly {
		buckets = append(buckets, HourCount{Hour: h, Count: c})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Hour < buckets[j].Hour
	})
	if len(buckets) > topPeakHours {
		buckets = buckets[:topPeakHours]
	}
	trends.PeakHours = buckets
	return trends
}

// busiest picks the unit with the highest count, breaking ties by name
// so the result is deterministic.
func busiest(counts map[string]int) string {
	best, bestCount := "", -1
	for u, c := range counts {
		if c > bestCount || (c == bestCount && u < best) {
			best, bestCount = u, c
		}
	}
	return best
}

func observedRange(entries []models.LogEntry) *TimeRange {
	var start, end time.Time
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			continue
		}
		if start.IsZero() || e.Timestamp.Before(start) {
			start = e.Timestamp
		}
		if end.IsZero() || e.Timestamp.After(end) {
			end = e.Timestamp
		}
	}
	if start.IsZero() {
		return nil
	}
	hours := math.Round(end.Sub(start).Hours()*100) / 100
	return &TimeRange{Start: start, End: end, DurationHours: hours}
}

func summaryText(r *SummaryReport) string {
	lines := []string{fmt.Sprintf("Log analysis summary: %d total entries", r.TotalLogs)}

	critical := r.PriorityBreakdown["EMERGENCY"] + r.PriorityBreakdown["ALERT"] + r.PriorityBreakdown["CRITICAL"]
	if critical > 0 {
		lines = append(lines, fmt.Sprintf("%d critical/emergency events", critical))
	}
	if n := r.PriorityBreakdown["ERROR"]; n > 0 {
		lines = append(lines, fmt.Sprintf("%d errors", n))
	}
	if n := r.PriorityBreakdown["WARNING"]; n > 0 {
		lines = append(lines, fmt.Sprintf("%d warnings", n))
	}
	if r.Trends != nil && r.Trends.BusiestService != "" {
		lines = append(lines, fmt.Sprintf("Most active: %s", r.Trends.BusiestService))
	}
	if len(r.CriticalEvents) > 0 {
		lines = append(lines, fmt.Sprintf("%d high-priority events identified", len(r.CriticalEvents)))
	}
	return strings.Join(lines, "\n")
}

func unitOrUnknown(e models.LogEntry) string {
	if e.Unit != "" {
		return e.Unit
	}
	return "unknown"
}
