// Package shaper bounds a query result for caller consumption. Small
// result sets pass through untouched, medium ones are cut to a fixed
// cap, and large ones collapse to a summary with a handful of
// representative entries. Whatever the mode, the response states how
// many entries existed and how many came back.
package shaper

import (
	"fmt"
	"unicode/utf8"

	"cephlog-mcp/internal/analysis"
	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/models"
)

// Budget carries the thresholds one Shape call works under. Handlers
// use DefaultBudget; tests inject smaller numbers.
type Budget struct {
	Small          int // at or under this many entries: pass through
	Medium         int // at or under this many entries: truncate
	TruncateTo     int
	MaxMessageLen  int
	CriticalEvents int
	SampleItems    int
}

// DefaultBudget returns the production thresholds.
func DefaultBudget() Budget {
	return Budget{
		Small:          constants.SmallResponseThreshold,
		Medium:         constants.MediumResponseThreshold,
		TruncateTo:     constants.TruncateToItems,
		MaxMessageLen:  constants.MaxLogMessageLength,
		CriticalEvents: constants.MaxCriticalEvents,
		SampleItems:    constants.MaxSampleItems,
	}
}

// Shaping modes recorded on Response.Mode.
const (
	ModeFull      = "full"
	ModeTruncated = "truncated"
	ModeSummary   = "summary"
)

// Truncation tells the caller what the shaper cut, in plain numbers.
type Truncation struct {
	OriginalCount int    `json:"original_count"`
	ReturnedCount int    `json:"returned_count"`
	Note          string `json:"note"`
}

// Execution is the metadata that rides along with every response.
type Execution struct {
	Transport   string `json:"transport"`
	ElapsedMS   int64  `json:"elapsed_ms"`
	CacheHit    bool   `json:"cache_hit"`
	ExecutionID string `json:"execution_id,omitempty"`
	Malformed   int    `json:"malformed_records,omitempty"`
}

// Response is the bounded, caller-facing payload: the shaped entry
// list plus whatever analysis the handler ran over the raw set.
type Response struct {
	Mode          string                             `json:"mode"`
	Entries       []models.LogEntry                  `json:"entries"`
	TotalCount    int                                `json:"total_count"`
	ReturnedCount int                                `json:"returned_count"`
	Truncated     bool                               `json:"truncated"`
	Truncation    *Truncation                        `json:"truncation,omitempty"`
	NoMatches     bool                               `json:"no_matches"`
	Partial       bool                               `json:"partial,omitempty"`
	Summary       *analysis.SummaryReport            `json:"summary,omitempty"`
	Servers       map[string]*analysis.ServerProfile `json:"servers,omitempty"`
	Channels      *analysis.ChannelReport            `json:"channels,omitempty"`
	Execution     Execution                          `json:"execution"`
}

// Shape applies the size budget to one execution's raw result. The
// report, profiles, and channels arguments are attached as-is and may
// be nil when the calling tool did not run that analysis.
func Shape(result *models.SearchResult, report *analysis.SummaryReport, profiles map[string]*analysis.ServerProfile, channels *analysis.ChannelReport, budget Budget) *Response {
	resp := &Response{
		TotalCount: result.TotalCount,
		NoMatches:  result.NoMatches,
		Partial:    result.Partial,
		Summary:    report,
		Servers:    profiles,
		Channels:   channels,
		Execution: Execution{
			Transport:   result.Transport,
			ElapsedMS:   result.Elapsed.Milliseconds(),
			CacheHit:    result.CacheHit,
			ExecutionID: result.ExecutionID,
			Malformed:   result.Malformed,
		},
	}

	n := len(result.Entries)
	if resp.TotalCount < n {
		resp.TotalCount = n
	}

	switch {
	case n <= budget.Small:
		resp.Mode = ModeFull
		resp.Entries = append([]models.LogEntry{}, result.Entries...)
	case n <= budget.Medium:
		resp.Mode = ModeTruncated
		kept := result.Entries
		if len(kept) > budget.TruncateTo {
			kept = kept[:budget.TruncateTo]
		}
		resp.Entries = capMessages(kept, budget.MaxMessageLen)
		resp.Truncation = &Truncation{
			OriginalCount: n,
			ReturnedCount: len(resp.Entries),
			Note: fmt.Sprintf("showing first %d of %d entries in original order; narrow the query or lower the limit for full detail",
				len(resp.Entries), n),
		}
	default:
		resp.Mode = ModeSummary
		resp.Entries = capMessages(summaryEntries(result.Entries, report, budget), budget.MaxMessageLen)
		resp.Truncation = &Truncation{
			OriginalCount: n,
			ReturnedCount: len(resp.Entries),
			Note: fmt.Sprintf("summarized %d entries: returning the most critical events plus a chronological sample; see summary for aggregates",
				n),
		}
	}

	resp.ReturnedCount = len(resp.Entries)
	resp.Truncated = resp.ReturnedCount < resp.TotalCount
	return resp
}

// summaryEntries picks the entries worth returning verbatim from a
// large set: the top critical events by score, then the first few
// chronological entries not already picked.
func summaryEntries(entries []models.LogEntry, report *analysis.SummaryReport, budget Budget) []models.LogEntry {
	picked := make(map[int]bool)
	out := make([]models.LogEntry, 0, budget.CriticalEvents+budget.SampleItems)

	if report != nil {
		for i, ev := range report.CriticalEvents {
			if i >= budget.CriticalEvents {
				break
			}
			if ev.Index < 0 || ev.Index >= len(entries) || picked[ev.Index] {
				continue
			}
			picked[ev.Index] = true
			out = append(out, entries[ev.Index])
		}
	}

	sampled := 0
	for i := range entries {
		if sampled >= budget.SampleItems {
			break
		}
		if picked[i] {
			continue
		}
		picked[i] = true
		out = append(out, entries[i])
		sampled++
	}
	return out
}

// capMessages copies the entries, shortening any message over max and
// flagging the copy as an excerpt.
func capMessages(entries []models.LogEntry, max int) []models.LogEntry {
	out := make([]models.LogEntry, len(entries))
	copy(out, entries)
	if max <= 0 {
		return out
	}
	for i := range out {
		if len(out[i].Message) > max {
			cut := max
			for cut > 0 && !utf8.RuneStart(out[i].Message[cut]) {
				cut--
			}
			out[i].Message = out[i].Message[:cut] + constants.TruncationMarker
			out[i].Excerpt = true
		}
	}
	return out
}
