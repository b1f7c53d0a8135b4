// Package analysis derives operational insight from raw log entries:
// per-server activity profiles, origin-channel distribution, and the
// scored summary that ranks what deserves attention first.
package analysis

import (
	"math"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/models"
)

// ServerProfile describes one cluster host's footprint in an entry set.
// Share is the host's percentage of all analyzed entries.
type ServerProfile struct {
	ServerID  string   `json:"server_id"`
	Hostnames []string `json:"hostnames,omitempty"`
	Services  []string `json:"services,omitempty"`
	LogCount  int      `json:"log_count"`
	Share     float64  `json:"share"`
	Activity  string   `json:"activity"`
	Active    bool     `json:"active"`
}

// Activity tiers, a fixed classification over Share.
const (
	ActivityHigh   = "high"
	ActivityMedium = "medium"
	ActivityLow    = "low"
)

// ProfileServers groups entries by host identifier and tallies each
// host's count, distinct hostnames, and distinct services. Entries
// without a server id are ignored. The result is deterministic for a
// given entry order.
func ProfileServers(entries []models.LogEntry) map[string]*ServerProfile {
	profiles := make(map[string]*ServerProfile)
	hostSeen := make(map[string]map[string]bool)
	svcSeen := make(map[string]map[string]bool)

	total := 0
	for _, e := range entries {
		if e.ServerID == "" {
			continue
		}
		total++
		p := profiles[e.ServerID]
		if p == nil {
			p = &ServerProfile{ServerID: e.ServerID}
			profiles[e.ServerID] = p
			hostSeen[e.ServerID] = make(map[string]bool)
			svcSeen[e.ServerID] = make(map[string]bool)
		}
		p.LogCount++
		if e.Hostname != "" && !hostSeen[e.ServerID][e.Hostname] {
			hostSeen[e.ServerID][e.Hostname] = true
			p.Hostnames = append(p.Hostnames, e.Hostname)
		}
		unit := e.Unit
		if unit == "" {
			unit = "unknown"
		}
		if !svcSeen[e.ServerID][unit] {
			svcSeen[e.ServerID][unit] = true
			p.Services = append(p.Services, unit)
		}
	}

	for _, p := range profiles {
		if total > 0 {
			p.Share = math.Round(float64(p.LogCount)/float64(total)*1000) / 10
		}
		p.Activity = activityTier(p.Share)
		p.Active = p.LogCount > constants.DiscoveryMinActiveCount
	}
	return profiles
}

// activityTier buckets a share-of-total percentage. Fixed thresholds,
// deterministic for a given entry set.
func activityTier(share float64) string {
	switch {
	case share >= 25:
		return ActivityHigh
	case share >= 5:
		return ActivityMedium
	default:
		return ActivityLow
	}
}
