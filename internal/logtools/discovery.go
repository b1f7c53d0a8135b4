package logtools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cephlog-mcp/internal/analysis"
	"cephlog-mcp/internal/constants"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DiscoverServersArgs represents the input arguments for the
// discover_servers tool. The tool takes no parameters; the sample
// window and size are fixed.
type DiscoverServersArgs struct{}

// discoveryPayload is the discover_servers response document.
type discoveryPayload struct {
	Servers     map[string]*analysis.ServerProfile `json:"servers"`
	ServerCount int                                `json:"server_count"`
	MostActive  string                             `json:"most_active,omitempty"`
	SampleSize  int                                `json:"sample_size"`
	HoursBack   float64                            `json:"hours_back"`
	Summary     string                             `json:"summary"`
}

// NewDiscoverServersHandler creates a handler for the discover_servers
// tool, which samples recent logs and profiles the hosts they came from.
func NewDiscoverServersHandler(client Executor) func(context.Context, *mcp.CallToolRequest, DiscoverServersArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args DiscoverServersArgs) (*mcp.CallToolResult, any, error) {
		profiles, result, err := client.DiscoverServers(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("discover servers: %w", err)
		}

		payload := discoveryPayload{
			Servers:     profiles,
			ServerCount: len(profiles),
			MostActive:  mostActiveServer(profiles),
			SampleSize:  len(result.Entries),
			HoursBack:   constants.DiscoveryHoursBack,
			Summary:     serverSummary(profiles),
		}
		return textResult(payload), nil, nil
	}
}

// mostActiveServer returns the id of the profile with the highest
// entry count, breaking ties by id so the answer is stable.
func mostActiveServer(profiles map[string]*analysis.ServerProfile) string {
	best := ""
	for id, p := range profiles {
		if best == "" || p.LogCount > profiles[best].LogCount ||
			(p.LogCount == profiles[best].LogCount && id < best) {
			best = id
		}
	}
	return best
}

// serverSummary renders the profiles as one readable block, ordered by
// server id.
func serverSummary(profiles map[string]*analysis.ServerProfile) string {
	if len(profiles) == 0 {
		return "No servers detected in recent logs"
	}

	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "Detected %d active server(s):\n", len(profiles))
	for _, id := range ids {
		p := profiles[id]
		hostname := "unknown"
		if len(p.Hostnames) > 0 {
			hostname = p.Hostnames[0]
		}
		state := "active"
		if !p.Active {
			state = "quiet"
		}
		fmt.Fprintf(&b, "- server %s (%s): %d logs (%.1f%%), %d services, %s\n",
			id, hostname, p.LogCount, p.Share, len(p.Services), state)
	}
	fmt.Fprintf(&b, "Most active: server %s", mostActiveServer(profiles))
	return b.String()
}
