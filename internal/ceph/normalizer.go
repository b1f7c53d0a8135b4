// Package ceph maps operator-facing Ceph daemon names onto the systemd
// unit identifiers the cluster's journal records carry.
package ceph

import (
	"regexp"
	"strings"
)

// unitRule maps one short daemon name to its systemd unit prefix.
type unitRule struct {
	short     string
	canonical string
}

// ruleTable is the full translation table. Order matters only for
// Detect, which reports mentions in table-then-text order; Normalize
// does exact lookups.
var ruleTable = []unitRule{
	{"osd", "ceph-osd"},
	{"mon", "ceph-mon"},
	{"mgr", "ceph-mgr"},
	{"mds", "ceph-mds"},
	{"rgw", "ceph-radosgw"},
	{"radosgw", "ceph-radosgw"},
}

// mentionPattern finds daemon references in free text: "osd.12",
// "mon@node1", bare "osd", or an already-canonical "ceph-osd@12".
var mentionPattern = regexp.MustCompile(
	`(?i)\b(?:ceph-)?(osd|mon|mgr|mds|rgw|radosgw)(?:[.@]([\w\-]+))?\b`)

// Normalize translates a daemon name to the systemd unit identifier
// used in the journal's _SYSTEMD_UNIT field, without the ".service"
// suffix: "osd.12" and "osd@12" become "ceph-osd@12", bare "osd"
// becomes "ceph-osd". Input that matches no rule is returned unchanged
// so it can still serve as a literal filter value.
func Normalize(name string) string {
	trimmed := strings.TrimSuffix(strings.TrimSpace(name), ".service")
	if trimmed == "" {
		return name
	}

	short := trimmed
	instance := ""
	if i := strings.IndexAny(trimmed, ".@"); i >= 0 {
		short = trimmed[:i]
		instance = trimmed[i+1:]
	}

	canonical, ok := lookup(strings.ToLower(strings.TrimPrefix(short, "ceph-")))
	if !ok {
		return name
	}
	if instance == "" {
		return canonical
	}
	return canonical + "@" + instance
}

// Detect scans free text for service mentions and returns their
// canonical identifiers, de-duplicated, in first-mention order. Bare
// daemon words count: "osd problems" yields "ceph-osd".
func Detect(text string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		canonical, ok := lookup(strings.ToLower(m[1]))
		if !ok {
			continue
		}
		id := canonical
		if m[2] != "" {
			id += "@" + m[2]
		}
		if !seen[id] {
			seen[id] = true
			found = append(found, id)
		}
	}
	return found
}

func lookup(short string) (string, bool) {
	for _, r := range ruleTable {
		if r.short == short {
			return r.canonical, true
		}
	}
	return "", false
}
