package ceph

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"osd.12", "ceph-osd@12"},
		{"osd@12", "ceph-osd@12"},
		{"osd", "ceph-osd"},
		{"ceph-osd@12", "ceph-osd@12"},
		{"ceph-osd@12.service", "ceph-osd@12"},
		{"mon.node1", "ceph-mon@node1"},
		{"mgr.node1", "ceph-mgr@node1"},
		{"mds.fs-node", "ceph-mds@fs-node"},
		{"rgw.gateway", "ceph-radosgw@gateway"},
		{"radosgw.gateway", "ceph-radosgw@gateway"},
		{"OSD.12", "ceph-osd@12"},
		{"nginx", "nginx"},
		{"systemd-journald.service", "systemd-journald.service"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePassesThroughUnknownForms(t *testing.T) {
	// Unrecognized names must survive untouched so they can be used as
	// literal filter values.
	inputs := []string{"ceph-volume@lvm-1", "foo.bar", "kernel"}
	for _, in := range inputs {
		if got := Normalize(in); got != in {
			t.Errorf("Normalize(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "dotted instance",
			text:     "why is osd.12 flapping",
			expected: []string{"ceph-osd@12"},
		},
		{
			name:     "multiple services",
			text:     "osd.12 failed after mon.node1 lost quorum",
			expected: []string{"ceph-osd@12", "ceph-mon@node1"},
		},
		{
			name:     "bare daemon word",
			text:     "show me osd problems",
			expected: []string{"ceph-osd"},
		},
		{
			name:     "canonical form",
			text:     "grep ceph-mgr@node2 logs",
			expected: []string{"ceph-mgr@node2"},
		},
		{
			name:     "duplicates collapse",
			text:     "osd.3 and osd.3 again",
			expected: []string{"ceph-osd@3"},
		},
		{
			name:     "no services",
			text:     "what happened last night",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("Detect(%q) = %v, want %v", tt.text, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Detect(%q)[%d] = %q, want %q", tt.text, i, got[i], tt.expected[i])
				}
			}
		})
	}
}
