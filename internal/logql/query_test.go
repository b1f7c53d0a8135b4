package logql

import (
	"testing"

	"cephlog-mcp/internal/constants"
)

func TestQueryKeyDeterministic(t *testing.T) {
	build := func() *Query {
		return &Query{
			Where:     And(Contains("_SYSTEMD_UNIT", "ceph-osd"), Lte("PRIORITY", float64(3))),
			HoursBack: 24,
			Limit:     100,
		}
	}

	a, b := build(), build()
	if a.Key() != b.Key() {
		t.Errorf("identical queries produced different keys:\n a=%s\n b=%s", a.Key(), b.Key())
	}

	c := build()
	c.Limit = 101
	if a.Key() == c.Key() {
		t.Error("queries differing in limit share a key")
	}
}

func TestQueryKeyWireShape(t *testing.T) {
	q := &Query{
		Where:     Contains("MESSAGE", "slow request"),
		Search:    "osd",
		HoursBack: 12,
		Limit:     50,
	}
	want := `{"where":{"MESSAGE":{"_contains":"slow request"}},"_search":"osd","hours_back":12,"limit":50}`
	if got := q.Key(); got != want {
		t.Errorf("Key() = %s, want %s", got, want)
	}
}

func TestQueryValidateDefaults(t *testing.T) {
	q := &Query{Where: Contains("MESSAGE", "x")}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.Limit != constants.DefaultLogLimit {
		t.Errorf("Limit = %d, want default %d", q.Limit, constants.DefaultLogLimit)
	}
	if q.HoursBack != constants.DefaultHoursBack {
		t.Errorf("HoursBack = %v, want default %d", q.HoursBack, constants.DefaultHoursBack)
	}
}

func TestQueryValidateClamps(t *testing.T) {
	q := &Query{Limit: constants.MaxLogEntries * 2, HoursBack: constants.MaxHoursBack * 3}
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if q.Limit != constants.MaxLogEntries {
		t.Errorf("Limit = %d, want clamp to %d", q.Limit, constants.MaxLogEntries)
	}
	if q.HoursBack != constants.MaxHoursBack {
		t.Errorf("HoursBack = %v, want clamp to %d", q.HoursBack, constants.MaxHoursBack)
	}
}

func TestQueryValidateWindowRules(t *testing.T) {
	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{"explicit window", Query{Start: 100, End: 200}, false},
		{"start after end", Query{Start: 200, End: 100}, true},
		{"start equals end", Query{Start: 100, End: 100}, true},
		{"start without end", Query{Start: 100}, true},
		{"end without start", Query{End: 100}, true},
		{"both window forms", Query{Start: 100, End: 200, HoursBack: 1}, true},
		{"negative hours back", Query{HoursBack: -1}, true},
		{"negative limit", Query{Limit: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCombineCollapses(t *testing.T) {
	leaf := Eq("MESSAGE", "x")

	if got := And(leaf); got != leaf {
		t.Error("And with one child should return the child unwrapped")
	}
	if got := And(); got != nil {
		t.Error("And with no children should return nil")
	}
	if got := Or(nil, leaf, nil); got != leaf {
		t.Error("Or should skip nil children and unwrap a single survivor")
	}
	if got := Not(nil); got != nil {
		t.Error("Not(nil) should return nil")
	}

	two := And(leaf, Eq("PRIORITY", float64(3)))
	if two == nil || two.Comb != CombAnd || len(two.Children) != 2 {
		t.Errorf("And with two children should build a combinator node, got %+v", two)
	}
}
