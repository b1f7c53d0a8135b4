package intent

import (
	"strings"
	"testing"
	"time"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
)

func TestBuildAssemblesGroups(t *testing.T) {
	it := Intent{
		Services:   []string{"ceph-osd", "ceph-mon"},
		Severities: []int{0, 1, 2, 3},
		Keywords:   []string{"failed", "down"},
		Start:      parseNow.Add(-time.Hour),
		End:        parseNow,
	}

	q, err := Build(it, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := logql.And(
		logql.Or(
			logql.Contains(constants.FieldUnit, "ceph-osd"),
			logql.Contains(constants.FieldUnit, "ceph-mon"),
		),
		logql.Lte(constants.FieldPriority, 3),
		logql.Or(
			logql.Contains(constants.FieldMessage, "failed"),
			logql.Contains(constants.FieldMessage, "down"),
		),
	)
	if !logql.Equal(q.Where, want) {
		t.Errorf("Where = %s, want %s", q.Key(), mustNodeJSON(t, want))
	}
	if q.Start != it.Start.Unix() || q.End != it.End.Unix() {
		t.Errorf("window = [%d, %d], want [%d, %d]", q.Start, q.End, it.Start.Unix(), it.End.Unix())
	}
	if q.Limit != constants.DefaultLogLimit {
		t.Errorf("Limit = %d, want default %d", q.Limit, constants.DefaultLogLimit)
	}
}

func TestBuildEmptyIntentQueriesWindowOnly(t *testing.T) {
	it := Intent{Start: parseNow.Add(-time.Hour), End: parseNow}
	q, err := Build(it, 100)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if q.Where != nil {
		t.Errorf("Where = %s, want none for an empty intent", q.Key())
	}
	if q.Limit != 100 {
		t.Errorf("Limit = %d, want 100", q.Limit)
	}
}

func TestSeverityClauseForms(t *testing.T) {
	if got := severityClause(nil); got != nil {
		t.Errorf("nil severities should produce no clause, got %v", got)
	}

	lte := severityClause([]int{0, 1, 2, 3, 4})
	if !logql.Equal(lte, logql.Lte(constants.FieldPriority, 4)) {
		t.Errorf("contiguous-from-zero set should compress to _lte, got %s", mustNodeJSON(t, lte))
	}

	disjoint := severityClause([]int{3, 4})
	want := logql.Or(
		logql.Eq(constants.FieldPriority, 3),
		logql.Eq(constants.FieldPriority, 4),
	)
	if !logql.Equal(disjoint, want) {
		t.Errorf("non-contiguous set should expand to equality tests, got %s", mustNodeJSON(t, disjoint))
	}
}

func TestBuildStructuredPassThrough(t *testing.T) {
	where := `{"_and": [{"_SYSTEMD_UNIT": {"_contains": "ceph-osd@12"}}, {"PRIORITY": {"_lte": 3}}]}`
	q, err := BuildStructured([]byte(where), "", 24, 0, 0, 50)
	if err != nil {
		t.Fatalf("BuildStructured: %v", err)
	}
	if q.HoursBack != 24 || q.Limit != 50 {
		t.Errorf("window/limit not attached: hours_back=%v limit=%d", q.HoursBack, q.Limit)
	}
	want := logql.And(
		logql.Contains("_SYSTEMD_UNIT", "ceph-osd@12"),
		logql.Lte("PRIORITY", float64(3)),
	)
	if !logql.Equal(q.Where, want) {
		t.Errorf("Where = %s, want pass-through tree", q.Key())
	}
}

func TestBuildStructuredRejectsUnknownOperator(t *testing.T) {
	_, err := BuildStructured([]byte(`{"MESSAGE": {"_fuzzy": "osd"}}`), "", 1, 0, 0, 10)
	if err == nil {
		t.Fatal("expected error for unknown operator")
	}
	if !strings.Contains(err.Error(), "_fuzzy") {
		t.Errorf("error should name the operator, got %q", err.Error())
	}
}

func TestBuildStructuredSearchOnly(t *testing.T) {
	q, err := BuildStructured(nil, "osd flapping", 0, 0, 0, 0)
	if err != nil {
		t.Fatalf("BuildStructured: %v", err)
	}
	if q.Where != nil {
		t.Errorf("Where should be absent, got %s", q.Key())
	}
	if q.Search != "osd flapping" {
		t.Errorf("Search = %q, want the raw term", q.Search)
	}
	if q.HoursBack != constants.DefaultHoursBack {
		t.Errorf("HoursBack = %v, want default", q.HoursBack)
	}
}

func mustNodeJSON(t *testing.T, n *logql.Node) string {
	t.Helper()
	b, err := n.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}
