package intent

import (
	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
)

// Build turns an intent into the canonical query document. The time
// window rides at the top level of the document, where the backend's
// index can use it; service, severity, and keyword groups combine
// conjunctively, each group an internal disjunction.
func Build(it Intent, limit int) (*logql.Query, error) {
	groups := make([]*logql.Node, 0, 3)

	if len(it.Services) > 0 {
		svc := make([]*logql.Node, 0, len(it.Services))
		for _, s := range it.Services {
			svc = append(svc, logql.Contains(constants.FieldUnit, s))
		}
		groups = append(groups, logql.Or(svc...))
	}

	if clause := severityClause(it.Severities); clause != nil {
		groups = append(groups, clause)
	}

	if len(it.Keywords) > 0 {
		kw := make([]*logql.Node, 0, len(it.Keywords))
		for _, k := range it.Keywords {
			kw = append(kw, logql.Contains(constants.FieldMessage, k))
		}
		groups = append(groups, logql.Or(kw...))
	}

	q := &logql.Query{
		Where: logql.And(groups...),
		Start: it.Start.Unix(),
		End:   it.End.Unix(),
		Limit: limit,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// BuildStructured validates a caller-supplied predicate tree and
// attaches the window and result ceiling. An unsupported operator is a
// build-time error, never a silent drop.
func BuildStructured(whereJSON []byte, search string, hoursBack float64, start, end int64, limit int) (*logql.Query, error) {
	q := &logql.Query{
		Search:    search,
		HoursBack: hoursBack,
		Start:     start,
		End:       end,
		Limit:     limit,
	}
	if len(whereJSON) > 0 {
		node, err := logql.ParseWhere(whereJSON)
		if err != nil {
			return nil, err
		}
		q.Where = node
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// severityClause renders an ordinal set as a predicate. A set that is
// contiguous from zero compresses to the _lte form the backend's own
// tooling uses; anything else becomes a disjunction of equality tests.
func severityClause(sev []int) *logql.Node {
	if len(sev) == 0 {
		return nil
	}
	if contiguousFromZero(sev) {
		return logql.Lte(constants.FieldPriority, sev[len(sev)-1])
	}
	eqs := make([]*logql.Node, 0, len(sev))
	for _, p := range sev {
		eqs = append(eqs, logql.Eq(constants.FieldPriority, p))
	}
	return logql.Or(eqs...)
}

func contiguousFromZero(sev []int) bool {
	for i, p := range sev {
		if p != i {
			return false
		}
	}
	return true
}
