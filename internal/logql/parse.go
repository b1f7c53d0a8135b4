package logql

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports a malformed predicate tree or query document.
// Path locates the offending node, e.g. "where._and[1].PRIORITY".
type ValidationError struct {
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return "invalid query: " + e.Msg
	}
	return fmt.Sprintf("invalid query at %s: %s", e.Path, e.Msg)
}

func errAt(path, format string, args ...any) *ValidationError {
	return &ValidationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// ParseWhere parses and validates a caller-supplied predicate tree.
// Object keys are sorted during parsing, so two JSON documents that
// differ only in key order produce identical trees (and identical
// cache keys). Unknown operators and malformed nodes are rejected with
// a *ValidationError rather than silently dropped.
func ParseWhere(data []byte) (*Node, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errAt("where", "not a JSON object: %v", err)
	}
	return parseObject(raw, "where")
}

// parseObject turns one predicate object into a node. Objects holding
// several keys are an implicit conjunction.
func parseObject(raw map[string]json.RawMessage, path string) (*Node, error) {
	if len(raw) == 0 {
		return nil, errAt(path, "empty predicate object")
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	nodes := make([]*Node, 0, len(keys))
	for _, k := range keys {
		n, err := parseKey(k, raw[k], path+"."+k)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if len(nodes) == 1 {
		return nodes[0], nil
	}
	return &Node{Comb: CombAnd, Children: nodes}, nil
}

func parseKey(key string, val json.RawMessage, path string) (*Node, error) {
	switch key {
	case CombAnd, CombOr, CombNot:
		var children []json.RawMessage
		if err := json.Unmarshal(val, &children); err != nil {
			return nil, errAt(path, "combinator requires a JSON array")
		}
		if len(children) == 0 {
			return nil, errAt(path, "combinator requires at least one child")
		}
		parsed := make([]*Node, 0, len(children))
		for i, c := range children {
			var obj map[string]json.RawMessage
			if err := json.Unmarshal(c, &obj); err != nil {
				return nil, errAt(fmt.Sprintf("%s[%d]", path, i), "child is not an object")
			}
			n, err := parseObject(obj, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			parsed = append(parsed, n)
		}
		return &Node{Comb: key, Children: parsed}, nil

	default:
		if strings.HasPrefix(key, "_") {
			return nil, errAt(path, "unknown combinator %q", key)
		}
		return parseFieldPredicate(key, val, path)
	}
}

// parseFieldPredicate handles {field: {op: value, ...}}. Several
// operators on one field form an implicit conjunction, ordered by
// operator name.
func parseFieldPredicate(field string, val json.RawMessage, path string) (*Node, error) {
	var ops map[string]json.RawMessage
	if err := json.Unmarshal(val, &ops); err != nil {
		return nil, errAt(path, "field predicate must be an {operator: value} object")
	}
	if len(ops) == 0 {
		return nil, errAt(path, "field predicate has no operator")
	}

	names := make([]string, 0, len(ops))
	for name := range ops {
		names = append(names, name)
	}
	sort.Strings(names)

	leaves := make([]*Node, 0, len(names))
	for _, name := range names {
		if !operators[name] {
			return nil, errAt(path, "unknown operator %q", name)
		}
		operand, err := parseOperand(name, ops[name], path+"."+name)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, &Node{Field: field, Op: name, Value: operand})
	}
	if len(leaves) == 1 {
		return leaves[0], nil
	}
	return &Node{Comb: CombAnd, Children: leaves}, nil
}

func parseOperand(op string, raw json.RawMessage, path string) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errAt(path, "invalid operand: %v", err)
	}

	switch op {
	case OpExists, OpMissing:
		b, ok := v.(bool)
		if !ok {
			return nil, errAt(path, "%s takes a boolean", op)
		}
		return b, nil

	case OpIn, OpNin:
		arr, ok := v.([]any)
		if !ok {
			return nil, errAt(path, "%s takes an array", op)
		}
		if len(arr) == 0 {
			return nil, errAt(path, "%s requires at least one element", op)
		}
		for i, e := range arr {
			if !isScalar(e) {
				return nil, errAt(fmt.Sprintf("%s[%d]", path, i), "array elements must be scalars")
			}
		}
		return arr, nil

	default:
		if !isScalar(v) {
			return nil, errAt(path, "%s takes a scalar operand", op)
		}
		return v, nil
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, float64, bool:
		return true
	}
	return false
}
