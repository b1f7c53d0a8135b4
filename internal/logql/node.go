// Package logql builds, validates, and canonically serializes the
// predicate trees the cluster log API accepts. Serialization is
// deterministic: the same tree always yields the same bytes, which is
// what the response cache keys on.
package logql

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Combinators joining child predicates.
const (
	CombAnd = "_and"
	CombOr  = "_or"
	CombNot = "_not"
)

// Operators usable inside a field predicate.
const (
	OpEq         = "_eq"
	OpNeq        = "_neq"
	OpContains   = "_contains"
	OpStartsWith = "_starts_with"
	OpEndsWith   = "_ends_with"
	OpRegex      = "_regex"
	OpGt         = "_gt"
	OpGte        = "_gte"
	OpLt         = "_lt"
	OpLte        = "_lte"
	OpIn         = "_in"
	OpNin        = "_nin"
	OpExists     = "_exists"
	OpMissing    = "_missing"
)

var operators = map[string]bool{
	OpEq: true, OpNeq: true,
	OpContains: true, OpStartsWith: true, OpEndsWith: true, OpRegex: true,
	OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpIn: true, OpNin: true,
	OpExists: true, OpMissing: true,
}

// Node is one predicate-tree node: either a combinator over children
// (Comb set) or a single field predicate (Field/Op set).
type Node struct {
	Comb     string
	Children []*Node

	Field string
	Op    string
	Value any
}

// Pred builds a field predicate node.
func Pred(field, op string, value any) *Node {
	return &Node{Field: field, Op: op, Value: value}
}

func Eq(field string, v any) *Node       { return Pred(field, OpEq, v) }
func Neq(field string, v any) *Node      { return Pred(field, OpNeq, v) }
func Contains(field, s string) *Node     { return Pred(field, OpContains, s) }
func StartsWith(field, s string) *Node   { return Pred(field, OpStartsWith, s) }
func EndsWith(field, s string) *Node     { return Pred(field, OpEndsWith, s) }
func Regex(field, pattern string) *Node  { return Pred(field, OpRegex, pattern) }
func Gt(field string, v any) *Node       { return Pred(field, OpGt, v) }
func Gte(field string, v any) *Node      { return Pred(field, OpGte, v) }
func Lt(field string, v any) *Node       { return Pred(field, OpLt, v) }
func Lte(field string, v any) *Node      { return Pred(field, OpLte, v) }
func Exists(field string) *Node          { return Pred(field, OpExists, true) }
func Missing(field string) *Node         { return Pred(field, OpMissing, true) }

// In builds a set-membership predicate.
func In(field string, vs ...any) *Node { return Pred(field, OpIn, vs) }

// Nin builds a set-non-membership predicate.
func Nin(field string, vs ...any) *Node { return Pred(field, OpNin, vs) }

// And joins children conjunctively. Nil children are skipped; a single
// surviving child is returned unwrapped, and no children yields nil.
func And(children ...*Node) *Node { return combine(CombAnd, children) }

// Or joins children disjunctively, with the same collapsing rules as And.
func Or(children ...*Node) *Node { return combine(CombOr, children) }

// Not negates a child predicate.
func Not(child *Node) *Node {
	if child == nil {
		return nil
	}
	return &Node{Comb: CombNot, Children: []*Node{child}}
}

func combine(comb string, children []*Node) *Node {
	kept := make([]*Node, 0, len(children))
	for _, c := range children {
		if c != nil {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return &Node{Comb: comb, Children: kept}
}

// MarshalJSON emits the wire form: {"_and":[...]} for combinators and
// {"FIELD":{"_op":value}} for field predicates. Output is deterministic
// for a given tree.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	if n.Comb != "" {
		buf.WriteByte('{')
		buf.WriteString(`"` + n.Comb + `":[`)
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if c == nil {
				return fmt.Errorf("nil child under %s", n.Comb)
			}
			if err := c.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteString("]}")
		return nil
	}

	field, err := json.Marshal(n.Field)
	if err != nil {
		return err
	}
	value, err := json.Marshal(n.Value)
	if err != nil {
		return fmt.Errorf("marshal operand for %s %s: %w", n.Field, n.Op, err)
	}
	buf.WriteByte('{')
	buf.Write(field)
	buf.WriteString(`:{"` + n.Op + `":`)
	buf.Write(value)
	buf.WriteString("}}")
	return nil
}

// Equal reports whether two trees serialize to the same bytes, which is
// the equality the cache uses.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, err := a.MarshalJSON()
	if err != nil {
		return false
	}
	bb, err := b.MarshalJSON()
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
