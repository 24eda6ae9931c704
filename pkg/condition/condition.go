// Package condition implements the applicability predicates attached to
// schema fields. A condition is compiled once from its literal sequence form,
// [operator, operand, operand], and evaluated any number of times against a
// map of resolved values. Evaluation is total: absent labels and mismatched
// value kinds compare false, never panic.
package condition

import (
	"errors"
	"fmt"
	"time"
)

// Operators accepted in the literal sequence form.
const (
	opEq  = "=="
	opNe  = "!="
	opIn  = "in"
	opAnd = "and"
	opOr  = "or"
	opNot = "not"
)

// ErrMalformed reports an expression that cannot be compiled: wrong arity,
// unknown operator, non-string label reference, or a non-scalar literal.
var ErrMalformed = errors.New("condition: malformed expression")

// Condition is an immutable, compiled predicate. The nil Condition is always
// applicable and evaluates true.
type Condition struct {
	root   node
	labels []string
}

// Compile builds a Condition from its literal tree. Comparison and membership
// operators take a label reference and a literal ("in" takes a sequence of
// literals); "and"/"or" take two nested expressions and "not" takes one.
func Compile(tree any) (*Condition, error) {
	root, err := decode(tree)
	if err != nil {
		return nil, err
	}

	c := &Condition{root: root}
	seen := make(map[string]struct{})
	collectLabels(root, seen, &c.labels)
	return c, nil
}

// MustCompile is Compile for expressions known to be well formed. It panics
// on error.
func MustCompile(tree any) *Condition {
	c, err := Compile(tree)
	if err != nil {
		panic(err)
	}
	return c
}

// Eval reports whether the predicate holds for the supplied resolved values.
// A referenced label missing from values is absent, and every comparison
// against an absent value is false.
func (c *Condition) Eval(values map[string]any) bool {
	if c == nil || c.root == nil {
		return true
	}
	return c.root.eval(values)
}

// Labels returns the labels the expression references, in order of first
// appearance.
func (c *Condition) Labels() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.labels...)
}

type node interface {
	eval(values map[string]any) bool
}

type exprAnd struct {
	left  node
	right node
}

func (n exprAnd) eval(values map[string]any) bool {
	return n.left.eval(values) && n.right.eval(values)
}

type exprOr struct {
	left  node
	right node
}

func (n exprOr) eval(values map[string]any) bool {
	return n.left.eval(values) || n.right.eval(values)
}

type exprNot struct {
	inner node
}

func (n exprNot) eval(values map[string]any) bool {
	return !n.inner.eval(values)
}

type exprCompare struct {
	op      string
	label   string
	literal any
}

func (n exprCompare) eval(values map[string]any) bool {
	value, ok := values[n.label]
	if !ok {
		return false
	}
	equal := literalEqual(value, n.literal)
	if n.op == opNe {
		return !equal
	}
	return equal
}

type exprIn struct {
	label string
	set   []any
}

func (n exprIn) eval(values map[string]any) bool {
	value, ok := values[n.label]
	if !ok {
		return false
	}
	for _, literal := range n.set {
		if literalEqual(value, literal) {
			return true
		}
	}
	return false
}

func decode(tree any) (node, error) {
	seq, ok := asSequence(tree)
	if !ok {
		return nil, fmt.Errorf("%w: expected a sequence, got %T", ErrMalformed, tree)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("%w: empty sequence", ErrMalformed)
	}

	op, ok := seq[0].(string)
	if !ok {
		return nil, fmt.Errorf("%w: operator must be a string, got %T", ErrMalformed, seq[0])
	}

	switch op {
	case opAnd, opOr:
		if len(seq) != 3 {
			return nil, fmt.Errorf("%w: %q takes two expressions, got %d operands", ErrMalformed, op, len(seq)-1)
		}
		left, err := decode(seq[1])
		if err != nil {
			return nil, err
		}
		right, err := decode(seq[2])
		if err != nil {
			return nil, err
		}
		if op == opAnd {
			return exprAnd{left: left, right: right}, nil
		}
		return exprOr{left: left, right: right}, nil

	case opNot:
		if len(seq) != 2 {
			return nil, fmt.Errorf("%w: %q takes one expression, got %d operands", ErrMalformed, op, len(seq)-1)
		}
		inner, err := decode(seq[1])
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil

	case opEq, opNe:
		label, literal, err := decodeOperands(op, seq)
		if err != nil {
			return nil, err
		}
		if !isScalar(literal) {
			return nil, fmt.Errorf("%w: %q needs a scalar literal, got %T", ErrMalformed, op, literal)
		}
		return exprCompare{op: op, label: label, literal: literal}, nil

	case opIn:
		label, literal, err := decodeOperands(op, seq)
		if err != nil {
			return nil, err
		}
		set, ok := asSequence(literal)
		if !ok {
			return nil, fmt.Errorf("%w: %q needs a sequence of literals, got %T", ErrMalformed, op, literal)
		}
		for _, member := range set {
			if !isScalar(member) {
				return nil, fmt.Errorf("%w: %q set members must be scalars, got %T", ErrMalformed, op, member)
			}
		}
		return exprIn{label: label, set: append([]any(nil), set...)}, nil

	default:
		return nil, fmt.Errorf("%w: unknown operator %q", ErrMalformed, op)
	}
}

func decodeOperands(op string, seq []any) (string, any, error) {
	if len(seq) != 3 {
		return "", nil, fmt.Errorf("%w: %q takes a label and a literal, got %d operands", ErrMalformed, op, len(seq)-1)
	}
	label, ok := seq[1].(string)
	if !ok || label == "" {
		return "", nil, fmt.Errorf("%w: %q needs a label reference, got %#v", ErrMalformed, op, seq[1])
	}
	return label, seq[2], nil
}

func asSequence(v any) ([]any, bool) {
	switch seq := v.(type) {
	case []any:
		return seq, true
	case []string:
		out := make([]any, len(seq))
		for i, s := range seq {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, time.Time,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func literalEqual(value, literal any) bool {
	switch lit := literal.(type) {
	case string:
		s, ok := value.(string)
		return ok && s == lit
	case bool:
		b, ok := value.(bool)
		return ok && b == lit
	case time.Time:
		ts, ok := value.(time.Time)
		return ok && ts.Equal(lit)
	case nil:
		return value == nil
	default:
		want, ok := asNumber(literal)
		if !ok {
			return false
		}
		got, ok := asNumber(value)
		return ok && got == want
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func collectLabels(n node, seen map[string]struct{}, out *[]string) {
	switch typed := n.(type) {
	case exprAnd:
		collectLabels(typed.left, seen, out)
		collectLabels(typed.right, seen, out)
	case exprOr:
		collectLabels(typed.left, seen, out)
		collectLabels(typed.right, seen, out)
	case exprNot:
		collectLabels(typed.inner, seen, out)
	case exprCompare:
		addLabel(typed.label, seen, out)
	case exprIn:
		addLabel(typed.label, seen, out)
	}
}

func addLabel(label string, seen map[string]struct{}, out *[]string) {
	if _, ok := seen[label]; ok {
		return
	}
	seen[label] = struct{}{}
	*out = append(*out, label)
}
