package db

import (
	"cmp"
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"slices"
)

// --------------------------------------------------------------------------
// Operators
// --------------------------------------------------------------------------

// Operator is a field predicate operator.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpLess           Operator = "<"
	OpGreaterOrEqual Operator = ">="
	OpLessOrEqual    Operator = "<="
	OpIn             Operator = "in"
	OpNotIn          Operator = "not"
)

// Operators lists every supported operator.
var Operators = []Operator{OpEqual, OpNotEqual, OpGreater, OpLess, OpGreaterOrEqual, OpLessOrEqual, OpIn, OpNotIn}

// Supported reports whether the operator is one of Operators.
func (op Operator) Supported() bool {
	return slices.Contains(Operators, op)
}

// ParseOperator converts a string to an Operator. The boolean is false for
// unsupported operators.
func ParseOperator(s string) (Operator, bool) {
	op := Operator(s)
	return op, op.Supported()
}

// --------------------------------------------------------------------------
// Predicate Evaluation
// --------------------------------------------------------------------------

// Match evaluates the predicate "row[key] op value".
//
//   - unsupported operators never match and never fail
//   - in / not require value to be an array (ConfigurationError otherwise);
//     a scalar field matches if it equals one element, an array field if it
//     shares at least one element with value; not negates in
//   - == / != with an array field require an array value (ConfigurationError
//     otherwise, membership is tested with in / not)
//   - every other comparison requires compatible types (see util.MatchesType)
//     and does not match otherwise
//   - > < >= <= compare arrays and strings by length, numbers and booleans
//     by value
func Match(row Tree, key string, op Operator, value any) (bool, error) {
	if !op.Supported() {
		return false, nil
	}

	current := row[key]
	value = util.Canonical(value)
	currentIsArray := util.KindOf(current) == util.ValueArray
	valueIsArray := util.KindOf(value) == util.ValueArray

	if err := checkCompareValue(op, value); err != nil {
		return false, err
	}

	switch op {
	case OpIn, OpNotIn:
		in := contains(current, value.([]any))
		if op == OpNotIn {
			return !in, nil
		}
		return in, nil
	case OpEqual, OpNotEqual:
		if currentIsArray && !valueIsArray {
			hint := OpIn
			if op == OpNotEqual {
				hint = OpNotIn
			}
			return false, NewError(ErrCodeConfiguration, "operator %q compares an array field with %T, did you mean to use %q?", op, value, hint)
		}
	}

	if !util.MatchesType(current, value) {
		return false, nil
	}

	switch op {
	case OpEqual:
		return util.Equal(current, value), nil
	case OpNotEqual:
		return !util.Equal(current, value), nil
	case OpGreater:
		return compare(current, value) > 0, nil
	case OpLess:
		return compare(current, value) < 0, nil
	case OpGreaterOrEqual:
		return compare(current, value) >= 0, nil
	case OpLessOrEqual:
		return compare(current, value) <= 0, nil
	default:
		return false, nil
	}
}

// checkCompareValue rejects compare values that can never be valid for the
// operator, independent of the data they are compared with.
func checkCompareValue(op Operator, value any) error {
	if (op == OpIn || op == OpNotIn) && util.KindOf(value) != util.ValueArray {
		return NewError(ErrCodeConfiguration, "operator %q requires an array compare value but got %T", op, value)
	}
	return nil
}

// contains implements the in operator.
func contains(current any, values []any) bool {
	if items, ok := current.([]any); ok {
		for _, item := range items {
			if containsScalar(item, values) {
				return true
			}
		}
		return false
	}
	return containsScalar(current, values)
}

func containsScalar(v any, values []any) bool {
	for _, candidate := range values {
		if util.MatchesType(v, candidate) && util.Equal(v, candidate) {
			return true
		}
	}
	return false
}

// compare orders two type-compatible values. Arrays and strings are ordered
// by length.
func compare(a, b any) int {
	switch av := a.(type) {
	case []any:
		return cmp.Compare(len(av), len(b.([]any)))
	case string:
		return cmp.Compare(len(av), len(b.(string)))
	case bool:
		return cmp.Compare(boolRank(av), boolRank(b.(bool)))
	}
	c, _ := util.CompareNumbers(a, b)
	return c
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// --------------------------------------------------------------------------
// Query Chain
// --------------------------------------------------------------------------

type join uint8

const (
	joinAnd join = iota
	joinOr
)

// Query composes predicates over the documents of a collection.
// Every step evaluates its predicate against the current documents of the
// collection snapshot and combines the result per document with the
// accumulated result. Documents seen for the first time start as not matching.
//
// The first ConfigurationError stops the chain: later steps are ignored and
// the error is returned by Err, Get and Keys.
type Query struct {
	collection *Collection
	matches    map[string]bool
	seeded     bool
	err        error
}

func newQuery(c *Collection) *Query {
	return &Query{
		collection: c,
		matches:    make(map[string]bool),
	}
}

// And narrows the query to documents that also match the predicate.
func (q *Query) And(key string, op Operator, value any) *Query {
	return q.step(key, op, value, joinAnd)
}

// Or widens the query to documents that match the predicate.
func (q *Query) Or(key string, op Operator, value any) *Query {
	return q.step(key, op, value, joinOr)
}

// step evaluates one predicate. The first step of a chain seeds the result.
func (q *Query) step(key string, op Operator, value any, j join) *Query {
	if q.err != nil {
		return q
	}

	if err := checkCompareValue(op, util.Canonical(value)); err != nil {
		q.err = err
		return q
	}

	seed := !q.seeded
	q.seeded = true
	for docKey, row := range q.collection.Snapshot() {
		m, ok := row.(map[string]any)
		matched := false
		if ok {
			var err error
			matched, err = Match(m, key, op, value)
			if err != nil {
				q.err = err
				return q
			}
		}

		accumulated := q.matches[docKey]
		switch {
		case seed:
			q.matches[docKey] = matched
		case j == joinAnd:
			q.matches[docKey] = accumulated && matched
		default:
			q.matches[docKey] = accumulated || matched
		}
	}
	return q
}

// Clause is one predicate of a query chain.
type Clause struct {
	Key   string
	Op    Operator
	Value any
	Or    bool // join with the previous clauses by or instead of and
}

// Chain builds a query from clauses. The join of the first clause is ignored,
// a chain without clauses matches nothing.
func (c *Collection) Chain(clauses ...Clause) *Query {
	q := newQuery(c)
	for i, clause := range clauses {
		j := joinAnd
		if clause.Or && i > 0 {
			j = joinOr
		}
		q.step(clause.Key, clause.Op, clause.Value, j)
	}
	return q
}

// Err returns the error raised by a step of the chain, if any.
func (q *Query) Err() error {
	return q.err
}

// Keys returns the sorted keys of the matching documents that still exist in
// the collection.
func (q *Query) Keys() ([]string, error) {
	if q.err != nil {
		return nil, q.err
	}
	snapshot := q.collection.Snapshot()
	keys := make([]string, 0, len(q.matches))
	for k, matched := range q.matches {
		if _, exists := snapshot[k]; matched && exists {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

// Get returns the matching documents ordered by key. It can be called
// repeatedly without side effects.
func (q *Query) Get() ([]any, error) {
	keys, err := q.Keys()
	if err != nil {
		return nil, err
	}
	snapshot := q.collection.Snapshot()
	docs := make([]any, len(keys))
	for i, k := range keys {
		docs[i] = snapshot[k]
	}
	return docs, nil
}
