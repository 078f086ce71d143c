package db

import (
	"errors"
	"reflect"
	"testing"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		row   Tree
		key   string
		op    Operator
		value any
		want  bool
	}{
		{name: "array length greater", row: Tree{"a": []any{1, 2, 3}}, key: "a", op: OpGreater, value: []any{1, 2}, want: true},
		{name: "string length greater", row: Tree{"a": "hi"}, key: "a", op: OpGreater, value: "h", want: true},
		{name: "string length not lexical", row: Tree{"a": "b"}, key: "a", op: OpGreater, value: "a", want: false},
		{name: "string length less or equal", row: Tree{"a": "zz"}, key: "a", op: OpLessOrEqual, value: "aa", want: true},
		{name: "number greater", row: Tree{"a": int64(5)}, key: "a", op: OpGreater, value: 4.5, want: true},
		{name: "number less", row: Tree{"a": 1.5}, key: "a", op: OpLess, value: 2, want: true},
		{name: "number greater or equal", row: Tree{"a": 2}, key: "a", op: OpGreaterOrEqual, value: 2, want: true},
		{name: "bool ordering", row: Tree{"a": true}, key: "a", op: OpGreater, value: false, want: true},
		{name: "scalar in", row: Tree{"a": 2}, key: "a", op: OpIn, value: []any{1, 2, 3}, want: true},
		{name: "scalar in typed slice", row: Tree{"a": int64(2)}, key: "a", op: OpIn, value: []int{1, 2}, want: true},
		{name: "array intersection", row: Tree{"a": []any{2, 5}}, key: "a", op: OpIn, value: []any{5, 9}, want: true},
		{name: "array no intersection", row: Tree{"a": []any{2, 5}}, key: "a", op: OpIn, value: []any{6, 7}, want: false},
		{name: "not in", row: Tree{"a": "x"}, key: "a", op: OpNotIn, value: []any{"y"}, want: true},
		{name: "not in on intersection", row: Tree{"a": []any{"x"}}, key: "a", op: OpNotIn, value: []any{"x"}, want: false},
		{name: "in does not mix kinds", row: Tree{"a": "1"}, key: "a", op: OpIn, value: []any{1}, want: false},
		{name: "deep equality", row: Tree{"a": Tree{"b": []any{1, 2}}}, key: "a", op: OpEqual, value: Tree{"b": []any{1, 2}}, want: false},
		{name: "array equality", row: Tree{"a": []any{1, 2}}, key: "a", op: OpEqual, value: []any{1, 2}, want: true},
		{name: "array order matters", row: Tree{"a": []any{1, 2}}, key: "a", op: OpEqual, value: []any{2, 1}, want: false},
		{name: "not equal", row: Tree{"a": "x"}, key: "a", op: OpNotEqual, value: "y", want: true},
		{name: "type mismatch", row: Tree{"a": 1}, key: "a", op: OpEqual, value: "1", want: false},
		{name: "missing field", row: Tree{}, key: "a", op: OpEqual, value: 1, want: false},
		{name: "unsupported operator", row: Tree{"a": 1}, key: "a", op: "like", value: 1, want: false},
		{name: "large integers greater", row: Tree{"a": int64(9007199254740993)}, key: "a", op: OpGreater, value: int64(9007199254740992), want: true},
		{name: "large integers not equal", row: Tree{"a": int64(9007199254740993)}, key: "a", op: OpEqual, value: int64(9007199254740992), want: false},
		{name: "in on missing field", row: Tree{}, key: "a", op: OpIn, value: []any{1}, want: false},
		{name: "not on missing field", row: Tree{}, key: "a", op: OpNotIn, value: []any{1}, want: true},
		{name: "not on mapping field", row: Tree{"a": Tree{"b": 1}}, key: "a", op: OpNotIn, value: []any{1}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.row, tt.key, tt.op, tt.value)
			if err != nil {
				t.Fatalf("Match() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Match() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		row   Tree
		op    Operator
		value any
	}{
		{name: "equality of array with scalar", row: Tree{"a": []any{1, 2}}, op: OpEqual, value: 1},
		{name: "inequality of array with scalar", row: Tree{"a": []any{1, 2}}, op: OpNotEqual, value: 1},
		{name: "in with scalar", row: Tree{"a": 1}, op: OpIn, value: 1},
		{name: "not with scalar", row: Tree{"a": 1}, op: OpNotIn, value: "x"},
		{name: "in with scalar on missing field", row: Tree{}, op: OpIn, value: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Match(tt.row, "a", tt.op, tt.value)
			if !errors.Is(err, ErrConfiguration) {
				t.Errorf("Match() error = %v, want configuration error", err)
			}
		})
	}
}

func TestParseOperator(t *testing.T) {
	for _, op := range Operators {
		if got, ok := ParseOperator(string(op)); !ok || got != op {
			t.Errorf("ParseOperator(%q) = %q, %v", op, got, ok)
		}
	}
	if _, ok := ParseOperator("=~"); ok {
		t.Error("expected unsupported operator")
	}
}

func TestQuerySeesCurrentDocuments(t *testing.T) {
	database := New(&Options{Tree: Tree{"users": Tree{
		"a": Tree{"n": 1},
		"b": Tree{"n": 2},
	}}})
	users := database.Collection("users")

	q := users.Where("n", OpGreater, 1)
	database.Set("users/c", Tree{"n": 3})
	q.Or("n", OpEqual, 3)

	keys, err := q.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"b", "c"}) {
		t.Errorf("Keys() = %v, want [b c]", keys)
	}

	// documents first seen in an and step start as not matching
	database.Set("users/d", Tree{"n": 4})
	q.And("n", OpGreater, 0)
	keys, _ = q.Keys()
	if !reflect.DeepEqual(keys, []string{"b", "c"}) {
		t.Errorf("Keys() after and = %v, want [b c]", keys)
	}

	// deleted documents drop out of the result
	delete(users.Snapshot(), "b")
	docs, _ := q.Get()
	if len(docs) != 1 {
		t.Errorf("Get() = %v, want one document", docs)
	}
}

func TestQuerySkipsNonMappingDocuments(t *testing.T) {
	database := New(&Options{Tree: Tree{"c": Tree{"x": "scalar", "y": Tree{"v": "scalar"}}}})
	keys, err := database.Collection("c").Where("v", OpEqual, "scalar").Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"y"}) {
		t.Errorf("Keys() = %v, want [y]", keys)
	}
}

func TestChain(t *testing.T) {
	database := New(&Options{Tree: Tree{"users": Tree{
		"a": Tree{"n": 1, "tags": []any{"x"}},
		"b": Tree{"n": 2, "tags": []any{"y"}},
		"c": Tree{"n": 3, "tags": []any{}},
	}}})
	users := database.Collection("users")

	keys, err := users.Chain(
		Clause{Key: "n", Op: OpGreater, Value: 1, Or: true},
		Clause{Key: "tags", Op: OpIn, Value: []any{"y"}},
		Clause{Key: "n", Op: OpEqual, Value: 1, Or: true},
	).Keys()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}

	if keys, _ := users.Chain().Keys(); len(keys) != 0 {
		t.Errorf("empty chain matched %v", keys)
	}

	if err := users.Chain(Clause{Key: "n", Op: OpIn, Value: 1}).Err(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
