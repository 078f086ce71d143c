package util

import (
	"math"
	"testing"
)

func TestSetAndGetPath(t *testing.T) {
	tree := Tree{}
	if !SetPath(tree, []string{"a", "b", "c"}, int64(1)) {
		t.Fatal("SetPath returned false")
	}
	v, ok := GetPath(tree, []string{"a", "b", "c"})
	if !ok || v != int64(1) {
		t.Errorf("GetPath = %v, %v", v, ok)
	}

	// non-mapping intermediates are replaced
	SetPath(tree, []string{"a", "b", "c", "d"}, "x")
	v, ok = GetPath(tree, []string{"a", "b", "c", "d"})
	if !ok || v != "x" {
		t.Errorf("GetPath after replace = %v, %v", v, ok)
	}

	if _, ok := GetPath(tree, []string{"a", "missing"}); ok {
		t.Error("expected missing path to resolve to false")
	}
	if SetPath(tree, nil, 1) {
		t.Error("SetPath without segments should fail")
	}
	if root, ok := GetPath(tree, nil); !ok || !Equal(root, tree) {
		t.Error("zero segments should resolve to the tree itself")
	}
}

func TestEnsurePath(t *testing.T) {
	tree := Tree{"a": Tree{"b": "leaf"}}

	if !EnsurePath(tree, []string{"a", "c", "d"}) {
		t.Fatal("expected EnsurePath to create missing mappings")
	}
	if v, _ := GetPath(tree, []string{"a", "c", "d"}); !Equal(v, Tree{}) {
		t.Errorf("expected empty mapping, got %v", v)
	}

	// existing leaf at the end is kept
	if !EnsurePath(tree, []string{"a", "b"}) {
		t.Error("existing leaf should be accepted")
	}
	if v, _ := GetPath(tree, []string{"a", "b"}); v != "leaf" {
		t.Errorf("leaf was replaced: %v", v)
	}

	// a leaf blocking the path is a failure
	if EnsurePath(tree, []string{"a", "b", "c"}) {
		t.Error("expected blocked path to fail")
	}
}

func TestDeepMerge(t *testing.T) {
	older := Tree{"x": Tree{"y": int64(1), "list": []any{1, 2, 3}}, "keep": true}
	newer := Tree{"x": Tree{"y": int64(2), "z": int64(3), "list": []any{9}}}

	merged := DeepMerge(Tree{}, older, newer)

	want := Tree{
		"x":    Tree{"y": int64(2), "z": int64(3), "list": []any{9}},
		"keep": true,
	}
	if !Equal(merged, want) {
		t.Errorf("DeepMerge = %v, want %v", merged, want)
	}

	// merged result does not alias the sources
	merged["x"].(Tree)["list"].([]any)[0] = 100
	if newer["x"].(Tree)["list"].([]any)[0] != 9 {
		t.Error("merge result aliases source array")
	}
}

func TestDeepMergeReplacesScalarWithMapping(t *testing.T) {
	merged := DeepMerge(Tree{}, Tree{"a": "scalar"}, Tree{"a": Tree{"b": 1}})
	if !Equal(merged, Tree{"a": Tree{"b": 1}}) {
		t.Errorf("DeepMerge = %v", merged)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "numbers across types", a: int64(2), b: 2.0, want: true},
		{name: "different numbers", a: 1, b: 2, want: false},
		{name: "arrays in order", a: []any{1, "a"}, b: []any{int64(1), "a"}, want: true},
		{name: "arrays out of order", a: []any{1, 2}, b: []any{2, 1}, want: false},
		{name: "mappings", a: Tree{"a": []any{1}}, b: Tree{"a": []any{1}}, want: true},
		{name: "mapping key sets", a: Tree{"a": 1}, b: Tree{"a": 1, "b": 2}, want: false},
		{name: "nil", a: nil, b: nil, want: true},
		{name: "string vs number", a: "1", b: 1, want: false},
		{name: "large integers", a: int64(9007199254740993), b: int64(9007199254740992), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareNumbers(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
		ok   bool
	}{
		{name: "integers", a: 1, b: int64(2), want: -1, ok: true},
		{name: "integers beyond float precision", a: int64(9007199254740993), b: int64(9007199254740992), want: 1, ok: true},
		{name: "unsigned and signed", a: uint64(5), b: int8(5), want: 0, ok: true},
		{name: "huge unsigned", a: uint64(math.MaxUint64), b: int64(1), want: 1, ok: true},
		{name: "integer and float", a: 2, b: 1.5, want: 1, ok: true},
		{name: "not a number", a: "1", b: 1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CompareNumbers(tt.a, tt.b)
			if ok != tt.ok || got != tt.want {
				t.Errorf("CompareNumbers(%v, %v) = %d, %v, want %d, %v", tt.a, tt.b, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	got := Canonical(map[string][]int{"a": {1, 2}})
	want := Tree{"a": []any{1, 2}}
	if !Equal(got, want) {
		t.Errorf("Canonical = %#v, want %#v", got, want)
	}
	if got := Canonical("plain"); got != "plain" {
		t.Errorf("Canonical(string) = %v", got)
	}
}
