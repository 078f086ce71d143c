package util

import (
	"cmp"
	"math"
	"reflect"
)

// Tree is a nested mapping keyed by path segment.
type Tree = map[string]any

// --------------------------------------------------------------------------
// Path Access
// --------------------------------------------------------------------------

// GetPath resolves segments inside tree. The boolean is false if any segment
// is missing or an intermediate value is not a mapping.
// Zero segments resolve to the tree itself.
func GetPath(tree Tree, segments []string) (any, bool) {
	var current any = tree
	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// SetPath sets value at segments inside tree, creating intermediate mappings.
// Intermediate values that are not mappings are replaced.
// Zero segments are a no-op and return false.
func SetPath(tree Tree, segments []string, value any) bool {
	if tree == nil || len(segments) == 0 {
		return false
	}
	current := tree
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = Tree{}
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
	return true
}

// EnsurePath makes sure a mapping exists at segments without replacing
// existing values. It returns false if a non-mapping value blocks the path.
// An existing value at the final segment is left untouched.
func EnsurePath(tree Tree, segments []string) bool {
	if tree == nil {
		return false
	}
	current := tree
	for i, segment := range segments {
		v, ok := current[segment]
		if !ok {
			next := Tree{}
			current[segment] = next
			current = next
			continue
		}
		if i == len(segments)-1 {
			return true
		}
		next, isMap := v.(map[string]any)
		if !isMap {
			return false
		}
		current = next
	}
	return true
}

// --------------------------------------------------------------------------
// Merge & Copy
// --------------------------------------------------------------------------

// DeepMerge merges every source into target in order and returns target.
// Keys of later sources win at every depth; arrays and other non-mapping
// values are replaced wholesale. Merged values are copied so target never
// shares mappings or arrays with a source.
func DeepMerge(target Tree, sources ...Tree) Tree {
	if target == nil {
		target = Tree{}
	}
	for _, source := range sources {
		merge(target, source)
	}
	return target
}

func merge(target, source Tree) {
	for k, v := range source {
		src, ok := v.(map[string]any)
		if !ok {
			target[k] = DeepCopy(v)
			continue
		}
		dst, ok := target[k].(map[string]any)
		if !ok {
			dst = Tree{}
			target[k] = dst
		}
		merge(dst, src)
	}
}

// DeepCopy returns a copy of v sharing no mappings or arrays with it.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		c := make(Tree, len(t))
		for k, e := range t {
			c[k] = DeepCopy(e)
		}
		return c
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = DeepCopy(e)
		}
		return c
	default:
		return v
	}
}

// CopyTree deep copies a tree. A nil tree yields an empty tree.
func CopyTree(tree Tree) Tree {
	if tree == nil {
		return Tree{}
	}
	return DeepCopy(tree).(Tree)
}

// --------------------------------------------------------------------------
// Canonical Values
// --------------------------------------------------------------------------

// Canonical converts typed Go slices and string keyed maps (e.g. []int,
// map[string]string) to []any and map[string]any, recursively, so they can
// live in a tree and take part in comparisons.
func Canonical(v any) any {
	switch t := v.(type) {
	case nil, bool, string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case []any:
		c := make([]any, len(t))
		for i, e := range t {
			c[i] = Canonical(e)
		}
		return c
	case map[string]any:
		c := make(Tree, len(t))
		for k, e := range t {
			c[k] = Canonical(e)
		}
		return c
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		c := make([]any, rv.Len())
		for i := range c {
			c[i] = Canonical(rv.Index(i).Interface())
		}
		return c
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		c := make(Tree, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			c[iter.Key().String()] = Canonical(iter.Value().Interface())
		}
		return c
	default:
		return v
	}
}

// --------------------------------------------------------------------------
// Equality & Ordering
// --------------------------------------------------------------------------

// ToFloat converts any number kind to float64.
func ToFloat(v any) (float64, bool) {
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

// Equal reports deep structural equality. Numbers compare by value
// regardless of their Go type, arrays compare element-wise in order and
// mappings compare key sets and values.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			w, ok := bv[k]
			if !ok || !Equal(v, w) {
				return false
			}
		}
		return true
	}

	if c, ok := CompareNumbers(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// ToInt converts integer kinds to int64. Floats and uint64 values above
// math.MaxInt64 are not converted.
func ToInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return ToInt(uint64(n))
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// CompareNumbers orders two numbers of any kind. Two integers are compared
// exactly, everything else through float64. The boolean is false if one of
// the values is not a number.
func CompareNumbers(a, b any) (int, bool) {
	if ai, ok := ToInt(a); ok {
		if bi, ok := ToInt(b); ok {
			return cmp.Compare(ai, bi), true
		}
	}
	af, ok := ToFloat(a)
	if !ok {
		return 0, false
	}
	bf, ok := ToFloat(b)
	if !ok {
		return 0, false
	}
	return cmp.Compare(af, bf), true
}
