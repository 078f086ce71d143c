package util

import (
	"strings"
)

// --------------------------------------------------------------------------
// Path Normalization
// --------------------------------------------------------------------------

// Separator is the canonical separator of a normalized namespace path.
const Separator = "/"

// Normalize returns the canonical slash form of a namespace path.
// Windows separators are converted to slashes, one leading "./" or "/" is
// stripped and every "." is converted to "/", so "./a.b/c" and "a/b/c" both
// normalize to "a/b/c".
func Normalize(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if strings.HasPrefix(path, "./") {
		path = path[2:]
	} else if strings.HasPrefix(path, "/") {
		path = path[1:]
	}
	return strings.ReplaceAll(path, ".", "/")
}

// Segments returns the segments of a namespace path.
// An empty path has no segments.
func Segments(path string) []string {
	path = Normalize(path)
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join joins segments to a canonical slash path.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Namespace joins segments to a dotted namespace.
func Namespace(segments ...string) string {
	return strings.Join(segments, ".")
}

// ParsedPath is the result of Parse.
type ParsedPath struct {
	Segments   []string // Segments of the path (without the stripped collection)
	Path       string   // Remaining path in slash form
	Namespace  string   // Remaining path in dotted form
	Collection string   // Stripped leading collection, empty if none
}

// Parse normalizes and splits a path. If the first segment equals one of
// the given collection names, it is stripped from the result and reported
// in ParsedPath.Collection.
func Parse(path string, collections ...string) ParsedPath {
	segments := Segments(path)

	var collection string
	if len(segments) > 0 {
		for _, c := range collections {
			if segments[0] == c {
				collection = segments[0]
				segments = segments[1:]
				break
			}
		}
	}

	return ParsedPath{
		Segments:   segments,
		Path:       Join(segments...),
		Namespace:  Namespace(segments...),
		Collection: collection,
	}
}

// --------------------------------------------------------------------------
// Structural Kind
// --------------------------------------------------------------------------

// Kind tags a namespace level as collection or document.
type Kind uint8

const (
	KindCollection Kind = iota // Level holding documents
	KindDocument               // Level holding arbitrary data
)

func (k Kind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Flip returns the kind expected one level deeper.
func (k Kind) Flip() Kind {
	if k == KindCollection {
		return KindDocument
	}
	return KindCollection
}

// KindAt returns the kind of the level at depth (0 based) for a walk that
// starts with the given kind.
func KindAt(depth int, start Kind) Kind {
	if depth%2 == 0 {
		return start
	}
	return start.Flip()
}

// --------------------------------------------------------------------------
// Type Compatibility
// --------------------------------------------------------------------------

// ValueKind classifies values for comparisons.
type ValueKind uint8

const (
	ValueInvalid ValueKind = iota // nil or unsupported values
	ValueBool
	ValueNumber
	ValueString
	ValueArray
	ValueMap
)

// KindOf returns the ValueKind of v. All integer and float kinds are numbers.
func KindOf(v any) ValueKind {
	switch v.(type) {
	case bool:
		return ValueBool
	case string:
		return ValueString
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return ValueNumber
	case []any:
		return ValueArray
	case map[string]any:
		return ValueMap
	default:
		return ValueInvalid
	}
}

// MatchesType reports whether value can be compared against compare.
// Mappings and nil are never comparable, an array only compares against an
// array and primitives only against primitives of the same kind.
func MatchesType(value, compare any) bool {
	vk := KindOf(value)
	switch vk {
	case ValueMap, ValueInvalid:
		return false
	case ValueArray:
		return KindOf(compare) == ValueArray
	default:
		return vk == KindOf(compare)
	}
}
