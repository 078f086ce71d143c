package loader

import (
	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
	"github.com/ohler55/ojg/sen"
	"strings"
)

// --------------------------------------------------------------------------
// Rows
// --------------------------------------------------------------------------

// Row is one parsed fragment line.
type Row struct {
	Path  string // Namespace of the value in slash form
	Value any    // Parsed value
}

// ParseRow parses a single "<namespace>: <value>" line. The line is split at
// the first colon; both sides are trimmed. The value is parsed as JSON, or as
// SEN when the loader is relaxed. Falsy values (null, false, 0, "") are
// rejected.
func (l *Loader) ParseRow(line string) (Row, error) {
	segments, value, err := l.parseRow(line)
	if err != nil {
		return Row{}, err
	}
	return Row{Path: util.Join(segments...), Value: value}, nil
}

func (l *Loader) parseRow(line string) ([]string, any, error) {
	namespace, raw, found := strings.Cut(line, ":")
	if !found {
		return nil, nil, parseError("missing ':' separator in %q", line)
	}

	segments := util.Segments(strings.TrimSpace(namespace))
	if len(segments) == 0 {
		return nil, nil, parseError("empty namespace in %q", line)
	}

	value, err := l.parseValue(strings.TrimSpace(raw))
	if err != nil {
		return nil, nil, &Error{Code: ErrCodeParse, Msg: "invalid value", Err: err}
	}
	if isFalsy(value) {
		return nil, nil, parseError("falsy value %q for %s", strings.TrimSpace(raw), util.Namespace(segments...))
	}
	return segments, value, nil
}

func (l *Loader) parseValue(raw string) (any, error) {
	if l.cfg.Relaxed {
		return sen.Parse([]byte(raw))
	}
	return oj.ParseString(raw)
}

func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case int64:
		return t == 0
	case float64:
		return t == 0
	}
	return false
}

// ParseFile parses the content of a fragment file into a tree. Blank lines are
// skipped, later rows override earlier ones. Errors name the file and line.
func (l *Loader) ParseFile(name string, content []byte) (db.Tree, error) {
	tree := db.Tree{}
	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		segments, value, err := l.parseRow(line)
		if err != nil {
			e := err.(*Error)
			e.File = name
			e.Line = i + 1
			return nil, e
		}

		util.SetPath(tree, segments, value)
		fragmentRows.Inc()
	}
	return tree, nil
}

// FormatRow renders a value as a fragment line that ParseRow reads back.
func FormatRow(path string, value any) string {
	segments := util.Segments(path)
	return util.Namespace(segments...) + ": " + oj.JSON(util.Canonical(value), &ojg.Options{Sort: true})
}
