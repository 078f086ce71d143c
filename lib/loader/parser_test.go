package loader

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(relaxed bool) *Loader {
	return New(Config{Relaxed: relaxed}, WithFilesystem(memfs.New()))
}

func TestParseRow(t *testing.T) {
	l := newTestLoader(false)

	tests := []struct {
		line     string
		wantPath string
		want     any
	}{
		{line: "users.alice.name: \"alice\"", wantPath: "users/alice/name", want: "alice"},
		{line: "  users/bob :  42  ", wantPath: "users/bob", want: int64(42)},
		{line: "./a.b: 1.5", wantPath: "a/b", want: 1.5},
		{line: "flags: true", wantPath: "flags", want: true},
		{line: "list: [1, \"x\"]", wantPath: "list", want: []any{int64(1), "x"}},
		{line: "doc: {\"k\": \"v:w\"}", wantPath: "doc", want: map[string]any{"k": "v:w"}},
		{line: "empty: []", wantPath: "empty", want: []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			row, err := l.ParseRow(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, row.Path)
			assert.Equal(t, tt.want, row.Value)
		})
	}
}

func TestParseRowAddressesLikeDb(t *testing.T) {
	l := newTestLoader(false)

	for _, namespace := range []string{"/.a", "./.b", "/users.alice", "x/./y"} {
		t.Run(namespace, func(t *testing.T) {
			row, err := l.ParseRow(namespace + ": 1")
			require.NoError(t, err)
			assert.Equal(t, util.Join(util.Segments(namespace)...), row.Path)

			database := db.New(&db.Options{})
			require.True(t, database.Set(namespace, int64(1)))
			tree, err := l.ParseFile("f.sla", []byte(namespace+": 1"))
			require.NoError(t, err)
			assert.Equal(t, database.Tree(), tree)
		})
	}
}

func TestParseRowErrors(t *testing.T) {
	l := newTestLoader(false)

	for _, line := range []string{
		"no-colon-here",
		": 1",
		"a: ",
		"a: null",
		"a: false",
		"a: 0",
		"a: \"\"",
		"a: {broken",
		"a: unquoted",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := l.ParseRow(line)
			assert.True(t, errors.Is(err, ErrParse), "expected parse error, got %v", err)
		})
	}
}

func TestParseRowRelaxed(t *testing.T) {
	l := newTestLoader(true)

	row, err := l.ParseRow("a.b: hello")
	require.NoError(t, err)
	assert.Equal(t, "a/b", row.Path)
	assert.Equal(t, "hello", row.Value)

	row, err = l.ParseRow("a.c: {k: v}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, row.Value)
}

func TestParseFile(t *testing.T) {
	l := newTestLoader(false)

	tree, err := l.ParseFile("f.sla", []byte("a.b: 1\n\n  \na.c: \"x\"\na.b: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, db.Tree{"a": map[string]any{"b": int64(2), "c": "x"}}, tree)

	crlf, err := l.ParseFile("f.sla", []byte("a.b: 2\r\na.c: \"x\"\r\n"))
	require.NoError(t, err)
	assert.Equal(t, tree, crlf)
}

func TestParseFileErrorNamesLocation(t *testing.T) {
	l := newTestLoader(false)

	_, err := l.ParseFile("db/broken.sla", []byte("a: 1\n\nno-colon-here\n"))
	require.Error(t, err)

	var loadErr *Error
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, ErrCodeParse, loadErr.Code)
	assert.Equal(t, "db/broken.sla", loadErr.File)
	assert.Equal(t, 3, loadErr.Line)
	assert.Contains(t, err.Error(), "db/broken.sla:3")
}

func TestFormatRowRoundTrip(t *testing.T) {
	l := newTestLoader(false)

	value := map[string]any{"name": "alice", "tags": []string{"a", "b"}, "age": 31}
	row, err := l.ParseRow(FormatRow("users/alice", value))
	require.NoError(t, err)
	assert.Equal(t, "users/alice", row.Path)
	assert.Equal(t, map[string]any{"name": "alice", "tags": []any{"a", "b"}, "age": int64(31)}, row.Value)
}
