package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ValentinKolb/slashdb/lib/loader"
	"github.com/ValentinKolb/slashdb/server/common"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	billyutil "github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

const usersFragment = `users.alice: {"name": "alice", "age": 31, "roles": ["admin", "dev"]}
users.bob: {"name": "bob", "age": 25, "roles": ["dev"]}
users.carol: {"name": "carol", "age": 42, "roles": []}
settings.theme: "dark"
`

func newTestServer(t *testing.T) (*Server, billy.Filesystem) {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, billyutil.WriteFile(fs, "app/users.sla", []byte(usersFragment), 0o644))

	s, err := New(common.ServerConfig{Endpoint: "127.0.0.1:0", LogLevel: "debug"}, loader.WithFilesystem(fs))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s, fs
}

func do(t *testing.T, s *Server, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, reader))

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

func TestListDatabases(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/databases", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"app"}, body["databases"])
}

func TestGetMapping(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/databases/app?path=users.alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", body["name"])

	rec, _ = do(t, s, http.MethodGet, "/databases/app?path=settings.theme", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "scalars are not mappings")

	rec, _ = do(t, s, http.MethodGet, "/databases/nope?path=users", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDocument(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodGet, "/databases/app/doc?path=users/bob", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "bob", body["value"].(map[string]any)["name"])

	_, body = do(t, s, http.MethodGet, "/databases/app/doc?path=users/dave", nil)
	assert.Equal(t, false, body["found"])
	rec, _ = do(t, s, http.MethodGet, "/databases/app?path=users.dave", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "looking up a document must not create it")

	rec, _ = do(t, s, http.MethodGet, "/databases/app/doc?path=users", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/databases/app/query", QueryRequest{
		Collection: "users",
		Where: []Clause{
			{Key: "age", Op: ">", Value: 30},
			{Key: "roles", Op: "in", Value: []any{"admin"}},
			{Key: "name", Op: "==", Value: "bob", Join: "or"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []any{"alice", "bob"}, body["keys"])
	assert.Len(t, body["documents"], 2)
}

func TestQueryMisuse(t *testing.T) {
	s, _ := newTestServer(t)

	rec, body := do(t, s, http.MethodPost, "/databases/app/query", QueryRequest{
		Collection: "users",
		Where:      []Clause{{Key: "age", Op: "in", Value: 31}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "ConfigurationError")

	rec, _ = do(t, s, http.MethodPost, "/databases/app/query", QueryRequest{Collection: "users"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, http.MethodPost, "/databases/app/query", QueryRequest{
		Collection: "users",
		Where: []Clause{
			{Key: "age", Op: ">", Value: 1},
			{Key: "age", Op: ">", Value: 1, Join: "xor"},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	do(t, s, http.MethodGet, "/databases", nil)
	rec, _ := do(t, s, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "slashdb_loader_fragments_total")
	assert.Contains(t, rec.Body.String(), "slashdb_http_requests_total")
}

func TestReload(t *testing.T) {
	s, fs := newTestServer(t)

	require.NoError(t, billyutil.WriteFile(fs, "shop/items.sla", []byte(`items.a: {"price": 3}`), 0o644))
	require.NoError(t, s.Reload())

	_, body := do(t, s, http.MethodGet, "/databases", nil)
	assert.Equal(t, []any{"app", "shop"}, body["databases"])

	// a broken fragment keeps the previous databases in service
	require.NoError(t, billyutil.WriteFile(fs, "shop/broken.sla", []byte("no-colon-here"), 0o644))
	require.Error(t, s.Reload())

	_, body = do(t, s, http.MethodGet, "/databases", nil)
	assert.Equal(t, []any{"app", "shop"}, body["databases"])
}

func TestWatchReloads(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app", "a.sla"), []byte("v: 1"), 0o644))

	s, err := New(common.ServerConfig{Root: root, Watch: true, WatchDebounceMs: 20}, loader.WithTimestamp(loader.ModTime))
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = s.watch(ctx)
	}()

	require.Eventually(t, func() bool {
		// keep writing until the watcher is up and has picked up the change
		_ = os.MkdirAll(filepath.Join(root, "shop"), 0o755)
		_ = os.WriteFile(filepath.Join(root, "shop", "b.sla"), []byte("v: 2"), 0o644)
		_, ok := s.state.Load().loader.Registry().Get("shop")
		return ok
	}, 5*time.Second, 50*time.Millisecond)
}
