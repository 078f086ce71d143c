package testing

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/ValentinKolb/slashdb/lib/db/util"
)

// DBFactory creates a Db whose tree contains (a copy of) seed.
type DBFactory func(t testing.TB, seed db.Tree) *db.Db

// RunDBTests runs a comprehensive test suite against Db instances produced by
// the factory.
func RunDBTests(t *testing.T, name string, factory DBFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Seed", func(t *testing.T) {
			testSeed(t, factory)
		})

		t.Run("NamespaceValidation", func(t *testing.T) {
			testNamespaceValidation(t, factory(t, nil))
		})

		t.Run("ReadOnlyValidation", func(t *testing.T) {
			testReadOnlyValidation(t, factory(t, nil))
		})

		t.Run("Get&Has", func(t *testing.T) {
			testGetHas(t, factory)
		})

		t.Run("DocRoundTrip", func(t *testing.T) {
			testDocRoundTrip(t, factory(t, nil))
		})

		t.Run("InvalidKeys", func(t *testing.T) {
			testInvalidKeys(t, factory(t, nil))
		})

		t.Run("DocIsRepeatable", func(t *testing.T) {
			testDocIsRepeatable(t, factory(t, nil))
		})

		t.Run("Lookup", func(t *testing.T) {
			testLookup(t, factory)
		})

		t.Run("LiveSnapshot", func(t *testing.T) {
			testLiveSnapshot(t, factory)
		})

		t.Run("QueryChain", func(t *testing.T) {
			testQueryChain(t, factory)
		})

		t.Run("QueryMisuse", func(t *testing.T) {
			testQueryMisuse(t, factory)
		})

		t.Run("Close", func(t *testing.T) {
			testClose(t, factory(t, nil))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

// usersSeed returns a small collection of users.
func usersSeed() db.Tree {
	return db.Tree{
		"users": db.Tree{
			"alice": db.Tree{"name": "alice", "age": int64(31), "tags": []any{"admin", "dev"}, "active": true},
			"bob":   db.Tree{"name": "bob", "age": int64(25), "tags": []any{"dev"}, "active": false},
			"carol": db.Tree{"name": "carol", "age": int64(42), "tags": []any{}, "active": true},
		},
	}
}

func keysOf(t *testing.T, q *db.Query) []string {
	t.Helper()
	keys, err := q.Keys()
	if err != nil {
		t.Fatalf("unexpected query error: %v", err)
	}
	return keys
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSeed(t *testing.T, factory DBFactory) {
	database := factory(t, usersSeed())
	defer database.Close()

	v, ok := database.Collection("users").Doc("alice").Get()
	if !ok {
		t.Fatalf("Expected seeded document users/alice to exist")
	}
	if !util.Equal(v, usersSeed()["users"].(db.Tree)["alice"]) {
		t.Errorf("Expected seeded value, got %v", v)
	}
}

func testNamespaceValidation(t *testing.T, database *db.Db) {
	defer database.Close()

	if !database.IsValidNamespace("users/alice/posts/p1") {
		t.Fatalf("Expected alternating namespace to be valid")
	}
	if got := database.Get("users.alice.posts.p1"); got == nil || len(got) != 0 {
		t.Errorf("Expected empty mapping at validated path, got %v", got)
	}
	if !database.IsCollection("users") || !database.IsCollection("users/alice/posts") {
		t.Errorf("Expected collection levels to be registered, got %v", database.Collections())
	}
	if database.IsCollection("users/alice") {
		t.Errorf("Document level must not be registered as collection")
	}

	// register a document level as collection, which makes its children
	// collections with a collection parent
	database.Collection("orgs/acme")
	if database.IsValidNamespace("orgs/acme/teams") {
		t.Errorf("Expected collection below collection to be invalid")
	}
	if database.Has("orgs/acme/teams") {
		t.Errorf("Invalid namespace must not create nodes")
	}
	if !database.IsCollection("orgs") {
		t.Errorf("Collections visited before the violation stay registered")
	}

	if database.IsValidNamespace("") {
		t.Errorf("Empty namespace must be invalid")
	}
}

func testReadOnlyValidation(t *testing.T, database *db.Db) {
	defer database.Close()

	if !database.ValidateNamespace("a/b/c") {
		t.Errorf("Expected namespace to be valid")
	}
	if len(database.Collections()) != 0 {
		t.Errorf("ValidateNamespace must not register collections, got %v", database.Collections())
	}
	if database.Has("a") {
		t.Errorf("ValidateNamespace must not create nodes")
	}

	database.Collection("a/b")
	if database.ValidateNamespace("a/b/c") != database.IsValidNamespace("a/b/c") {
		t.Errorf("Read-only and mutating validation disagree")
	}
}

func testGetHas(t *testing.T, factory DBFactory) {
	database := factory(t, db.Tree{
		"users": db.Tree{
			"alice": db.Tree{"name": "alice"},
			"bob":   "not a mapping",
			"list":  []any{1, 2},
		},
	})
	defer database.Close()

	if got := database.Get("./users.alice"); got == nil || got["name"] != "alice" {
		t.Errorf("Expected mapping at users.alice, got %v", got)
	}
	if database.Get("users/bob") != nil || database.Has("users/bob") {
		t.Errorf("Expected scalar value not to be returned by Get")
	}
	if database.Has("users/list") {
		t.Errorf("Expected array value not to be returned by Get")
	}
	if database.Has("users/nobody") {
		t.Errorf("Expected missing path to not exist")
	}
	if !database.Has("/users") {
		t.Errorf("Expected users to exist")
	}
}

func testDocRoundTrip(t *testing.T, database *db.Db) {
	defer database.Close()

	doc := database.Doc("users/alice")
	if doc == nil {
		t.Fatalf("Expected document handle")
	}
	value := db.Tree{"name": "alice", "tags": []any{"a", "b"}}
	if !database.Set("users.alice", value) {
		t.Fatalf("Expected Set to succeed")
	}
	got, ok := doc.Get()
	if !ok || !reflect.DeepEqual(got, value) {
		t.Errorf("Expected %v, got %v (found=%v)", value, got, ok)
	}

	sub := doc.Collection("posts")
	if sub == nil || sub.Path() != "users/alice/posts" {
		t.Fatalf("Expected sub collection users/alice/posts, got %v", sub)
	}
	if !database.IsCollection("users.alice.posts") {
		t.Errorf("Expected sub collection to be registered")
	}

	missing := database.Collection("users").Doc("nobody")
	if _, ok := missing.Get(); ok {
		t.Errorf("Expected missing document to report false")
	}
}

func testInvalidKeys(t *testing.T, database *db.Db) {
	defer database.Close()

	users := database.Collection("users")
	if users.Doc("a/b") != nil || users.Doc("a.b") != nil {
		t.Errorf("Expected multi segment document key to be rejected")
	}
	doc := users.Doc("alice")
	if doc.Collection("x.y") != nil {
		t.Errorf("Expected multi segment collection key to be rejected")
	}
	if database.Doc("users") != nil {
		t.Errorf("Expected single segment document path to be rejected")
	}
}

func testDocIsRepeatable(t *testing.T, database *db.Db) {
	defer database.Close()

	for i := 0; i < 2; i++ {
		if database.Doc("users/alice/posts/p1") == nil {
			t.Fatalf("Expected document handle on call %d", i+1)
		}
		if !database.IsValidNamespace("users/alice/posts/p1") {
			t.Errorf("Expected namespace to stay valid after call %d", i+1)
		}
	}
	if database.Doc("users/alice/posts") != nil {
		t.Errorf("Expected path ending at collection level to be rejected")
	}
	if database.IsCollection("users/alice") {
		t.Errorf("Expected document level path not to be registered as collection")
	}
	if !database.IsValidNamespace("users.alice.posts") {
		t.Errorf("Expected namespace to stay valid after rejected document path")
	}
}

func testLookup(t *testing.T, factory DBFactory) {
	database := factory(t, usersSeed())
	defer database.Close()

	value, found, valid := database.Lookup("users.bob")
	if !valid || !found || value.(db.Tree)["name"] != "bob" {
		t.Errorf("Expected bob, got %v (found=%v, valid=%v)", value, found, valid)
	}

	if _, found, valid := database.Lookup("users/nobody"); !valid || found {
		t.Errorf("Expected missing document to be valid but not found")
	}
	if database.Has("users/nobody") {
		t.Errorf("Expected lookup not to materialize the document")
	}

	if _, _, valid := database.Lookup("posts/p1"); !valid {
		t.Errorf("Expected document below unknown collection to be valid")
	}
	if database.IsCollection("posts") {
		t.Errorf("Expected lookup not to register collections")
	}

	if _, _, valid := database.Lookup("users"); valid {
		t.Errorf("Expected single segment path to be invalid")
	}
	if _, _, valid := database.Lookup("users/alice/posts"); valid {
		t.Errorf("Expected path ending at collection level to be invalid")
	}
}

func testLiveSnapshot(t *testing.T, factory DBFactory) {
	database := factory(t, usersSeed())
	defer database.Close()

	users := database.Collection("users")
	snapshot := users.Snapshot()
	database.Set("users/dave", db.Tree{"name": "dave"})
	if _, ok := snapshot["dave"]; !ok {
		t.Errorf("Expected snapshot to be a live view")
	}

	empty := database.Collection("nothing").Snapshot()
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty mapping for missing collection, got %v", empty)
	}
}

func testQueryChain(t *testing.T, factory DBFactory) {
	database := factory(t, usersSeed())
	defer database.Close()

	users := database.Collection("users")

	if got := keysOf(t, users.Where("age", db.OpGreater, 30)); !reflect.DeepEqual(got, []string{"alice", "carol"}) {
		t.Errorf("age > 30: got %v", got)
	}
	if got := keysOf(t, users.Where("age", db.OpGreater, 30).And("active", db.OpEqual, true).And("tags", db.OpIn, []any{"admin"})); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("and chain: got %v", got)
	}
	if got := keysOf(t, users.Where("name", db.OpEqual, "bob").Or("age", db.OpGreaterOrEqual, 42)); !reflect.DeepEqual(got, []string{"bob", "carol"}) {
		t.Errorf("or chain: got %v", got)
	}
	if got := keysOf(t, users.Where("tags", db.OpGreater, []any{"x"})); !reflect.DeepEqual(got, []string{"alice"}) {
		t.Errorf("array length comparison: got %v", got)
	}
	if got := keysOf(t, users.Where("name", db.OpNotIn, []any{"alice", "bob"})); !reflect.DeepEqual(got, []string{"carol"}) {
		t.Errorf("not: got %v", got)
	}
	if got := keysOf(t, users.Where("name", "~=", "alice")); len(got) != 0 {
		t.Errorf("unsupported operator must not match: got %v", got)
	}

	q := users.Where("active", db.OpEqual, true)
	first, err := q.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, _ := q.Get()
	if !reflect.DeepEqual(first, second) || len(first) != 2 {
		t.Errorf("Expected Get to be idempotent, got %v and %v", first, second)
	}
}

func testQueryMisuse(t *testing.T, factory DBFactory) {
	database := factory(t, usersSeed())
	defer database.Close()

	users := database.Collection("users")

	_, err := users.Where("age", db.OpIn, 31).Get()
	if !errors.Is(err, db.ErrConfiguration) {
		t.Errorf("Expected configuration error for in with scalar, got %v", err)
	}

	_, err = users.Where("tags", db.OpEqual, "dev").Get()
	if !errors.Is(err, db.ErrConfiguration) {
		t.Errorf("Expected configuration error for == on array field, got %v", err)
	}

	q := users.Where("age", db.OpNotIn, "x").Or("age", db.OpGreater, 0)
	if !errors.Is(q.Err(), db.ErrConfiguration) {
		t.Errorf("Expected first error to stick, got %v", q.Err())
	}

	// in with scalar value is misuse even on an empty collection
	if err := database.Collection("empty").Where("a", db.OpIn, 1).Err(); !errors.Is(err, db.ErrConfiguration) {
		t.Errorf("Expected configuration error on empty collection, got %v", err)
	}
}

func testClose(t *testing.T, database *db.Db) {
	if err := database.Close(); err != nil {
		t.Errorf("Expected Close to succeed, got %v", err)
	}
	if err := database.Close(); err != nil {
		t.Errorf("Expected second Close to succeed, got %v", err)
	}
}
