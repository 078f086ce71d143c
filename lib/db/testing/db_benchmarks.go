package testing

import (
	"fmt"
	"github.com/ValentinKolb/slashdb/lib/db"
	"math/rand"
	"testing"
)

// benchDocs is the number of documents in the benchmark collection
const benchDocs = 1000

// RunDBBenchmarks runs all benchmarks against Db instances produced by the factory
func RunDBBenchmarks(b *testing.B, name string, factory DBFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("Set", func(b *testing.B) {
			benchmarkSet(b, factory(b, nil))
		})

		b.Run("Get", func(b *testing.B) {
			benchmarkGet(b, factory(b, benchSeed()))
		})

		b.Run("IsValidNamespace", func(b *testing.B) {
			benchmarkIsValidNamespace(b, factory(b, nil))
		})

		b.Run("Where", func(b *testing.B) {
			benchmarkWhere(b, factory(b, benchSeed()))
		})

		b.Run("WhereAndOr", func(b *testing.B) {
			benchmarkWhereAndOr(b, factory(b, benchSeed()))
		})
	})
}

// benchSeed creates a collection "items" with benchDocs documents
func benchSeed() db.Tree {
	r := rand.New(rand.NewSource(42))
	items := make(db.Tree, benchDocs)
	for i := 0; i < benchDocs; i++ {
		items[fmt.Sprintf("item-%04d", i)] = db.Tree{
			"n":    int64(r.Intn(100)),
			"name": fmt.Sprintf("name-%d", r.Intn(1000)),
			"tags": []any{"t" + fmt.Sprint(r.Intn(10)), "t" + fmt.Sprint(r.Intn(10))},
		}
	}
	return db.Tree{"items": items}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkSet(b *testing.B, database *db.Db) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		database.Set(fmt.Sprintf("items.item-%d", i%benchDocs), db.Tree{"n": int64(i)})
	}
}

func benchmarkGet(b *testing.B, database *db.Db) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.Get(fmt.Sprintf("items/item-%04d", i%benchDocs))
	}
}

func benchmarkIsValidNamespace(b *testing.B, database *db.Db) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = database.IsValidNamespace(fmt.Sprintf("a/d%d/b/d%d", i%100, i%7))
	}
}

func benchmarkWhere(b *testing.B, database *db.Db) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	items := database.Collection("items")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := items.Where("n", db.OpGreater, 50).Get(); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkWhereAndOr(b *testing.B, database *db.Db) {
	b.Cleanup(func() {
		_ = database.Close()
	})

	items := database.Collection("items")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := items.Where("n", db.OpGreater, 50).
			And("tags", db.OpIn, []any{"t1", "t2"}).
			Or("name", db.OpGreaterOrEqual, "name-100").
			Get()
		if err != nil {
			b.Fatal(err)
		}
	}
}
