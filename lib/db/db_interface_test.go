package db_test

import (
	"github.com/ValentinKolb/slashdb/lib/db"
	dbtesting "github.com/ValentinKolb/slashdb/lib/db/testing"
	"github.com/ValentinKolb/slashdb/lib/db/util"
	"testing"
)

func factory(_ testing.TB, seed db.Tree) *db.Db {
	return db.New(&db.Options{Tree: util.CopyTree(seed)})
}

func Test(t *testing.T) {
	dbtesting.RunDBTests(t, "Db", factory)
}

func Benchmark(b *testing.B) {
	dbtesting.RunDBBenchmarks(b, "Db", factory)
}
