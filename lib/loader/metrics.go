package loader

import (
	"github.com/VictoriaMetrics/metrics"
)

// Loader metrics, registered in the default VictoriaMetrics set and exposed
// by whoever calls metrics.WritePrometheus.
var (
	fragmentsLoaded   = metrics.GetOrCreateCounter("slashdb_loader_fragments_total")
	fragmentRows      = metrics.GetOrCreateCounter("slashdb_loader_rows_total")
	databasesLoaded   = metrics.GetOrCreateCounter("slashdb_loader_databases_total")
	loadErrors        = metrics.GetOrCreateCounter("slashdb_loader_errors_total")
	directoryDuration = metrics.GetOrCreateHistogram("slashdb_loader_directory_duration_seconds")
)
