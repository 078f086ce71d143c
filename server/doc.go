// Package server exposes loaded slashdb databases over a read-only HTTP API.
//
// Endpoints:
//
//	GET  /databases                     names of all loaded databases
//	GET  /databases/{name}?path=a.b     mapping at path (404 if there is none)
//	GET  /databases/{name}/doc?path=c.d {"found": bool, "value": any}
//	POST /databases/{name}/query        run a query chain (see QueryRequest)
//	GET  /metrics                       Prometheus metrics
//
// A query request names a collection and a list of clauses. The first clause
// starts the chain, every further clause is joined with "and" (default) or
// "or":
//
//	{
//	  "collection": "users",
//	  "where": [
//	    {"key": "age", "op": ">", "value": 30},
//	    {"key": "roles", "op": "in", "value": ["admin"], "join": "or"}
//	  ]
//	}
//
// Misused operators (e.g. "in" with a non-array value) are rejected with 400.
//
// Every database is connected once per load generation and access to it is
// serialized, since addressing registers collections on the database. With
// watching enabled the server reloads all databases when fragment files
// change; a failing reload keeps the previous generation in service.
package server
