package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ValentinKolb/slashdb/lib/db"
	"github.com/VictoriaMetrics/metrics"
	"net/http"
	"strings"
)

// --------------------------------------------------------------------------
// Request / Response types
// --------------------------------------------------------------------------

// Clause is one predicate of a query request.
type Clause struct {
	Key   string `json:"key"`
	Op    string `json:"op"`
	Value any    `json:"value"`
	Join  string `json:"join,omitempty"` // "and" (default) or "or", ignored for the first clause
}

// QueryRequest is the body of POST /databases/{name}/query.
type QueryRequest struct {
	Collection string   `json:"collection"`
	Where      []Clause `json:"where"`
}

// QueryResponse lists the matching documents ordered by key.
type QueryResponse struct {
	Keys      []string `json:"keys"`
	Documents []any    `json:"documents"`
}

// DocResponse is the result of a document lookup.
type DocResponse struct {
	Found bool `json:"found"`
	Value any  `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// --------------------------------------------------------------------------
// Routing
// --------------------------------------------------------------------------

var requestsTotal = metrics.GetOrCreateCounter("slashdb_http_requests_total")

func (s *Server) routes() {
	mux := http.NewServeMux()

	handle := func(pattern string, h http.HandlerFunc) {
		if s.config.LogLevel == "debug" {
			h = loggerMiddleware(h)
		}
		mux.HandleFunc(pattern, countMiddleware(h))
	}

	handle("GET /databases", s.handleList)
	handle("GET /databases/{name}", s.handleGet)
	handle("GET /databases/{name}/doc", s.handleDoc)
	handle("POST /databases/{name}/query", s.handleQuery)
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	s.mux = mux
}

// --------------------------------------------------------------------------
// Handlers
// --------------------------------------------------------------------------

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	names := s.state.Load().loader.Registry().Names()
	writeJSON(w, http.StatusOK, map[string][]string{"databases": names})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	h, ok := s.acquire(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	defer h.mu.Unlock()

	node := h.db.Get(r.URL.Query().Get("path"))
	if node == nil {
		writeError(w, http.StatusNotFound, "no mapping at path")
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (s *Server) handleDoc(w http.ResponseWriter, r *http.Request) {
	h, ok := s.acquire(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	defer h.mu.Unlock()

	value, found, valid := h.db.Lookup(r.URL.Query().Get("path"))
	if !valid {
		writeError(w, http.StatusBadRequest, "invalid document path")
		return
	}
	writeJSON(w, http.StatusOK, DocResponse{Found: found, Value: value})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Collection == "" || len(req.Where) == 0 {
		writeError(w, http.StatusBadRequest, "collection and at least one where clause are required")
		return
	}

	h, ok := s.acquire(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "database not found")
		return
	}
	defer h.mu.Unlock()

	query, err := buildQuery(h.db.Collection(req.Collection), req.Where)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	keys, err := query.Keys()
	if err == nil {
		var docs []any
		docs, err = query.Get()
		if err == nil {
			writeJSON(w, http.StatusOK, QueryResponse{Keys: keys, Documents: docs})
			return
		}
	}

	if errors.Is(err, db.ErrConfiguration) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

// buildQuery turns the clauses into a query chain on the collection.
func buildQuery(c *db.Collection, clauses []Clause) (*db.Query, error) {
	chain := make([]db.Clause, len(clauses))
	for i, clause := range clauses {
		chain[i] = db.Clause{Key: clause.Key, Op: db.Operator(clause.Op), Value: clause.Value}
		switch strings.ToLower(clause.Join) {
		case "", "and":
		case "or":
			chain[i].Or = true
		default:
			return nil, fmt.Errorf("invalid join %q, must be and or or", clause.Join)
		}
	}
	return c.Chain(chain...), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httpLogger.Warningf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
