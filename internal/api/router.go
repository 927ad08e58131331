// Package api serves filtered reads of the records store over HTTP.
//
//	POST /api/v1/:entity/query   body: filter document, reply: RowsResponse
//	POST /api/v1/:entity/count   body: filter document, reply: CountResponse
//	GET  /metrics                Prometheus exposition
//
// The body may be JSON or YAML; an empty body matches every row.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/store"
)

// MaxBodyBytes bounds the size of a filter document.
const MaxBodyBytes = 1 << 20

// Entities resolves an entity by name; *store.Store implements it.
type Entities interface {
	Entity(name string) (store.Entity, error)
}

type routes struct {
	entities Entities
	logger   *zap.Logger
}

// Router returns the API handler. gatherer backs /metrics and may be nil,
// in which case the route is not registered.
func Router(entities Entities, gatherer prometheus.Gatherer, logger *zap.Logger) *httprouter.Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := &routes{entities: entities, logger: logger}

	router := httprouter.New()
	router.POST("/api/v1/:entity/query", rl.query)
	router.POST("/api/v1/:entity/count", rl.count)
	if gatherer != nil {
		router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		logger.Error("handler panic", zap.String("path", r.URL.Path), zap.Any("panic", v))
		respondError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
	return router
}

func (rl *routes) query(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entity, doc, ok := rl.prepare(w, r, ps)
	if !ok {
		return
	}
	rows, err := entity.Query(r.Context(), doc)
	if err != nil {
		rl.fail(w, entity.Name, "query", err)
		return
	}
	respondJSON(w, http.StatusOK, RowsResponse{Entity: entity.Name, Count: len(rows), Rows: rows})
}

func (rl *routes) count(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entity, doc, ok := rl.prepare(w, r, ps)
	if !ok {
		return
	}
	n, err := entity.Count(r.Context(), doc)
	if err != nil {
		rl.fail(w, entity.Name, "count", err)
		return
	}
	respondJSON(w, http.StatusOK, CountResponse{Entity: entity.Name, Count: n})
}

func (rl *routes) prepare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) (store.Entity, filter.Document, bool) {
	entity, err := rl.entities.Entity(ps.ByName("entity"))
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return store.Entity{}, filter.Document{}, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("read body: %w", err))
		return store.Entity{}, filter.Document{}, false
	}
	doc, err := filter.ParseDocument(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return store.Entity{}, filter.Document{}, false
	}
	return entity, doc, true
}

func (rl *routes) fail(w http.ResponseWriter, entity, op string, err error) {
	var derr *filter.DecodeError
	switch {
	case errors.As(err, &derr):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, err)
	default:
		rl.logger.Error("request failed",
			zap.String("entity", entity),
			zap.String("op", op),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, errors.New("unable to execute "+op))
	}
}

// Server wraps the router with the listener timeouts used by wormdb serve.
func Server(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}
